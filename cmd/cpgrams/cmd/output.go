package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/query"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// tableColumns are the record fields shown by the table format
var tableColumns = []string{fields.ID, fields.State, fields.Sex, fields.CategoryV7, fields.DiaryDate, fields.DistName}

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// outputPage displays one page of records
func outputPage(w io.Writer, page *query.ResultPage, format string) error {
	if format == formatJSON {
		return outputJSON(w, page)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range tableColumns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, r := range page.Data {
		outputRow(tw, r)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nShowing %d of %d records (offset %d)\n", page.ReturnedCount, page.TotalCount, page.Offset)
	return err
}

func outputRow(w io.Writer, r *extjson.Object) {
	for i, col := range tableColumns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		v, ok := r.Get(col)
		if !ok || v == nil {
			fmt.Fprint(w, "-")
			continue
		}
		fmt.Fprint(w, v)
	}
	fmt.Fprintln(w)
}

// outputUniqueValues displays the distinct values of a field
func outputUniqueValues(w io.Writer, res *query.UniqueValuesResult, format string) error {
	if format == formatJSON {
		return outputJSON(w, res)
	}
	for _, v := range res.UniqueValues {
		fmt.Fprintln(w, formatValue(v))
	}
	_, err := fmt.Fprintf(w, "\n%d unique values for %s\n", res.Count, res.Field)
	return err
}

// outputStatistics displays a value distribution
func outputStatistics(w io.Writer, res *query.FieldStatistics, format string) error {
	if format == formatJSON {
		return outputJSON(w, res)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tCOUNT\n", res.Field)
	for _, b := range res.Distribution {
		fmt.Fprintf(tw, "%s\t%d\n", formatValue(b.Value), b.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d distinct values, computed %s\n", res.UniqueValues, res.Timestamp.Format(time.RFC3339))
	return err
}

func formatValue(v any) string {
	if v == nil {
		return "(null)"
	}
	return fmt.Sprint(v)
}
