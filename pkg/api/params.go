package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ssargent/cpgrams/pkg/fields"
	"github.com/ssargent/cpgrams/pkg/qerror"
	"github.com/ssargent/cpgrams/pkg/query"
)

// simpleFilterParams are the query parameters accepted as equality filters on GET /api/grievances/.
var simpleFilterParams = []string{
	fields.State,
	fields.OrgCode,
	fields.Sex,
	fields.CategoryV7,
	fields.DistName,
	fields.Pincode,
	fields.V7Target,
}

// dateRangeParams maps a query parameter prefix to the date field it bounds.
// The prefix takes a "_from" and "_to" suffix.
var dateRangeParams = []struct {
	prefix string
	field  string
}{
	{"diary_date", fields.DiaryDate},
	{"recvd_date", fields.RecvdDate},
	{"closing_date", fields.ClosingDate},
	{"resolution_date", fields.ResolutionDate},
}

// filterSpecFromQuery builds a filter spec from URL query parameters.
// A repeated parameter becomes an any-of list.
func filterSpecFromQuery(values url.Values) query.FilterSpec {
	spec := query.FilterSpec{}
	for _, name := range simpleFilterParams {
		vs := nonEmpty(values[name])
		switch len(vs) {
		case 0:
		case 1:
			spec[name] = vs[0]
		default:
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			spec[name] = list
		}
	}

	for _, p := range dateRangeParams {
		bounds := map[string]any{}
		if from := values.Get(p.prefix + "_from"); from != "" {
			bounds[query.RangeFrom] = from
		}
		if to := values.Get(p.prefix + "_to"); to != "" {
			bounds[query.RangeTo] = to
		}
		if len(bounds) > 0 {
			spec[p.field] = bounds
		}
	}
	return spec
}

func nonEmpty(vs []string) []string {
	out := vs[:0:0]
	for _, v := range vs {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// pageFromQuery reads limit and offset. Range checks are left to the engine.
func pageFromQuery(r *http.Request, defaultLimit int) (query.Page, error) {
	page := query.Page{Limit: defaultLimit}
	if defaultLimit <= 0 {
		page.Limit = query.DefaultLimit
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return page, qerror.New(qerror.InvalidPagination, "limit must be an integer",
				qerror.WithDetail("param", "limit"), qerror.WithDetail("value", s))
		}
		page.Limit = n
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return page, qerror.New(qerror.InvalidPagination, "offset must be an integer",
				qerror.WithDetail("param", "offset"), qerror.WithDetail("value", s))
		}
		page.Offset = n
	}
	return page, nil
}
