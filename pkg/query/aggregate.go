package query

import (
	"context"
	"fmt"
	"sort"

	canonicaljson "github.com/gibson042/canonicaljson-go"
	"github.com/samber/lo"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/fields"
)

// monthPrefixLen is the length of a YYYY-MM prefix.
const monthPrefixLen = 7

// groupKey identifies a value for grouping. Numerically equal values share a key.
func groupKey(v any) string {
	b, err := canonicaljson.Marshal(extjson.Plain(v))
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return string(b)
}

// UniqueValues returns the distinct values of field, sorted ascending. Records without
// the field contribute nothing; an explicit null is a value.
func UniqueValues(ctx context.Context, records []*extjson.Object, field string) ([]any, error) {
	values := make([]any, 0)
	for i, r := range records {
		if i%DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if v, ok := r.Get(field); ok {
			values = append(values, v)
		}
	}

	values = lo.UniqBy(values, groupKey)
	sort.SliceStable(values, func(i, j int) bool {
		return extjson.Compare(values[i], values[j]) < 0
	})
	return values, nil
}

// GroupStatistics counts the records per value of field, sorted by count descending
// with ties in ascending value order. Date fields are bucketed by year-month. Missing
// and null values share the nil bucket, so the counts sum to len(records).
func GroupStatistics(ctx context.Context, records []*extjson.Object, field string, reg *fields.Registry) ([]Bucket, error) {
	isDate := reg.IsDate(field)
	buckets := make(map[string]*Bucket)

	for i, r := range records {
		if i%DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		v, _ := r.Get(field)
		if s, ok := v.(string); ok && isDate && len(s) >= monthPrefixLen {
			v = s[:monthPrefixLen]
		}

		key := groupKey(v)
		if b, ok := buckets[key]; ok {
			b.Count++
			continue
		}
		buckets[key] = &Bucket{Value: v, Count: 1}
	}

	out := lo.MapToSlice(buckets, func(_ string, b *Bucket) Bucket { return *b })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return extjson.Compare(out[i].Value, out[j].Value) < 0
	})
	return out, nil
}
