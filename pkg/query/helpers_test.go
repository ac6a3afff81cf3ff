package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/cpgrams/pkg/extjson"
)

// loadRecords parses a JSON array and normalizes every record the way the loader does.
func loadRecords(t *testing.T, data string) []*extjson.Object {
	t.Helper()
	raw, err := extjson.ParseArray([]byte(data))
	require.NoError(t, err)

	records := make([]*extjson.Object, len(raw))
	for i, r := range raw {
		obj, ok := extjson.Normalize(r).(*extjson.Object)
		require.True(t, ok)
		records[i] = obj
	}
	return records
}

func ids(records []*extjson.Object) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i], _ = r.Get("_id")
	}
	return out
}

const grievances = `[
  {"_id":"A","state":"DL","sex":"M","CategoryV7":{"$numberLong":"5"},"DiaryDate":{"$date":"2023-01-01T00:00:19.977+0000"},"dist_name":"New Delhi"},
  {"_id":"B","state":"MH","sex":"F","CategoryV7":{"$numberLong":"7"},"DiaryDate":{"$date":"2023-01-15T10:00:00.000+0000"},"dist_name":"Pune"},
  {"_id":"C","state":"DL","sex":"M","CategoryV7":{"$numberLong":"7"},"DiaryDate":{"$date":"2023-02-03T08:30:00.000+0000"}},
  {"_id":"D","state":"UP","sex":"F","CategoryV7":9,"DiaryDate":"2023-03-20T12:00:00.000Z","dist_name":null},
  {"_id":"E","state":"DL","sex":"M","DiaryDate":{"$date":"2023-03-01T00:00:00.000+0000"}}
]`
