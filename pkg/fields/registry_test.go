package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry_Kinds(t *testing.T) {
	r := Default()

	tests := []struct {
		field string
		want  Kind
	}{
		{CategoryV7, WrappedInteger},
		{DiaryDate, WrappedDate},
		{RecvdDate, WrappedDate},
		{ClosingDate, WrappedDate},
		{ResolutionDate, WrappedDate},
		{State, Plain},
		{ID, Plain},
		{"not_a_field", Plain},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Kind(tt.field))
		})
	}

	assert.True(t, r.IsDate(DiaryDate))
	assert.False(t, r.IsDate(State))
	assert.Equal(t, "_id", r.IDField())
}

func TestDefaultRegistry_DescribesTextFields(t *testing.T) {
	r := Default()

	types := map[string]string{}
	for _, f := range r.Fields() {
		types[f.Name] = f.Type
	}

	assert.Len(t, types, 16)
	assert.Equal(t, "text", types[RemarksText])
	assert.Equal(t, "text", types[SubjectContent])
	assert.Equal(t, Plain, r.Kind(RemarksText))
	assert.False(t, r.Allowed(OpUniqueValues, RemarksText))
	assert.False(t, r.Allowed(OpStatistics, SubjectContent))
}

func TestDefaultRegistry_AllowLists(t *testing.T) {
	r := Default()

	assert.True(t, r.Allowed(OpUniqueValues, ID))
	assert.True(t, r.Allowed(OpUniqueValues, RegistrationNo))
	assert.False(t, r.Allowed(OpStatistics, ID))
	assert.False(t, r.Allowed(OpStatistics, Pincode))
	assert.True(t, r.Allowed(OpStatistics, Sex))
	assert.False(t, r.Allowed(OpStatistics, "secret"))

	assert.Len(t, r.AllowList(OpUniqueValues), 14)
	assert.Len(t, r.AllowList(OpStatistics), 10)

	list := r.AllowList(OpStatistics)
	list[0] = "mutated"
	assert.Equal(t, State, r.AllowList(OpStatistics)[0])
}

func TestRegistry_Fields(t *testing.T) {
	r := NewRegistry("id", []Field{
		{Name: "b", Kind: WrappedDate},
		{Name: "a", Kind: WrappedDate},
		{Name: "c", Kind: WrappedInteger},
	}, map[Operation][]string{OpStatistics: {"a", "a", "c"}})

	assert.Equal(t, []string{"a", "b"}, r.DateFields())
	assert.Equal(t, []string{"a", "c"}, r.AllowList(OpStatistics))
	assert.Empty(t, r.AllowList(OpUniqueValues))
	assert.Equal(t, "b", r.Fields()[0].Name)
	assert.Equal(t, "wrapped_integer", WrappedInteger.String())
}
