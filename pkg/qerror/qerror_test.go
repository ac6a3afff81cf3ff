package qerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NewInvalidField("secret", []string{"state"}), http.StatusBadRequest},
		{NewInvalidFilterKind("state", "plain", map[string]any{}, "range on plain field"), http.StatusBadRequest},
		{NewInvalidPagination("limit", 5000, "above maximum 1000"), http.StatusBadRequest},
		{NewNotFound("Z"), http.StatusNotFound},
		{NewLoadFailure("data.json", errors.New("boom")), http.StatusServiceUnavailable},
		{NewMalformedValue("$numberLong", "x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatusCode())
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("no such file")
	err := fmt.Errorf("startup: %w", NewLoadFailure("data.json", cause))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, LoadFailure, e.Kind)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, LoadFailure))
	assert.False(t, Is(err, NotFound))
	assert.Contains(t, err.Error(), "no such file")

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestDetails(t *testing.T) {
	e := NewInvalidField("secret", []string{"state", "sex"})
	assert.Equal(t, "secret", e.Details["field"])
	assert.Equal(t, []string{"state", "sex"}, e.Details["allowed"])

	nf := NewNotFound("Z")
	assert.Equal(t, "Z", nf.Details["id"])
	assert.Equal(t, `grievance "Z" not found`, nf.Error())
}
