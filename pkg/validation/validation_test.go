package validation

import (
	"errors"
	"testing"

	"bidwizer-be/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Hidden  string `json:"-"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "nope", Country: "Narnia"}, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 2, ve.Step)
	assert.Equal(t, map[string]string{
		"name":    "is required",
		"email":   "must be a valid email address",
		"country": "must be a two-letter country code",
	}, ve.Fields)

	assert.NoError(t, v.Struct(sample{Name: "A", Email: "a@b.co"}, 0))
}

func TestVar(t *testing.T) {
	v := New()

	assert.Equal(t, "", v.Var("x@y.io", "required,email"))
	assert.Equal(t, "is required", v.Var("", "required,email"))
	assert.Equal(t, "must be a valid email address", v.Var("x", "required,email"))
	assert.Equal(t, "must be one of: a b", v.Var("c", "oneof=a b"))
}
