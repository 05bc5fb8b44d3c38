package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-account-api/internal/failure"
)

type signup struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty" validate:"max=5"`
	Age      int    `json:"age"      validate:"min=18"`
	Internal string `json:"-"`
	Plain    string `validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{Email: "a@example.com", Password: "longenough", Age: 20, Plain: "x"})
	assert.NoError(t, err)
}

func TestStruct_ReportsFieldsInStructOrderWithJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", Name: "toolong", Age: 3})
	require.Error(t, err)

	fe, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.Validation, fe.Kind)
	assert.Equal(t, []failure.FieldError{
		{Field: "email", Messages: []string{"Enter a valid email address."}},
		{Field: "password", Messages: []string{"Ensure this field has at least 8 characters."}},
		{Field: "name", Messages: []string{"Ensure this field has no more than 5 characters."}},
		{Field: "age", Messages: []string{"Ensure this value is greater than or equal to 18."}},
		{Field: "Plain", Messages: []string{"This field is required."}},
	}, fe.Fields)
}

func TestStruct_RequiredMessages(t *testing.T) {
	err := Struct(signup{Age: 18, Plain: "x"})
	fe, ok := failure.As(err)
	require.True(t, ok)
	require.Len(t, fe.Fields, 2)
	assert.Equal(t, "email", fe.Fields[0].Field)
	assert.Equal(t, []string{"This field is required."}, fe.Fields[0].Messages)
	assert.Equal(t, "password", fe.Fields[1].Field)
}

func TestStruct_NonStructInputIsAValidationMessage(t *testing.T) {
	err := Struct(42)
	fe, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.Validation, fe.Kind)
	assert.Empty(t, fe.Fields)
	assert.NotEmpty(t, fe.Detail)
}
