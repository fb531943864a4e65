package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionArraySchema = `{
	"type": "array",
	"items": {"type": "string", "minLength": 1},
	"minItems": 1
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(questionArraySchema, `["What is a goroutine?", "Explain channels."]`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty array", payload: `[]`},
		{name: "wrong element type", payload: `[1, 2, 3]`},
		{name: "empty string element", payload: `["ok", ""]`},
		{name: "object instead of array", payload: `{"questions": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(questionArraySchema, tt.payload)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Errors)
		})
	}
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString(questionArraySchema, `not json at all`)
	require.Error(t, err)

	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidateJSONString_MalformedSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": `, `["ok"]`)
	require.Error(t, err)

	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}
