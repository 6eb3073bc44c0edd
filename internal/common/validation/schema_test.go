package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewDefault()
	require.NoError(t, err)
	return v
}

func TestValidateInput_Request(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name      string
		body      string
		valid     bool
		wantField string
	}{
		{
			name:  "complete request",
			body:  `{"your_name":"Ana","your_info":"ai, coffee","their_name":"Ben","their_info":"coffee brewing","context":"tech conference"}`,
			valid: true,
		},
		{
			name:      "missing field",
			body:      `{"your_name":"Ana","your_info":"ai","their_name":"Ben","their_info":"coffee"}`,
			wantField: "context",
		},
		{
			name:      "blank field",
			body:      `{"your_name":"  ","your_info":"ai","their_name":"Ben","their_info":"coffee","context":"coffee chat"}`,
			wantField: "your_name",
		},
		{
			name:      "wrong type",
			body:      `{"your_name":"Ana","your_info":42,"their_name":"Ben","their_info":"coffee","context":"coffee chat"}`,
			wantField: "your_info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateInput("conversation-starters", []byte(tt.body))
			assert.Equal(t, tt.valid, res.Valid, res.Error())
			if tt.wantField == "" {
				return
			}
			fields := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
			assert.NotEmpty(t, res.Error())
		})
	}
}

func TestValidateInput_Malformed(t *testing.T) {
	v := newTestValidator(t)
	res := v.ValidateInput("conversation-starters", []byte(`{"your_name":`))
	assert.False(t, res.Valid)
	assert.Equal(t, "MALFORMED_DOCUMENT", res.Errors[0].Code)
}

func TestValidateInput_UnknownTaskType(t *testing.T) {
	v := newTestValidator(t)
	assert.True(t, v.ValidateInput("no-such-task", []byte(`{}`)).Valid)
}

func TestValidateCompletion(t *testing.T) {
	v := newTestValidator(t)

	ok := map[string]interface{}{
		"based_on_their_interests":  []interface{}{"a", "b"},
		"based_on_common_interests": []interface{}{"c"},
	}
	assert.True(t, v.ValidateCompletion("generate-starters", ok).Valid)

	missing := map[string]interface{}{
		"based_on_their_interests": []interface{}{"a"},
	}
	assert.False(t, v.ValidateCompletion("generate-starters", missing).Valid)

	wrongItems := map[string]interface{}{
		"based_on_their_interests":  []interface{}{1, 2},
		"based_on_common_interests": []interface{}{},
	}
	assert.False(t, v.ValidateCompletion("generate-starters", wrongItems).Valid)
}
