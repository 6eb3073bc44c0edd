package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, taskType := range []string{"resolve-interests", "find-overlap", "generate-starters", "conversation-starters"} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema, taskType)
		assert.NotEmpty(t, a.OutputSchema, taskType)
	}

	gs, _ := reg.Find("generate-starters")
	assert.NotEmpty(t, gs.CompletionSchema)
	assert.Equal(t, 60*time.Second, gs.TimeoutDuration(time.Second))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"activities":[{"id":"a","taskType":"x"},{"id":"b","taskType":"x"}]}`))
	assert.ErrorContains(t, err, "duplicate taskType")

	_, err = Parse([]byte(`{"activities":[{"id":"a"}]}`))
	assert.ErrorContains(t, err, "no taskType")

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestFind_Missing(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, ok := reg.Find("build-response")
	assert.False(t, ok)
}

func TestTimeoutDuration_Fallback(t *testing.T) {
	a := &Activity{Timeout: "soon"}
	assert.Equal(t, 3*time.Second, a.TimeoutDuration(3*time.Second))
}
