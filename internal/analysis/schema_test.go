package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()

	require.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"transcript", "scores", "details", "summary"}, s.Required)
	assert.NotContains(t, s.Required, "suggestedText")
	assert.NotContains(t, s.Required, "comparisonFeedback")

	scores := s.Properties["scores"]
	require.NotNil(t, scores)
	for _, name := range []string{"accuracy", "fluency", "intonation", "overall"} {
		prop := scores.Properties[name]
		require.NotNil(t, prop, name)
		assert.Equal(t, genai.TypeInteger, prop.Type, name)
		require.NotNil(t, prop.Minimum)
		require.NotNil(t, prop.Maximum)
		assert.InDelta(t, 0, *prop.Minimum, 0)
		assert.InDelta(t, 100, *prop.Maximum, 0)
	}
	assert.Len(t, scores.Required, 4)

	details := s.Properties["details"]
	require.NotNil(t, details)
	assert.Equal(t, genai.TypeArray, details.Type)
	require.NotNil(t, details.Items)
	assert.ElementsMatch(t, []string{"word", "phonetic", "issue", "suggestion"}, details.Items.Required)
}
