package ai_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai/stub"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

func parseJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeAnalysis_WellFormedPayload(t *testing.T) {
	res, err := ai.NormalizeAnalysis(parseJSON(t, stub.DefaultAnalysisJSON(88)))
	require.NoError(t, err)

	assert.Equal(t, 88, res.MatchScore)
	require.Len(t, res.DimensionAnalysis, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		d := res.DimensionAnalysis[dim]
		assert.Equal(t, 80, d.Score, "dimension %s", dim)
		assert.NotEmpty(t, d.Strengths)
	}
	assert.NotEmpty(t, res.DevelopmentAdvice.ShortTerm.KeyTasks)
	assert.NotEmpty(t, res.DevelopmentAdvice.ShortTerm.Risks)
}

func TestNormalizeAnalysis_EmptyObjectDegradesToDefaults(t *testing.T) {
	res, err := ai.NormalizeAnalysis(map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.MatchScore)
	require.Len(t, res.DimensionAnalysis, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		d := res.DimensionAnalysis[dim]
		assert.Equal(t, 0, d.Score)
		assert.Empty(t, d.Strengths)
		assert.Empty(t, d.Challenges)
	}
	assert.Empty(t, res.AgeAnalysis.Characteristics)
	assert.Empty(t, res.DevelopmentAdvice.ShortTerm.KeyTasks)
}

func TestNormalizeAnalysis_NonObjectFails(t *testing.T) {
	for _, in := range []any{nil, "text", 42.0, []any{"a"}} {
		_, err := ai.NormalizeAnalysis(in)
		assert.True(t, errors.Is(err, domain.ErrSchemaInvalid), "input %v", in)
	}
}

func TestNormalizeAnalysis_ScoreClamping(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{-5.0, 0},
		{150.0, 100},
		{87.6, 88},
		{"88", 88},
		{"not a number", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		res, err := ai.NormalizeAnalysis(map[string]any{"matchScore": tc.in})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.MatchScore, "input %v", tc.in)
	}
}

func TestNormalizeAnalysis_Idempotent(t *testing.T) {
	first, err := ai.NormalizeAnalysis(parseJSON(t, stub.DefaultAnalysisJSON(73)))
	require.NoError(t, err)

	b, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := ai.NormalizeAnalysis(parseJSON(t, string(b)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeAnalysis_LocalizedFieldNames(t *testing.T) {
	payload := map[string]any{
		"匹配度": 90,
		"维度分析": map[string]any{
			"性格匹配度": map[string]any{"分数": 85, "优势": []any{"mutual respect"}, "挑战": []any{}},
		},
		"年龄段分析": map[string]any{"特征": "pragmatic and settled"},
	}
	res, err := ai.NormalizeAnalysis(payload)
	require.NoError(t, err)

	assert.Equal(t, 90, res.MatchScore)
	assert.Equal(t, 85, res.DimensionAnalysis[domain.DimPersonality].Score)
	assert.Equal(t, []string{"mutual respect"}, res.DimensionAnalysis[domain.DimPersonality].Strengths)
	assert.Equal(t, "pragmatic and settled", res.AgeAnalysis.Characteristics)
}

func TestNormalizeAnalysis_MalformedNestedShapes(t *testing.T) {
	payload := map[string]any{
		"matchScore":        70,
		"dimensionAnalysis": map[string]any{"values": "not an object"},
		"developmentAdvice": map[string]any{
			"shortTerm": map[string]any{
				"keyTasks": []any{
					map[string]any{"task": "", "specificGoal": ""}, // no content, dropped
					map[string]any{"task": "plan a trip"},
					"a bare string where an object belongs",
				},
				"risks": []any{map[string]any{"prevention": "talk"}}, // no risk text, dropped
				"referenceCases": []any{
					"A story of growing together", // bare title form
					map[string]any{"title": "", "description": "dropped, no title"},
				},
			},
		},
	}
	res, err := ai.NormalizeAnalysis(payload)
	require.NoError(t, err)

	assert.Equal(t, 0, res.DimensionAnalysis[domain.DimValues].Score)
	st := res.DevelopmentAdvice.ShortTerm
	require.Len(t, st.KeyTasks, 1)
	assert.Equal(t, "plan a trip", st.KeyTasks[0].Task)
	assert.Empty(t, st.Risks)
	require.Len(t, st.ReferenceCases, 1)
	assert.Equal(t, "A story of growing together", st.ReferenceCases[0].Title)
}
