package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai/stub"
)

func TestValidateStructure_WellFormed(t *testing.T) {
	ok, problems := ai.ValidateStructure(parseJSON(t, stub.DefaultAnalysisJSON(80)))
	assert.True(t, ok, "problems: %v", problems)
	assert.Empty(t, problems)
}

func TestValidateStructure_NotAnObject(t *testing.T) {
	ok, problems := ai.ValidateStructure("just text")
	assert.False(t, ok)
	require.Len(t, problems, 1)
}

func TestValidateStructure_MissingTopLevelFields(t *testing.T) {
	ok, problems := ai.ValidateStructure(map[string]any{"matchScore": 50})
	assert.False(t, ok)
	assert.Contains(t, problems, "missing field: dimensionAnalysis")
	assert.Contains(t, problems, "missing field: ageAnalysis")
	assert.Contains(t, problems, "missing field: developmentAdvice")
}

func TestValidateStructure_MatchScoreProblems(t *testing.T) {
	_, problems := ai.ValidateStructure(map[string]any{"matchScore": "high"})
	assert.Contains(t, problems, "matchScore is not numeric")

	_, problems = ai.ValidateStructure(map[string]any{"matchScore": 120})
	assert.Contains(t, problems, "matchScore out of range: 120")
}

func TestValidateStructure_MissingDimension(t *testing.T) {
	v := parseJSON(t, stub.DefaultAnalysisJSON(80))
	m := v.(map[string]any)
	dims := m["dimensionAnalysis"].(map[string]any)
	delete(dims, "growthPotential")

	ok, problems := ai.ValidateStructure(m)
	assert.False(t, ok)
	assert.Contains(t, problems, "missing dimension: growthPotential")
}

func TestValidateStructure_DimensionShapeProblems(t *testing.T) {
	v := parseJSON(t, stub.DefaultAnalysisJSON(80))
	m := v.(map[string]any)
	dims := m["dimensionAnalysis"].(map[string]any)
	dims["values"] = map[string]any{"score": 200, "strengths": "not an array"}

	ok, problems := ai.ValidateStructure(m)
	assert.False(t, ok)
	assert.Contains(t, problems, "dimension score invalid: values")
	assert.Contains(t, problems, "dimension strengths is not an array: values")
	assert.Contains(t, problems, "dimension missing challenges: values")
}

func TestValidateStructure_AcceptsAliasSpellings(t *testing.T) {
	ok, problems := ai.ValidateStructure(map[string]any{
		"match_score":      75,
		"维度分析":             dimObjectAllDims(),
		"age_analysis":     map[string]any{},
		"development_advice": map[string]any{},
	})
	assert.True(t, ok, "problems: %v", problems)
}

func dimObjectAllDims() map[string]any {
	dim := map[string]any{"score": 70, "strengths": []any{}, "challenges": []any{}}
	return map[string]any{
		"personality_match": dim,
		"沟通方式":              dim,
		"values":            dim,
		"生活方式":              dim,
		"growth_potential":  dim,
	}
}
