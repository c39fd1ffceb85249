package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
	"github.com/ranqi-ly/soul-matrix-ai/internal/scoring"
)

func TestTraitScores_KnownAnswers(t *testing.T) {
	s := scoring.NewScorer(nil)
	traits := s.TraitScores(map[string]string{
		"attachment_1": "Reach out and talk it through",
		"conflict_1":   "Stay calm and look for a solution",
		"growth_1":     "Work on it and track progress",
	})
	require.Len(t, traits, 3)
	assert.InDelta(t, 120, traits["secure attachment"], 0.001)
	assert.InDelta(t, 120, traits["constructive conflict"], 0.001)
	assert.InDelta(t, 120, traits["growth mindset"], 0.001)
}

func TestTraitScores_SkipsUnknownQuestionsAndOptions(t *testing.T) {
	s := scoring.NewScorer(nil)
	traits := s.TraitScores(map[string]string{
		"no_such_question": "whatever",
		"attachment_1":     "an answer that matches no option",
	})
	assert.Empty(t, traits)
}

func TestTraitScores_AveragesAcrossQuestions(t *testing.T) {
	bank := []scoring.Question{
		{ID: "q1", Options: []scoring.Option{{Text: "a", Trait: "patience", Weight: 1.0}}},
		{ID: "q2", Options: []scoring.Option{{Text: "b", Trait: "patience", Weight: 0.6}}},
	}
	s := scoring.NewScorer(bank)
	traits := s.TraitScores(map[string]string{"q1": "a", "q2": "b"})
	// (1.0 + 0.6) / 2 * 100
	assert.InDelta(t, 80, traits["patience"], 0.001)
}

func TestDimensionScores_AveragesMappedTraits(t *testing.T) {
	s := scoring.NewScorer(nil)
	dims := s.DimensionScores(map[string]float64{
		"growth mindset":       80,
		"help-seeking mindset": 80,
		"inclusiveness":        80,
	})
	assert.Equal(t, 80, dims[domain.DimGrowth])
}

func TestDimensionScores_NeutralDefaultWhenNoTraits(t *testing.T) {
	s := scoring.NewScorer(nil)
	dims := s.DimensionScores(map[string]float64{})
	require.Len(t, dims, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		assert.Equal(t, 75, dims[dim], "dimension %s", dim)
	}
}

func TestDimensionScores_RoundsToNearest(t *testing.T) {
	s := scoring.NewScorer(nil)
	dims := s.DimensionScores(map[string]float64{
		"growth mindset":       81,
		"help-seeking mindset": 80,
	})
	// (81 + 80) / 2 = 80.5, rounds to 81.
	assert.Equal(t, 81, dims[domain.DimGrowth])
}
