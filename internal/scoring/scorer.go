// Package scoring aggregates raw questionnaire answers into per-trait and
// per-dimension numeric scores.
package scoring

import (
	"math"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// neutralDimensionScore is reported for a dimension none of whose configured
// traits were observed, so sparse data does not tank a report to zero.
const neutralDimensionScore = 75

// Scorer computes trait and dimension scores against a question bank.
type Scorer struct {
	byID map[string]Question
}

// NewScorer builds a Scorer over the given bank. A nil or empty bank falls
// back to the built-in Questions.
func NewScorer(bank []Question) *Scorer {
	if len(bank) == 0 {
		bank = Questions
	}
	byID := make(map[string]Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	return &Scorer{byID: byID}
}

// TraitScores sums the weight of the chosen option per trait and averages by
// the number of contributing questions, scaled to 0-100. Unknown question ids
// and answer texts that match no option are skipped silently: the question
// bank may evolve independently of stored answers.
func (s *Scorer) TraitScores(answers map[string]string) map[string]float64 {
	type acc struct {
		count int
		score float64
	}
	sums := make(map[string]*acc)
	for qid, text := range answers {
		q, ok := s.byID[qid]
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if opt.Text != text {
				continue
			}
			a := sums[opt.Trait]
			if a == nil {
				a = &acc{}
				sums[opt.Trait] = a
			}
			a.count++
			a.score += opt.Weight
			break
		}
	}
	out := make(map[string]float64, len(sums))
	for trait, a := range sums {
		out[trait] = a.score / float64(a.count) * 100
	}
	return out
}

// DimensionScores averages trait scores into the five fixed dimensions.
// A dimension with no contributing traits receives the neutral default.
func (s *Scorer) DimensionScores(traitScores map[string]float64) map[string]int {
	out := make(map[string]int, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		var sum float64
		var n int
		for _, trait := range dimensionTraits[dim] {
			v, ok := traitScores[trait]
			if !ok {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			out[dim] = neutralDimensionScore
			continue
		}
		out[dim] = int(math.Round(sum / float64(n)))
	}
	return out
}
