package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// NormalizeAnalysis walks a validated-or-best-effort object graph and
// produces a fully-populated AnalysisResult. It is total over object-shaped
// input: any missing or malformed field degrades to its default, no panic,
// no error. The only error is a non-object top level, which signals an
// unrecoverable model response.
//
// Normalization is idempotent: feeding a normalized result back through
// yields the same value. Scores are clamped into [0,100].
func NormalizeAnalysis(v any) (domain.AnalysisResult, error) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: analysis payload is not an object", domain.ErrSchemaInvalid)
	}
	res := domain.AnalysisResult{
		MatchScore:        clampScore(numberOf(m, "matchScore")),
		DimensionAnalysis: make(map[string]domain.DimensionDetail, len(domain.Dimensions)),
	}
	if dims, found := field(m, "dimensionAnalysis"); found {
		dm, _ := dims.(map[string]any)
		for _, dim := range domain.Dimensions {
			dv, _ := dimensionField(dm, dim)
			res.DimensionAnalysis[dim] = normalizeDimension(dv)
		}
	} else {
		for _, dim := range domain.Dimensions {
			res.DimensionAnalysis[dim] = normalizeDimension(nil)
		}
	}
	res.AgeAnalysis = normalizeAge(objectOf(m, "ageAnalysis"))
	res.DevelopmentAdvice = normalizeAdvice(objectOf(m, "developmentAdvice"))
	return res, nil
}

func normalizeDimension(v any) domain.DimensionDetail {
	m, _ := v.(map[string]any)
	return domain.DimensionDetail{
		Score:      clampScore(numberOf(m, "score")),
		Strengths:  stringsOf(m, "strengths"),
		Challenges: stringsOf(m, "challenges"),
	}
}

func normalizeAge(m map[string]any) domain.AgeAnalysis {
	stats := objectOf(m, "statistics")
	return domain.AgeAnalysis{
		Characteristics: stringOf(m, "characteristics"),
		Strengths:       stringsOf(m, "strengths"),
		Challenges:      stringsOf(m, "challenges"),
		ReferenceCase:   stringOf(m, "referenceCase"),
		Statistics: domain.Statistics{
			PeerGroupTraits: stringOf(stats, "peerGroupTraits"),
			SuccessRateData: stringOf(stats, "successRateData"),
			KeyFactors:      stringsOf(stats, "keyFactors"),
		},
	}
}

func normalizeAdvice(m map[string]any) domain.DevelopmentAdvice {
	return domain.DevelopmentAdvice{
		CurrentStage: stringOf(m, "currentStage"),
		ShortTerm:    normalizePeriod(objectOf(m, "shortTerm")),
		MidTerm:      normalizePeriod(objectOf(m, "midTerm")),
		LongTerm:     normalizePeriod(objectOf(m, "longTerm")),
	}
}

func normalizePeriod(m map[string]any) domain.TimePeriodPlan {
	return domain.TimePeriodPlan{
		TimeRange:          stringOf(m, "timeRange"),
		KeyTasks:           normalizeTasks(arrayOf(m, "keyTasks")),
		Risks:              normalizeRisks(arrayOf(m, "risks")),
		ReferenceCases:     normalizeReferences(arrayOf(m, "referenceCases")),
		SuccessProbability: stringOf(m, "successProbability"),
	}
}

func normalizeTasks(items []any) []domain.Task {
	out := make([]domain.Task, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		t := domain.Task{
			Task:                stringOf(m, "task"),
			SpecificGoal:        stringOf(m, "specificGoal"),
			MeasurementStandard: stringOf(m, "measurementStandard"),
			Feasibility:         stringOf(m, "feasibility"),
			Relevance:           stringOf(m, "relevance"),
			Timeline:            stringOf(m, "timeline"),
		}
		// Drop entries that carry no actionable content at all.
		if t.Task == "" && t.SpecificGoal == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalizeRisks(items []any) []domain.Risk {
	out := make([]domain.Risk, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		r := domain.Risk{
			Risk:           stringOf(m, "risk"),
			Prevention:     stringOf(m, "prevention"),
			Countermeasure: stringOf(m, "countermeasure"),
		}
		if r.Risk == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// normalizeReferences tolerates both shapes the model returns for a reference
// case: a bare title string and a partial object. An upstream url field, when
// present, is dropped rather than trusted.
func normalizeReferences(items []any) []domain.ReferenceCase {
	out := make([]domain.ReferenceCase, 0, len(items))
	for _, it := range items {
		var rc domain.ReferenceCase
		switch v := it.(type) {
		case string:
			rc = domain.ReferenceCase{Title: v}
		case map[string]any:
			rc = domain.ReferenceCase{
				Title:       stringOf(v, "title"),
				Description: stringOf(v, "description"),
			}
		}
		if rc.Title == "" {
			continue
		}
		out = append(out, rc)
	}
	return out
}

// clampScore coerces to an integer score within [0,100]; NaN becomes 0,
// the visible failure signal.
func clampScore(n float64) int {
	if math.IsNaN(n) {
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return int(math.Round(n))
}

func numberOf(m map[string]any, name string) float64 {
	if m == nil {
		return math.NaN()
	}
	v, found := field(m, name)
	if !found {
		return math.NaN()
	}
	n, ok := toNumber(v)
	if !ok {
		return math.NaN()
	}
	return n
}

// toNumber applies a lenient numeric cast: JSON numbers pass through and
// numeric strings are parsed, matching how loosely the upstream types values.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringOf(m map[string]any, name string) string {
	if m == nil {
		return ""
	}
	v, found := field(m, name)
	if !found {
		return ""
	}
	s, _ := v.(string)
	return s
}

// stringsOf coerces to a string slice, substituting the empty slice for
// non-arrays and filtering out empty and non-string elements.
func stringsOf(m map[string]any, name string) []string {
	items := arrayOf(m, name)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func arrayOf(m map[string]any, name string) []any {
	if m == nil {
		return nil
	}
	v, found := field(m, name)
	if !found {
		return nil
	}
	arr, _ := v.([]any)
	return arr
}

func objectOf(m map[string]any, name string) map[string]any {
	if m == nil {
		return nil
	}
	v, found := field(m, name)
	if !found {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}
