// Package stub provides a fast, deterministic AI client for local use and
// tests.
package stub

import (
	"context"
	"encoding/json"
)

// Client returns a canned response. When Response is empty a well-formed
// analysis payload is produced; Err, when set, is returned instead.
type Client struct {
	Response string
	Err      error
	Calls    int
}

// New returns a stub yielding a well-formed analysis response.
func New() *Client { return &Client{} }

// ChatJSON implements domain.AIClient.
func (c *Client) ChatJSON(_ context.Context, _, _ string) (string, error) {
	c.Calls++
	if c.Err != nil {
		return "", c.Err
	}
	if c.Response != "" {
		return c.Response, nil
	}
	return DefaultAnalysisJSON(88), nil
}

// DefaultAnalysisJSON renders a complete, schema-conforming analysis payload
// with the given match score.
func DefaultAnalysisJSON(matchScore int) string {
	dim := map[string]any{
		"score":      80,
		"strengths":  []string{"shared outlook"},
		"challenges": []string{"different pacing"},
	}
	period := map[string]any{
		"timeRange": "1-3 months",
		"keyTasks": []map[string]string{{
			"task": "weekly check-in", "specificGoal": "one honest conversation a week",
			"measurementStandard": "both report feeling heard", "feasibility": "calendar reminder",
			"relevance": "builds trust", "timeline": "every Sunday",
		}},
		"risks": []map[string]string{{
			"risk": "conversations turn into arguments", "prevention": "agree ground rules",
			"countermeasure": "pause and resume next day",
		}},
		"referenceCases":     []map[string]string{{"title": "Learning to listen", "description": "a couple's communication story"}},
		"successProbability": "high, given mutual willingness",
	}
	payload := map[string]any{
		"matchScore": matchScore,
		"dimensionAnalysis": map[string]any{
			"personalityMatch":   dim,
			"communicationStyle": dim,
			"values":             dim,
			"lifestyle":          dim,
			"growthPotential":    dim,
		},
		"ageAnalysis": map[string]any{
			"characteristics": "both in a settling-down phase",
			"strengths":       []string{"clear life goals"},
			"challenges":      []string{"career pressure"},
			"referenceCase":   "peers marrying around 30",
			"statistics": map[string]any{
				"peerGroupTraits": "longer courtships, later marriages",
				"successRateData": "above-average stability for this cohort",
				"keyFactors":      []string{"financial planning", "family support"},
			},
		},
		"developmentAdvice": map[string]any{
			"currentStage": "building mutual understanding",
			"shortTerm":    period,
			"midTerm":      period,
			"longTerm":     period,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}
