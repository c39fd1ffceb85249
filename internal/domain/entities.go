// Package domain holds the core entities, error taxonomy and ports of the
// compatibility analysis service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConfigMissing     = errors.New("configuration missing")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// Dimension names form the fixed report category set. Every AnalysisResult
// carries exactly these five keys in DimensionAnalysis.
const (
	DimPersonality   = "personalityMatch"
	DimCommunication = "communicationStyle"
	DimValues        = "values"
	DimLifestyle     = "lifestyle"
	DimGrowth        = "growthPotential"
)

// Dimensions lists the fixed dimension keys in report order.
var Dimensions = []string{DimPersonality, DimCommunication, DimValues, DimLifestyle, DimGrowth}

// Answer is a single submitted questionnaire answer. Immutable once submitted.
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionText string `json:"selectedOptionText"`
}

// Participant is one half of an assessment. Answers map question id to the
// selected option text.
type Participant struct {
	Name    string            `json:"name"`
	Gender  string            `json:"gender"`
	Age     int               `json:"age"`
	Answers map[string]string `json:"answers"`
}

// DimensionDetail is the per-dimension slice of an analysis result.
// Strengths and Challenges are never nil after normalization.
type DimensionDetail struct {
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Challenges []string `json:"challenges"`
}

// Statistics backs the age analysis with peer-group data.
type Statistics struct {
	PeerGroupTraits string   `json:"peerGroupTraits"`
	SuccessRateData string   `json:"successRateData"`
	KeyFactors      []string `json:"keyFactors"`
}

// AgeAnalysis describes age-cohort characteristics of the pair.
type AgeAnalysis struct {
	Characteristics string     `json:"characteristics"`
	Strengths       []string   `json:"strengths"`
	Challenges      []string   `json:"challenges"`
	ReferenceCase   string     `json:"referenceCase"`
	Statistics      Statistics `json:"statistics"`
}

// Task is one actionable item inside a time-period plan.
type Task struct {
	Task                string `json:"task"`
	SpecificGoal        string `json:"specificGoal"`
	MeasurementStandard string `json:"measurementStandard"`
	Feasibility         string `json:"feasibility"`
	Relevance           string `json:"relevance"`
	Timeline            string `json:"timeline"`
}

// Risk pairs a risk with its prevention and countermeasure.
type Risk struct {
	Risk           string `json:"risk"`
	Prevention     string `json:"prevention"`
	Countermeasure string `json:"countermeasure"`
}

// ReferenceCase is a pointer to related reading. The upstream model sometimes
// returns a bare title string instead of the object form; normalization
// accepts both.
type ReferenceCase struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TimePeriodPlan is one of the three forward-looking advice blocks.
type TimePeriodPlan struct {
	TimeRange          string          `json:"timeRange"`
	KeyTasks           []Task          `json:"keyTasks"`
	Risks              []Risk          `json:"risks"`
	ReferenceCases     []ReferenceCase `json:"referenceCases"`
	SuccessProbability string          `json:"successProbability"`
}

// DevelopmentAdvice holds staged guidance for the relationship.
type DevelopmentAdvice struct {
	CurrentStage string         `json:"currentStage"`
	ShortTerm    TimePeriodPlan `json:"shortTerm"`
	MidTerm      TimePeriodPlan `json:"midTerm"`
	LongTerm     TimePeriodPlan `json:"longTerm"`
}

// AnalysisResult is the canonical, fully-populated output of the ingestion
// pipeline. It is constructed once per assessment, written to the cache under
// a generated id, and never mutated afterwards.
//
// Invariants: MatchScore and every dimension score are within [0,100]; every
// slice is non-nil; DimensionAnalysis carries exactly the five fixed keys.
type AnalysisResult struct {
	MatchScore        int                        `json:"matchScore"`
	DimensionAnalysis map[string]DimensionDetail `json:"dimensionAnalysis"`
	AgeAnalysis       AgeAnalysis                `json:"ageAnalysis"`
	DevelopmentAdvice DevelopmentAdvice          `json:"developmentAdvice"`
}

// PredictProfile is the free-text participant description used by the
// prediction variant, which needs no questionnaire.
type PredictProfile struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
	Interests string `json:"interests"`
	Values    string `json:"values"`
	Lifestyle string `json:"lifestyle"`
}

// Prediction is the lightweight free-text variant of an analysis, produced by
// the predict pipeline from unstructured profile fields. Cached marks a
// response served from the prediction cache rather than a fresh model call.
type Prediction struct {
	Score           int      `json:"score"`
	Analysis        string   `json:"analysis"`
	Compatibility   string   `json:"compatibility"`
	Recommendations []string `json:"recommendations"`
	Cached          bool     `json:"cached"`
}

// Invite stores the first participant's answers while the second participant
// completes their half.
type Invite struct {
	Person1Answers map[string]string `json:"person1Answers"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// AIClient (port)
type AIClient interface {
	// ChatJSON performs one chat completion round trip and returns the raw
	// message content. Implementations retry transient failures internally.
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Cache (port) is a process-wide TTL key-value store. Entries are written
// once and read until expiry; an expired or absent key reports ErrNotFound.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
