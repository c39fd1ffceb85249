// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
	"github.com/ranqi-ly/soul-matrix-ai/internal/scoring"
)

const resultKeyPrefix = "result:"

// AssessService runs the full ingestion pipeline for one assessment:
// score -> prompt -> dispatch -> repair -> validate -> normalize -> cache.
type AssessService struct {
	Cfg    config.Config
	AI     domain.AIClient
	Cache  domain.Cache
	Scorer *scoring.Scorer
	Repair *ai.Repairer
}

// NewAssessService wires the pipeline with its dependencies.
func NewAssessService(cfg config.Config, client domain.AIClient, cache domain.Cache) AssessService {
	return AssessService{
		Cfg:    cfg,
		AI:     client,
		Cache:  cache,
		Scorer: scoring.NewScorer(nil),
		Repair: ai.NewRepairer(),
	}
}

// Run executes the pipeline and returns the id under which the result was
// cached. The result itself is fetched separately, decoupling model latency
// from display.
//
// A response that cannot be repaired into parseable JSON triggers a fresh
// upstream round trip (a new call may produce cleanly formed output when
// repair of a given attempt cannot), bounded by Cfg.RepairRounds. Transient
// dispatch failures are retried inside the AI client and are terminal here
// once exhausted.
func (s AssessService) Run(ctx context.Context, p1, p2 domain.Participant) (string, error) {
	if err := s.Cfg.ValidateAI(); err != nil {
		return "", err
	}
	if len(p1.Answers) == 0 || len(p2.Answers) == 0 {
		return "", fmt.Errorf("%w: both participants must complete all questions", domain.ErrInvalidArgument)
	}

	traits1 := s.Scorer.TraitScores(p1.Answers)
	traits2 := s.Scorer.TraitScores(p2.Answers)
	dims1 := s.Scorer.DimensionScores(traits1)
	dims2 := s.Scorer.DimensionScores(traits2)
	slog.Debug("questionnaire scored",
		slog.Int("traits_p1", len(traits1)), slog.Int("traits_p2", len(traits2)),
		slog.Any("dimensions_p1", dims1), slog.Any("dimensions_p2", dims2))

	builder := ai.PromptBuilder{Localized: s.Cfg.LocalizedFields}
	system, user := builder.BuildAssess(p1, p2, dims1, dims2)

	rounds := s.Cfg.RepairRounds
	if rounds < 1 {
		rounds = 1
	}
	var lastErr error
	for round := 1; round <= rounds; round++ {
		result, err := s.ingestOnce(ctx, system, user)
		if err != nil {
			var rerr *ai.RepairError
			if errors.As(err, &rerr) || errors.Is(err, domain.ErrSchemaInvalid) {
				slog.Warn("ingestion round failed, requesting fresh response",
					slog.Int("round", round), slog.Any("error", err))
				lastErr = err
				continue
			}
			return "", err
		}
		id := uuid.New().String()
		b, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("%w: marshal result: %v", domain.ErrInternal, err)
		}
		if err := s.Cache.Put(ctx, resultKeyPrefix+id, b, s.Cfg.ResultCacheTTL); err != nil {
			return "", fmt.Errorf("cache result: %w", err)
		}
		slog.Info("assessment completed", slog.String("result_id", id),
			slog.Int("match_score", result.MatchScore), slog.Int("round", round))
		return id, nil
	}
	return "", lastErr
}

// ingestOnce performs one dispatch and runs the response through repair,
// validation and normalization.
func (s AssessService) ingestOnce(ctx context.Context, system, user string) (domain.AnalysisResult, error) {
	start := time.Now()
	raw, err := s.AI.ChatJSON(ctx, system, user)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	slog.Debug("model responded", slog.Int("bytes", len(raw)), slog.Duration("took", time.Since(start)))

	repaired, err := s.Repair.Repair(raw)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	var parsed any
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		// Repair guarantees parseability; treat a parse error as its failure.
		return domain.AnalysisResult{}, &ai.RepairError{Original: raw, Attempt: repaired}
	}
	if ok, problems := ai.ValidateStructure(parsed); !ok {
		slog.Warn("structural validation reported problems", slog.Any("problems", problems))
		if s.Cfg.StrictValidation {
			return domain.AnalysisResult{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, problems)
		}
		// Advisory mode: normalization is total, proceed.
	}
	return ai.NormalizeAnalysis(parsed)
}
