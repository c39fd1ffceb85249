package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// ResultService fetches cached analysis results by id.
type ResultService struct {
	Cache domain.Cache
}

func NewResultService(cache domain.Cache) ResultService {
	return ResultService{Cache: cache}
}

// Get returns the analysis stored under id. Expired or unknown ids map to
// domain.ErrNotFound.
func (s ResultService) Get(ctx context.Context, id string) (domain.AnalysisResult, error) {
	if id == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: result id is required", domain.ErrInvalidArgument)
	}
	b, err := s.Cache.Get(ctx, resultKeyPrefix+id)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	var out domain.AnalysisResult
	if err := json.Unmarshal(b, &out); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: decode cached result: %v", domain.ErrInternal, err)
	}
	return out, nil
}
