package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

const shareKeyPrefix = "share:"

// ShareService stores a snapshot of an analysis result under a short-lived
// id so it can be shown from a shared link without re-running the model.
type ShareService struct {
	Cfg   config.Config
	Cache domain.Cache
}

func NewShareService(cfg config.Config, cache domain.Cache) ShareService {
	return ShareService{Cfg: cfg, Cache: cache}
}

// Create stores the result payload verbatim and returns the share id. The
// payload is kept as raw JSON so shared snapshots survive schema additions.
func (s ShareService) Create(ctx context.Context, result json.RawMessage) (string, error) {
	if len(result) == 0 || !json.Valid(result) {
		return "", fmt.Errorf("%w: result must be a JSON document", domain.ErrInvalidArgument)
	}
	id := uuid.New().String()
	if err := s.Cache.Put(ctx, shareKeyPrefix+id, result, s.Cfg.ShareCacheTTL); err != nil {
		return "", fmt.Errorf("cache share: %w", err)
	}
	return id, nil
}

func (s ShareService) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: share id is required", domain.ErrInvalidArgument)
	}
	b, err := s.Cache.Get(ctx, shareKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	return b, nil
}
