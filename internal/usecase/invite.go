package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

const inviteKeyPrefix = "invite:"

// InviteService stores the first participant's answers so a second
// participant can complete the assessment later from a link.
type InviteService struct {
	Cfg   config.Config
	Cache domain.Cache
}

func NewInviteService(cfg config.Config, cache domain.Cache) InviteService {
	return InviteService{Cfg: cfg, Cache: cache}
}

func (s InviteService) Create(ctx context.Context, answers map[string]string) (string, error) {
	if len(answers) == 0 {
		return "", fmt.Errorf("%w: person1Answers is required", domain.ErrInvalidArgument)
	}
	inv := domain.Invite{Person1Answers: answers, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(inv)
	if err != nil {
		return "", fmt.Errorf("%w: marshal invite: %v", domain.ErrInternal, err)
	}
	id := uuid.New().String()
	if err := s.Cache.Put(ctx, inviteKeyPrefix+id, b, s.Cfg.InviteCacheTTL); err != nil {
		return "", fmt.Errorf("cache invite: %w", err)
	}
	return id, nil
}

func (s InviteService) Get(ctx context.Context, id string) (domain.Invite, error) {
	if id == "" {
		return domain.Invite{}, fmt.Errorf("%w: invite id is required", domain.ErrInvalidArgument)
	}
	b, err := s.Cache.Get(ctx, inviteKeyPrefix+id)
	if err != nil {
		return domain.Invite{}, err
	}
	var inv domain.Invite
	if err := json.Unmarshal(b, &inv); err != nil {
		return domain.Invite{}, fmt.Errorf("%w: decode invite: %v", domain.ErrInternal, err)
	}
	return inv, nil
}
