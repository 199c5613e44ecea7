package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

const defaultBlockPageSize = 50

// BlockedUserDTO 拉黑列表条目
type BlockedUserDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	BlockedAt   string `json:"blocked_at"`
}

type BlockService interface {
	Block(ctx context.Context, blockerID, blockedID string) (*model.Block, error)
	Unblock(ctx context.Context, blockerID, blockedID string) error
	Blocked(ctx context.Context, blockerID string, limit, offset int) response.Page
	// IsBlockedBetween 任一方向存在拉黑即为 true（私信一票否决）
	IsBlockedBetween(ctx context.Context, userA, userB string) (bool, error)
}

type blockService struct {
	blockRepo   repository.BlockRepository
	readTimeout time.Duration
}

func NewBlockService(blockRepo repository.BlockRepository, readTimeout time.Duration) BlockService {
	return &blockService{blockRepo: blockRepo, readTimeout: readTimeout}
}

func (s *blockService) Block(ctx context.Context, blockerID, blockedID string) (*model.Block, error) {
	if blockerID == blockedID {
		return nil, apperr.BadRequest("You cannot block yourself")
	}
	exists, err := s.blockRepo.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("User already blocked")
	}
	b, err := s.blockRepo.Create(ctx, blockerID, blockedID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to block user", err)
	}
	return b, nil
}

func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	deleted, err := s.blockRepo.Delete(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Block not found")
	}
	return nil
}

func (s *blockService) Blocked(ctx context.Context, blockerID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultBlockPageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.blockRepo.Count(rctx, blockerID)
	if err != nil {
		logger.Warn("blocked list degraded to empty page", zap.String("user_id", blockerID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	rows, err := s.blockRepo.List(rctx, blockerID, offset, limit)
	if err != nil {
		logger.Warn("blocked list degraded to empty page", zap.String("user_id", blockerID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	data := make([]*BlockedUserDTO, len(rows))
	for i, row := range rows {
		data[i] = &BlockedUserDTO{
			ID:          row.Profile.ID,
			Username:    row.Profile.Username,
			DisplayName: row.Profile.DisplayName,
			AvatarURL:   row.Profile.AvatarURL,
			BlockedAt:   row.BlockedAt.UTC().Format(time.RFC3339),
		}
	}
	return response.NewPage(data, limit, offset, total)
}

func (s *blockService) IsBlockedBetween(ctx context.Context, userA, userB string) (bool, error) {
	return s.blockRepo.ExistsBetween(ctx, userA, userB)
}
