package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
)

// FollowedUserDTO 关注/粉丝列表条目
type FollowedUserDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	FollowedAt  string `json:"followed_at"`
}

// FollowService 关注关系
type FollowService interface {
	Follow(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	Following(ctx context.Context, userID string) []*FollowedUserDTO
	Followers(ctx context.Context, userID string) []*FollowedUserDTO
}

type followService struct {
	followRepo  repository.FollowRepository
	readTimeout time.Duration
}

func NewFollowService(followRepo repository.FollowRepository, readTimeout time.Duration) FollowService {
	return &followService{followRepo: followRepo, readTimeout: readTimeout}
}

func (s *followService) Follow(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	if followerID == followingID {
		return nil, apperr.BadRequest("You cannot follow yourself")
	}
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("Already following this user")
	}
	if err := s.followRepo.Create(ctx, followerID, followingID); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to follow user", err)
	}
	// Create 不回传整行，补一个轻量返回体
	return &model.Follow{FollowerID: followerID, FollowingID: followingID}, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID string) error {
	deleted, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Follow relationship not found")
	}
	return nil
}

func (s *followService) Following(ctx context.Context, userID string) []*FollowedUserDTO {
	return s.list(ctx, userID, true)
}

func (s *followService) Followers(ctx context.Context, userID string) []*FollowedUserDTO {
	return s.list(ctx, userID, false)
}

// list 读路径降级：出错回空列表
func (s *followService) list(ctx context.Context, userID string, following bool) []*FollowedUserDTO {
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	var (
		rows []*repository.FollowedProfile
		err  error
	)
	if following {
		rows, err = s.followRepo.ListFollowing(rctx, userID)
	} else {
		rows, err = s.followRepo.ListFollowers(rctx, userID)
	}
	if err != nil {
		logger.Warn("follow list degraded to empty", zap.String("user_id", userID), zap.Error(err))
		return []*FollowedUserDTO{}
	}
	res := make([]*FollowedUserDTO, len(rows))
	for i, row := range rows {
		res[i] = &FollowedUserDTO{
			ID:          row.Profile.ID,
			Username:    row.Profile.Username,
			DisplayName: row.Profile.DisplayName,
			AvatarURL:   row.Profile.AvatarURL,
			Bio:         row.Profile.Bio,
			FollowedAt:  row.FollowedAt.UTC().Format(time.RFC3339),
		}
	}
	return res
}
