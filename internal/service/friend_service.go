package service

import (
	"context"
	"time"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"

	"go.uber.org/zap"
)

const (
	defaultFriendPageSize  = 50
	defaultRequestPageSize = 20
)

// FriendActionResult 好友操作结果
type FriendActionResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// FriendDTO 好友/申请列表条目
type FriendDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Since       string `json:"friends_since,omitempty"`
	RequestedAt string `json:"requested_at,omitempty"`
}

type FriendService interface {
	// Request 发好友申请；若对方已先发来待处理申请则直接接受
	Request(ctx context.Context, userID, friendID string) (*FriendActionResult, error)
	Accept(ctx context.Context, userID, friendID string) (*FriendActionResult, error)
	// Remove 删除好友 / 撤回申请（任一方向）
	Remove(ctx context.Context, userID, friendID string) error
	Friends(ctx context.Context, userID string, limit, offset int) response.Page
	Requests(ctx context.Context, userID string, limit, offset int) response.Page
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
}

type friendService struct {
	friendRepo  repository.FriendRepository
	profileRepo repository.ProfileRepository
	readTimeout time.Duration
}

func NewFriendService(friendRepo repository.FriendRepository, profileRepo repository.ProfileRepository,
	readTimeout time.Duration) FriendService {
	return &friendService{friendRepo: friendRepo, profileRepo: profileRepo, readTimeout: readTimeout}
}

func (s *friendService) Request(ctx context.Context, userID, friendID string) (*FriendActionResult, error) {
	if userID == friendID {
		return nil, apperr.BadRequest("You cannot send friend request to yourself")
	}
	target, err := s.profileRepo.GetByID(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("User not found")
	}

	existing, err := s.friendRepo.GetBetween(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.FriendStatusAccepted {
			return nil, apperr.BadRequest("Users are already friends")
		}
		if existing.UserID == userID {
			return nil, apperr.BadRequest("Friend request already sent")
		}
		// 对方先发来了申请，直接接受
		if err := s.friendRepo.UpdateStatus(ctx, existing.ID, model.FriendStatusAccepted); err != nil {
			return nil, err
		}
		return &FriendActionResult{Message: "Friend request accepted", Status: model.FriendStatusAccepted}, nil
	}

	f := &model.Friend{UserID: userID, FriendID: friendID, Status: model.FriendStatusPending}
	if err := s.friendRepo.Create(ctx, f); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to send friend request", err)
	}
	return &FriendActionResult{Message: "Friend request sent", Status: model.FriendStatusPending}, nil
}

func (s *friendService) Accept(ctx context.Context, userID, friendID string) (*FriendActionResult, error) {
	existing, err := s.friendRepo.GetBetween(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	// 只有「对方发给我的待处理申请」才可接受
	if existing == nil || existing.Status != model.FriendStatusPending || existing.UserID != friendID {
		return nil, apperr.NotFound("Friend request not found")
	}
	if err := s.friendRepo.UpdateStatus(ctx, existing.ID, model.FriendStatusAccepted); err != nil {
		return nil, err
	}
	return &FriendActionResult{Message: "Friend request accepted", Status: model.FriendStatusAccepted}, nil
}

func (s *friendService) Remove(ctx context.Context, userID, friendID string) error {
	deleted, err := s.friendRepo.DeleteBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Friendship not found")
	}
	return nil
}

func (s *friendService) Friends(ctx context.Context, userID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultFriendPageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.friendRepo.CountFriends(rctx, userID)
	if err != nil {
		logger.Warn("friends list degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	rows, err := s.friendRepo.ListFriends(rctx, userID, offset, limit)
	if err != nil {
		logger.Warn("friends list degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	data := make([]*FriendDTO, len(rows))
	for i, row := range rows {
		data[i] = &FriendDTO{
			ID:          row.Profile.ID,
			Username:    row.Profile.Username,
			DisplayName: row.Profile.DisplayName,
			AvatarURL:   row.Profile.AvatarURL,
			Since:       row.Since.UTC().Format(time.RFC3339),
		}
	}
	return response.NewPage(data, limit, offset, total)
}

func (s *friendService) Requests(ctx context.Context, userID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultRequestPageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.friendRepo.CountIncoming(rctx, userID)
	if err != nil {
		logger.Warn("friend requests degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	rows, err := s.friendRepo.ListIncoming(rctx, userID, offset, limit)
	if err != nil {
		logger.Warn("friend requests degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	data := make([]*FriendDTO, len(rows))
	for i, row := range rows {
		data[i] = &FriendDTO{
			ID:          row.Profile.ID,
			Username:    row.Profile.Username,
			DisplayName: row.Profile.DisplayName,
			AvatarURL:   row.Profile.AvatarURL,
			RequestedAt: row.Since.UTC().Format(time.RFC3339),
		}
	}
	return response.NewPage(data, limit, offset, total)
}

func (s *friendService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userA, userB)
}
