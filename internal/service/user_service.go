package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/presence"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

const (
	defaultUserPageSize   = 20
	defaultOnlinePageSize = 50
	// directoryScanCap 在线筛选时一次拉取目录的上限
	directoryScanCap = 1000
)

// UserService 用户目录与在线状态
type UserService interface {
	// List 搜索/发现，排除自己；读路径降级
	List(ctx context.Context, viewerID, search string, limit, offset int) response.Page
	// Online 当前在线的用户
	Online(ctx context.Context, viewerID string, limit, offset int) response.Page
}

type userService struct {
	profileRepo repository.ProfileRepository
	tracker     *presence.Tracker
	readTimeout time.Duration
}

func NewUserService(profileRepo repository.ProfileRepository, tracker *presence.Tracker,
	readTimeout time.Duration) UserService {
	return &userService{profileRepo: profileRepo, tracker: tracker, readTimeout: readTimeout}
}

func (s *userService) List(ctx context.Context, viewerID, search string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultUserPageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.profileRepo.Count(rctx, search, viewerID)
	if err != nil {
		logger.Warn("user list degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	profiles, err := s.profileRepo.List(rctx, search, viewerID, offset, limit)
	if err != nil {
		logger.Warn("user list degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	online, err := s.tracker.Online(rctx, ids)
	if err != nil {
		// 在线状态查不到不影响目录本身
		logger.Warn("presence lookup failed, reporting everyone offline", zap.Error(err))
		online = nil
	}
	onlineSet := make(map[string]bool, len(online))
	for _, id := range online {
		onlineSet[id] = true
	}

	data := make([]*UserDTO, len(profiles))
	for i, p := range profiles {
		data[i] = userDTO(p, onlineSet[p.ID])
	}
	return response.NewPage(data, limit, offset, total)
}

func (s *userService) Online(ctx context.Context, viewerID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultOnlinePageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	profiles, err := s.profileRepo.List(rctx, "", viewerID, 0, directoryScanCap)
	if err != nil {
		logger.Warn("online list degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	ids := make([]string, len(profiles))
	byID := make(map[string]*model.Profile, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	online, err := s.tracker.Online(rctx, ids)
	if err != nil {
		logger.Warn("online list degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}

	total := int64(len(online))
	if offset >= len(online) {
		return response.NewPage([]*UserDTO{}, limit, offset, total)
	}
	end := offset + limit
	if end > len(online) {
		end = len(online)
	}
	data := make([]*UserDTO, 0, end-offset)
	for _, id := range online[offset:end] {
		data = append(data, userDTO(byID[id], true))
	}
	return response.NewPage(data, limit, offset, total)
}

func userDTO(p *model.Profile, online bool) *UserDTO {
	status := "offline"
	if online {
		status = "online"
	}
	return &UserDTO{
		ID:        p.ID,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		Status:    status,
	}
}
