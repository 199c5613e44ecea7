package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/identity"
	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
)

// RegisterResult 注册成功的返回体
type RegisterResult struct {
	Message     string     `json:"message"`
	AccessToken string     `json:"access_token"`
	User        SessionDTO `json:"user"`
}

// LoginResult 登录成功的返回体
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        SessionDTO `json:"user"`
}

type SessionDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// MeDTO 当前用户信息（/auth/me）
type MeDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Status      string `json:"status"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Me 永不失败：资料缺失或查询超时返回由身份信息兜底的降级结果
	Me(ctx context.Context, ident *identity.Identity) *MeDTO
}

type authService struct {
	provider    identity.Provider
	profileRepo repository.ProfileRepository
	readTimeout time.Duration
}

func NewAuthService(provider identity.Provider, profileRepo repository.ProfileRepository, readTimeout time.Duration) AuthService {
	return &authService{provider: provider, profileRepo: profileRepo, readTimeout: readTimeout}
}

// Register 顺序保证不产生孤儿账号：先查用户名占用，
// 再建身份账号，最后落资料；资料失败则补偿删号。
func (s *authService) Register(ctx context.Context, email, password, username string) (*RegisterResult, error) {
	taken, err := s.profileRepo.UsernameTaken(ctx, username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.BadRequest("Username already taken")
	}

	session, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrProviderRejected) {
			return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to create user", err)
		}
		return nil, err
	}

	p := &model.Profile{
		ID:          session.UserID,
		Username:    username,
		DisplayName: username,
		AvatarURL:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username),
		DMPrivacy:   model.DMPrivacyFriends,
	}
	if err := s.profileRepo.Create(ctx, p); err != nil {
		// 尽力补偿，失败只记日志不重试
		if delErr := s.provider.DeleteUser(ctx, session.UserID); delErr != nil {
			logger.Error("failed to clean up orphaned identity account",
				zap.String("user_id", session.UserID), zap.Error(delErr))
		}
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to create profile", err)
	}

	return &RegisterResult{
		Message:     "Registration successful",
		AccessToken: session.AccessToken,
		User:        SessionDTO{ID: session.UserID, Email: email, Username: username},
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrProviderRejected) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}
	return &LoginResult{
		AccessToken: session.AccessToken,
		User:        SessionDTO{ID: session.UserID, Email: session.Email},
	}, nil
}

func (s *authService) Me(ctx context.Context, ident *identity.Identity) *MeDTO {
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	p, err := s.profileRepo.GetByID(rctx, ident.ID)
	if err != nil || p == nil {
		if err != nil {
			logger.Warn("auth/me profile lookup degraded", zap.String("user_id", ident.ID), zap.Error(err))
		}
		fallback := "user"
		if at := strings.Index(ident.Email, "@"); at > 0 {
			fallback = ident.Email[:at]
		}
		return &MeDTO{
			ID:          ident.ID,
			Username:    fallback,
			Email:       ident.Email,
			DisplayName: fallback,
			Status:      "Online",
		}
	}

	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Username
	}
	return &MeDTO{
		ID:          p.ID,
		Username:    p.Username,
		Email:       ident.Email,
		AvatarURL:   p.AvatarURL,
		DisplayName: displayName,
		Bio:         p.Bio,
		Status:      "Online",
	}
}
