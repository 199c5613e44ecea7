package service

import (
	"context"
	"time"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
)

// UpdateProfileInput 资料部分更新，nil 字段表示不改
type UpdateProfileInput struct {
	Username    *string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	DMPrivacy   *string
}

type ProfileService interface {
	GetByID(ctx context.Context, userID string) (*ProfileDTO, error)
	GetByUsername(ctx context.Context, username string) (*ProfileDTO, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*ProfileDTO, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetByID(ctx context.Context, userID string) (*ProfileDTO, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Profile not found")
	}
	return profileDTO(p), nil
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*ProfileDTO, error) {
	p, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Profile not found")
	}
	return profileDTO(p), nil
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*ProfileDTO, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Profile not found")
	}

	if in.Username != nil && *in.Username != p.Username {
		taken, err := s.profileRepo.UsernameTaken(ctx, *in.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.BadRequest("Username already taken")
		}
		p.Username = *in.Username
	}
	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.DMPrivacy != nil {
		if *in.DMPrivacy != model.DMPrivacyFriends && *in.DMPrivacy != model.DMPrivacyEveryone {
			return nil, apperr.BadRequest("dm_privacy must be 'friends' or 'everyone'")
		}
		p.DMPrivacy = *in.DMPrivacy
	}
	p.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to update profile", err)
	}
	return profileDTO(p), nil
}
