package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
)

func strPtr(s string) *string { return &s }

func TestProfileGet(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db))
	alice := seedProfile(t, db, "alice")

	p, err := svc.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, model.DMPrivacyFriends, p.DMPrivacy)

	p, err = svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.ID)

	_, err = svc.GetByUsername(ctx, "nobody")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db))
	alice := seedProfile(t, db, "alice")
	seedProfile(t, db, "bob")

	// 部分字段更新，未给的字段保持不变
	p, err := svc.Update(ctx, alice.ID, UpdateProfileInput{Bio: strPtr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "alice", p.Username)

	_, err = svc.Update(ctx, alice.ID, UpdateProfileInput{Username: strPtr("bob")})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	// 改回自己的用户名不算占用
	p, err = svc.Update(ctx, alice.ID, UpdateProfileInput{Username: strPtr("alice")})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	_, err = svc.Update(ctx, alice.ID, UpdateProfileInput{DMPrivacy: strPtr("anyone")})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	p, err = svc.Update(ctx, alice.ID, UpdateProfileInput{DMPrivacy: strPtr(model.DMPrivacyEveryone)})
	require.NoError(t, err)
	assert.Equal(t, model.DMPrivacyEveryone, p.DMPrivacy)

	_, err = svc.Update(ctx, "missing", UpdateProfileInput{Bio: strPtr("x")})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
