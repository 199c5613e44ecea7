package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/jam/pkg/apperr"
)

func TestFollowFlow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	_, followSvc, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	_, err := followSvc.Follow(ctx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	f, err := followSvc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, f.FollowerID)
	assert.Equal(t, bob.ID, f.FollowingID)

	_, err = followSvc.Follow(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	// 单向关系
	following := followSvc.Following(ctx, alice.ID)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)
	assert.Empty(t, followSvc.Following(ctx, bob.ID))

	followers := followSvc.Followers(ctx, bob.ID)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	require.NoError(t, followSvc.Unfollow(ctx, alice.ID, bob.ID))
	assert.Empty(t, followSvc.Following(ctx, alice.ID))

	err = followSvc.Unfollow(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
