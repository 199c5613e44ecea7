package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/jam/internal/presence"
	"github.com/d60-Lab/jam/internal/repository"
)

func newTestTracker(t *testing.T) *presence.Tracker {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return presence.NewTracker(rdb, time.Minute)
}

func TestUserList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	tracker := newTestTracker(t)
	svc := NewUserService(repository.NewProfileRepository(db), tracker, 5*time.Second)

	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	seedProfile(t, db, "carol")

	require.NoError(t, tracker.Heartbeat(ctx, bob.ID))

	// 自己不出现在目录里
	page := svc.List(ctx, alice.ID, "", 20, 0)
	assert.EqualValues(t, 2, page.Total)
	users, ok := page.Data.([]*UserDTO)
	require.True(t, ok)
	statusByName := make(map[string]string, len(users))
	for _, u := range users {
		statusByName[u.Username] = u.Status
	}
	assert.Equal(t, "online", statusByName["bob"])
	assert.Equal(t, "offline", statusByName["carol"])

	// 搜索过滤
	page = svc.List(ctx, alice.ID, "bo", 20, 0)
	assert.EqualValues(t, 1, page.Total)
}

func TestUserListWithoutRedis(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	// tracker 未配置时目录可用，所有人离线
	svc := NewUserService(repository.NewProfileRepository(db), nil, 5*time.Second)

	alice := seedProfile(t, db, "alice")
	seedProfile(t, db, "bob")

	page := svc.List(ctx, alice.ID, "", 20, 0)
	assert.EqualValues(t, 1, page.Total)
	users, ok := page.Data.([]*UserDTO)
	require.True(t, ok)
	require.Len(t, users, 1)
	assert.Equal(t, "offline", users[0].Status)
}

func TestOnlineUsers(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	tracker := newTestTracker(t)
	svc := NewUserService(repository.NewProfileRepository(db), tracker, 5*time.Second)

	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	carol := seedProfile(t, db, "carol")

	require.NoError(t, tracker.Heartbeat(ctx, bob.ID))
	require.NoError(t, tracker.Heartbeat(ctx, carol.ID))

	page := svc.Online(ctx, alice.ID, 20, 0)
	assert.EqualValues(t, 2, page.Total)
	users, ok := page.Data.([]*UserDTO)
	require.True(t, ok)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "online", u.Status)
	}

	// offset 超界返回空数据但 total 不变
	page = svc.Online(ctx, alice.ID, 20, 10)
	assert.EqualValues(t, 2, page.Total)
	users, ok = page.Data.([]*UserDTO)
	require.True(t, ok)
	assert.Empty(t, users)
}
