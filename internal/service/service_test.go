package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/database"
	"github.com/d60-Lab/jam/pkg/response"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, username string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: username,
		DMPrivacy:   model.DMPrivacyFriends,
	}
	require.NoError(t, repository.NewProfileRepository(db).Create(context.Background(), p))
	return p
}

func newTestServices(db *gorm.DB) (PostService, FollowService, FriendService, BlockService, MessageService) {
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	convRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	const rt = 5 * time.Second
	return NewPostService(postRepo, likeRepo, profileRepo, rt),
		NewFollowService(followRepo, rt),
		NewFriendService(friendRepo, profileRepo, rt),
		NewBlockService(blockRepo, rt),
		NewMessageService(messageRepo, convRepo, profileRepo, friendRepo, blockRepo, rt)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -3, 20, 0},
		{50, 10, 50, 10},
		{500, 0, 100, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("limit=%d offset=%d", tc.limit, tc.offset), func(t *testing.T) {
			l, o := normalizePage(tc.limit, tc.offset, 20)
			require.Equal(t, tc.wantLimit, l)
			require.Equal(t, tc.wantOffset, o)
		})
	}
}

func TestListReadsDegradeToEmptyPage(t *testing.T) {
	db := setupTestDB(t)
	alice := seedProfile(t, db, "alice")
	postSvc, followSvc, friendSvc, blockSvc, msgSvc := newTestServices(db)
	ctx := context.Background()

	_, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "still here"})
	require.NoError(t, err)

	// 底层连接关闭后，列表读回空页而非报错
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cases := []struct {
		name string
		page response.Page
	}{
		{"feed", postSvc.Feed(ctx, alice.ID, 0, 0)},
		{"friends", friendSvc.Friends(ctx, alice.ID, 0, 0)},
		{"requests", friendSvc.Requests(ctx, alice.ID, 0, 0)},
		{"blocked", blockSvc.Blocked(ctx, alice.ID, 0, 0)},
		{"conversations", msgSvc.Conversations(ctx, alice.ID, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Zero(t, tc.page.Total)
			require.False(t, tc.page.HasMore)
			require.Empty(t, tc.page.Data)
		})
	}
	require.Empty(t, followSvc.Following(ctx, alice.ID))
	require.Empty(t, followSvc.Followers(ctx, alice.ID))

	// 写路径不降级，错误照常上抛
	_, err = postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "must fail"})
	require.Error(t, err)
	_, err = followSvc.Follow(ctx, alice.ID, uuid.New().String())
	require.Error(t, err)
}

func TestCanonicalPair(t *testing.T) {
	a, b := canonicalPair("zed", "abe")
	require.Equal(t, "abe", a)
	require.Equal(t, "zed", b)

	a2, b2 := canonicalPair("abe", "zed")
	require.Equal(t, a, a2)
	require.Equal(t, b, b2)
}
