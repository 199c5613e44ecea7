package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/pkg/database"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newProfile(t *testing.T, db *gorm.DB, username string) *model.Profile {
	t.Helper()
	p := &model.Profile{ID: uuid.New().String(), Username: username, DMPrivacy: model.DMPrivacyFriends}
	require.NoError(t, NewProfileRepository(db).Create(context.Background(), p))
	return p
}

func TestConversationFindOrCreateIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	repo := NewConversationRepository(db)

	c1, err := repo.FindOrCreate(ctx, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, c1)

	c2, err := repo.FindOrCreate(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	var count int64
	require.NoError(t, db.Model(&model.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowRepoPairUnique(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	repo := NewFollowRepository(db)

	require.NoError(t, repo.Create(ctx, "a", "b"))
	// 同一对重复关注撞唯一键
	require.Error(t, repo.Create(ctx, "a", "b"))
	// 反方向是另一条关系
	require.NoError(t, repo.Create(ctx, "b", "a"))

	ok, err := repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := repo.Delete(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLikeBatchCounts(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	postRepo := NewPostRepository(db)
	likeRepo := NewLikeRepository(db)
	alice := newProfile(t, db, "alice")
	bob := newProfile(t, db, "bob")

	p1 := &model.Post{AuthorID: alice.ID, Text: "p1"}
	p2 := &model.Post{AuthorID: alice.ID, Text: "p2"}
	require.NoError(t, postRepo.Create(ctx, p1))
	require.NoError(t, postRepo.Create(ctx, p2))

	require.NoError(t, likeRepo.Create(ctx, p1.ID, alice.ID))
	require.NoError(t, likeRepo.Create(ctx, p1.ID, bob.ID))
	require.NoError(t, likeRepo.Create(ctx, p2.ID, bob.ID))

	counts, err := likeRepo.CountByPosts(ctx, []string{p1.ID, p2.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[p1.ID])
	assert.EqualValues(t, 1, counts[p2.ID])
	assert.EqualValues(t, 0, counts["missing"])

	liked, err := likeRepo.ExistsByPosts(ctx, alice.ID, []string{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.True(t, liked[p1.ID])
	assert.False(t, liked[p2.ID])

	// 匿名 viewer 不查点赞状态
	liked, err = likeRepo.ExistsByPosts(ctx, "", []string{p1.ID})
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestCommentCountsByParents(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	postRepo := NewPostRepository(db)
	alice := newProfile(t, db, "alice")

	root := &model.Post{AuthorID: alice.ID, Text: "root"}
	require.NoError(t, postRepo.Create(ctx, root))
	for i := 0; i < 3; i++ {
		c := &model.Post{AuthorID: alice.ID, ParentID: &root.ID, Text: "c"}
		require.NoError(t, postRepo.Create(ctx, c))
	}

	counts, err := postRepo.CountCommentsByParents(ctx, []string{root.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[root.ID])

	// 删帖带走评论
	require.NoError(t, postRepo.Delete(ctx, root.ID))
	var remaining int64
	require.NoError(t, db.Model(&model.Post{}).Count(&remaining).Error)
	assert.EqualValues(t, 0, remaining)
}

func TestMessageLastByConversations(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	convRepo := NewConversationRepository(db)
	msgRepo := NewMessageRepository(db)

	conv, err := convRepo.FindOrCreate(ctx, "a", "b")
	require.NoError(t, err)

	first := &model.Message{ConversationID: conv.ID, SenderID: "a", Text: "first"}
	require.NoError(t, msgRepo.Create(ctx, first))
	last := &model.Message{ConversationID: conv.ID, SenderID: "b", Text: "last"}
	require.NoError(t, msgRepo.Create(ctx, last))

	lasts, err := msgRepo.LastByConversations(ctx, []string{conv.ID})
	require.NoError(t, err)
	require.Contains(t, lasts, conv.ID)
	assert.Equal(t, last.ID, lasts[conv.ID].ID)
}

func TestBlockExistsBetween(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	repo := NewBlockRepository(db)

	_, err := repo.Create(ctx, "a", "b")
	require.NoError(t, err)

	// 方向敏感
	ok, err := repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, "b", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	// 对称判定
	ok, err = repo.ExistsBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProfileSearch(t *testing.T) {
	ctx := context.Background()
	db := setupRepoDB(t)
	repo := NewProfileRepository(db)
	newProfile(t, db, "alice")
	newProfile(t, db, "alicia")
	bob := newProfile(t, db, "bob")

	total, err := repo.Count(ctx, "ali", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	res, err := repo.List(ctx, "ALI", "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	// 排除指定用户
	total, err = repo.Count(ctx, "", bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	taken, err := repo.UsernameTaken(ctx, "bob", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.UsernameTaken(ctx, "bob", bob.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
