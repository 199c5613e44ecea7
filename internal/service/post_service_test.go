package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/pkg/apperr"
)

func TestCreatePostValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")

	_, err := postSvc.Create(ctx, alice.ID, CreatePostInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	_, err = postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "hi", Visibility: "everyone"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	p, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, p.Visibility)
	assert.Equal(t, "alice", p.Author.Username)
	assert.EqualValues(t, 0, p.LikesCount)
	assert.False(t, p.IsLiked)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	p, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "hello world"})
	require.NoError(t, err)

	liked, err := postSvc.ToggleLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, liked.LikesCount)
	assert.True(t, liked.IsLiked)

	// 再点一次取消
	unliked, err := postSvc.ToggleLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unliked.LikesCount)
	assert.False(t, unliked.IsLiked)

	_, err = postSvc.ToggleLike(ctx, "missing", bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestFeedVisibility(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, followSvc, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	carol := seedProfile(t, db, "carol")

	_, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "public post"})
	require.NoError(t, err)
	_, err = postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "followers only", Visibility: model.VisibilityFollowers})
	require.NoError(t, err)

	// 路人只看得到公开帖
	page := postSvc.Feed(ctx, carol.ID, 20, 0)
	posts, ok := page.Data.([]*PostDTO)
	require.True(t, ok)
	require.Len(t, posts, 1)
	assert.Equal(t, "public post", posts[0].Text)

	// 粉丝两条都能看
	_, err = followSvc.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	page = postSvc.Feed(ctx, bob.ID, 20, 0)
	posts, ok = page.Data.([]*PostDTO)
	require.True(t, ok)
	assert.Len(t, posts, 2)

	// 作者总能看到自己的
	page = postSvc.Feed(ctx, alice.ID, 20, 0)
	posts, ok = page.Data.([]*PostDTO)
	require.True(t, ok)
	assert.Len(t, posts, 2)
}

func TestFeedPagination(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")

	for i := 0; i < 7; i++ {
		_, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "post"})
		require.NoError(t, err)
	}

	page := postSvc.Feed(ctx, alice.ID, 5, 0)
	assert.EqualValues(t, 7, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, 5, page.Limit)

	page = postSvc.Feed(ctx, alice.ID, 5, 5)
	assert.False(t, page.HasMore)
	posts, ok := page.Data.([]*PostDTO)
	require.True(t, ok)
	assert.Len(t, posts, 2)

	// limit 超上限被封顶
	page = postSvc.Feed(ctx, alice.ID, 1000, 0)
	assert.Equal(t, 100, page.Limit)
}

func TestDeletePostOwnership(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	p, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "mine"})
	require.NoError(t, err)

	err = postSvc.Delete(ctx, p.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	require.NoError(t, postSvc.Delete(ctx, p.ID, alice.ID))

	err = postSvc.Delete(ctx, p.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	p, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "root"})
	require.NoError(t, err)

	_, err = postSvc.CreateComment(ctx, p.ID, bob.ID, CreateCommentInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	c, err := postSvc.CreateComment(ctx, p.ID, bob.ID, CreateCommentInput{Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Author.Username)

	_, err = postSvc.CreateComment(ctx, "missing", bob.ID, CreateCommentInput{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	page, err := postSvc.Comments(ctx, p.ID, bob.ID, 20, 0, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	// 评论不进信息流，但计入父帖评论数
	feed := postSvc.Feed(ctx, alice.ID, 20, 0)
	posts, ok := feed.Data.([]*PostDTO)
	require.True(t, ok)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 1, posts[0].CommentsCount)

	_, err = postSvc.Comments(ctx, "missing", bob.ID, 20, 0, true)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestPostsByUsername(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	_, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "one"})
	require.NoError(t, err)
	_, err = postSvc.Create(ctx, bob.ID, CreatePostInput{Text: "two"})
	require.NoError(t, err)

	page, err := postSvc.PostsByUsername(ctx, "alice", bob.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = postSvc.PostsByUsername(ctx, "nobody", bob.ID, 20, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestPostLikesList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	postSvc, _, _, _, _ := newTestServices(db)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	p, err := postSvc.Create(ctx, alice.ID, CreatePostInput{Text: "likeable"})
	require.NoError(t, err)
	_, err = postSvc.ToggleLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)

	likes, err := postSvc.Likes(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "bob", likes[0].Username)
}
