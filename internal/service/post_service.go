package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

const (
	defaultFeedPageSize    = 20
	defaultCommentPageSize = 20
)

// CreatePostInput 发帖：文字和语音至少给一个
type CreatePostInput struct {
	Text       string
	AudioURL   string
	Visibility string
}

// CreateCommentInput 评论
type CreateCommentInput struct {
	Content  string
	AudioURL string
}

// LikedUserDTO 点赞人列表条目
type LikedUserDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	LikedAt     string `json:"liked_at"`
}

type PostService interface {
	Create(ctx context.Context, authorID string, in CreatePostInput) (*PostDTO, error)
	GetByID(ctx context.Context, postID, viewerID string) (*PostDTO, error)
	Delete(ctx context.Context, postID, userID string) error
	// ToggleLike 点赞开关：已赞取消、未赞新增，返回富化后的帖子
	ToggleLike(ctx context.Context, postID, userID string) (*PostDTO, error)
	Likes(ctx context.Context, postID string) ([]*LikedUserDTO, error)
	Feed(ctx context.Context, viewerID string, limit, offset int) response.Page
	Comments(ctx context.Context, postID, viewerID string, limit, offset int, asc bool) (response.Page, error)
	CreateComment(ctx context.Context, postID, authorID string, in CreateCommentInput) (*CommentDTO, error)
	PostsByUsername(ctx context.Context, username, viewerID string, limit, offset int) (response.Page, error)
}

type postService struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	profileRepo repository.ProfileRepository
	readTimeout time.Duration
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository,
	profileRepo repository.ProfileRepository, readTimeout time.Duration) PostService {
	return &postService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		profileRepo: profileRepo,
		readTimeout: readTimeout,
	}
}

func (s *postService) Create(ctx context.Context, authorID string, in CreatePostInput) (*PostDTO, error) {
	if in.Text == "" && in.AudioURL == "" {
		return nil, apperr.BadRequest("Post must have either text or audio")
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if visibility != model.VisibilityPublic && visibility != model.VisibilityFollowers {
		return nil, apperr.BadRequest("visibility must be 'public' or 'followers'")
	}
	p := &model.Post{
		AuthorID:   authorID,
		Text:       in.Text,
		AudioURL:   in.AudioURL,
		Visibility: visibility,
	}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to create post", err)
	}
	return s.GetByID(ctx, p.ID, authorID)
}

func (s *postService) GetByID(ctx context.Context, postID, viewerID string) (*PostDTO, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Post not found")
	}
	dtos, err := s.enrichPosts(ctx, []*model.Post{p}, viewerID)
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

func (s *postService) Delete(ctx context.Context, postID, userID string) error {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("Post not found")
	}
	if p.AuthorID != userID {
		return apperr.Forbidden("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *postService) ToggleLike(ctx context.Context, postID, userID string) (*PostDTO, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Post not found")
	}
	liked, err := s.likeRepo.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		if err := s.likeRepo.Delete(ctx, postID, userID); err != nil {
			return nil, err
		}
	} else {
		// 并发重复点赞由 (post_id, user_id) 唯一键兜底
		if err := s.likeRepo.Create(ctx, postID, userID); err != nil {
			return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to like post", err)
		}
	}
	return s.GetByID(ctx, postID, userID)
}

func (s *postService) Likes(ctx context.Context, postID string) ([]*LikedUserDTO, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Post not found")
	}
	likes, err := s.likeRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	res := make([]*LikedUserDTO, len(likes))
	for i, l := range likes {
		res[i] = &LikedUserDTO{
			ID:          l.Profile.ID,
			Username:    l.Profile.Username,
			DisplayName: l.Profile.DisplayName,
			AvatarURL:   l.Profile.AvatarURL,
			LikedAt:     l.LikedAt.UTC().Format(time.RFC3339),
		}
	}
	return res, nil
}

// Feed 全局信息流。读路径降级：超时或存储错误时回空页而非报错。
func (s *postService) Feed(ctx context.Context, viewerID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultFeedPageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.postRepo.CountFeed(rctx, viewerID)
	if err != nil {
		logger.Warn("feed degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	posts, err := s.postRepo.ListFeed(rctx, viewerID, offset, limit)
	if err != nil {
		logger.Warn("feed degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	dtos, err := s.enrichPosts(rctx, posts, viewerID)
	if err != nil {
		logger.Warn("feed degraded to empty page", zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	return response.NewPage(dtos, limit, offset, total)
}

func (s *postService) Comments(ctx context.Context, postID, viewerID string, limit, offset int, asc bool) (response.Page, error) {
	limit, offset = normalizePage(limit, offset, defaultCommentPageSize)
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return response.Page{}, err
	}
	if p == nil {
		return response.Page{}, apperr.NotFound("Post not found")
	}

	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.postRepo.CountComments(rctx, postID)
	if err != nil {
		logger.Warn("comments degraded to empty page", zap.String("post_id", postID), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	comments, err := s.postRepo.ListComments(rctx, postID, asc, offset, limit)
	if err != nil {
		logger.Warn("comments degraded to empty page", zap.String("post_id", postID), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	dtos, err := s.enrichComments(rctx, comments, viewerID)
	if err != nil {
		logger.Warn("comments degraded to empty page", zap.String("post_id", postID), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	return response.NewPage(dtos, limit, offset, total), nil
}

func (s *postService) CreateComment(ctx context.Context, postID, authorID string, in CreateCommentInput) (*CommentDTO, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Post not found")
	}
	if in.Content == "" && in.AudioURL == "" {
		return nil, apperr.BadRequest("Comment must have either content or audio_url")
	}
	c := &model.Post{
		AuthorID: authorID,
		ParentID: &postID,
		Text:     in.Content,
		AudioURL: in.AudioURL,
	}
	if err := s.postRepo.Create(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to create comment", err)
	}
	author, err := s.profileRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return &CommentDTO{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Author:    authorDTO(author),
		Text:      c.Text,
		AudioURL:  c.AudioURL,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *postService) PostsByUsername(ctx context.Context, username, viewerID string, limit, offset int) (response.Page, error) {
	limit, offset = normalizePage(limit, offset, defaultFeedPageSize)
	author, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return response.Page{}, err
	}
	if author == nil {
		return response.Page{}, apperr.NotFound("User not found")
	}

	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.postRepo.CountByAuthor(rctx, author.ID)
	if err != nil {
		logger.Warn("user posts degraded to empty page", zap.String("username", username), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	posts, err := s.postRepo.ListByAuthor(rctx, author.ID, offset, limit)
	if err != nil {
		logger.Warn("user posts degraded to empty page", zap.String("username", username), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	dtos, err := s.enrichPosts(rctx, posts, viewerID)
	if err != nil {
		logger.Warn("user posts degraded to empty page", zap.String("username", username), zap.Error(err))
		return response.EmptyPage(limit, offset), nil
	}
	return response.NewPage(dtos, limit, offset, total), nil
}

// enrichPosts 批量富化：作者、点赞数、评论数、当前用户是否点赞，
// 均按本页帖子 ID 集合一次取回，不做逐行点查。
func (s *postService) enrichPosts(ctx context.Context, posts []*model.Post, viewerID string) ([]*PostDTO, error) {
	ids := make([]string, len(posts))
	authorIDs := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.profileRepo.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[string]*model.Profile, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}
	likeCounts, err := s.likeRepo.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.postRepo.CountCommentsByParents(ctx, ids)
	if err != nil {
		return nil, err
	}
	likedByViewer, err := s.likeRepo.ExistsByPosts(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*PostDTO, len(posts))
	for i, p := range posts {
		res[i] = &PostDTO{
			ID:            p.ID,
			AuthorID:      p.AuthorID,
			Text:          p.Text,
			AudioURL:      p.AudioURL,
			Visibility:    p.Visibility,
			CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
			Author:        authorDTO(authorByID[p.AuthorID]),
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
			IsLiked:       likedByViewer[p.ID],
		}
	}
	return res, nil
}

func (s *postService) enrichComments(ctx context.Context, comments []*model.Post, viewerID string) ([]*CommentDTO, error) {
	dtos, err := s.enrichPosts(ctx, comments, viewerID)
	if err != nil {
		return nil, err
	}
	res := make([]*CommentDTO, len(dtos))
	for i, d := range dtos {
		res[i] = &CommentDTO{
			ID:         d.ID,
			AuthorID:   d.AuthorID,
			Author:     d.Author,
			Text:       d.Text,
			AudioURL:   d.AudioURL,
			CreatedAt:  d.CreatedAt,
			LikesCount: d.LikesCount,
			IsLiked:    d.IsLiked,
		}
	}
	return res, nil
}
