package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

const defaultMessagePageSize = 50

// SendMessageInput 发私信：文字和语音至少给一个
type SendMessageInput struct {
	RecipientID string
	Text        string
	AudioURL    string
}

type MessageService interface {
	// Send 门禁顺序固定：自发 → 内容 → 双向拉黑一票否决 →
	// 收件人存在 → 好友或对方开放 everyone。通过后按有序
	// 用户对查/建会话再落消息。
	Send(ctx context.Context, senderID string, in SendMessageInput) (*MessageDTO, error)
	Conversations(ctx context.Context, userID string, limit, offset int) response.Page
	// MessagesWith 与某人的消息，页内时间升序；尚无会话返回空页
	MessagesWith(ctx context.Context, userID, otherID string, limit, offset int) response.Page
	Delete(ctx context.Context, messageID, userID string) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	convRepo    repository.ConversationRepository
	profileRepo repository.ProfileRepository
	friendRepo  repository.FriendRepository
	blockRepo   repository.BlockRepository
	readTimeout time.Duration
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	profileRepo repository.ProfileRepository,
	friendRepo repository.FriendRepository,
	blockRepo repository.BlockRepository,
	readTimeout time.Duration,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		convRepo:    convRepo,
		profileRepo: profileRepo,
		friendRepo:  friendRepo,
		blockRepo:   blockRepo,
		readTimeout: readTimeout,
	}
}

func (s *messageService) Send(ctx context.Context, senderID string, in SendMessageInput) (*MessageDTO, error) {
	if senderID == in.RecipientID {
		return nil, apperr.BadRequest("You cannot send message to yourself")
	}
	if in.Text == "" && in.AudioURL == "" {
		return nil, apperr.BadRequest("Message must have either text or audio")
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, senderID, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperr.Forbidden("Cannot send message to this user")
	}

	recipient, err := s.profileRepo.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, apperr.NotFound("Recipient not found")
	}

	areFriends, err := s.friendRepo.AreFriends(ctx, senderID, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if !areFriends && recipient.DMPrivacy != model.DMPrivacyEveryone {
		return nil, apperr.Forbidden("You can only send messages to friends or users who allow messages from everyone")
	}

	user1, user2 := canonicalPair(senderID, in.RecipientID)
	conv, err := s.convRepo.FindOrCreate(ctx, user1, user2)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to create conversation", err)
	}

	m := &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           in.Text,
		AudioURL:       in.AudioURL,
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Failed to send message", err)
	}
	return messageDTO(m), nil
}

func (s *messageService) Conversations(ctx context.Context, userID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultMessagePageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	total, err := s.convRepo.CountByUser(rctx, userID)
	if err != nil {
		logger.Warn("conversations degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	convs, err := s.convRepo.ListByUser(rctx, userID, offset, limit)
	if err != nil {
		logger.Warn("conversations degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}

	convIDs := make([]string, len(convs))
	otherIDs := make([]string, len(convs))
	for i, c := range convs {
		convIDs[i] = c.ID
		if c.User1ID == userID {
			otherIDs[i] = c.User2ID
		} else {
			otherIDs[i] = c.User1ID
		}
	}
	profiles, err := s.profileRepo.ListByIDs(rctx, otherIDs)
	if err != nil {
		logger.Warn("conversations degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	profileByID := make(map[string]*model.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}
	lastMsgs, err := s.messageRepo.LastByConversations(rctx, convIDs)
	if err != nil {
		logger.Warn("conversations degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}

	data := make([]*ConversationDTO, len(convs))
	for i, c := range convs {
		dto := &ConversationDTO{ID: c.ID, UpdatedAt: c.CreatedAt.UTC().Format(time.RFC3339)}
		if p, ok := profileByID[otherIDs[i]]; ok {
			a := authorDTO(p)
			dto.OtherUser = &a
		}
		if m, ok := lastMsgs[c.ID]; ok {
			dto.LastMsg = messageDTO(m)
			dto.UpdatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
		}
		data[i] = dto
	}
	// 最近活跃的会话排前面
	sort.SliceStable(data, func(i, j int) bool { return data[i].UpdatedAt > data[j].UpdatedAt })

	return response.NewPage(data, limit, offset, total)
}

func (s *messageService) MessagesWith(ctx context.Context, userID, otherID string, limit, offset int) response.Page {
	limit, offset = normalizePage(limit, offset, defaultMessagePageSize)
	rctx, cancel := readCtx(ctx, s.readTimeout)
	defer cancel()

	user1, user2 := canonicalPair(userID, otherID)
	conv, err := s.convRepo.GetByPair(rctx, user1, user2)
	if err != nil {
		logger.Warn("messages degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	if conv == nil {
		return response.EmptyPage(limit, offset)
	}

	total, err := s.messageRepo.CountByConversation(rctx, conv.ID)
	if err != nil {
		logger.Warn("messages degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}
	msgs, err := s.messageRepo.ListByConversation(rctx, conv.ID, offset, limit)
	if err != nil {
		logger.Warn("messages degraded to empty page", zap.String("user_id", userID), zap.Error(err))
		return response.EmptyPage(limit, offset)
	}

	// 倒序取页再反转，页内旧消息在前
	data := make([]*MessageDTO, len(msgs))
	for i, m := range msgs {
		data[len(msgs)-1-i] = messageDTO(m)
	}
	return response.NewPage(data, limit, offset, total)
}

func (s *messageService) Delete(ctx context.Context, messageID, userID string) error {
	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("Message not found")
	}
	if m.SenderID != userID {
		return apperr.Forbidden("You can only delete your own messages")
	}
	return s.messageRepo.Delete(ctx, messageID)
}
