package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/d60-Lab/jam/config"
	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// 往库里灌测试数据：资料、关注、好友、帖子、点赞、私信。
// 身份服务不参与，直接按随机 UUID 造 profile。
func main() {
	gofakeit.Seed(time.Now().UnixNano())

	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	N := 50
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			N = n
		}
	}

	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	convRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	ctx := context.Background()

	ids := make([]string, N)
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		ids[i] = id
		username := gofakeit.Username() + id[:4]
		privacy := model.DMPrivacyFriends
		if gofakeit.Bool() {
			privacy = model.DMPrivacyEveryone
		}
		must(0, profileRepo.Create(ctx, &model.Profile{
			ID:          id,
			Username:    username,
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(8),
			AvatarURL:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username,
			DMPrivacy:   privacy,
		}))
	}
	fmt.Printf("seeded %d profiles\n", N)

	posts := 0
	for _, id := range ids {
		for j := 0; j < gofakeit.Number(0, 5); j++ {
			visibility := model.VisibilityPublic
			if gofakeit.Bool() {
				visibility = model.VisibilityFollowers
			}
			must(0, postRepo.Create(ctx, &model.Post{
				AuthorID:   id,
				Text:       gofakeit.Sentence(gofakeit.Number(5, 20)),
				Visibility: visibility,
			}))
			posts++
		}
	}
	fmt.Printf("seeded %d posts\n", posts)

	follows := 0
	for _, a := range ids {
		for j := 0; j < gofakeit.Number(0, 8); j++ {
			b := ids[gofakeit.Number(0, N-1)]
			if a == b {
				continue
			}
			if err := followRepo.Create(ctx, a, b); err == nil {
				follows++
			}
		}
	}
	fmt.Printf("seeded %d follows\n", follows)

	friends := 0
	for i := 0; i+1 < N; i += 2 {
		f := &model.Friend{UserID: ids[i], FriendID: ids[i+1], Status: model.FriendStatusAccepted}
		if err := friendRepo.Create(ctx, f); err == nil {
			friends++
		}
	}
	fmt.Printf("seeded %d friendships\n", friends)

	feed, err := postRepo.ListFeed(ctx, ids[0], 0, 100)
	if err == nil {
		likes := 0
		for _, p := range feed {
			for _, id := range ids[:min(10, N)] {
				if gofakeit.Bool() {
					if err := likeRepo.Create(ctx, p.ID, id); err == nil {
						likes++
					}
				}
			}
		}
		fmt.Printf("seeded %d likes\n", likes)
	}

	msgs := 0
	for i := 0; i+1 < N; i += 2 {
		a, b := ids[i], ids[i+1]
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		conv, err := convRepo.FindOrCreate(ctx, lo, hi)
		if err != nil {
			continue
		}
		for j := 0; j < gofakeit.Number(1, 6); j++ {
			sender := a
			if j%2 == 1 {
				sender = b
			}
			if err := messageRepo.Create(ctx, &model.Message{
				ConversationID: conv.ID,
				SenderID:       sender,
				Text:           gofakeit.HipsterSentence(gofakeit.Number(3, 12)),
			}); err == nil {
				msgs++
			}
		}
	}
	fmt.Printf("seeded %d messages\n", msgs)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
