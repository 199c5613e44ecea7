package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/jam/config"
	"github.com/d60-Lab/jam/internal/model"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/internal/service"
	"github.com/d60-Lab/jam/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

// 信息流读路径压测：批量富化（作者/点赞数/评论数/是否已赞）
// 在 N 个用户、P 条帖子、平均 F 条关注下的单页延迟。
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	N := 2000
	P := 20000
	F := 50
	READS := 500
	PAGE := 20
	if s := os.Getenv("N"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { N = v } }
	if s := os.Getenv("P"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { P = v } }
	if s := os.Getenv("F"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { F = v } }
	if s := os.Getenv("READS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { READS = v } }
	if s := os.Getenv("PAGE"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { PAGE = v } }

	// 本地压测用，清空后重灌
	_ = db.Exec("TRUNCATE TABLE likes, posts, follows, profiles RESTART IDENTITY CASCADE").Error

	ctx := context.Background()
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postSvc := service.NewPostService(postRepo, likeRepo, profileRepo, 30*time.Second)

	ids := make([]string, N)
	profiles := make([]model.Profile, N)
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		ids[i] = id
		profiles[i] = model.Profile{ID: id, Username: "u" + id[:8], DMPrivacy: model.DMPrivacyFriends}
	}
	must(0, db.CreateInBatches(&profiles, 1000).Error)

	posts := make([]model.Post, P)
	for i := 0; i < P; i++ {
		visibility := model.VisibilityPublic
		if i%3 == 0 {
			visibility = model.VisibilityFollowers
		}
		posts[i] = model.Post{
			ID:         uuid.New().String(),
			AuthorID:   ids[i%N],
			Text:       fmt.Sprintf("post %d", i),
			Visibility: visibility,
		}
	}
	must(0, db.CreateInBatches(&posts, 1000).Error)

	for i := 0; i < N; i++ {
		for j := 1; j <= F; j++ {
			_ = followRepo.Create(ctx, ids[i], ids[(i+j)%N])
		}
	}
	for i := 0; i < P; i += 7 {
		_ = likeRepo.Create(ctx, posts[i].ID, ids[i%N])
	}

	reads := make([]time.Duration, 0, READS)
	for i := 0; i < READS; i++ {
		viewer := ids[i%N]
		st := time.Now()
		page := postSvc.Feed(ctx, viewer, PAGE, 0)
		reads = append(reads, time.Since(st))
		if i == 0 {
			fmt.Printf("first page: total=%d\n", page.Total)
		}
	}

	var sum time.Duration
	for _, d := range reads { sum += d }
	fmt.Printf("N=%d P=%d F=%d READS=%d PAGE=%d\n", N, P, F, READS, PAGE)
	fmt.Printf("Feed read latency: avg=%v p95=%v p99=%v\n",
		sum/time.Duration(len(reads)), pct(reads, 0.95), pct(reads, 0.99))
}
