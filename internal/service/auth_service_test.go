package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/jam/internal/identity"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/pkg/apperr"
)

// fakeProvider 内存身份服务，记录补偿删除的调用
type fakeProvider struct {
	users     map[string]string // email -> userID
	nextID    string            // 非空时固定分配的用户 ID
	signUpErr error
	deleted   []string
	deleteErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: make(map[string]string)}
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string) (*identity.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if _, ok := f.users[email]; ok {
		return nil, identity.ErrProviderRejected
	}
	id := f.nextID
	if id == "" {
		id = uuid.New().String()
	}
	f.users[email] = id
	return &identity.Session{UserID: id, Email: email, AccessToken: "token-" + id}, nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*identity.Session, error) {
	id, ok := f.users[email]
	if !ok || password == "wrong" {
		return nil, identity.ErrProviderRejected
	}
	return &identity.Session{UserID: id, Email: email, AccessToken: "token-" + id}, nil
}

func (f *fakeProvider) DeleteUser(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, userID)
	for email, id := range f.users {
		if id == userID {
			delete(f.users, email)
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	provider := newFakeProvider()
	svc := NewAuthService(provider, profileRepo, 5*time.Second)

	res, err := svc.Register(ctx, "alice@example.com", "secret123", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "alice", res.User.Username)

	p, err := profileRepo.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.Username)
	assert.Contains(t, p.AvatarURL, "dicebear")

	// 用户名占用在建号之前拦截，不触发身份服务
	_, err = svc.Register(ctx, "other@example.com", "secret123", "alice")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	_, signedUp := provider.users["other@example.com"]
	assert.False(t, signedUp)

	// 身份服务拒绝
	_, err = svc.Register(ctx, "alice@example.com", "secret123", "alice2")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestRegisterCompensation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	provider := newFakeProvider()
	svc := NewAuthService(provider, profileRepo, 5*time.Second)

	// 让身份服务分配一个已被占用的主键，资料落库必然失败
	existing := seedProfile(t, db, "occupant")
	provider.nextID = existing.ID

	_, err := svc.Register(ctx, "b@example.com", "secret123", "newcomer")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	// 建号成功但资料写入失败，账号被补偿删除
	assert.Equal(t, []string{existing.ID}, provider.deleted)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	provider := newFakeProvider()
	svc := NewAuthService(provider, profileRepo, 5*time.Second)

	reg, err := svc.Register(ctx, "alice@example.com", "secret123", "alice")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	provider := newFakeProvider()
	svc := NewAuthService(provider, profileRepo, 5*time.Second)

	reg, err := svc.Register(ctx, "alice@example.com", "secret123", "alice")
	require.NoError(t, err)

	me := svc.Me(ctx, &identity.Identity{ID: reg.User.ID, Email: "alice@example.com"})
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "Online", me.Status)

	// 资料缺失时退化为邮箱前缀，不报错
	me = svc.Me(ctx, &identity.Identity{ID: "ghost", Email: "ghost@example.com"})
	assert.Equal(t, "ghost", me.Username)
	assert.Equal(t, "ghost", me.DisplayName)
}

func TestRegisterProviderError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := newFakeProvider()
	provider.signUpErr = errors.New("connection refused")
	svc := NewAuthService(provider, repository.NewProfileRepository(db), 5*time.Second)

	// 非业务拒绝的传输错误按内部错误上抛
	_, err := svc.Register(ctx, "a@example.com", "secret123", "alice")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}
