package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrProviderRejected 身份服务拒绝了操作（凭证错误、邮箱已注册等）
var ErrProviderRejected = errors.New("identity provider rejected request")

// Client GoTrue 兼容身份服务的 HTTP 客户端
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionBody struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	// signup 响应的扁平形式
	ID    string `json:"id"`
	Email string `json:"email"`
	Msg   string `json:"msg"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.post(ctx, "/auth/v1/signup", credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return body.session()
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.post(ctx, "/auth/v1/token?grant_type=password", credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return body.session()
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete user %s: status %d", userID, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*sessionBody, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}
	var body sessionBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func (b *sessionBody) session() (*Session, error) {
	s := &Session{AccessToken: b.AccessToken, UserID: b.User.ID, Email: b.User.Email}
	if s.UserID == "" {
		s.UserID = b.ID
		s.Email = b.Email
	}
	if s.UserID == "" {
		return nil, ErrProviderRejected
	}
	return s, nil
}
