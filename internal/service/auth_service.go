package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"
	"github.com/kevinpauljacob/cal/internal/pkg/redis"
	"github.com/kevinpauljacob/cal/internal/pkg/security"
	"github.com/kevinpauljacob/cal/internal/pkg/util"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	pkceSessionTTL   = 10 * time.Minute
	oauthHTTPTimeout = 20 * time.Second
	defaultRedirect  = "/create"
)

type AuthService interface {
	// BeginLogin 生成本次请求独立的 state 与 PKCE verifier，返回授权地址
	BeginLogin(ctx context.Context, redirect string) (string, error)
	// CompleteLogin 一次性消费 state，换取 token 后签发 JWT
	CompleteLogin(ctx context.Context, state, code string) (*dto.LoginResultDTO, error)
	// Logout 将 token 加入黑名单直到过期
	Logout(ctx context.Context, token string) error
}

// pkceSession 存放在 redis 中的登录会话
type pkceSession struct {
	Verifier string `json:"verifier"`
	Redirect string `json:"redirect"`
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

type authServiceImpl struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewAuthService(cfg config.OAuthConfig) AuthService {
	return &authServiceImpl{
		oauth:       NewOAuthConfig(cfg),
		userInfoURL: cfg.UserInfoURL,
	}
}

func NewOAuthConfig(cfg config.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      cfg.Scopes,
	}
}

// AuthCodeURL 生成携带 S256 challenge 的授权地址
func AuthCodeURL(conf *oauth2.Config, state, verifier string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
}

func (s *authServiceImpl) BeginLogin(ctx context.Context, redirect string) (string, error) {
	state := uuid.New().String()
	session := pkceSession{
		Verifier: oauth2.GenerateVerifier(),
		Redirect: util.SafeRedirect(redirect, defaultRedirect),
	}
	if err := redis.SetJSONWithExpiration(ctx, consts.OAuthPKCEKey+state, session, pkceSessionTTL); err != nil {
		return "", err
	}
	return AuthCodeURL(s.oauth, state, session.Verifier), nil
}

func (s *authServiceImpl) CompleteLogin(ctx context.Context, state, code string) (*dto.LoginResultDTO, error) {
	if state == "" || code == "" {
		return nil, ErrOAuthStateInvalid
	}
	raw, err := redis.GetDel(ctx, consts.OAuthPKCEKey+state)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrOAuthStateInvalid
	}
	var session pkceSession
	if err = json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, ErrOAuthStateInvalid
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: logger.NewHTTPTransport("oauth"),
		Timeout:   oauthHTTPTimeout,
	})
	token, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(session.Verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", UnauthorizedError, err)
	}

	handle, err := s.fetchHandle(ctx, token)
	if err != nil {
		return nil, err
	}

	jwtToken, err := security.GenerateToken(handle)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResultDTO{
		Handle:   handle,
		Token:    jwtToken,
		Redirect: session.Redirect,
	}, nil
}

// fetchHandle 用 access token 查询当前登录账号
func (s *authServiceImpl) fetchHandle(ctx context.Context, token *oauth2.Token) (string, error) {
	var me meResponse
	resp, err := resty.NewWithClient(s.oauth.Client(ctx, token)).R().
		SetContext(ctx).
		SetResult(&me).
		Get(s.userInfoURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: user lookup returned %d", ErrUpstream, resp.StatusCode())
	}
	if me.Data.Username == "" {
		return "", fmt.Errorf("%w: empty username", ErrUpstream)
	}
	return me.Data.Username, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return UnauthorizedError
	}
	sig, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+sig, "1", ttl)
}

// IsTokenRevoked token 是否已登出
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	sig, err := security.ExtractSignature(token)
	if err != nil {
		return false, err
	}
	value, err := redis.GetValue(ctx, consts.TokenBlacklistKey+sig)
	if err != nil {
		return false, err
	}
	return value != "", nil
}

