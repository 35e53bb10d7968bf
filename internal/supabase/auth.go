package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// AuthEvent — тип события изменения состояния аутентификации.
type AuthEvent string

// События, которые клиент рассылает подписчикам.
const (
	AuthInitialSession AuthEvent = "INITIAL_SESSION"
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthCallback вызывается синхронно при каждом событии аутентификации.
// При выходе session равен nil.
type AuthCallback func(ctx context.Context, event AuthEvent, session *models.Session)

// authResponse — ответ GoTrue на verify и refresh.
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// accessClaims — интересующие нас поля access-токена. Подпись не проверяется:
// токен выпустил сам бэкенд, клиенту достаточно содержимого.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// OnAuthStateChange регистрирует подписчика на события аутентификации
// и возвращает функцию отписки.
func (c *Client) OnAuthStateChange(fn AuthCallback) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ctx context.Context, event AuthEvent, sess *models.Session) {
	c.mu.RLock()
	fns := make([]AuthCallback, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ctx, event, sess)
	}
}

// GetSession возвращает текущую сессию либо nil, если зритель не аутентифицирован.
// Просроченная сессия прозрачно обновляется; событие при этом не рассылается,
// начальную сессию вызывающая сторона обрабатывает сама.
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	const op = "supabase.GetSession"

	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess == nil {
		return nil, nil
	}
	if !sess.Expired(c.now(), c.refreshLeeway) {
		cp := *sess
		return &cp, nil
	}

	refreshed, err := c.refreshSession(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return refreshed, nil
}

// SignInWithOtp просит бэкенд отправить magic link на указанную почту.
func (c *Client) SignInWithOtp(ctx context.Context, email, redirectTo string) error {
	const op = "supabase.SignInWithOtp"

	path := "/auth/v1/otp"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	status, _, err := c.postJSON(ctx, path, map[string]any{
		"email":       email,
		"create_user": true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w: status %d", op, ErrDelivery, status)
	}
	return nil
}

// VerifyOtp обменивает token_hash из magic link на сессию и рассылает SIGNED_IN.
func (c *Client) VerifyOtp(ctx context.Context, tokenHash string) (*models.Session, error) {
	const op = "supabase.VerifyOtp"

	status, body, err := c.postJSON(ctx, "/auth/v1/verify", map[string]any{
		"type":       "magiclink",
		"token_hash": tokenHash,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrInvalidLink, status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sess, err := c.sessionFromTokens(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.setSession(sess)
	c.emit(ctx, AuthSignedIn, sess)
	return sess, nil
}

// SignOut сбрасывает локальную сессию, по возможности отзывает токены на бэкенде
// и рассылает SIGNED_OUT. Локальный сброс выполняется даже при недоступном бэкенде.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()
	c.persistSession(nil)

	if sess != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
		if err == nil {
			req.Header.Set("apikey", c.anonKey)
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
			if _, _, err := c.do(req); err != nil {
				c.log.Warn("remote sign-out failed, local session cleared anyway", sl.Err(err))
			}
		}
	}

	c.emit(ctx, AuthSignedOut, nil)
	return nil
}

// RunRefresh обновляет access-токен незадолго до истечения и рассылает
// TOKEN_REFRESHED. Период опроса задаётся конфигом. Блокируется до отмены контекста.
func (c *Client) RunRefresh(ctx context.Context) {
	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			sess := c.session
			c.mu.RUnlock()
			if sess == nil || !sess.Expired(c.now(), c.refreshLeeway) {
				continue
			}
			if _, err := c.refreshSession(ctx, true); err != nil {
				c.log.Warn("token refresh failed", sl.Err(err))
			}
		}
	}
}

// refreshSession обменивает refresh-токен на новую пару токенов.
// Окончательный отказ бэкенда (4xx) означает мёртвую сессию: она сбрасывается
// с рассылкой SIGNED_OUT, ошибкой это не считается.
func (c *Client) refreshSession(ctx context.Context, notify bool) (*models.Session, error) {
	const op = "supabase.refreshSession"

	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess == nil {
		return nil, nil
	}

	status, body, err := c.postJSON(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		c.log.Info("refresh token rejected, dropping session", slog.Int("status", status))
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		c.persistSession(nil)
		c.emit(ctx, AuthSignedOut, nil)
		return nil, nil
	}
	if status >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refreshed, err := c.sessionFromTokens(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.setSession(refreshed)
	if notify {
		c.emit(ctx, AuthTokenRefreshed, refreshed)
	}
	cp := *refreshed
	return &cp, nil
}

func (c *Client) sessionFromTokens(resp authResponse) (*models.Session, error) {
	var claims accessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(resp.AccessToken, &claims); err != nil {
		return nil, err
	}

	expires := c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return &models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expires,
		Viewer: models.Viewer{
			UID:   claims.Subject,
			Email: claims.Email,
		},
	}, nil
}

func (c *Client) setSession(sess *models.Session) {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	c.persistSession(sess)
}

// restoreSession загружает сессию из файла, если он настроен.
// Повреждённый или отсутствующий файл просто игнорируется.
func (c *Client) restoreSession() {
	if c.sessionFile == "" {
		return
	}
	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		return
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		c.log.Warn("ignoring corrupt session file", sl.Err(err))
		return
	}
	c.session = &sess
}

func (c *Client) persistSession(sess *models.Session) {
	if c.sessionFile == "" {
		return
	}
	if sess == nil {
		_ = os.Remove(c.sessionFile)
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := os.WriteFile(c.sessionFile, data, 0o600); err != nil {
		c.log.Warn("failed to persist session", sl.Err(err))
	}
}
