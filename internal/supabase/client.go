// Package supabase реализует клиента хостимого бэкенда (GoTrue + PostgREST):
// выдача сессии, вход по magic link, выход, уведомления об изменении
// аутентификации и запросы к таблицам. Это единственная точка общения
// приложения с внешним бэкендом.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/remote-jobboard/internal/config"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// Client инкапсулирует подключение к бэкенду и текущую сессию зрителя.
type Client struct {
	baseURL         string
	anonKey         string
	httpClient      *http.Client
	log             *slog.Logger
	sessionFile     string
	refreshLeeway   time.Duration
	refreshInterval time.Duration

	mu        sync.RWMutex
	session   *models.Session
	listeners map[int]AuthCallback
	nextID    int

	now func() time.Time
}

// New создает клиента бэкенда и, если настроен файл сессии,
// восстанавливает из него предыдущую сессию.
func New(cfg config.SupabaseConnection, log *slog.Logger) (*Client, error) {
	const op = "supabase.New"
	if cfg.URL == "" {
		return nil, fmt.Errorf("%s: url is required", op)
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("%s: anon key is required", op)
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &Client{
		baseURL:         strings.TrimSuffix(cfg.URL, "/"),
		anonKey:         cfg.AnonKey,
		httpClient:      &http.Client{Timeout: cfg.RequestTimeout},
		log:             log,
		sessionFile:     cfg.SessionFile,
		refreshLeeway:   cfg.RefreshLeeway,
		refreshInterval: interval,
		listeners:       make(map[int]AuthCallback),
		now:             time.Now,
	}
	c.restoreSession()
	return c, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)

	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// do выполняет запрос и возвращает статус и тело ответа.
// Транспортные сбои приводятся к ErrUnavailable, дедлайн контекста проходит как есть.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	const op = "supabase.do"
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return 0, nil, fmt.Errorf("%s: %w", op, err)
		}
		return 0, nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

// postJSON выполняет POST с JSON-телом по относительному пути.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	const op = "supabase.postJSON"

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}
