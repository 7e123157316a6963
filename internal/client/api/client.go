package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/webtga/superstrong/internal/client/storage"
)

// cacheTTL задаёт время жизни кэша успешных GET ответов
const cacheTTL = 5 * time.Minute

// headerInitData передаёт identity хост-платформы, когда она доступна
const headerInitData = "X-Telegram-Init-Data"

// Client представляет HTTP клиент для взаимодействия с workout-backend.
// GET проходит через read-through кэш; неотправленные мутации
// складываются в durable очередь для последующего повтора.
type Client struct {
	httpClient *http.Client
	cache      storage.CacheStorage
	queue      storage.QueueStorage
	logger     *slog.Logger
	baseURL    string
	token      string
	initData   string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, cache storage.CacheStorage, queue storage.QueueStorage, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		cache:   cache,
		queue:   queue,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetBearerToken устанавливает токен доступа для мутирующих запросов
func (c *Client) SetBearerToken(token string) {
	c.token = token
}

// SetInitData устанавливает сырую строку initData хост-платформы;
// пустая строка отключает заголовок
func (c *Client) SetInitData(raw string) {
	c.initData = raw
}

// Get выполняет GET запрос и декодирует ответ в result
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// Post выполняет POST запрос с JSON телом
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

// Patch выполняет PATCH запрос с JSON телом
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, result)
}

// Delete выполняет DELETE запрос
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, result)
}

// Replay повторяет ранее отложенный запрос как есть, без повторной
// постановки в очередь при неудаче (очередью управляет sync service)
func (c *Client) Replay(ctx context.Context, req *storage.PendingRequest) error {
	return c.send(ctx, req.Method, req.Path, []byte(req.Body), nil, false)
}

// doRequest выполняет HTTP запрос с кэшированием и отложенной записью
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var rawBody []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rawBody = data
	}

	return c.send(ctx, method, path, rawBody, result, true)
}

// send — единый путь запроса. offline=true включает оффлайн-поведение:
// чтение из кэша при недоступной сети и постановку мутаций в очередь.
func (c *Client) send(ctx context.Context, method, path string, rawBody []byte, result any, offline bool) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if rawBody != nil {
		bodyReader = bytes.NewReader(rawBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if rawBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.initData != "" {
		req.Header.Set(headerInitData, c.initData)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сеть недоступна: GET пробуем отдать из кэша,
		// мутацию сохраняем для повтора, но ошибку все равно возвращаем,
		// чтобы оптимистичный UI мог откатиться
		if offline {
			if method == http.MethodGet {
				if cached := c.cachedResponse(ctx, path, result); cached {
					c.logger.Warn("request failed, returning cached data",
						"method", method, "path", path, "error", err)
					return nil
				}
			} else {
				c.savePending(ctx, method, path, rawBody)
			}
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Отвергнутый сервером запрос — типизированная ошибка, в очередь не идет
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newServerError(resp.StatusCode, respBody)
	}

	// Успешные чтения кэшируем по пути запроса
	if offline && method == http.MethodGet && c.cache != nil {
		if err := c.cache.SetCache(ctx, path, respBody, cacheTTL); err != nil {
			c.logger.Warn("failed to cache response", "path", path, "error", err)
		}
	}

	// Пустое тело (типично для DELETE) — декодировать нечего
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// cachedResponse пытается отдать закэшированный ответ для path
func (c *Client) cachedResponse(ctx context.Context, path string, result any) bool {
	if c.cache == nil {
		return false
	}

	data, err := c.cache.GetCache(ctx, path)
	if err != nil {
		return false
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return false
		}
	}

	return true
}

// savePending сохраняет неотправленную мутацию в очередь повтора
func (c *Client) savePending(ctx context.Context, method, path string, rawBody []byte) {
	if c.queue == nil {
		return
	}

	pending := &storage.PendingRequest{
		Method:    method,
		Path:      path,
		Body:      json.RawMessage(rawBody),
		Timestamp: time.Now(),
	}

	if err := c.queue.Enqueue(ctx, pending); err != nil {
		c.logger.Warn("failed to queue pending request",
			"method", method, "path", path, "error", err)
		return
	}

	c.logger.Warn("write request saved for later sync", "method", method, "path", path)
}
