package api

import (
	"encoding/json"
	"errors"
	"fmt"

	pkgapi "github.com/webtga/superstrong/pkg/api"
)

// ServerError представляет отвергнутый сервером запрос (non-2xx с телом).
// Такие запросы не попадают в очередь повтора: без исправления со стороны
// пользователя сервер отвергнет их снова.
type ServerError struct {
	Body    string
	Message string
	Status  int
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// newServerError строит ServerError, пытаясь вытащить сообщение из тела
func newServerError(status int, body []byte) *ServerError {
	serverErr := &ServerError{
		Status: status,
		Body:   string(body),
	}

	var errResp pkgapi.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		serverErr.Message = errResp.Text()
	}

	return serverErr
}

// IsServerError reports whether the error is a server rejection
// and returns it when so
func IsServerError(err error) (*ServerError, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr, true
	}
	return nil, false
}
