// Package telegram разбирает init data мини-приложения Telegram и
// предоставляет мост к среде хоста (диалоги, данные пользователя).
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/webtga/superstrong/internal/models"
)

var (
	// ErrNoInitData возвращается, когда строка init data пуста
	ErrNoInitData = errors.New("no telegram init data")

	// ErrInvalidSignature возвращается при несовпадении HMAC подписи
	ErrInvalidSignature = errors.New("telegram init data signature mismatch")
)

// InitData содержит разобранные поля строки init data
type InitData struct {
	User     *models.TelegramUser
	QueryID  string
	AuthDate time.Time
	Hash     string
	Raw      string
}

// ParseInitData разбирает строку init data формата query string.
// Подпись на этом этапе не проверяется: клиент не владеет токеном бота,
// проверка подписи остаётся за сервером.
func ParseInitData(raw string) (*InitData, error) {
	if raw == "" {
		return nil, ErrNoInitData
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse init data: %w", err)
	}

	data := &InitData{
		QueryID: values.Get("query_id"),
		Hash:    values.Get("hash"),
		Raw:     raw,
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		unix, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid auth_date %q: %w", authDate, err)
		}
		data.AuthDate = time.Unix(unix, 0)
	}

	if userJSON := values.Get("user"); userJSON != "" {
		var user models.TelegramUser
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			return nil, fmt.Errorf("invalid user field: %w", err)
		}
		data.User = &user
	}

	return data, nil
}

// Validate проверяет HMAC-SHA256 подпись init data по схеме Telegram:
// секретный ключ выводится из токена бота через HMAC с ключом "WebAppData".
// При пустом botToken проверка пропускается (токен есть только у сервера).
func Validate(raw, botToken string) error {
	if botToken == "" {
		return nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("failed to parse init data: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return ErrInvalidSignature
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))

	if hex.EncodeToString(mac.Sum(nil)) != hash {
		return ErrInvalidSignature
	}

	return nil
}
