package validation

import (
	"fmt"
	"regexp"
)

// Имя пользователя в ручном входе совпадает по алфавиту с Telegram
// username: латиница, цифры, нижнее подчеркивание. Длина 3-32.
const (
	usernameMinLen = 3
	usernameMaxLen = 32
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername проверяет имя пользователя для ручного входа.
// Серверные правила те же, но проверка до сети дает понятную ошибку
// вместо отказа бэкенда.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < usernameMinLen {
		return fmt.Errorf("username must be at least %d characters long", usernameMinLen)
	}

	if len(username) > usernameMaxLen {
		return fmt.Errorf("username must not exceed %d characters", usernameMaxLen)
	}

	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username can only contain latin letters, digits and underscores")
	}

	return nil
}
