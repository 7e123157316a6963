package models

// TelegramUser представляет пользователя из initData хост-платформы
type TelegramUser struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
}

// DisplayName возвращает имя для показа: username, иначе имя и фамилия
func (u *TelegramUser) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
