// Package config загружает настройки клиента: TOML файл с перекрытием
// переменными окружения. Отсутствующий файл не ошибка, работают умолчания.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config содержит настройки клиента
type Config struct {
	// ServerURL адрес workout backend API
	ServerURL string

	// CatalogURL адрес каталога упражнений
	CatalogURL string

	// AssetBase база для URL изображений каталога (обычно равна CatalogURL)
	AssetBase string

	// DBPath путь к локальной базе bbolt
	DBPath string

	// InitData сырая строка Telegram init data (обычно из окружения хоста)
	InitData string

	// Debug включает подробное логирование
	Debug bool
}

const (
	defaultConfigPath = "~/.config/superstrong/config.toml"
	defaultDBPath     = "~/.local/share/superstrong/client.db"
	defaultServerURL  = "http://localhost:8000/api/v1"
	defaultCatalogURL = "http://localhost:1337/api"
)

// Load читает конфиг из path (или из места по умолчанию), затем
// применяет переменные окружения SUPERSTRONG_*.
func Load(path string) (*Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerURL:  defaultServerURL,
		CatalogURL: defaultCatalogURL,
		DBPath:     defaultDBPath,
	}

	data, err := os.ReadFile(resolved)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err == nil {
		var raw struct {
			ServerURL  string `toml:"server_url"`
			CatalogURL string `toml:"catalog_url"`
			AssetBase  string `toml:"asset_base"`
			DBPath     string `toml:"db_path"`
			Debug      bool   `toml:"debug"`
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		applyString(&cfg.ServerURL, raw.ServerURL)
		applyString(&cfg.CatalogURL, raw.CatalogURL)
		applyString(&cfg.AssetBase, raw.AssetBase)
		applyString(&cfg.DBPath, raw.DBPath)
		cfg.Debug = raw.Debug
	}

	applyString(&cfg.ServerURL, os.Getenv("SUPERSTRONG_SERVER"))
	applyString(&cfg.CatalogURL, os.Getenv("SUPERSTRONG_CATALOG"))
	applyString(&cfg.AssetBase, os.Getenv("SUPERSTRONG_ASSET_BASE"))
	applyString(&cfg.DBPath, os.Getenv("SUPERSTRONG_DB"))
	applyString(&cfg.InitData, os.Getenv("SUPERSTRONG_TG_INIT_DATA"))
	if os.Getenv("SUPERSTRONG_DEBUG") != "" {
		cfg.Debug = true
	}

	if cfg.AssetBase == "" {
		cfg.AssetBase = strings.TrimSuffix(cfg.CatalogURL, "/api")
	}

	cfg.DBPath = mustExpand(cfg.DBPath)
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return cfg, nil
}

func applyString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
