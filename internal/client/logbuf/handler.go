// Package logbuf дублирует записи slog в ограниченный durable буфер,
// чтобы журнал последних событий переживал перезапуск клиента.
package logbuf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/webtga/superstrong/internal/client/storage"
)

// Handler оборачивает терминальный slog.Handler и дополнительно
// пишет каждую запись в LogStorage. Сбой хранилища не ломает
// логирование: запись уходит только в терминал.
type Handler struct {
	next  slog.Handler
	store storage.LogStorage
	attrs []slog.Attr
}

// NewHandler создает handler поверх next с дублированием в store
func NewHandler(next slog.Handler, store storage.LogStorage) *Handler {
	return &Handler{
		next:  next,
		store: store,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	persisted := &storage.LogRecord{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	if record.NumAttrs() > 0 || len(h.attrs) > 0 {
		persisted.Attrs = make(map[string]string, record.NumAttrs()+len(h.attrs))
		for _, attr := range h.attrs {
			persisted.Attrs[attr.Key] = attr.Value.String()
		}
		record.Attrs(func(attr slog.Attr) bool {
			persisted.Attrs[attr.Key] = attr.Value.String()
			return true
		})
	}

	if err := h.store.AppendLog(ctx, persisted); err != nil {
		// Буфер недоступен: деградируем до терминала
		_ = h.next.Handle(ctx, errorRecord(record, err))
	}

	return h.next.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{
		next:  h.next.WithAttrs(attrs),
		store: h.store,
		attrs: merged,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		next:  h.next.WithGroup(name),
		store: h.store,
		attrs: h.attrs,
	}
}

func errorRecord(cause slog.Record, err error) slog.Record {
	record := slog.NewRecord(cause.Time, slog.LevelWarn,
		fmt.Sprintf("log buffer unavailable: %v", err), 0)
	return record
}
