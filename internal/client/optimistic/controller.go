// Package optimistic реализует оптимистичные мутации вида
// "покажи сразу, подтверди в фоне, откати при ошибке".
package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State представляет фазу жизненного цикла мутации
type State int

const (
	StateIdle State = iota
	StateAppliedLocally
	StateConfirming
	StateReconciled
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAppliedLocally:
		return "applied-locally"
	case StateConfirming:
		return "confirming"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Mutation описывает одну оптимистичную мутацию над состоянием S.
// Apply обязана быть чистой: новое состояние выводится только из
// предыдущего состояния и входа мутации, никогда из результата
// незавершенного удаленного вызова.
type Mutation[S any] struct {
	// Apply локально применяет мутацию к состоянию
	Apply func(S) S

	// Commit выполняет удаленную мутацию
	Commit func(ctx context.Context) error

	// Reconcile сверяет локальную правду с серверной после успеха:
	// инвалидация кэшей, пересчет зависимых агрегатов. Необязателен.
	Reconcile func(ctx context.Context) error

	// OnError вызывается после отката при неудачном Commit. Необязателен.
	OnError func(err error)

	// ID идентифицирует мутацию, чтобы неудача откатывала только её
	// собственное изменение. Пустой ID заполняется автоматически.
	ID uuid.UUID
}

// Controller управляет видимым состоянием через базовый снимок плюс
// упорядоченный список применённых, но не подтвержденных мутаций.
// Откат мутации — это исключение её Apply из свёртки, поэтому позже
// наложенные мутации переживают чужой откат нетронутыми.
type Controller[S any] struct {
	logger  *slog.Logger
	base    S
	pending []Mutation[S]
	state   State
	mu      sync.Mutex
}

// NewController создает контроллер с начальным видимым состоянием
func NewController[S any](initial S, logger *slog.Logger) *Controller[S] {
	return &Controller[S]{
		base:   initial,
		state:  StateIdle,
		logger: logger,
	}
}

// View возвращает текущее видимое состояние:
// базовый снимок со всеми неподтвержденными мутациями поверх
func (c *Controller[S]) View() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[S]) viewLocked() S {
	view := c.base
	for _, m := range c.pending {
		view = m.Apply(view)
	}
	return view
}

// State возвращает текущую фазу контроллера
func (c *Controller[S]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset заменяет базовое состояние свежей серверной правдой.
// Неподтвержденные мутации остаются наложенными поверх.
func (c *Controller[S]) Reset(base S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = base
}

// Run выполняет мутацию: локальное применение завершается и становится
// наблюдаемым через View до того, как будет выпущен удаленный вызов.
// Начатая мутация идет до конца — отмены на полпути нет.
func (c *Controller[S]) Run(ctx context.Context, m Mutation[S]) error {
	if m.Apply == nil || m.Commit == nil {
		return fmt.Errorf("mutation requires both Apply and Commit")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	// Шаг 1: мгновенное локальное применение
	c.mu.Lock()
	c.pending = append(c.pending, m)
	c.state = StateAppliedLocally
	c.mu.Unlock()

	c.logger.Debug("optimistic update applied", "mutation_id", m.ID)

	// Шаг 2: удаленный вызов в фоне относительно видимого состояния
	c.mu.Lock()
	c.state = StateConfirming
	c.mu.Unlock()

	if err := m.Commit(ctx); err != nil {
		c.rollback(m.ID)
		c.logger.Error("mutation rejected, local change rolled back",
			"mutation_id", m.ID, "error", err)

		if m.OnError != nil {
			m.OnError(err)
		}
		c.settle()
		return err
	}

	// Шаг 3: сервер подтвердил — мутация становится частью базы
	c.mu.Lock()
	c.base = m.Apply(c.base)
	c.removeLocked(m.ID)
	c.state = StateReconciled
	c.mu.Unlock()

	if m.Reconcile != nil {
		if err := m.Reconcile(ctx); err != nil {
			// Сверка не должна прятать подтвержденный успех
			c.logger.Warn("reconcile step failed", "mutation_id", m.ID, "error", err)
		}
	}

	c.settle()
	return nil
}

// rollback исключает мутацию из свёртки: её изменение исчезает,
// более поздние мутации остаются
func (c *Controller[S]) rollback(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
	c.state = StateRolledBack
}

func (c *Controller[S]) removeLocked(id uuid.UUID) {
	for i, p := range c.pending {
		if p.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// settle возвращает контроллер в Idle, когда неподтвержденных мутаций нет
func (c *Controller[S]) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		c.state = StateIdle
	}
}
