// Package cli реализует команды консольного клиента.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/webtga/superstrong/internal/client/auth"
	"github.com/webtga/superstrong/internal/client/catalog"
	"github.com/webtga/superstrong/internal/client/iocli"
	"github.com/webtga/superstrong/internal/client/stats"
	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/client/sync"
	"github.com/webtga/superstrong/internal/client/workouts"
	"github.com/webtga/superstrong/internal/models"
	"github.com/webtga/superstrong/internal/telegram"
)

type Cli struct {
	io             iocli.IO
	authService    auth.Service
	catalogService catalog.Service
	workoutService workouts.Service
	syncService    sync.Service
	statsService   stats.Aggregator
	logStore       storage.LogStorage
	bridge         telegram.Bridge
}

func New(
	io iocli.IO,
	authService auth.Service,
	catalogService catalog.Service,
	workoutService workouts.Service,
	syncService sync.Service,
	statsService stats.Aggregator,
	logStore storage.LogStorage,
	bridge telegram.Bridge,
) *Cli {
	return &Cli{
		io:             io,
		authService:    authService,
		catalogService: catalogService,
		workoutService: workoutService,
		syncService:    syncService,
		statsService:   statsService,
		logStore:       logStore,
		bridge:         bridge,
	}
}

func PrintUsage() {
	fmt.Println("SuperStrong Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  superstrong [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        Show version information")
	fmt.Println("  --config PATH    Path to config file (default: ~/.config/superstrong/config.toml)")
	fmt.Println("  --server URL     Workout backend URL")
	fmt.Println("  --catalog URL    Exercise catalog URL")
	fmt.Println("  --db PATH        Path to local database")
	fmt.Println("  --debug          Verbose logging")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SUPERSTRONG_SERVER          Workout backend URL")
	fmt.Println("  SUPERSTRONG_CATALOG         Exercise catalog URL")
	fmt.Println("  SUPERSTRONG_DB              Path to local database")
	fmt.Println("  SUPERSTRONG_TG_INIT_DATA    Telegram init data (mini-app mode)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login [username]        Login (Telegram init data or manual username)")
	fmt.Println("  logout                  Logout and clear local data")
	fmt.Println("  status                  Show session and pending sync status")
	fmt.Println("  sync                    Replay queued offline writes")
	fmt.Println("  categories              List exercise categories")
	fmt.Println("  exercises [--category]  List catalog exercises")
	fmt.Println("  exercise <id>           Show exercise details with steps")
	fmt.Println("  search <query>          Search exercises by name")
	fmt.Println("  track show <date>       Show workouts for a day (YYYY-MM-DD)")
	fmt.Println("  track add <date>        Record a workout session interactively")
	fmt.Println("  track delete <date> <session-id>  Delete a workout session")
	fmt.Println("  stats [--recompute]     Show profile statistics")
	fmt.Println("  logs show|export|clear  Inspect the persisted log buffer")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  superstrong login alice")
	fmt.Println("  superstrong exercises --category 'Грудь'")
	fmt.Println("  superstrong track add 2025-03-14")
	fmt.Println("  superstrong stats --recompute")
}

// promptSets интерактивно читает подходы одного упражнения.
// Формат строки: "reps weight", пустая строка завершает ввод.
func (c *Cli) promptSets() ([]models.Set, error) {
	var sets []models.Set

	for {
		line, err := c.io.ReadInput(fmt.Sprintf("  set %d (reps weight, empty to finish): ", len(sets)+1))
		if err != nil {
			return nil, err
		}
		if line == "" {
			return sets, nil
		}

		set, err := parseSet(line)
		if err != nil {
			c.io.Printf("  %v\n", err)
			continue
		}
		sets = append(sets, set)
	}
}

func parseSet(line string) (models.Set, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return models.Set{}, fmt.Errorf("expected two values: reps and weight")
	}

	reps, err := strconv.Atoi(fields[0])
	if err != nil || reps <= 0 {
		return models.Set{}, fmt.Errorf("reps must be a positive integer")
	}

	weight, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || weight < 0 {
		return models.Set{}, fmt.Errorf("weight must be a non-negative number")
	}

	return models.Set{Reps: reps, Weight: weight}, nil
}

func formatDay(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
