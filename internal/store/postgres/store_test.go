package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/IdleRealm_Go/internal/database"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/store/storetest"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) func() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return func() {}
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return terminate
	}
	pool, err := database.NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return terminate
	}
	if _, err := database.MigratePool(ctx, pool); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return terminate
	}
	testPool = pool
	return terminate
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	_, err := testPool.Exec(context.Background(), `TRUNCATE characters, combat_logs, dungeon_logs`)
	require.NoError(t, err)
	return NewStore(testPool)
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return &unclosable{newTestStore(t)}
	})
}

func TestStore_LogsArePersisted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := storetest.SampleCharacter("owner-logs")
	require.NoError(t, s.Create(ctx, c))

	require.NoError(t, s.AppendCombatLog(ctx, c.ID, domain.SessionSummary{
		Kind: domain.TaskCombat, Target: "rat", Reason: domain.ReasonDefeated, Kills: 7, PlayerDamage: 70, MobDamage: 100,
		Totals:   domain.SessionTotals{XP: 35, Silver: 12, Items: map[string]int64{"bone": 3}},
		Duration: 90 * time.Second, EndedAt: time.Now(),
	}))
	require.NoError(t, s.AppendDungeonLog(ctx, c.ID, domain.SessionSummary{
		Kind: domain.TaskDungeon, Target: "crypt", Reason: domain.ReasonTimeout, Waves: 2,
		EndedAt: time.Now(),
	}))

	var (
		kills    int
		duration int64
		items    map[string]int64
	)
	err := testPool.QueryRow(ctx, `SELECT kills, duration_ms, items FROM combat_logs WHERE character_id = $1`, c.ID).
		Scan(&kills, &duration, &items)
	require.NoError(t, err)
	assert.Equal(t, 7, kills)
	assert.Equal(t, int64(90_000), duration)
	assert.Equal(t, map[string]int64{"bone": 3}, items)

	var reason string
	var waves int
	err = testPool.QueryRow(ctx, `SELECT reason, waves FROM dungeon_logs WHERE character_id = $1`, c.ID).Scan(&reason, &waves)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonTimeout, reason)
	assert.Equal(t, 2, waves)
}

func TestStore_RejectsMalformedID(t *testing.T) {
	s := newTestStore(t)
	c := storetest.SampleCharacter("owner-bad")
	c.ID = "not-a-uuid"
	assert.ErrorIs(t, s.Create(context.Background(), c), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Upsert(context.Background(), c), domain.ErrInvalidInput)
}

// unclosable keeps the shared pool open across subtests
type unclosable struct{ *Store }

func (u *unclosable) Close() error { return nil }
