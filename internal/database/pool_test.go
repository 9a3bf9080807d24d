package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"quantia/internal/database"
)

func newTestManager(t *testing.T, maxOpen int) *database.Manager {
	t.Helper()

	manager, err := database.NewManager(&database.Config{
		Driver:       database.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "pool_test.db"),
		MaxOpenConns: maxOpen,
		MaxIdleConns: maxOpen,
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

func TestCheckConnection(t *testing.T) {
	manager := newTestManager(t, 10)

	if err := manager.CheckConnection(context.Background()); err != nil {
		t.Fatalf("connection check failed: %v", err)
	}
}

func TestCheckConnectionClosedPool(t *testing.T) {
	manager := newTestManager(t, 10)

	sqlDB, err := manager.SQLDB()
	if err != nil {
		t.Fatalf("failed to get pool: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close pool: %v", err)
	}

	if err := manager.CheckConnection(context.Background()); err == nil {
		t.Fatal("expected an error against a closed pool")
	}
}

// TestPoolCeiling proves the pool never hands out more than MaxOpenConns
// connections and that waiters queue until one is released.
func TestPoolCeiling(t *testing.T) {
	const ceiling = 2
	manager := newTestManager(t, ceiling)

	sqlDB, err := manager.SQLDB()
	if err != nil {
		t.Fatalf("failed to get pool: %v", err)
	}

	ctx := context.Background()

	// Saturate the pool.
	held := make([]*sql.Conn, 0, ceiling)
	for i := 0; i < ceiling; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("failed to acquire connection %d: %v", i, err)
		}
		held = append(held, conn)
	}

	// The next acquirer must block rather than error.
	acquired := make(chan *sql.Conn, 1)
	go func() {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Errorf("queued acquirer failed: %v", err)
			return
		}
		acquired <- conn
	}()

	select {
	case <-acquired:
		t.Fatal("acquirer should queue while the pool is saturated")
	case <-time.After(100 * time.Millisecond):
	}

	// Releasing one connection unblocks the waiter.
	if err := held[0].Close(); err != nil {
		t.Fatalf("failed to release connection: %v", err)
	}

	select {
	case conn := <-acquired:
		_ = conn.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not served after a release")
	}

	for _, conn := range held[1:] {
		_ = conn.Close()
	}
}

// TestPoolServesQueuedWaiters floods a small pool with many concurrent
// acquirers; all of them must eventually be served.
func TestPoolServesQueuedWaiters(t *testing.T) {
	manager := newTestManager(t, 3)

	sqlDB, err := manager.SQLDB()
	if err != nil {
		t.Fatalf("failed to get pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := sqlDB.Conn(ctx)
			if err != nil {
				errs <- err
				return
			}
			defer func() { _ = conn.Close() }()

			var one int
			if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("worker failed: %v", err)
	}

	if open := sqlDB.Stats().MaxOpenConnections; open != 3 {
		t.Errorf("expected ceiling 3, got %d", open)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := database.NewConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.MaxOpenConns != 10 {
		t.Errorf("expected default connection ceiling 10, got %d", cfg.MaxOpenConns)
	}
}

func TestDSNFormats(t *testing.T) {
	cfg := &database.Config{
		Driver:   database.DriverMySQL,
		Host:     "db.internal",
		Port:     "3307",
		User:     "svc",
		Password: "pw",
		DBName:   "quantia",
	}

	dsn := cfg.DSN()
	want := "svc:pw@tcp(db.internal:3307)/quantia?charset=utf8mb4&parseTime=True&loc=UTC"
	if dsn != want {
		t.Errorf("DSN mismatch:\n got %s\nwant %s", dsn, want)
	}

	url := cfg.MigrateURL()
	wantURL := "mysql://svc:pw@tcp(db.internal:3307)/quantia?multiStatements=true"
	if url != wantURL {
		t.Errorf("MigrateURL mismatch:\n got %s\nwant %s", url, wantURL)
	}
}
