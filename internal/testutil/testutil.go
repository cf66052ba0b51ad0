package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finport/dispute-portal/internal/api"
	"github.com/finport/dispute-portal/internal/config"
	"github.com/finport/dispute-portal/internal/repository"
	"github.com/finport/dispute-portal/internal/repository/sqlstore"
	"github.com/finport/dispute-portal/internal/service"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an isolated in-memory SQLite database.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens a uniquely named shared-cache memory database and runs the
// migrations. The unique name keeps GORM's connection pool on one database
// while isolating tests from each other.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.New().String()[:8])
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := sqlstore.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{DB: db}
}

// Truncate clears all tables for test isolation.
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"disputes",
		"transactions",
		"refresh_tokens",
		"users",
	}
	for _, table := range tables {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing.
func TestConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Environment:       "test",
		JWTSecret:         "test-jwt-secret-key-0123456789abcdef",
		JWTIssuer:         "dispute-portal-test",
		JWTAudience:       "dispute-portal-test-clients",
		JWTExpiryMinutes:  60,
		RefreshExpiryDays: 7,
		NotifyTimeout:     2 * time.Second,
	}
}

// TestServer holds all components for integration testing.
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := sqlstore.NewRepositories(testDB.DB)
	services := service.NewServices(repos, sqlstore.NewTxRunner(testDB.DB), cfg)
	router := api.NewRouter(services)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL.
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path.
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
