//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	_ "github.com/lib/pq"

	"idcheck/internal/bgc"
	"idcheck/internal/bgc/store"
	"idcheck/pkg/platform/sentinel"
	"idcheck/pkg/requestcontext"
	"idcheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	backend  *store.Postgres
	cache    *store.Cache
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(store.Migrate(context.Background(), s.postgres.DB))
	s.backend = store.NewPostgres(s.postgres.DB, 5*time.Minute)
	s.cache = store.NewCache(s.backend, nil)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "bgc_result_cache"))
}

func (s *PostgresStoreSuite) TestTraceRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SaveTrace(ctx, "p1", &bgc.TraceResult{OrderID: "2001"}))

	found, err := s.cache.FindTrace(ctx, "p1")
	s.Require().NoError(err)
	s.Equal("2001", found.OrderID)
}

func (s *PostgresStoreSuite) TestExpiryAndPurge() {
	stored := time.Now().Add(-time.Hour)
	old := requestcontext.WithTime(context.Background(), stored)
	s.Require().NoError(s.cache.SaveValidate(old, "p2", &bgc.ValidateResult{OrderID: "1"}))

	_, err := s.cache.FindValidate(context.Background(), "p2")
	s.ErrorIs(err, sentinel.ErrNotFound)

	n, err := s.backend.Purge(context.Background())
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *PostgresStoreSuite) TestClosedDatabaseIsUnavailable() {
	db, err := sql.Open("postgres", s.postgres.DSN)
	s.Require().NoError(err)
	s.Require().NoError(db.Close())
	backend := store.NewPostgres(db, time.Minute)

	_, err = backend.Get(context.Background(), bgc.USOneValidate, "k")
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.NotErrorIs(err, sentinel.ErrNotFound)

	err = backend.Set(context.Background(), bgc.USOneValidate, "k", []byte(`{}`))
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func (s *PostgresStoreSuite) TestStartCleanupRemovesExpiredRows() {
	old := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
	s.Require().NoError(s.cache.SaveValidate(old, "p4", &bgc.ValidateResult{OrderID: "1"}))
	s.Require().NoError(s.cache.SaveValidate(context.Background(), "p5", &bgc.ValidateResult{OrderID: "2"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = store.StartCleanup(ctx, s.backend, 10*time.Millisecond, slog.Default()) }()

	s.Eventually(func() bool {
		var n int
		err := s.postgres.DB.QueryRow(`SELECT count(*) FROM bgc_result_cache`).Scan(&n)
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)
}

// TestConcurrentUpsert verifies last-write-wins without errors on one key.
func (s *PostgresStoreSuite) TestConcurrentUpsert() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := s.cache.SaveValidate(ctx, "p3", &bgc.ValidateResult{OrderID: string(rune('A' + idx))})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	found, err := s.cache.FindValidate(ctx, "p3")
	s.Require().NoError(err)
	s.Len(found.OrderID, 1)
}
