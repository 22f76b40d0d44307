package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/serra-caronas/migrations"
	"github.com/pkordes/serra-caronas/testutil"
)

// TestMain brings the listings schema up to date once for the whole package.
func TestMain(m *testing.M) {
	dsn := os.Getenv(testutil.DSNEnv)
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("repo_test: goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("repo_test: migrate up: %v", err)
	}
	_ = db.Close()

	os.Exit(m.Run())
}
