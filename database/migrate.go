package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration embedded in the binary
func Migrate(ctx context.Context, db *DB, logger *gecho.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through the application logger
type gooseLogger struct {
	logger *gecho.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Fatal(fmt.Sprintf(format, v...))
}
