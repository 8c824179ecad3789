package database

import (
	"catalog_server/config"
	"catalog_server/structs"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// DB wraps the bun database handle
type DB struct {
	*bun.DB
}

var instance *DB

// DSN builds a pgx connection string from the database configuration
func DSN(dbCfg *structs.DatabaseConfig) string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     fmt.Sprintf("%s:%d", dbCfg.Host, dbCfg.Port),
		Path:     dbCfg.Name,
		RawQuery: url.Values{"sslmode": {dbCfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// Connect establishes a connection to the database using centralized configuration
func Connect() (*DB, error) {
	logger := config.GetLogger()
	dbCfg := config.GetConfig().Database

	sqldb, err := sql.Open("pgx", DSN(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply pool settings from configuration
	sqldb.SetMaxOpenConns(dbCfg.MaxConns)
	sqldb.SetMaxIdleConns(dbCfg.MinConns)
	sqldb.SetConnMaxLifetime(dbCfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(dbCfg.MaxIdleTime)

	db := Wrap(bun.NewDB(sqldb, pgdialect.New()), logger, dbCfg.SlowQuery)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("host", dbCfg.Host),
		gecho.Field("database", dbCfg.Name),
	)

	return db, nil
}

// Wrap attaches the query hooks to an existing bun handle
func Wrap(db *bun.DB, logger *gecho.Logger, slowQuery time.Duration) *DB {
	db.AddQueryHook(&connectionHealthHook{logger: logger, slowQuery: slowQuery})
	return &DB{db}
}

// Initialize sets up the global database instance using centralized configuration
func Initialize() error {
	db, err := Connect()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	instance = db
	return nil
}

// GetInstance returns the global database instance
func GetInstance() *DB {
	if instance == nil {
		log.Fatal("Database instance is not initialized. Call Initialize() first.")
	}
	return instance
}

// CloseInstance closes the global database instance
func CloseInstance() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// connectionHealthHook implements bun.QueryHook to log slow and failing queries
type connectionHealthHook struct {
	logger    *gecho.Logger
	slowQuery time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.slowQuery > 0 && duration > h.slowQuery {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	// Handle EOF errors specifically
	if event.Err != nil {
		if event.Err.Error() == "EOF" || event.Err.Error() == "unexpected EOF" {
			h.logger.Error("Database connection EOF error - connection may have been closed by server",
				gecho.Field("error", event.Err),
				gecho.Field("query", event.Query),
			)
		}
	}
}
