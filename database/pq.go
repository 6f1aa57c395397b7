package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error

	// GetDB returns *gorm.DB for GORMStore, *sql.DB for PostgreSQLStore
	GetDB() interface{}
}

// PostgreSQLStore manages the schema with plain SQL over lib/pq.
type PostgreSQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

func Start(env *config.EnvironmentVariable, log *logger.Logger) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", env.DSN())
	if err != nil {
		log.Error("unable to open PostgreSQL", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.Error("unable to reach PostgreSQL", "host", env.DB_HOST, "error", err)
		return nil, err
	}

	log.Info("connected to PostgreSQL", "host", env.DB_HOST, "database", env.DB_NAME)
	return &PostgreSQLStore{db: db, log: log}, nil
}

func (s *PostgreSQLStore) Init() error {
	s.log.Info("initializing PostgreSQL schema")
	return s.Initialize()
}

func (s *PostgreSQLStore) Close() error {
	s.log.Info("closing PostgreSQL connection")
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

func (s *PostgreSQLStore) GetDB() interface{} {
	return s.db
}

// TableCounts returns the number of rows in every catalog table.
func (s *PostgreSQLStore) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(catalogTables))
	for _, table := range catalogTables {
		var n int64
		// table names come from catalogTables, never from input
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
