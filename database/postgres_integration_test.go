package database

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// startPostgres runs a throwaway PostgreSQL container and returns settings pointing at it.
func startPostgres(t *testing.T) *config.EnvironmentVariable {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run against PostgreSQL")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return &config.EnvironmentVariable{
		GO_ENV:       "production",
		DB_USER_NAME: "catalog",
		DB_PASSWORD:  "catalog",
		DB_NAME:      "catalog",
		DB_HOST:      host,
		DB_PORT:      port.Port(),
		DB_SSL_MODE:  "disable",
	}
}

func TestPostgres_SQLSchemaAndGORM(t *testing.T) {
	env := startPostgres(t)
	ctx := context.Background()
	log := logger.Nop()

	// the raw DDL gets its own database so AutoMigrate cannot hide mistakes in it
	admin, err := sql.Open("postgres", env.DSN())
	require.NoError(t, err)
	_, err = admin.Exec("CREATE DATABASE ddl_check")
	require.NoError(t, err)
	require.NoError(t, admin.Close())

	ddlEnv := *env
	ddlEnv.DB_NAME = "ddl_check"
	sqlStore, err := Start(&ddlEnv, log)
	require.NoError(t, err)
	defer sqlStore.Close()

	require.NoError(t, sqlStore.Init())
	require.NoError(t, sqlStore.Init(), "schema creation is repeatable")
	require.NoError(t, sqlStore.HealthCheck())

	counts, err := sqlStore.TableCounts(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, len(catalogTables))
	for table, n := range counts {
		assert.Zero(t, n, table)
	}

	db := sqlStore.GetDB().(*sql.DB)
	_, err = db.Exec(`INSERT INTO knowledge_points (chapter_id, name, difficulty, "order") VALUES (1, 'x', 2, 0)`)
	assert.Error(t, err, "foreign keys are enforced")

	// GORM side: migrate, seed and read back through lib/pq
	gormStore, err := StartGORM(env, log)
	require.NoError(t, err)
	defer gormStore.Close()
	require.NoError(t, gormStore.Init())

	cat, err := LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)
	stats, err := NewSeeder(gormStore.db, log).SeedCatalog(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.KnowledgePoints)

	err = gormStore.db.Create(&model.Subject{Name: "Duplicate", Code: "MATH"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	seeded, err := Start(env, log)
	require.NoError(t, err)
	defer seeded.Close()
	counts, err = seeded.TableCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, map[string]int64{
		"subjects":           2,
		"grades":             2,
		"curriculums":        2,
		"chapters":           2,
		"knowledge_points":   3,
		"learning_resources": 2,
	}, counts)
}
