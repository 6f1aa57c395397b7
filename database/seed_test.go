package database

import (
	"context"
	"strings"
	"testing"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GORMStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewGORMStore(db, logger.Nop())
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init())
	require.NoError(t, store.HealthCheck())
	return store
}

func TestParseCatalog(t *testing.T) {
	cat, err := LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, cat.Subjects, 2)
	require.Len(t, cat.Curriculums, 2)
	assert.Equal(t, "MATH", cat.Curriculums[0].Subject)
	assert.Zero(t, cat.Curriculums[0].Chapters[0].KnowledgePoints[1].Difficulty)

	cases := map[string]string{
		"unknown field":  "subjects:\n  - name: Maths\n    colour: red\n",
		"bad difficulty": "curriculums:\n  - name: C\n    chapters:\n      - name: Ch\n        knowledge_points:\n          - name: K\n            difficulty: 5\n",
		"bad resource":   "curriculums:\n  - name: C\n    chapters:\n      - name: Ch\n        knowledge_points:\n          - name: K\n            resources:\n              - title: R\n                resource_type: podcast\n",
		"not a mapping":  "- just\n- a list\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	empty, err := ParseCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Subjects)

	_, err = LoadCatalog("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	seeder := NewSeeder(store.db, logger.Nop())

	cat, err := LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)

	stats, err := seeder.SeedCatalog(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Subjects: 2, Grades: 2, Curriculums: 2, Chapters: 2, KnowledgePoints: 3, Resources: 2}, stats)

	again, err := seeder.SeedCatalog(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{}, again)

	var absolute model.KnowledgePoint
	require.NoError(t, store.db.Where("name = ?", "Absolute value").First(&absolute).Error)
	assert.Equal(t, model.DefaultDifficulty, absolute.Difficulty)
	require.NotNil(t, absolute.Description)

	var video model.LearningResource
	require.NoError(t, store.db.Where("resource_type = ?", "video").First(&video).Error)
	assert.True(t, video.IsRecommended)
}

func TestSeedCatalog_UsesStoredCodes(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	seeder := NewSeeder(store.db, logger.Nop())

	require.NoError(t, store.db.Create(&model.Subject{Name: "Chemistry", Code: "CHEM"}).Error)
	require.NoError(t, store.db.Create(&model.Grade{Name: "Grade 9", Code: "G9"}).Error)

	cat := &Catalog{Curriculums: []SeedCurriculum{{Subject: "CHEM", Grade: "G9", Name: "Chemistry Basics"}}}
	stats, err := seeder.SeedCatalog(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Curriculums)

	cat = &Catalog{Curriculums: []SeedCurriculum{{Subject: "NOPE", Grade: "G9", Name: "Orphan"}}}
	_, err = seeder.SeedCatalog(ctx, cat)
	assert.ErrorContains(t, err, "NOPE")

	var n int64
	require.NoError(t, store.db.Model(&model.Curriculum{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "a failed run leaves nothing behind")
}

func TestSeedAdminUser(t *testing.T) {
	auth.HashCost = bcrypt.MinCost
	ctx := context.Background()
	store := newSQLiteStore(t)
	seeder := NewSeeder(store.db, logger.Nop())

	require.NoError(t, seeder.SeedAdminUser(ctx, "", ""))
	require.NoError(t, seeder.SeedAdminUser(ctx, " Admin@Example.com ", "admin-password"))
	require.NoError(t, seeder.SeedAdminUser(ctx, "admin@example.com", "admin-password"))

	var users []model.User
	require.NoError(t, store.db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
	assert.NoError(t, auth.VerifyPassword(users[0].PasswordHash, "admin-password"))

	assert.ErrorIs(t, seeder.SeedAdminUser(ctx, "other@example.com", "short"), auth.ErrPasswordTooShort)
}
