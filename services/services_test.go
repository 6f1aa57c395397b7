package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
func intPtr(i int) *int       { return &i }

// fixture is a small catalog tree shared by the service tests.
type fixture struct {
	db         *gorm.DB
	math       model.Subject
	physics    model.Subject
	grade7     model.Grade
	grade8     model.Grade
	curriculum model.Curriculum
	chapters   []model.Chapter        // order 2, 1
	points     []model.KnowledgePoint // two under each chapter
	resources  []model.LearningResource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db}

	f.math = model.Subject{Name: "Mathematics", Code: "MATH"}
	f.physics = model.Subject{Name: "Physics", Code: "PHYS"}
	f.grade7 = model.Grade{Name: "Grade 7", Code: "G7"}
	f.grade8 = model.Grade{Name: "Grade 8", Code: "G8"}
	require.NoError(t, db.Create(&f.math).Error)
	require.NoError(t, db.Create(&f.physics).Error)
	require.NoError(t, db.Create(&f.grade7).Error)
	require.NoError(t, db.Create(&f.grade8).Error)

	f.curriculum = model.Curriculum{SubjectID: f.math.ID, GradeID: f.grade7.ID, Name: "Standard Mathematics"}
	require.NoError(t, db.Create(&f.curriculum).Error)

	// created out of position order on purpose
	f.chapters = []model.Chapter{
		{CurriculumID: f.curriculum.ID, Name: "Equations", Order: 2},
		{CurriculumID: f.curriculum.ID, Name: "Numbers", Order: 1},
	}
	require.NoError(t, db.Create(&f.chapters).Error)

	f.points = []model.KnowledgePoint{
		{ChapterID: f.chapters[0].ID, Name: "One-step equations", Difficulty: model.DifficultyHard, Order: 1},
		{ChapterID: f.chapters[0].ID, Name: "Balancing", Difficulty: model.DifficultyMedium, Order: 0},
		{ChapterID: f.chapters[1].ID, Name: "Number line", Difficulty: model.DifficultyEasy, Order: 2},
		{ChapterID: f.chapters[1].ID, Name: "Absolute value", Difficulty: model.DifficultyMedium, Order: 1},
	}
	require.NoError(t, db.Create(&f.points).Error)

	f.resources = []model.LearningResource{
		{KnowledgePointID: f.points[2].ID, Title: "Number line video", ResourceType: model.ResourceVideo, URL: "https://example.com/v/1", IsRecommended: true},
		{KnowledgePointID: f.points[2].ID, Title: "Number line worksheet", ResourceType: model.ResourceExercise, URL: "https://example.com/e/1"},
		{KnowledgePointID: f.points[0].ID, Title: "Equations handbook", ResourceType: model.ResourceBook, URL: "ftp://example.com/books/eq.pdf"},
	}
	require.NoError(t, db.Create(&f.resources).Error)

	return f
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

var ctx = context.Background()
