package database

import (
	"strings"
)

// catalogTables lists the catalog tables from root to leaf.
var catalogTables = []string{
	"subjects",
	"grades",
	"curriculums",
	"chapters",
	"knowledge_points",
	"learning_resources",
}

// Initialize creates every table that does not exist yet. The schema matches
// what GORM AutoMigrate produces for the models, plus CHECK constraints.
func (s *PostgreSQLStore) Initialize() error {
	s.log.Info("creating tables")
	if err := s.InitTables(); err != nil {
		return err
	}
	s.PrintAllRelationships()
	return nil
}

func (s *PostgreSQLStore) InitTables() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		role VARCHAR(20) DEFAULT 'editor',
		token_version BIGINT DEFAULT 0
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email);
	`

	blacklistTable := `
	CREATE TABLE IF NOT EXISTS jwt_token_blacklist (
		id BIGSERIAL PRIMARY KEY,
		token VARCHAR(64) NOT NULL,
		user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
		reason VARCHAR(100),
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_jwt_token_blacklist_token ON jwt_token_blacklist (token);
	CREATE INDEX IF NOT EXISTS idx_jwt_token_blacklist_user_id ON jwt_token_blacklist (user_id);
	CREATE INDEX IF NOT EXISTS idx_jwt_token_blacklist_expires_at ON jwt_token_blacklist (expires_at);
	`

	subjectsTable := `
	CREATE TABLE IF NOT EXISTS subjects (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		code VARCHAR(50) NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_code ON subjects (code);
	`

	gradesTable := `
	CREATE TABLE IF NOT EXISTS grades (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		code VARCHAR(20) NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_grades_code ON grades (code);
	`

	curriculumsTable := `
	CREATE TABLE IF NOT EXISTS curriculums (
		id BIGSERIAL PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		grade_id BIGINT NOT NULL REFERENCES grades(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		description TEXT
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_curriculum_subject_grade_name ON curriculums (subject_id, grade_id, name);
	CREATE INDEX IF NOT EXISTS idx_curriculums_grade_id ON curriculums (grade_id);
	`

	chaptersTable := `
	CREATE TABLE IF NOT EXISTS chapters (
		id BIGSERIAL PRIMARY KEY,
		curriculum_id BIGINT NOT NULL REFERENCES curriculums(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		"order" BIGINT NOT NULL DEFAULT 0 CHECK ("order" >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_chapters_curriculum_id ON chapters (curriculum_id);
	`

	knowledgePointsTable := `
	CREATE TABLE IF NOT EXISTS knowledge_points (
		id BIGSERIAL PRIMARY KEY,
		chapter_id BIGINT NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		difficulty SMALLINT NOT NULL DEFAULT 2 CHECK (difficulty BETWEEN 1 AND 4),
		"order" BIGINT NOT NULL DEFAULT 0 CHECK ("order" >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_points_chapter_id ON knowledge_points (chapter_id);
	`

	resourcesTable := `
	CREATE TABLE IF NOT EXISTS learning_resources (
		id BIGSERIAL PRIMARY KEY,
		knowledge_point_id BIGINT NOT NULL REFERENCES knowledge_points(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		resource_type VARCHAR(50) NOT NULL CHECK (resource_type IN ('video', 'article', 'exercise', 'book')),
		url VARCHAR(200) NOT NULL,
		description TEXT,
		is_recommended BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_learning_resources_knowledge_point_id ON learning_resources (knowledge_point_id);
	CREATE INDEX IF NOT EXISTS idx_learning_resources_resource_type ON learning_resources (resource_type);
	`

	allTables := strings.Join([]string{
		usersTable,
		blacklistTable,
		subjectsTable,
		gradesTable,
		curriculumsTable,
		chaptersTable,
		knowledgePointsTable,
		resourcesTable,
	}, "")

	_, err := s.db.Exec(allTables)
	return err
}

func (s *PostgreSQLStore) PrintAllRelationships() {
	relationships := [][2]string{
		{"jwt_token_blacklist", "user_id -> users(id)"},
		{"curriculums", "subject_id -> subjects(id), grade_id -> grades(id)"},
		{"chapters", "curriculum_id -> curriculums(id)"},
		{"knowledge_points", "chapter_id -> chapters(id)"},
		{"learning_resources", "knowledge_point_id -> knowledge_points(id)"},
	}

	for _, r := range relationships {
		s.log.Info("relationship", "table", r[0], "references", r[1])
	}
}
