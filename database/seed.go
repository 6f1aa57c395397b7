package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Catalog is the YAML seed document.
type Catalog struct {
	Subjects    []SeedCode       `yaml:"subjects"`
	Grades      []SeedCode       `yaml:"grades"`
	Curriculums []SeedCurriculum `yaml:"curriculums"`
}

// SeedCode describes a subject or a grade.
type SeedCode struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type SeedCurriculum struct {
	Subject     string        `yaml:"subject"` // subject code
	Grade       string        `yaml:"grade"`   // grade code
	Name        string        `yaml:"name"`
	Description *string       `yaml:"description"`
	Chapters    []SeedChapter `yaml:"chapters"`
}

type SeedChapter struct {
	Name            string               `yaml:"name"`
	Order           uint                 `yaml:"order"`
	KnowledgePoints []SeedKnowledgePoint `yaml:"knowledge_points"`
}

type SeedKnowledgePoint struct {
	Name        string         `yaml:"name"`
	Description *string        `yaml:"description"`
	Difficulty  int            `yaml:"difficulty"`
	Order       uint           `yaml:"order"`
	Resources   []SeedResource `yaml:"resources"`
}

type SeedResource struct {
	Title         string  `yaml:"title"`
	ResourceType  string  `yaml:"resource_type"`
	URL           string  `yaml:"url"`
	Description   *string `yaml:"description"`
	IsRecommended bool    `yaml:"is_recommended"`
}

// SeedStats counts the rows a seeding run created.
type SeedStats struct {
	Subjects        int
	Grades          int
	Curriculums     int
	Chapters        int
	KnowledgePoints int
	Resources       int
}

// ParseCatalog decodes a YAML catalog and checks the enumerated fields.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	for _, c := range cat.Curriculums {
		for _, ch := range c.Chapters {
			for _, kp := range ch.KnowledgePoints {
				if kp.Difficulty != 0 && !model.Difficulty(kp.Difficulty).Valid() {
					return nil, fmt.Errorf("knowledge point %q: difficulty %d out of range", kp.Name, kp.Difficulty)
				}
				for _, r := range kp.Resources {
					if !model.ResourceType(r.ResourceType).Valid() {
						return nil, fmt.Errorf("resource %q: unknown resource type %q", r.Title, r.ResourceType)
					}
				}
			}
		}
	}
	return &cat, nil
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCatalog(f)
}

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *logger.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

// SeedAdminUser creates an admin account unless one already exists.
// Empty credentials skip the step.
func (s *Seeder) SeedAdminUser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("admin user already exists, skipping", "email", email)
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         model.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	s.log.Info("created admin user", "email", admin.Email)
	return nil
}

// SeedCatalog inserts every entry of cat that is not stored yet. Entries are
// matched by natural key: subject and grade code, the curriculum triple,
// chapter and point name within their parent, and resource URL within its point.
func (s *Seeder) SeedCatalog(ctx context.Context, cat *Catalog) (SeedStats, error) {
	var stats SeedStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subjects := make(map[string]uint, len(cat.Subjects))
		for _, in := range cat.Subjects {
			var row model.Subject
			created, err := findOrCreate(tx, &row, model.Subject{Name: in.Name, Code: in.Code}, "code = ?", in.Code)
			if err != nil {
				return fmt.Errorf("subject %s: %w", in.Code, err)
			}
			stats.Subjects += count(created)
			subjects[in.Code] = row.ID
		}

		grades := make(map[string]uint, len(cat.Grades))
		for _, in := range cat.Grades {
			var row model.Grade
			created, err := findOrCreate(tx, &row, model.Grade{Name: in.Name, Code: in.Code}, "code = ?", in.Code)
			if err != nil {
				return fmt.Errorf("grade %s: %w", in.Code, err)
			}
			stats.Grades += count(created)
			grades[in.Code] = row.ID
		}

		for _, in := range cat.Curriculums {
			if err := s.seedCurriculum(tx, in, subjects, grades, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}

	s.log.Info("catalog seeded",
		"subjects", stats.Subjects,
		"grades", stats.Grades,
		"curriculums", stats.Curriculums,
		"chapters", stats.Chapters,
		"knowledge_points", stats.KnowledgePoints,
		"resources", stats.Resources,
	)
	return stats, nil
}

func (s *Seeder) seedCurriculum(tx *gorm.DB, in SeedCurriculum, subjects, grades map[string]uint, stats *SeedStats) error {
	subjectID, err := lookupCode(tx, &model.Subject{}, subjects, in.Subject)
	if err != nil {
		return fmt.Errorf("curriculum %q: subject %s: %w", in.Name, in.Subject, err)
	}
	gradeID, err := lookupCode(tx, &model.Grade{}, grades, in.Grade)
	if err != nil {
		return fmt.Errorf("curriculum %q: grade %s: %w", in.Name, in.Grade, err)
	}

	var curriculum model.Curriculum
	created, err := findOrCreate(tx, &curriculum,
		model.Curriculum{SubjectID: subjectID, GradeID: gradeID, Name: in.Name, Description: in.Description},
		"subject_id = ? AND grade_id = ? AND name = ?", subjectID, gradeID, in.Name)
	if err != nil {
		return fmt.Errorf("curriculum %q: %w", in.Name, err)
	}
	stats.Curriculums += count(created)

	for _, ch := range in.Chapters {
		var chapter model.Chapter
		created, err := findOrCreate(tx, &chapter,
			model.Chapter{CurriculumID: curriculum.ID, Name: ch.Name, Order: ch.Order},
			"curriculum_id = ? AND name = ?", curriculum.ID, ch.Name)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", ch.Name, err)
		}
		stats.Chapters += count(created)

		for _, kp := range ch.KnowledgePoints {
			difficulty := model.Difficulty(kp.Difficulty)
			if difficulty == 0 {
				difficulty = model.DefaultDifficulty
			}
			var point model.KnowledgePoint
			created, err := findOrCreate(tx, &point, model.KnowledgePoint{
				ChapterID:   chapter.ID,
				Name:        kp.Name,
				Description: kp.Description,
				Difficulty:  difficulty,
				Order:       kp.Order,
			}, "chapter_id = ? AND name = ?", chapter.ID, kp.Name)
			if err != nil {
				return fmt.Errorf("knowledge point %q: %w", kp.Name, err)
			}
			stats.KnowledgePoints += count(created)

			for _, r := range kp.Resources {
				var resource model.LearningResource
				created, err := findOrCreate(tx, &resource, model.LearningResource{
					KnowledgePointID: point.ID,
					Title:            r.Title,
					ResourceType:     model.ResourceType(r.ResourceType),
					URL:              r.URL,
					Description:      r.Description,
					IsRecommended:    r.IsRecommended,
				}, "knowledge_point_id = ? AND url = ?", point.ID, r.URL)
				if err != nil {
					return fmt.Errorf("resource %q: %w", r.Title, err)
				}
				stats.Resources += count(created)
			}
		}
	}
	return nil
}

// findOrCreate loads the row matching query into row, inserting fresh when there is none.
func findOrCreate[T any](tx *gorm.DB, row *T, fresh T, query string, args ...interface{}) (bool, error) {
	err := tx.Where(query, args...).Take(row).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	*row = fresh
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

func count(created bool) int {
	if created {
		return 1
	}
	return 0
}

// lookupCode resolves a subject or grade code seeded in this run or already stored.
func lookupCode(tx *gorm.DB, m interface{}, seeded map[string]uint, code string) (uint, error) {
	if id, ok := seeded[code]; ok {
		return id, nil
	}
	var id uint
	err := tx.Model(m).Select("id").Where("code = ?", code).Limit(1).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return id, nil
}
