package model

// Curriculum is a named syllabus scoped to one subject and one grade.
// The (subject, grade, name) triple is unique.
type Curriculum struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SubjectID   uint    `gorm:"not null;uniqueIndex:idx_curriculum_subject_grade_name,priority:1" json:"subject"`
	GradeID     uint    `gorm:"not null;uniqueIndex:idx_curriculum_subject_grade_name,priority:2;index" json:"grade"`
	Name        string  `gorm:"type:varchar(200);not null;uniqueIndex:idx_curriculum_subject_grade_name,priority:3" json:"name"`
	Description *string `gorm:"type:text" json:"description"`

	// Relationships
	Subject  Subject   `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	Grade    Grade     `gorm:"foreignKey:GradeID;constraint:OnDelete:CASCADE" json:"-"`
	Chapters []Chapter `gorm:"foreignKey:CurriculumID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Curriculum
func (Curriculum) TableName() string {
	return "curriculums"
}

// Chapter is an ordered subdivision of a curriculum.
type Chapter struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CurriculumID uint   `gorm:"not null;index" json:"curriculum"`
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	Order        uint   `gorm:"column:order;not null;default:0" json:"order"`

	// Relationships
	Curriculum      Curriculum       `gorm:"foreignKey:CurriculumID;constraint:OnDelete:CASCADE" json:"-"`
	KnowledgePoints []KnowledgePoint `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Chapter
func (Chapter) TableName() string {
	return "chapters"
}
