package model

// Subject is an academic discipline, e.g. "Mathematics" (code "MATH").
type Subject struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`

	// Relationships
	Curriculums []Curriculum `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Subject
func (Subject) TableName() string {
	return "subjects"
}

// Grade is a school year, e.g. "Senior 1" (code "G10").
type Grade struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
	Code string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`

	// Relationships
	Curriculums []Curriculum `gorm:"foreignKey:GradeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Grade
func (Grade) TableName() string {
	return "grades"
}
