package model

// Difficulty rates a knowledge point from 1 (easy) to 4 (challenge).
type Difficulty int

const (
	DifficultyEasy      Difficulty = 1
	DifficultyMedium    Difficulty = 2
	DifficultyHard      Difficulty = 3
	DifficultyChallenge Difficulty = 4
)

// DefaultDifficulty is applied when a knowledge point is created without one.
const DefaultDifficulty = DifficultyMedium

// Valid reports whether d is one of the four known levels.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyChallenge
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyChallenge:
		return "challenge"
	}
	return "unknown"
}

// KnowledgePoint is an ordered, difficulty-rated learning unit within a chapter.
type KnowledgePoint struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ChapterID   uint       `gorm:"not null;index" json:"chapter"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description"`
	Difficulty  Difficulty `gorm:"type:smallint;not null;default:2" json:"difficulty"`
	Order       uint       `gorm:"column:order;not null;default:0" json:"order"`

	// Relationships
	Chapter   Chapter            `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
	Resources []LearningResource `gorm:"foreignKey:KnowledgePointID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for KnowledgePoint
func (KnowledgePoint) TableName() string {
	return "knowledge_points"
}

// ResourceType classifies a learning resource.
type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourceArticle  ResourceType = "article"
	ResourceExercise ResourceType = "exercise"
	ResourceBook     ResourceType = "book"
)

// ResourceTypes lists every accepted resource type.
var ResourceTypes = []ResourceType{ResourceVideo, ResourceArticle, ResourceExercise, ResourceBook}

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// LearningResource is an external or reference material attached to a knowledge point.
type LearningResource struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	KnowledgePointID uint         `gorm:"not null;index" json:"knowledge_point"`
	Title            string       `gorm:"type:varchar(255);not null" json:"title"`
	ResourceType     ResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	URL              string       `gorm:"type:varchar(200);not null" json:"url"`
	Description      *string      `gorm:"type:text" json:"description"`
	IsRecommended    bool         `gorm:"not null;default:false" json:"is_recommended"`

	// Relationships
	KnowledgePoint KnowledgePoint `gorm:"foreignKey:KnowledgePointID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for LearningResource
func (LearningResource) TableName() string {
	return "learning_resources"
}
