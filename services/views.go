package services

import "github.com/sahilchouksey/curriculum-catalog/model"

// SubjectView is the JSON shape of a subject.
type SubjectView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func NewSubjectView(s model.Subject) SubjectView {
	return SubjectView{ID: s.ID, Name: s.Name, Code: s.Code}
}

// GradeView is the JSON shape of a grade.
type GradeView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func NewGradeView(g model.Grade) GradeView {
	return GradeView{ID: g.ID, Name: g.Name, Code: g.Code}
}

// ChapterSimple is the lightweight chapter embedded in curriculum listings.
type ChapterSimple struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Order uint   `json:"order"`
}

// KnowledgePointSimple is the lightweight knowledge point embedded in chapters
// and returned by the by-curriculum lookup.
type KnowledgePointSimple struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Difficulty model.Difficulty `json:"difficulty"`
	Order      uint             `json:"order"`
}

func NewKnowledgePointSimple(kp model.KnowledgePoint) KnowledgePointSimple {
	return KnowledgePointSimple{ID: kp.ID, Name: kp.Name, Difficulty: kp.Difficulty, Order: kp.Order}
}

// CurriculumView is returned by the curriculum list and create operations.
type CurriculumView struct {
	ID          uint            `json:"id"`
	Subject     uint            `json:"subject"`
	Grade       uint            `json:"grade"`
	SubjectName string          `json:"subject_name"`
	GradeName   string          `json:"grade_name"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Chapters    []ChapterSimple `json:"chapters"`
}

// NewCurriculumView expects Subject, Grade and Chapters to be loaded.
func NewCurriculumView(c model.Curriculum) CurriculumView {
	chapters := make([]ChapterSimple, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		chapters = append(chapters, ChapterSimple{ID: ch.ID, Name: ch.Name, Order: ch.Order})
	}
	return CurriculumView{
		ID:          c.ID,
		Subject:     c.SubjectID,
		Grade:       c.GradeID,
		SubjectName: c.Subject.Name,
		GradeName:   c.Grade.Name,
		Name:        c.Name,
		Description: c.Description,
		Chapters:    chapters,
	}
}

// CurriculumDetailView embeds the full subject and grade plus every chapter
// with its knowledge points.
type CurriculumDetailView struct {
	ID          uint          `json:"id"`
	Subject     SubjectView   `json:"subject"`
	Grade       GradeView     `json:"grade"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Chapters    []ChapterView `json:"chapters"`
}

// NewCurriculumDetailView expects Subject, Grade, Chapters and Chapters.KnowledgePoints to be loaded.
func NewCurriculumDetailView(c model.Curriculum) CurriculumDetailView {
	chapters := make([]ChapterView, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		chapters = append(chapters, NewChapterView(ch))
	}
	return CurriculumDetailView{
		ID:          c.ID,
		Subject:     NewSubjectView(c.Subject),
		Grade:       NewGradeView(c.Grade),
		Name:        c.Name,
		Description: c.Description,
		Chapters:    chapters,
	}
}

// ChapterView is a chapter with its lightweight knowledge points.
type ChapterView struct {
	ID              uint                   `json:"id"`
	Curriculum      uint                   `json:"curriculum"`
	Name            string                 `json:"name"`
	Order           uint                   `json:"order"`
	KnowledgePoints []KnowledgePointSimple `json:"knowledge_points"`
}

// NewChapterView expects KnowledgePoints to be loaded.
func NewChapterView(ch model.Chapter) ChapterView {
	points := make([]KnowledgePointSimple, 0, len(ch.KnowledgePoints))
	for _, kp := range ch.KnowledgePoints {
		points = append(points, NewKnowledgePointSimple(kp))
	}
	return ChapterView{
		ID:              ch.ID,
		Curriculum:      ch.CurriculumID,
		Name:            ch.Name,
		Order:           ch.Order,
		KnowledgePoints: points,
	}
}

// KnowledgePointView is a knowledge point with all of its learning resources.
type KnowledgePointView struct {
	ID          uint                   `json:"id"`
	Chapter     uint                   `json:"chapter"`
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Difficulty  model.Difficulty       `json:"difficulty"`
	Order       uint                   `json:"order"`
	Resources   []LearningResourceView `json:"resources"`
}

// NewKnowledgePointView expects Resources to be loaded.
func NewKnowledgePointView(kp model.KnowledgePoint) KnowledgePointView {
	resources := make([]LearningResourceView, 0, len(kp.Resources))
	for _, r := range kp.Resources {
		resources = append(resources, NewLearningResourceView(r))
	}
	return KnowledgePointView{
		ID:          kp.ID,
		Chapter:     kp.ChapterID,
		Name:        kp.Name,
		Description: kp.Description,
		Difficulty:  kp.Difficulty,
		Order:       kp.Order,
		Resources:   resources,
	}
}

// LearningResourceView is the JSON shape of a learning resource.
type LearningResourceView struct {
	ID             uint               `json:"id"`
	KnowledgePoint uint               `json:"knowledge_point"`
	Title          string             `json:"title"`
	ResourceType   model.ResourceType `json:"resource_type"`
	URL            string             `json:"url"`
	Description    *string            `json:"description"`
	IsRecommended  bool               `json:"is_recommended"`
}

func NewLearningResourceView(r model.LearningResource) LearningResourceView {
	return LearningResourceView{
		ID:             r.ID,
		KnowledgePoint: r.KnowledgePointID,
		Title:          r.Title,
		ResourceType:   r.ResourceType,
		URL:            r.URL,
		Description:    r.Description,
		IsRecommended:  r.IsRecommended,
	}
}
