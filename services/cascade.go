package services

import (
	"github.com/sahilchouksey/curriculum-catalog/model"
	"gorm.io/gorm"
)

// cascadeLink is one level below a deleted record: the child model and the
// column that points at its parent.
type cascadeLink struct {
	model      interface{}
	foreignKey string
}

func resourceLinks() []cascadeLink {
	return []cascadeLink{{&model.LearningResource{}, "knowledge_point_id"}}
}

func knowledgePointLinks() []cascadeLink {
	return append([]cascadeLink{{&model.KnowledgePoint{}, "chapter_id"}}, resourceLinks()...)
}

func chapterLinks() []cascadeLink {
	return append([]cascadeLink{{&model.Chapter{}, "curriculum_id"}}, knowledgePointLinks()...)
}

func curriculumLinks(parentColumn string) []cascadeLink {
	return append([]cascadeLink{{&model.Curriculum{}, parentColumn}}, chapterLinks()...)
}

// deleteTree removes the root row and every descendant reachable through links,
// deepest level first. It returns ErrNotFound when the root row does not exist.
func deleteTree(tx *gorm.DB, root interface{}, id uint, links []cascadeLink) error {
	// parents[i] selects the ids of the rows that level i hangs off; level 0 hangs off the root.
	parents := make([]*gorm.DB, len(links))
	for i := 1; i < len(links); i++ {
		prev := links[i-1]
		if i == 1 {
			parents[i] = tx.Model(prev.model).Select("id").Where(prev.foreignKey+" = ?", id)
		} else {
			parents[i] = tx.Model(prev.model).Select("id").Where(prev.foreignKey+" IN (?)", parents[i-1])
		}
	}

	for i := len(links) - 1; i >= 0; i-- {
		link := links[i]
		var q *gorm.DB
		if i == 0 {
			q = tx.Where(link.foreignKey+" = ?", id)
		} else {
			q = tx.Where(link.foreignKey+" IN (?)", parents[i])
		}
		if err := q.Delete(link.model).Error; err != nil {
			return err
		}
	}

	res := tx.Delete(root, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
