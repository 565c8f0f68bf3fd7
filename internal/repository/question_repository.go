package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Create persists the question together with its options.
func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(question).Error
	})
}

func (r *QuestionRepository) FindByIDAndQuiz(questionID, quizID uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Options").
		Where("id = ? AND quiz_id = ?", questionID, quizID).
		First(&question).Error
	return &question, err
}

// FindForActiveQuiz only matches questions whose parent quiz is active, so an
// inactive quiz looks exactly like a missing one to players.
func (r *QuestionRepository) FindForActiveQuiz(questionID, quizID uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Options").
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("questions.id = ? AND questions.quiz_id = ? AND quizzes.is_active = ?", questionID, quizID, true).
		First(&question).Error
	return &question, err
}

// DeleteAndRenumber removes the question with its options and renumbers the
// surviving siblings densely from 1 so the authored order has no holes.
func (r *QuestionRepository) DeleteAndRenumber(questionID, quizID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Question{}, questionID).Error; err != nil {
			return err
		}

		var remaining []model.Question
		if err := tx.Where("quiz_id = ?", quizID).
			Order("`order` asc").
			Find(&remaining).Error; err != nil {
			return err
		}

		for index, item := range remaining {
			if item.Order == index+1 {
				continue
			}
			if err := tx.Model(&model.Question{}).
				Where("id = ?", item.ID).
				Update("order", index+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
