package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// FindWithQuestions loads the quiz with its questions in authored order and
// each question's options.
func (r *QuizRepository) FindWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc")
		}).
		Preload("Questions.Options").
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) ListAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc")
		}).
		Preload("Questions.Options").
		Order("created_at desc").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListActive() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("is_active = ?", true).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// CountByQuiz returns per-quiz row counts for the given table keyed by quiz id.
func (r *QuizRepository) countByQuiz(tableModel interface{}) (map[uint]int, error) {
	type row struct {
		QuizID uint
		N      int
	}
	var rows []row
	err := r.DB.Model(tableModel).
		Select("quiz_id, count(*) as n").
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, item := range rows {
		counts[item.QuizID] = item.N
	}
	return counts, nil
}

func (r *QuizRepository) QuestionCounts() (map[uint]int, error) {
	return r.countByQuiz(&model.Question{})
}

func (r *QuizRepository) SubmissionCounts() (map[uint]int, error) {
	return r.countByQuiz(&model.Submission{})
}

func (r *QuizRepository) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// UpdateFields applies a partial patch; callers build the map so absent
// fields stay untouched.
func (r *QuizRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.Quiz{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the quiz and everything hanging off it in one transaction,
// children first.
func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id IN (?)",
			tx.Model(&model.Submission{}).Select("id").Where("quiz_id = ?", id),
		).Delete(&model.SubmissionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (?)",
			tx.Model(&model.Question{}).Select("id").Where("quiz_id = ?", id),
		).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}
