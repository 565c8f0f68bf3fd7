package repository

import (
	"quizarena_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindByQuizAndEmail(quizID uint, email string) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Where("quiz_id = ? AND user_email = ?", quizID, email).First(&submission).Error
	return &submission, err
}

// Create persists the submission and its answer rows as one atomic unit.
func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
}

// CountBetter counts submissions ranking above the given one: higher score,
// or equal score submitted earlier.
func (r *SubmissionRepository) CountBetter(quizID uint, score int, createdAt time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("quiz_id = ?", quizID).
		Where("score > ? OR (score = ? AND created_at < ?)", score, score, createdAt).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) ListRanking(quizID uint, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("score desc, created_at asc").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// DeleteByQuiz clears a quiz's ranking: answers first, then submissions.
// Returns how many rows of each were removed. Re-running on an empty quiz
// deletes nothing and is not an error.
func (r *SubmissionRepository) DeleteByQuiz(quizID uint) (deletedSubmissions int64, deletedAnswers int64, err error) {
	answers := r.DB.Where("submission_id IN (?)",
		r.DB.Model(&model.Submission{}).Select("id").Where("quiz_id = ?", quizID),
	).Delete(&model.SubmissionAnswer{})
	if answers.Error != nil {
		return 0, 0, answers.Error
	}

	submissions := r.DB.Where("quiz_id = ?", quizID).Delete(&model.Submission{})
	if submissions.Error != nil {
		return 0, answers.RowsAffected, submissions.Error
	}

	return submissions.RowsAffected, answers.RowsAffected, nil
}
