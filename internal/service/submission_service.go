package service

import (
	"errors"
	"strings"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
	"quizarena_backend/pkg/logger"
	"quizarena_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService scores completed quiz runs and maintains per-quiz
// rankings. One submission per normalized e-mail per quiz.
type SubmissionService struct {
	QuizRepo       *repository.QuizRepository
	SubmissionRepo *repository.SubmissionRepository
	UserRepo       *repository.UserRepository
	Gamification   *GamificationService
}

func NewSubmissionService(quizRepo *repository.QuizRepository, submissionRepo *repository.SubmissionRepository, userRepo *repository.UserRepository, gamification *GamificationService) *SubmissionService {
	return &SubmissionService{
		QuizRepo:       quizRepo,
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
		Gamification:   gamification,
	}
}

type AnswerInput struct {
	QuestionID uint `json:"questionId" binding:"required"`
	OptionID   uint `json:"optionId" binding:"required"`
}

type SubmissionRequest struct {
	UserName  string        `json:"userName"`
	UserEmail string        `json:"userEmail"`
	Answers   []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

type SubmissionResult struct {
	ID         uint    `json:"id"`
	QuizID     uint    `json:"quizId"`
	UserID     *uint   `json:"userId"`
	UserName   string  `json:"userName"`
	UserEmail  string  `json:"userEmail"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Position   int     `json:"position"`
	CreatedAt  string  `json:"createdAt"`
}

// CreateSubmission validates and scores a full answer sheet, persists it and
// reports the 1-based ranking position. When the participant's e-mail matches
// a registered account the submission is linked to it and gamification runs;
// a gamification failure is logged but never fails the submission itself.
func (s *SubmissionService) CreateSubmission(quizID uint, req *SubmissionRequest, actor *util.Claims) (*SubmissionResult, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotFound
	}

	email := util.NormalizeEmail(req.UserEmail)
	if email == "" && actor != nil {
		email = util.NormalizeEmail(actor.Email)
	}
	if email == "" {
		return nil, util.ErrEmailRequired
	}

	if _, err := s.SubmissionRepo.FindByQuizAndEmail(quizID, email); err == nil {
		return nil, util.ErrAlreadyParticipated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	questions := make(map[uint]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	answered := make(map[uint]struct{}, len(req.Answers))
	evaluated := make([]model.SubmissionAnswer, 0, len(req.Answers))
	score := 0
	for _, answer := range req.Answers {
		if _, seen := answered[answer.QuestionID]; seen {
			return nil, util.ErrDuplicateAnswer
		}
		answered[answer.QuestionID] = struct{}{}

		question, ok := questions[answer.QuestionID]
		if !ok {
			return nil, util.ErrInvalidQuestion
		}

		var chosen *model.Option
		for i := range question.Options {
			if question.Options[i].ID == answer.OptionID {
				chosen = &question.Options[i]
				break
			}
		}
		if chosen == nil {
			return nil, util.ErrInvalidOption
		}

		if chosen.IsCorrect {
			score++
		}
		evaluated = append(evaluated, model.SubmissionAnswer{
			QuestionID: answer.QuestionID,
			OptionID:   answer.OptionID,
			IsCorrect:  chosen.IsCorrect,
		})
	}

	expected := len(quiz.Questions)
	if quiz.QuestionLimit != nil && *quiz.QuestionLimit < expected {
		expected = *quiz.QuestionLimit
	}
	if len(evaluated) != expected {
		return nil, util.ErrIncompleteAnswers
	}

	total := len(evaluated)
	percentage := 0.0
	if total > 0 {
		percentage = util.Round2(float64(score) / float64(total) * 100)
	}

	name := strings.TrimSpace(req.UserName)
	var userID *uint
	if actor != nil {
		id := actor.UserID
		userID = &id
		if name == "" {
			name = actor.Name
		}
	} else if user, err := s.UserRepo.FindByEmail(email); err == nil {
		userID = &user.ID
		if name == "" {
			name = user.Name
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if name == "" {
		name = "Participant"
	}

	submission := &model.Submission{
		QuizID:     quizID,
		UserID:     userID,
		UserName:   name,
		UserEmail:  email,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Answers:    evaluated,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		// A concurrent submission with the same e-mail may have won the race;
		// the unique index reports it as a duplicate key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyParticipated
		}
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(quiz.Title).Inc()

	better, err := s.SubmissionRepo.CountBetter(quizID, submission.Score, submission.CreatedAt)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		if _, err := s.Gamification.RegisterSubmission(*userID, score, total, percentage); err != nil {
			logger.Log.Error("gamification update failed",
				zap.Uint("userId", *userID),
				zap.Uint("quizId", quizID),
				zap.Error(err))
		}
	}

	return &SubmissionResult{
		ID:         submission.ID,
		QuizID:     quizID,
		UserID:     userID,
		UserName:   name,
		UserEmail:  email,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Position:   int(better) + 1,
		CreatedAt:  submission.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

type RankingEntry struct {
	Position   int     `json:"position"`
	UserName   string  `json:"userName"`
	UserEmail  string  `json:"userEmail"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	CreatedAt  string  `json:"createdAt"`
}

// GetRanking lists the top submissions of a quiz, best score first, earlier
// submission winning ties. Works for inactive quizzes too so past rankings
// stay consultable.
func (s *SubmissionService) GetRanking(quizID uint, limit int) ([]RankingEntry, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	submissions, err := s.SubmissionRepo.ListRanking(quizID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(submissions))
	for index, submission := range submissions {
		entries = append(entries, RankingEntry{
			Position:   index + 1,
			UserName:   submission.UserName,
			UserEmail:  submission.UserEmail,
			Score:      submission.Score,
			Total:      submission.Total,
			Percentage: submission.Percentage,
			CreatedAt:  submission.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return entries, nil
}

type ClearRankingResult struct {
	DeletedSubmissions int64 `json:"deletedSubmissions"`
	DeletedAnswers     int64 `json:"deletedAnswers"`
}

// ClearRanking wipes every submission of a quiz so the same participants can
// play again. Running it twice is harmless; the second run deletes nothing.
func (s *SubmissionService) ClearRanking(quizID uint) (*ClearRankingResult, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	deletedSubmissions, deletedAnswers, err := s.SubmissionRepo.DeleteByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	return &ClearRankingResult{
		DeletedSubmissions: deletedSubmissions,
		DeletedAnswers:     deletedAnswers,
	}, nil
}
