package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"quizarena_backend/internal/config"
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quizarena_backend/pkg/logger"
)

// QuizService owns the admin side: quiz lifecycle, question management and
// media handling.
type QuizService struct {
	QuizRepo       *repository.QuizRepository
	QuestionRepo   *repository.QuestionRepository
	SubmissionRepo *repository.SubmissionRepository
	Storage        *StorageService
	Config         *config.Config
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, submissionRepo *repository.SubmissionRepository, storage *StorageService, cfg *config.Config) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		QuestionRepo:   questionRepo,
		SubmissionRepo: submissionRepo,
		Storage:        storage,
		Config:         cfg,
	}
}

type QuizCreateRequest struct {
	Title                    string         `json:"title" binding:"required,min=3"`
	Description              string         `json:"description" binding:"required,min=5"`
	IsActive                 *bool          `json:"isActive"`
	Mode                     model.QuizMode `json:"mode" binding:"omitempty,oneof=SEQUENTIAL RANDOM"`
	QuestionLimit            *int           `json:"questionLimit" binding:"omitempty,gt=0"`
	BackgroundVideoURL       *string        `json:"backgroundVideoUrl"`
	BackgroundVideoStart     *float64       `json:"backgroundVideoStart" binding:"omitempty,gte=0"`
	BackgroundVideoEnd       *float64       `json:"backgroundVideoEnd" binding:"omitempty,gte=0"`
	BackgroundVideoLoop      *bool          `json:"backgroundVideoLoop"`
	BackgroundVideoMuted     *bool          `json:"backgroundVideoMuted"`
	BackgroundImageIntensity *float64       `json:"backgroundImageIntensity" binding:"omitempty,gte=0.1,lte=1"`
	BackgroundVideoIntensity *float64       `json:"backgroundVideoIntensity" binding:"omitempty,gte=0.1,lte=1"`
}

// QuizUpdateRequest is a partial patch; nil means leave untouched. Sending an
// empty backgroundVideoUrl clears the video along with its start/end marks.
type QuizUpdateRequest struct {
	Title                    *string         `json:"title" binding:"omitempty,min=3"`
	Description              *string         `json:"description" binding:"omitempty,min=5"`
	IsActive                 *bool           `json:"isActive"`
	Mode                     *model.QuizMode `json:"mode" binding:"omitempty,oneof=SEQUENTIAL RANDOM"`
	QuestionLimit            *int            `json:"questionLimit" binding:"omitempty,gte=0"`
	BackgroundVideoURL       *string         `json:"backgroundVideoUrl"`
	BackgroundVideoStart     *float64        `json:"backgroundVideoStart" binding:"omitempty,gte=0"`
	BackgroundVideoEnd       *float64        `json:"backgroundVideoEnd" binding:"omitempty,gte=0"`
	BackgroundVideoLoop      *bool           `json:"backgroundVideoLoop"`
	BackgroundVideoMuted     *bool           `json:"backgroundVideoMuted"`
	BackgroundImageIntensity *float64        `json:"backgroundImageIntensity" binding:"omitempty,gte=0.1,lte=1"`
	BackgroundVideoIntensity *float64        `json:"backgroundVideoIntensity" binding:"omitempty,gte=0.1,lte=1"`
}

// AdminQuizView is the full quiz as admins see it, correctness flags included,
// with media paths resolved to URLs.
type AdminQuizView struct {
	model.Quiz
	BackgroundImageURL *string `json:"backgroundImageUrl"`
	HeaderImageURL     *string `json:"headerImageUrl"`
}

// ActiveQuizSummary is the public catalog entry. QuestionCount already has the
// question limit applied, so it matches what a player will actually face.
type ActiveQuizSummary struct {
	ID                       uint           `json:"id"`
	Title                    string         `json:"title"`
	Description              string         `json:"description"`
	Mode                     model.QuizMode `json:"mode"`
	QuestionLimit            *int           `json:"questionLimit"`
	QuestionCount            int            `json:"questionCount"`
	SubmissionCount          int            `json:"submissionCount"`
	BackgroundImageURL       *string        `json:"backgroundImageUrl"`
	HeaderImageURL           *string        `json:"headerImageUrl"`
	BackgroundVideoURL       *string        `json:"backgroundVideoUrl"`
	BackgroundVideoStart     *float64       `json:"backgroundVideoStart"`
	BackgroundVideoEnd       *float64       `json:"backgroundVideoEnd"`
	BackgroundVideoLoop      bool           `json:"backgroundVideoLoop"`
	BackgroundVideoMuted     bool           `json:"backgroundVideoMuted"`
	BackgroundImageIntensity float64        `json:"backgroundImageIntensity"`
	BackgroundVideoIntensity float64        `json:"backgroundVideoIntensity"`
	CreatedAt                string         `json:"createdAt"`
}

func (s *QuizService) adminView(quiz *model.Quiz) *AdminQuizView {
	return &AdminQuizView{
		Quiz:               *quiz,
		BackgroundImageURL: mediaURL(s.Storage, s.Config.Server.PublicURL, quiz.BackgroundImage),
		HeaderImageURL:     mediaURL(s.Storage, s.Config.Server.PublicURL, quiz.HeaderImage),
	}
}

func (s *QuizService) CreateQuiz(req *QuizCreateRequest) (*AdminQuizView, error) {
	if err := validateVideoRange(req.BackgroundVideoStart, req.BackgroundVideoEnd); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:                    strings.TrimSpace(req.Title),
		Description:              strings.TrimSpace(req.Description),
		IsActive:                 true,
		Mode:                     model.ModeSequential,
		QuestionLimit:            req.QuestionLimit,
		BackgroundVideoURL:       req.BackgroundVideoURL,
		BackgroundVideoStart:     req.BackgroundVideoStart,
		BackgroundVideoEnd:       req.BackgroundVideoEnd,
		BackgroundVideoLoop:      true,
		BackgroundVideoMuted:     true,
		BackgroundImageIntensity: 0.65,
		BackgroundVideoIntensity: 0.65,
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}
	if req.Mode != "" {
		quiz.Mode = req.Mode
	}
	if req.BackgroundVideoLoop != nil {
		quiz.BackgroundVideoLoop = *req.BackgroundVideoLoop
	}
	if req.BackgroundVideoMuted != nil {
		quiz.BackgroundVideoMuted = *req.BackgroundVideoMuted
	}
	if req.BackgroundImageIntensity != nil {
		quiz.BackgroundImageIntensity = *req.BackgroundImageIntensity
	}
	if req.BackgroundVideoIntensity != nil {
		quiz.BackgroundVideoIntensity = *req.BackgroundVideoIntensity
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return s.adminView(quiz), nil
}

func (s *QuizService) UpdateQuiz(id uint, req *QuizUpdateRequest) (*AdminQuizView, error) {
	if _, err := s.QuizRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if err := validateVideoRange(req.BackgroundVideoStart, req.BackgroundVideoEnd); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Mode != nil {
		fields["mode"] = *req.Mode
	}
	if req.QuestionLimit != nil {
		if *req.QuestionLimit == 0 {
			fields["question_limit"] = nil
		} else {
			fields["question_limit"] = *req.QuestionLimit
		}
	}
	if req.BackgroundVideoURL != nil {
		if *req.BackgroundVideoURL == "" {
			// Clearing the video also drops its playback window.
			fields["background_video_url"] = nil
			fields["background_video_start"] = nil
			fields["background_video_end"] = nil
		} else {
			fields["background_video_url"] = *req.BackgroundVideoURL
		}
	}
	if req.BackgroundVideoStart != nil {
		fields["background_video_start"] = *req.BackgroundVideoStart
	}
	if req.BackgroundVideoEnd != nil {
		fields["background_video_end"] = *req.BackgroundVideoEnd
	}
	if req.BackgroundVideoLoop != nil {
		fields["background_video_loop"] = *req.BackgroundVideoLoop
	}
	if req.BackgroundVideoMuted != nil {
		fields["background_video_muted"] = *req.BackgroundVideoMuted
	}
	if req.BackgroundImageIntensity != nil {
		fields["background_image_intensity"] = *req.BackgroundImageIntensity
	}
	if req.BackgroundVideoIntensity != nil {
		fields["background_video_intensity"] = *req.BackgroundVideoIntensity
	}

	if len(fields) > 0 {
		if err := s.QuizRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	quiz, err := s.QuizRepo.FindWithQuestions(id)
	if err != nil {
		return nil, err
	}
	return s.adminView(quiz), nil
}

// UpdateQuizMedia stores a freshly uploaded image under a generated name and
// points the given slot (background or header) at it. The previous file, if
// any, is removed from storage.
func (s *QuizService) UpdateQuizMedia(ctx context.Context, id uint, slot string, originalName string, reader io.Reader, size int64, contentType string) (*AdminQuizView, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	var column string
	var previous *string
	switch slot {
	case "background":
		column = "background_image"
		previous = quiz.BackgroundImage
	case "header":
		column = "header_image"
		previous = quiz.HeaderImage
	default:
		return nil, util.ErrInvalidMediaSlot
	}

	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("quizzes/%d/%s%s", id, model.GenerateUUID(), ext)
	if _, err := s.Storage.Upload(ctx, filename, reader, size, contentType); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.UpdateFields(id, map[string]interface{}{column: filename}); err != nil {
		return nil, err
	}

	if previous != nil && *previous != "" {
		if err := s.Storage.Delete(ctx, *previous); err != nil {
			logger.Log.Warn("failed to delete replaced quiz media",
				zap.Uint("quizId", id),
				zap.String("file", *previous),
				zap.Error(err))
		}
	}

	updated, err := s.QuizRepo.FindWithQuestions(id)
	if err != nil {
		return nil, err
	}
	return s.adminView(updated), nil
}

func (s *QuizService) GetQuizByID(id uint) (*AdminQuizView, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.adminView(quiz), nil
}

func (s *QuizService) ListQuizzes() ([]AdminQuizView, error) {
	quizzes, err := s.QuizRepo.ListAll()
	if err != nil {
		return nil, err
	}
	views := make([]AdminQuizView, 0, len(quizzes))
	for i := range quizzes {
		views = append(views, *s.adminView(&quizzes[i]))
	}
	return views, nil
}

// ListActiveQuizzes builds the public catalog. The advertised question count
// is capped at the quiz's question limit.
func (s *QuizService) ListActiveQuizzes() ([]ActiveQuizSummary, error) {
	quizzes, err := s.QuizRepo.ListActive()
	if err != nil {
		return nil, err
	}
	questionCounts, err := s.QuizRepo.QuestionCounts()
	if err != nil {
		return nil, err
	}
	submissionCounts, err := s.QuizRepo.SubmissionCounts()
	if err != nil {
		return nil, err
	}

	summaries := make([]ActiveQuizSummary, 0, len(quizzes))
	for i := range quizzes {
		quiz := &quizzes[i]
		questionCount := questionCounts[quiz.ID]
		if quiz.QuestionLimit != nil && *quiz.QuestionLimit < questionCount {
			questionCount = *quiz.QuestionLimit
		}
		summaries = append(summaries, ActiveQuizSummary{
			ID:                       quiz.ID,
			Title:                    quiz.Title,
			Description:              quiz.Description,
			Mode:                     quiz.Mode,
			QuestionLimit:            quiz.QuestionLimit,
			QuestionCount:            questionCount,
			SubmissionCount:          submissionCounts[quiz.ID],
			BackgroundImageURL:       mediaURL(s.Storage, s.Config.Server.PublicURL, quiz.BackgroundImage),
			HeaderImageURL:           mediaURL(s.Storage, s.Config.Server.PublicURL, quiz.HeaderImage),
			BackgroundVideoURL:       quiz.BackgroundVideoURL,
			BackgroundVideoStart:     quiz.BackgroundVideoStart,
			BackgroundVideoEnd:       quiz.BackgroundVideoEnd,
			BackgroundVideoLoop:      quiz.BackgroundVideoLoop,
			BackgroundVideoMuted:     quiz.BackgroundVideoMuted,
			BackgroundImageIntensity: quiz.BackgroundImageIntensity,
			BackgroundVideoIntensity: quiz.BackgroundVideoIntensity,
			CreatedAt:                quiz.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return summaries, nil
}

// DeleteQuiz removes the quiz with all its questions, options, submissions and
// answers, then cleans up any stored media.
func (s *QuizService) DeleteQuiz(ctx context.Context, id uint) error {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	if err := s.QuizRepo.Delete(id); err != nil {
		return err
	}

	for _, file := range []*string{quiz.BackgroundImage, quiz.HeaderImage} {
		if file == nil || *file == "" {
			continue
		}
		if err := s.Storage.Delete(ctx, *file); err != nil {
			logger.Log.Warn("failed to delete quiz media",
				zap.Uint("quizId", id),
				zap.String("file", *file),
				zap.Error(err))
		}
	}
	return nil
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionCreateRequest struct {
	Text    string        `json:"text" binding:"required,min=3"`
	Order   *int          `json:"order" binding:"omitempty,gte=1"`
	Options []OptionInput `json:"options" binding:"required,min=2,dive"`
}

// AddQuestion appends a question to a quiz. When no explicit order is given
// the question goes to the end.
func (s *QuizService) AddQuestion(quizID uint, req *QuestionCreateRequest) (*model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	hasCorrect := false
	for _, option := range req.Options {
		if option.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return nil, util.ErrNoCorrectOption
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		count, err := s.QuizRepo.CountQuestions(quizID)
		if err != nil {
			return nil, err
		}
		order = int(count) + 1
	}

	question := &model.Question{
		QuizID: quizID,
		Text:   strings.TrimSpace(req.Text),
		Order:  order,
	}
	for _, option := range req.Options {
		question.Options = append(question.Options, model.Option{
			Text:      strings.TrimSpace(option.Text),
			IsCorrect: option.IsCorrect,
		})
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes the question and renumbers the remaining ones so the
// sequence stays dense.
func (s *QuizService) DeleteQuestion(quizID, questionID uint) error {
	if _, err := s.QuestionRepo.FindByIDAndQuiz(questionID, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.DeleteAndRenumber(questionID, quizID)
}

func validateVideoRange(start, end *float64) error {
	if start != nil && end != nil && *end <= *start {
		return util.ErrInvalidVideoRange
	}
	return nil
}
