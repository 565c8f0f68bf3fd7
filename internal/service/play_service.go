package service

import (
	"errors"
	"math/rand"
	"sort"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"gorm.io/gorm"
)

// PlayService serves quizzes to anonymous participants. Responses built here
// never carry correctness flags.
type PlayService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	Storage      *StorageService
	PublicURL    string
}

func NewPlayService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, storage *StorageService, publicURL string) *PlayService {
	return &PlayService{QuizRepo: quizRepo, QuestionRepo: questionRepo, Storage: storage, PublicURL: publicURL}
}

type PlayOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type PlayQuestion struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Order   int          `json:"order"`
	Options []PlayOption `json:"options"`
}

type PlayQuiz struct {
	ID                       uint           `json:"id"`
	Title                    string         `json:"title"`
	Description              string         `json:"description"`
	Mode                     model.QuizMode `json:"mode"`
	QuestionLimit            *int           `json:"questionLimit"`
	BackgroundImageURL       *string        `json:"backgroundImageUrl"`
	HeaderImageURL           *string        `json:"headerImageUrl"`
	BackgroundVideoURL       *string        `json:"backgroundVideoUrl"`
	BackgroundVideoStart     *float64       `json:"backgroundVideoStart"`
	BackgroundVideoEnd       *float64       `json:"backgroundVideoEnd"`
	BackgroundVideoLoop      bool           `json:"backgroundVideoLoop"`
	BackgroundVideoMuted     bool           `json:"backgroundVideoMuted"`
	BackgroundImageIntensity float64        `json:"backgroundImageIntensity"`
	BackgroundVideoIntensity float64        `json:"backgroundVideoIntensity"`
	Questions                []PlayQuestion `json:"questions"`
}

// GetQuizForPlay assembles the playable view of an active quiz.
//
// RANDOM mode shuffles the full pool before the question limit is applied, so
// every question has a chance of being drawn. SEQUENTIAL mode keeps authored
// order, which after the limit means the first N questions.
func (s *PlayService) GetQuizForPlay(quizID uint) (*PlayQuiz, error) {
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
	if len(quiz.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	selected := make([]model.Question, len(quiz.Questions))
	copy(selected, quiz.Questions)

	if quiz.Mode == model.ModeRandom {
		for i := len(selected) - 1; i > 0; i-- {
			j := rand.Intn(i + 1)
			selected[i], selected[j] = selected[j], selected[i]
		}
	}

	limit := len(selected)
	if quiz.QuestionLimit != nil && *quiz.QuestionLimit < limit {
		limit = *quiz.QuestionLimit
	}
	selected = selected[:limit]

	if quiz.Mode == model.ModeSequential {
		sort.Slice(selected, func(i, j int) bool {
			return selected[i].Order < selected[j].Order
		})
	}

	view := &PlayQuiz{
		ID:                       quiz.ID,
		Title:                    quiz.Title,
		Description:              quiz.Description,
		Mode:                     quiz.Mode,
		QuestionLimit:            quiz.QuestionLimit,
		BackgroundImageURL:       mediaURL(s.Storage, s.PublicURL, quiz.BackgroundImage),
		HeaderImageURL:           mediaURL(s.Storage, s.PublicURL, quiz.HeaderImage),
		BackgroundVideoURL:       quiz.BackgroundVideoURL,
		BackgroundVideoStart:     quiz.BackgroundVideoStart,
		BackgroundVideoEnd:       quiz.BackgroundVideoEnd,
		BackgroundVideoLoop:      quiz.BackgroundVideoLoop,
		BackgroundVideoMuted:     quiz.BackgroundVideoMuted,
		BackgroundImageIntensity: quiz.BackgroundImageIntensity,
		BackgroundVideoIntensity: quiz.BackgroundVideoIntensity,
		Questions:                make([]PlayQuestion, 0, len(selected)),
	}

	for _, question := range selected {
		pq := PlayQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Order:   question.Order,
			Options: make([]PlayOption, 0, len(question.Options)),
		}
		for _, option := range question.Options {
			pq.Options = append(pq.Options, PlayOption{ID: option.ID, Text: option.Text})
		}
		view.Questions = append(view.Questions, pq)
	}

	return view, nil
}

type AnswerCheck struct {
	QuestionID uint `json:"questionId"`
	OptionID   uint `json:"optionId"`
	IsCorrect  bool `json:"isCorrect"`
}

// ValidateQuestionAnswer checks a single answer mid-game without recording
// anything. The question must belong to an active quiz.
func (s *PlayService) ValidateQuestionAnswer(quizID, questionID, optionID uint) (*AnswerCheck, error) {
	question, err := s.QuestionRepo.FindForActiveQuiz(questionID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	for _, option := range question.Options {
		if option.ID == optionID {
			return &AnswerCheck{QuestionID: questionID, OptionID: optionID, IsCorrect: option.IsCorrect}, nil
		}
	}
	return nil, util.ErrInvalidOption
}

// mediaURL turns a stored object name into the URL clients fetch it from.
func mediaURL(storage *StorageService, publicURL string, filename *string) *string {
	if filename == nil || *filename == "" {
		return nil
	}
	url := storage.GetURL(*filename)
	if publicURL != "" {
		url = publicURL + url
	}
	return &url
}
