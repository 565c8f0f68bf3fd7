package model

// Submission records one participation. The composite unique index on
// (quiz_id, user_email) is the write-time guarantee behind the
// one-submission-per-email rule; the service pre-check only improves the
// error message.
// swagger:model Submission
type Submission struct {
	BaseModel
	QuizID     uint               `gorm:"not null;uniqueIndex:idx_submissions_quiz_email" json:"quizId"`
	UserID     *uint              `gorm:"index" json:"userId"`
	UserName   string             `gorm:"size:100;not null" json:"userName"`
	UserEmail  string             `gorm:"size:190;not null;uniqueIndex:idx_submissions_quiz_email" json:"userEmail"`
	Score      int                `gorm:"not null" json:"score"`
	Total      int                `gorm:"not null" json:"total"`
	Percentage float64            `gorm:"not null" json:"percentage"`
	Answers    []SubmissionAnswer `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionAnswer snapshots correctness at submission time; later edits to
// the option do not rewrite history.
// swagger:model SubmissionAnswer
type SubmissionAnswer struct {
	BaseModel
	SubmissionID uint `gorm:"index;not null" json:"submissionId"`
	QuestionID   uint `gorm:"not null" json:"questionId"`
	OptionID     uint `gorm:"not null" json:"optionId"`
	IsCorrect    bool `gorm:"not null" json:"isCorrect"`
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}
