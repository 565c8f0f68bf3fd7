package model

type QuizMode string

const (
	ModeSequential QuizMode = "SEQUENTIAL"
	ModeRandom     QuizMode = "RANDOM"
)

// Quiz is the admin-owned aggregate; questions and submissions hang off it.
// Media columns hold paths relative to the storage root, never public URLs.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title                    string     `gorm:"size:200;not null" json:"title"`
	Description              string     `gorm:"type:text" json:"description"`
	IsActive                 bool       `gorm:"default:true" json:"isActive"`
	Mode                     QuizMode   `gorm:"size:20;default:'SEQUENTIAL'" json:"mode"`
	QuestionLimit            *int       `json:"questionLimit"`
	BackgroundImage          *string    `gorm:"size:255" json:"-"`
	HeaderImage              *string    `gorm:"size:255" json:"-"`
	BackgroundVideoURL       *string    `gorm:"size:500" json:"backgroundVideoUrl"`
	BackgroundVideoStart     *float64   `json:"backgroundVideoStart"`
	BackgroundVideoEnd       *float64   `json:"backgroundVideoEnd"`
	BackgroundVideoLoop      bool       `gorm:"default:true" json:"backgroundVideoLoop"`
	BackgroundVideoMuted     bool       `gorm:"default:true" json:"backgroundVideoMuted"`
	BackgroundImageIntensity float64    `gorm:"default:0.65" json:"backgroundImageIntensity"`
	BackgroundVideoIntensity float64    `gorm:"default:0.65" json:"backgroundVideoIntensity"`
	Questions                []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID  uint     `gorm:"index;not null" json:"quizId"`
	Text    string   `gorm:"type:text;not null" json:"text"`
	Order   int      `gorm:"not null" json:"order"`
	Options []Option `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
