package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is the gating assessment of a module (at most one per module).
// A module with a quiz is only complete once the latest attempt passes.
type Quiz struct {
	gorm.Model
	ModuleID         uint    `json:"module_id" gorm:"uniqueIndex;not null"`
	Title            string  `json:"title"`
	PassingPercent   float64 `json:"passing_percent" gorm:"default:70"`
	TimeLimitSeconds *int    `json:"time_limit_seconds"` // advisory, enforced by the client timer
	IsDeleted        bool    `gorm:"default:false"`
}

// Question is a single-answer multiple choice question worth Points points
type Question struct {
	gorm.Model
	QuizID     uint   `json:"quiz_id" gorm:"index;not null"`
	Text       string `json:"text" gorm:"type:text"`
	Points     int    `json:"points" gorm:"default:1"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// Option is one answer choice of a question
type Option struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptSubmitted  = "SUBMITTED"
)

// Answer is one (question, chosen option) pair of a submitted attempt
type Answer struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// QuizAttempt is a single scored submission against a quiz. Attempts are
// retained forever; the latest submitted attempt is authoritative for
// module gating.
type QuizAttempt struct {
	gorm.Model
	EnrollmentID uint           `json:"enrollment_id" gorm:"index;not null"`
	QuizID       uint           `json:"quiz_id" gorm:"index;not null"`
	Status       string         `json:"status" gorm:"default:'IN_PROGRESS'"`
	StartedAt    time.Time      `json:"started_at"`
	SubmittedAt  *time.Time     `json:"submitted_at"`
	ScorePercent float64        `json:"score_percent"`
	Passed       bool           `json:"passed" gorm:"default:false"`
	Answers      datatypes.JSON `json:"answers"` // serialized []Answer
}
