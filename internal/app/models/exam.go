package models

import (
	"time"
)

// Exam engine constants. The pass threshold is a fixed count of correct
// answers, independent of how many questions were actually answered.
const (
	ExamQuestionCount    = 30
	ExamPassingScore     = 23
	ExamTimeLimitMinutes = 45
)

// ExamQuestion is a static bank entry based on the 'exam_questions' table
type ExamQuestion struct {
	ID             int64   `json:"id" db:"id"`
	QuestionNumber int     `json:"questionNumber" db:"question_number"`
	QuestionText   string  `json:"questionText" db:"question_text"`
	ImageURL       *string `json:"imageUrl,omitempty" db:"image_url"`
	OptionA        string  `json:"optionA" db:"option_a"`
	OptionB        string  `json:"optionB" db:"option_b"`
	OptionC        string  `json:"optionC" db:"option_c"`
	CorrectAnswer  string  `json:"-" db:"correct_answer"`
	Category       *string `json:"category,omitempty" db:"category"`
	IsActive       bool    `json:"-" db:"is_active"`
}

// ExamSession is one exam attempt. Completion is a one-way transition:
// the row is mutated exactly once, at submission.
type ExamSession struct {
	ID               int64      `json:"id" db:"id"`
	StudentID        int64      `json:"studentId" db:"student_id"`
	StartedAt        time.Time  `json:"startedAt" db:"started_at"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	TotalQuestions   int        `json:"totalQuestions" db:"total_questions"`
	CorrectAnswers   int        `json:"correctAnswers" db:"correct_answers"`
	WrongAnswers     int        `json:"wrongAnswers" db:"wrong_answers"`
	Score            *float64   `json:"score,omitempty" db:"score"`
	Passed           *bool      `json:"passed,omitempty" db:"passed"`
	TimeTakenSeconds *int       `json:"timeTakenSeconds,omitempty" db:"time_taken_seconds"`
}

// ExamAnswer is one row per question per session, written during submission.
// StudentAnswer is empty for unanswered questions.
type ExamAnswer struct {
	ID            int64     `json:"id" db:"id"`
	ExamSessionID int64     `json:"examSessionId" db:"exam_session_id"`
	QuestionID    int64     `json:"questionId" db:"question_id"`
	StudentAnswer string    `json:"studentAnswer" db:"student_answer"`
	IsCorrect     bool      `json:"isCorrect" db:"is_correct"`
	AnsweredAt    time.Time `json:"answeredAt" db:"answered_at"`
}
