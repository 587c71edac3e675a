package dto

import (
	"time"

	"github.com/aminejml/permigo/internal/app/models"
)

// ExamQuestionResponse is a question as served to a student. The correct
// answer never leaves the server before submission.
type ExamQuestionResponse struct {
	ID             int64   `json:"id"`
	QuestionNumber int     `json:"questionNumber"`
	QuestionText   string  `json:"questionText"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	OptionA        string  `json:"optionA"`
	OptionB        string  `json:"optionB"`
	OptionC        string  `json:"optionC"`
	Category       *string `json:"category,omitempty"`
}

// StartExamResponse is returned when a new exam session is opened
type StartExamResponse struct {
	SessionID        int64                  `json:"sessionId"`
	StartedAt        time.Time              `json:"startedAt"`
	TotalQuestions   int                    `json:"totalQuestions"`
	TimeLimitMinutes int                    `json:"timeLimitMinutes"`
	Questions        []ExamQuestionResponse `json:"questions"`
}

// SubmitAnswer is one answer within a submission. Answer may be empty
// for questions the student left unanswered.
type SubmitAnswer struct {
	QuestionID int64  `json:"questionId" binding:"required,min=1"`
	Answer     string `json:"answer" binding:"omitempty,oneof=A B C"`
}

// SubmitExamRequest carries the full answer sheet for a session
type SubmitExamRequest struct {
	Answers          []SubmitAnswer `json:"answers" binding:"required"`
	TimeTakenSeconds *int           `json:"timeTakenSeconds,omitempty" binding:"omitempty,min=0"`
}

// ExamResultResponse is the graded outcome of a submitted session
type ExamResultResponse struct {
	SessionID        int64     `json:"sessionId"`
	Score            float64   `json:"score"`
	CorrectAnswers   int       `json:"correctAnswers"`
	WrongAnswers     int       `json:"wrongAnswers"`
	TotalQuestions   int       `json:"totalQuestions"`
	Passed           bool      `json:"passed"`
	PassingScore     int       `json:"passingScore"`
	TimeTakenSeconds *int      `json:"timeTakenSeconds,omitempty"`
	CompletedAt      time.Time `json:"completedAt"`
}

// ExamSessionSummary is one row in a student's exam history
type ExamSessionSummary struct {
	SessionID      int64      `json:"sessionId"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Score          *float64   `json:"score,omitempty"`
	CorrectAnswers int        `json:"correctAnswers"`
	WrongAnswers   int        `json:"wrongAnswers"`
	Passed         *bool      `json:"passed,omitempty"`
}

// ExamAnswerDetail pairs a bank question with the student's recorded answer
type ExamAnswerDetail struct {
	Question      ExamQuestionResponse `json:"question"`
	StudentAnswer string               `json:"studentAnswer"`
	CorrectAnswer string               `json:"correctAnswer"`
	IsCorrect     bool                 `json:"isCorrect"`
}

// ExamSessionDetailResponse is the full review view of a completed session
type ExamSessionDetailResponse struct {
	Session models.ExamSession `json:"session"`
	Answers []ExamAnswerDetail `json:"answers"`
}

// ExamStatisticsResponse aggregates completed attempts for a report.
// AverageScore is null while no attempt has been completed.
type ExamStatisticsResponse struct {
	TotalStudents int64    `json:"totalStudents"`
	TotalExams    int64    `json:"totalExams"`
	PassedExams   int64    `json:"passedExams"`
	FailedExams   int64    `json:"failedExams"`
	AverageScore  *float64 `json:"averageScore,omitempty"`
}
