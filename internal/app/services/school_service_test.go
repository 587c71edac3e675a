package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aminejml/permigo/internal/app/repositories"
)

func TestNewExamStatistics(t *testing.T) {
	t.Run("aggregates carried over", func(t *testing.T) {
		avg := 74.5
		stats := newExamStatistics(&repositories.ExamTotals{
			TotalStudents: 4,
			TotalExams:    12,
			PassedExams:   7,
			FailedExams:   5,
			AverageScore:  &avg,
		})
		assert.Equal(t, int64(4), stats.TotalStudents)
		assert.Equal(t, int64(12), stats.TotalExams)
		assert.Equal(t, int64(7), stats.PassedExams)
		assert.Equal(t, int64(5), stats.FailedExams)
		assert.Equal(t, &avg, stats.AverageScore)
	})

	t.Run("no completed attempts keeps a null average", func(t *testing.T) {
		stats := newExamStatistics(&repositories.ExamTotals{})
		assert.Nil(t, stats.AverageScore)
		assert.Zero(t, stats.TotalExams)
	})
}
