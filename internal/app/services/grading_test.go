package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "uppercase passthrough", input: "A", expected: "A"},
		{name: "lowercase is uppercased", input: "b", expected: "B"},
		{name: "surrounding whitespace trimmed", input: "  c ", expected: "C"},
		{name: "empty stays empty", input: "", expected: ""},
		{name: "whitespace only becomes empty", input: "   ", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeAnswer(tc.input))
		})
	}
}

func TestEvaluateAnswer(t *testing.T) {
	testCases := []struct {
		name          string
		studentAnswer string
		correctAnswer string
		expected      bool
	}{
		{name: "exact match", studentAnswer: "A", correctAnswer: "A", expected: true},
		{name: "case insensitive match", studentAnswer: "a", correctAnswer: "A", expected: true},
		{name: "wrong option", studentAnswer: "B", correctAnswer: "A", expected: false},
		{name: "unanswered is wrong", studentAnswer: "", correctAnswer: "A", expected: false},
		{name: "whitespace only is wrong", studentAnswer: "  ", correctAnswer: "A", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EvaluateAnswer(tc.studentAnswer, tc.correctAnswer))
		})
	}
}

func TestComputeScore(t *testing.T) {
	testCases := []struct {
		name     string
		correct  int
		total    int
		expected float64
	}{
		{name: "perfect sheet", correct: 30, total: 30, expected: 100},
		{name: "passing threshold", correct: 23, total: 30, expected: 76.67},
		{name: "just below threshold", correct: 22, total: 30, expected: 73.33},
		{name: "zero correct", correct: 0, total: 30, expected: 0},
		{name: "two thirds", correct: 20, total: 30, expected: 66.67},
		{name: "zero total is zero", correct: 5, total: 0, expected: 0},
		{name: "negative total is zero", correct: 5, total: -1, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, ComputeScore(tc.correct, tc.total), 0.001)
		})
	}
}

func TestTallyResults(t *testing.T) {
	testCases := []struct {
		name        string
		outcomes    []bool
		wantCorrect int
		wantWrong   int
	}{
		{name: "empty submission", outcomes: nil, wantCorrect: 0, wantWrong: 0},
		{name: "all correct", outcomes: []bool{true, true, true}, wantCorrect: 3, wantWrong: 0},
		{name: "all wrong", outcomes: []bool{false, false}, wantCorrect: 0, wantWrong: 2},
		{
			// A partial sheet of 10 processed items with 8 correct counts 2
			// wrong, no matter how many questions the session holds.
			name:        "partial submission",
			outcomes:    []bool{true, true, true, true, true, true, true, true, false, false},
			wantCorrect: 8,
			wantWrong:   2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			correct, wrong := TallyResults(tc.outcomes)
			assert.Equal(t, tc.wantCorrect, correct)
			assert.Equal(t, tc.wantWrong, wrong)
		})
	}
}

func TestHasPassed(t *testing.T) {
	assert.False(t, HasPassed(0))
	assert.False(t, HasPassed(22))
	assert.True(t, HasPassed(23))
	assert.True(t, HasPassed(30))
}
