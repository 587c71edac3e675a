package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	testCases := []struct {
		name           string
		page           int
		size           int
		expectedOffset uint64
		expectedLimit  int
	}{
		{name: "first page", page: 1, size: 10, expectedOffset: 0, expectedLimit: 10},
		{name: "third page", page: 3, size: 20, expectedOffset: 40, expectedLimit: 20},
		{name: "zero page falls back to first", page: 0, size: 10, expectedOffset: 0, expectedLimit: 10},
		{name: "negative page falls back to first", page: -5, size: 10, expectedOffset: 0, expectedLimit: 10},
		{name: "zero size falls back to default", page: 2, size: 0, expectedOffset: 10, expectedLimit: 10},
		{name: "oversized size falls back to default", page: 1, size: 500, expectedOffset: 0, expectedLimit: 10},
		{name: "max size allowed", page: 2, size: 100, expectedOffset: 100, expectedLimit: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tc.page, tc.size)
			assert.Equal(t, tc.expectedOffset, offset)
			assert.Equal(t, tc.expectedLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("exact pages", func(t *testing.T) {
		info := NewPaginationInfo(30, 2, 10)
		assert.Equal(t, 2, info.CurrentPage)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, 10, info.PageSize)
		assert.Equal(t, int64(30), info.TotalItems)
	})

	t.Run("partial last page", func(t *testing.T) {
		info := NewPaginationInfo(31, 1, 10)
		assert.Equal(t, 4, info.TotalPages)
	})

	t.Run("empty result keeps one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 10)
		assert.Equal(t, 1, info.TotalPages)
		assert.Equal(t, 1, info.CurrentPage)
	})

	t.Run("page past the end clamps", func(t *testing.T) {
		info := NewPaginationInfo(10, 5, 10)
		assert.Equal(t, 1, info.CurrentPage)
	})
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return c
	}

	t.Run("defaults", func(t *testing.T) {
		page, size := ParsePaginationParams(newContext(""))
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, size)
	})

	t.Run("explicit values", func(t *testing.T) {
		page, size := ParsePaginationParams(newContext("page=3&size=25"))
		assert.Equal(t, 3, page)
		assert.Equal(t, 25, size)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		page, size := ParsePaginationParams(newContext("page=abc&size=-1"))
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, size)
	})

	t.Run("oversized size falls back", func(t *testing.T) {
		page, size := ParsePaginationParams(newContext("page=1&size=1000"))
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, size)
	})
}
