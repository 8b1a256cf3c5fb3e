package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		p := Pagination{}.Normalize()
		assert.Equal(t, 1, p.PageIndex)
		assert.Equal(t, 20, p.PageSize)
	})
	t.Run("oversized page clamps to 100", func(t *testing.T) {
		p := Pagination{PageIndex: 2, PageSize: 500}.Normalize()
		assert.Equal(t, 100, p.PageSize)
	})
	t.Run("negative index", func(t *testing.T) {
		p := Pagination{PageIndex: -3, PageSize: 10}.Normalize()
		assert.Equal(t, 1, p.PageIndex)
		assert.Equal(t, 10, p.PageSize)
	})
}

func TestPaginationSkipLimit(t *testing.T) {
	p := Pagination{PageIndex: 3, PageSize: 25}
	assert.Equal(t, int64(50), p.Skip())
	assert.Equal(t, int64(25), p.Limit())

	assert.Equal(t, int64(0), Pagination{}.Skip())
	assert.Equal(t, int64(20), Pagination{}.Limit())
}
