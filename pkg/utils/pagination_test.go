package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestPageBounds(t *testing.T) {
	// 25 results at page size 12: page 3 holds only the final item.
	start, end := PageBounds(3, 12, 25)
	assert.Equal(t, 24, start)
	assert.Equal(t, 25, end)

	start, end = PageBounds(1, 12, 25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 12, end)

	// Past the end yields an empty range.
	start, end = PageBounds(4, 12, 25)
	assert.Equal(t, start, end)

	// Page numbers below 1 clamp to the first page.
	start, end = PageBounds(0, 12, 25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 12, end)
}

func TestVisiblePages(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, VisiblePages(1, 10, 5))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, VisiblePages(10, 10, 5))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, VisiblePages(5, 10, 5))

	// Fewer pages than the window shows everything.
	assert.Equal(t, []int{1, 2, 3}, VisiblePages(2, 3, 5))

	assert.Nil(t, VisiblePages(1, 0, 5))
}
