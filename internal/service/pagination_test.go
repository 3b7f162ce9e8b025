package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, i)
	}

	page1, p := paginate(items, 1, 10)
	assert.Len(t, page1, 10)
	assert.Equal(t, 0, page1[0])
	assert.Equal(t, Page{Page: 1, Limit: 10, Total: 25, TotalPages: 3}, p)

	page3, p := paginate(items, 3, 10)
	assert.Len(t, page3, 5)
	assert.Equal(t, 20, page3[0])
	assert.Equal(t, 3, p.Page)

	// 超出范围的页返回空集而不是错误
	beyond, p := paginate(items, 9, 10)
	assert.Empty(t, beyond)
	assert.Equal(t, 25, p.Total)

	// 零值取默认，超大 limit 截到上限
	defaults, p := paginate(items, 0, 0)
	assert.Len(t, defaults, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	_, p = paginate(items, 1, 5000)
	assert.Equal(t, 100, p.Limit)

	empty, p := paginate([]int{}, 1, 10)
	assert.Empty(t, empty)
	assert.Equal(t, 0, p.TotalPages)
}
