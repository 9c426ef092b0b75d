package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewClamps(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults on zero", 0, 0, 1, 10, 0},
		{"negative page", -3, 5, 1, 5, 0},
		{"too large page size", 2, 1000, 2, 100, 100},
		{"regular", 3, 20, 3, 20, 40},
		{"huge page", math.MaxInt, 10, math.MaxInt/10 - 1, 10, (math.MaxInt/10 - 2) * 10},
		{"huge page with max size", math.MaxInt, 100, math.MaxInt/100 - 1, 100, (math.MaxInt/100 - 2) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.GreaterOrEqual(t, p.Offset, 0)
		})
	}
}

func TestSliceLength(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	for page := 1; page <= 6; page++ {
		for _, size := range []int{1, 5, 10, 23, 50} {
			got := Slice(items, New(page, size))
			want := size
			if rest := len(items) - (page-1)*size; rest < want {
				want = rest
			}
			if want < 0 {
				want = 0
			}
			assert.Len(t, got, want, "page=%d size=%d", page, size)
			assert.NotNil(t, got)
		}
	}

	assert.Equal(t, []int{5, 6, 7, 8, 9}, Slice(items, New(2, 5)))
}

func TestSliceOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	tests := []struct {
		name string
		p    Params
	}{
		{"huge page", New(1<<62, 4)},
		{"max int page", New(math.MaxInt, MaxPageSize)},
		{"negative offset", Params{Page: 1, PageSize: 4, Offset: -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			assert.NotPanics(t, func() { got = Slice(items, tt.p) })
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestParseHugePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/x?page=9223372036854775807&pageSize=10", nil)

	p := Parse(c)
	assert.Equal(t, 10, p.PageSize)
	assert.Positive(t, p.Offset)
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/x?page=2&pageSize=abc", nil)

	p := Parse(c)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}
