package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPageView(t *testing.T) {
	assert.Equal(t, 50, PageView{Count: 0}.Limit(50))
	assert.Equal(t, 50, PageView{Count: 500}.Limit(50))
	assert.Equal(t, 20, PageView{Count: 20}.Limit(50))
	assert.Equal(t, 10, PageView{Count: 20}.Limit(10))
	assert.Equal(t, 50, PageView{Count: 80}.Limit(100))

	assert.Equal(t, 0, PageView{Offset: -3}.Start())
	assert.Equal(t, 50, PageView{Offset: 50}.Start())
}

func TestParsePageView(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  PageView
	}{
		{"", PageView{Offset: 0, Count: 50}},
		{"?offset=50&count=10", PageView{Offset: 50, Count: 10}},
		{"?offset=-1&count=abc", PageView{Offset: 0, Count: 50}},
		{"?count=0", PageView{Offset: 0, Count: 50}},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/approvals"+tc.query, nil)
		assert.Equal(t, tc.want, ParsePageView(c), tc.query)
	}
}
