package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// MaxPageSize caps every listing regardless of what the client asks for.
	MaxPageSize = 50
)

// PageView is an offset/count window over an ordered listing.
type PageView struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// Limit returns the page size clamped to (0, max]. A non-positive count
// means "as many as allowed".
func (p PageView) Limit(max int) int {
	if max <= 0 || max > MaxPageSize {
		max = MaxPageSize
	}
	if p.Count <= 0 || p.Count > max {
		return max
	}
	return p.Count
}

// Start returns the non-negative row offset.
func (p PageView) Start() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// ParsePageView extracts offset and count query parameters. Malformed values
// fall back to the first page.
func ParsePageView(c *gin.Context) PageView {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(MaxPageSize)))
	if err != nil || count <= 0 {
		count = MaxPageSize
	}

	return PageView{Offset: offset, Count: count}
}
