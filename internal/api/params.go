package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// pathID parses the :id path parameter, writing a 400 on failure
func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+what+" id")
		return 0, false
	}
	return id, true
}

// parseDateRange parses optional start and end query dates. A date-only end
// covers the whole day.
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if start = strings.TrimSpace(start); start != "" {
		t, _, err := models.ParseDateTime(start)
		if err != nil {
			return nil, nil, err
		}
		startDate = &t
	}

	if end = strings.TrimSpace(end); end != "" {
		t, dateOnly, err := models.ParseDateTime(end)
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		endDate = &t
	}

	return startDate, endDate, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
