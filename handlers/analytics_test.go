package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkdrop/analytics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func windowForQuery(t *testing.T, query string) analytics.Window {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/analytics"+query, nil)
	return parseWindow(c)
}

func TestParseWindowDateOnlyEndCoversWholeDay(t *testing.T) {
	w := windowForQuery(t, "?start=2024-01-01&end=2024-01-02")

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.End.After(time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)))
	assert.True(t, w.End.Before(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestParseWindowRFC3339EndKeptExact(t *testing.T) {
	w := windowForQuery(t, "?end=2024-01-02T12:30:00Z")

	assert.Equal(t, time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC), w.End.UTC())
}

func TestParseWindowDefaultsToLastThirtyDays(t *testing.T) {
	w := windowForQuery(t, "")

	now := time.Now().UTC()
	assert.WithinDuration(t, now, w.End, time.Minute)
	assert.WithinDuration(t, now.AddDate(0, 0, -30), w.Start, time.Minute)
}

func TestParseWindowIgnoresGarbage(t *testing.T) {
	w := windowForQuery(t, "?start=not-a-date&end=also-not")

	now := time.Now().UTC()
	assert.WithinDuration(t, now, w.End, time.Minute)
	assert.WithinDuration(t, now.AddDate(0, 0, -30), w.Start, time.Minute)
}

// Activity on the end day must land in the daily series when the window is
// given as bare dates.
func TestParseWindowEndDayActivityCounted(t *testing.T) {
	w := windowForQuery(t, "?start=2024-01-01&end=2024-01-02")

	snapshot := analytics.Snapshot{
		Posts: []analytics.Post{
			{
				ID:        "p1",
				Title:     "First",
				AuthorID:  "a1",
				CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
		},
		Comments: []analytics.Comment{
			{PostID: "p1", CreatedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
			{PostID: "p1", CreatedAt: time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)},
		},
		Likes: []analytics.Like{
			{PostID: "p1", CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
			{PostID: "p1", CreatedAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)},
			{PostID: "p1", CreatedAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
		},
	}

	data := analytics.Aggregate(snapshot, w)

	assert.Equal(t, 1, data.PostsPerDay["2024-01-01"])
	assert.Equal(t, 2, data.CommentsPerDay["2024-01-02"])
	assert.Equal(t, 3, data.LikesPerDay["2024-01-02"])
}
