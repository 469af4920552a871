package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"inkdrop/analytics"
	"inkdrop/database"
	"inkdrop/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const defaultWindowDays = 30

// parseWindow reads the start/end query parameters. Bounds come in as
// "2006-01-02" or RFC3339; missing bounds default to the last 30 days.
// A date-only end bound is inclusive: it is stretched to the last instant
// of that day so events happening during the end day stay in the window.
func parseWindow(c *gin.Context) analytics.Window {
	now := time.Now().UTC()
	w := analytics.Window{
		Start: now.AddDate(0, 0, -defaultWindowDays),
		End:   now,
	}

	if start, _, ok := parseDate(c.Query("start")); ok {
		w.Start = start
	}
	if end, dateOnly, ok := parseDate(c.Query("end")); ok {
		if dateOnly {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		w.End = end
	}
	return w
}

func parseDate(value string) (time.Time, bool, bool) {
	if value == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}

// fetchSnapshot reads every collection the aggregation needs concurrently.
// Any failed read fails the whole snapshot; partial analytics would be
// worse than an error.
func fetchSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	var (
		posts      []models.Post
		users      []models.User
		comments   []models.Comment
		likes      []models.Like
		categories []models.CustomCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readAll(gctx, database.Posts, &posts) })
	g.Go(func() error { return readAll(gctx, database.Users, &users) })
	g.Go(func() error { return readAll(gctx, database.Comments, &comments) })
	g.Go(func() error { return readAll(gctx, database.Likes, &likes) })
	g.Go(func() error { return readAll(gctx, database.Categories, &categories) })
	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}

	snapshot := analytics.Snapshot{
		Posts:         make([]analytics.Post, 0, len(posts)),
		Users:         make([]analytics.User, 0, len(users)),
		Comments:      make([]analytics.Comment, 0, len(comments)),
		Likes:         make([]analytics.Like, 0, len(likes)),
		CategoryNames: make(map[string]string, len(categories)),
	}

	for _, p := range posts {
		snapshot.Posts = append(snapshot.Posts, analytics.Post{
			ID:               p.ID.Hex(),
			Title:            p.Title,
			AuthorID:         p.AuthorID.Hex(),
			AuthorName:       p.AuthorName,
			Category:         p.Category,
			CustomCategoryID: p.CustomCategoryID,
			CreatedAt:        time.Unix(p.CreatedAt, 0),
		})
	}
	for _, u := range users {
		snapshot.Users = append(snapshot.Users, analytics.User{
			CreatedAt: time.Unix(u.CreatedAt, 0),
		})
	}
	for _, cm := range comments {
		snapshot.Comments = append(snapshot.Comments, analytics.Comment{
			PostID:    cm.PostID.Hex(),
			CreatedAt: time.Unix(cm.CreatedAt, 0),
		})
	}
	for _, l := range likes {
		snapshot.Likes = append(snapshot.Likes, analytics.Like{
			PostID:    l.PostID.Hex(),
			CreatedAt: time.Unix(l.CreatedAt, 0),
		})
	}
	for _, cat := range categories {
		snapshot.CategoryNames[cat.ID.Hex()] = cat.Name
	}

	return snapshot, nil
}

func readAll[T any](ctx context.Context, coll *mongo.Collection, out *[]T) error {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// GetAnalytics returns totals, windowed daily series and the top rankings.
func GetAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := fetchSnapshot(ctx)
	if err != nil {
		log.Printf("[GetAnalytics] Snapshot error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics.Aggregate(snapshot, parseWindow(c)))
}

// GetEngagement returns the per-post averages and per-category engagement.
func GetEngagement(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := fetchSnapshot(ctx)
	if err != nil {
		log.Printf("[GetEngagement] Snapshot error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load engagement metrics"})
		return
	}

	c.JSON(http.StatusOK, analytics.Engagement(snapshot))
}

// GetGrowth returns a cumulative growth series; ?kind picks users or posts.
func GetGrowth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := fetchSnapshot(ctx)
	if err != nil {
		log.Printf("[GetGrowth] Snapshot error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load growth data"})
		return
	}

	window := parseWindow(c)
	var points []analytics.GrowthPoint
	switch c.DefaultQuery("kind", "users") {
	case "users":
		points = analytics.UserGrowth(snapshot, window)
	case "posts":
		points = analytics.ContentGrowth(snapshot, window)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown growth kind"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetChart renders an SVG chart for the dashboard. Daily series and growth
// kinds render as line charts, categories as a bar chart.
func GetChart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := fetchSnapshot(ctx)
	if err != nil {
		log.Printf("[GetChart] Snapshot error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chart data"})
		return
	}

	window := parseWindow(c)
	data := analytics.Aggregate(snapshot, window)

	var svg string
	switch c.DefaultQuery("kind", "posts") {
	case "posts":
		svg = analytics.LineChart(dailySeries(data.PostsPerDay))
	case "users":
		svg = analytics.LineChart(dailySeries(data.UsersPerDay))
	case "comments":
		svg = analytics.LineChart(dailySeries(data.CommentsPerDay))
	case "likes":
		svg = analytics.LineChart(dailySeries(data.LikesPerDay))
	case "categories":
		svg = analytics.BarChart(data.TopCategories)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown chart kind"})
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// dailySeries flattens a per-day map into date-ordered points.
func dailySeries(perDay map[string]int) []analytics.GrowthPoint {
	keys := make([]string, 0, len(perDay))
	for key := range perDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]analytics.GrowthPoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, analytics.GrowthPoint{Date: key, Count: perDay[key]})
	}
	return points
}
