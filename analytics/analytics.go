// Package analytics reduces raw collection snapshots into the time-bucketed
// counts, rankings and engagement ratios shown on the admin dashboard.
//
// All functions are pure: the caller fetches the collections (concurrently,
// failing the whole request if any read fails) and hands them over as a
// Snapshot. Daily series are windowed; rankings and totals always cover the
// entire snapshot. Day keys are UTC calendar dates in "YYYY-MM-DD" form.
package analytics

import (
	"sort"
	"time"
)

// Post is the slice of a blog post the aggregation cares about.
type Post struct {
	ID               string
	Title            string
	AuthorID         string
	AuthorName       string
	Category         string
	CustomCategoryID string
	CreatedAt        time.Time
}

type Comment struct {
	PostID    string
	CreatedAt time.Time
}

type Like struct {
	PostID    string
	CreatedAt time.Time
}

type User struct {
	CreatedAt time.Time
}

// Snapshot holds full collection reads plus the custom category id -> name
// lookup table.
type Snapshot struct {
	Posts         []Post
	Users         []User
	Comments      []Comment
	Likes         []Like
	CategoryNames map[string]string
}

// Window is the caller-supplied time range for the daily series. Start after
// End is not an error; the windowed maps just come back empty.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type AuthorCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type PostEngagement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

// Data is the flat aggregate consumed directly by the dashboard.
type Data struct {
	TotalPosts    int `json:"totalPosts"`
	TotalUsers    int `json:"totalUsers"`
	TotalComments int `json:"totalComments"`
	TotalLikes    int `json:"totalLikes"`

	PostsPerDay    map[string]int `json:"postsPerDay"`
	UsersPerDay    map[string]int `json:"usersPerDay"`
	CommentsPerDay map[string]int `json:"commentsPerDay"`
	LikesPerDay    map[string]int `json:"likesPerDay"`

	TopCategories []CategoryCount  `json:"topCategories"`
	TopAuthors    []AuthorCount    `json:"topAuthors"`
	TopPosts      []PostEngagement `json:"topPosts"`
}

type CategoryEngagement struct {
	Category   string  `json:"category"`
	Engagement float64 `json:"engagement"`
}

// Metrics are the windowless engagement averages and the per-category
// engagement ranking.
type Metrics struct {
	AvgCommentsPerPost    float64              `json:"avgCommentsPerPost"`
	AvgLikesPerPost       float64              `json:"avgLikesPerPost"`
	MostEngagedCategories []CategoryEngagement `json:"mostEngagedCategories"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

const (
	topCategoryLimit   = 10
	topAuthorLimit     = 10
	topPostLimit       = 10
	topEngagementLimit = 5
)

// dayKey buckets an instant into its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// categoryLabel names the category bucket a post falls into. A dangling
// custom category reference maps to "Unknown Custom"; a post with neither
// field set maps to "Uncategorized".
func categoryLabel(p Post, names map[string]string) string {
	if p.CustomCategoryID != "" {
		if name, ok := names[p.CustomCategoryID]; ok {
			return name
		}
		return "Unknown Custom"
	}
	if p.Category != "" {
		return p.Category
	}
	return "Uncategorized"
}

// Aggregate produces the dashboard aggregate: all-time totals and rankings
// plus daily counts restricted to the window.
func Aggregate(s Snapshot, w Window) Data {
	d := Data{
		TotalPosts:     len(s.Posts),
		TotalUsers:     len(s.Users),
		TotalComments:  len(s.Comments),
		TotalLikes:     len(s.Likes),
		PostsPerDay:    map[string]int{},
		UsersPerDay:    map[string]int{},
		CommentsPerDay: map[string]int{},
		LikesPerDay:    map[string]int{},
	}

	for _, p := range s.Posts {
		if w.contains(p.CreatedAt) {
			d.PostsPerDay[dayKey(p.CreatedAt)]++
		}
	}
	for _, u := range s.Users {
		if w.contains(u.CreatedAt) {
			d.UsersPerDay[dayKey(u.CreatedAt)]++
		}
	}
	for _, c := range s.Comments {
		if w.contains(c.CreatedAt) {
			d.CommentsPerDay[dayKey(c.CreatedAt)]++
		}
	}
	for _, l := range s.Likes {
		if w.contains(l.CreatedAt) {
			d.LikesPerDay[dayKey(l.CreatedAt)]++
		}
	}

	d.TopCategories = topCategories(s)
	d.TopAuthors = topAuthors(s)
	d.TopPosts = topPosts(s)
	return d
}

func topCategories(s Snapshot) []CategoryCount {
	counts := map[string]int{}
	for _, p := range s.Posts {
		counts[categoryLabel(p, s.CategoryNames)]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	// Count descending, name ascending on ties so the ranking is stable
	// regardless of map iteration order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topCategoryLimit {
		out = out[:topCategoryLimit]
	}
	return out
}

func topAuthors(s Snapshot) []AuthorCount {
	type entry struct {
		name  string
		count int
	}
	authors := map[string]*entry{}
	for _, p := range s.Posts {
		id := p.AuthorID
		if id == "" {
			id = "unknown"
		}
		name := p.AuthorName
		if name == "" {
			name = "Unknown Author"
		}
		if e, ok := authors[id]; ok {
			e.count++
			e.name = name // last write wins for the display name
		} else {
			authors[id] = &entry{name: name, count: 1}
		}
	}

	out := make([]AuthorCount, 0, len(authors))
	for id, e := range authors {
		out = append(out, AuthorCount{ID: id, Name: e.name, Count: e.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topAuthorLimit {
		out = out[:topAuthorLimit]
	}
	return out
}

func topPosts(s Snapshot) []PostEngagement {
	engagement := map[string]*PostEngagement{}
	for _, p := range s.Posts {
		title := p.Title
		if title == "" {
			title = "Untitled Post"
		}
		engagement[p.ID] = &PostEngagement{ID: p.ID, Title: title}
	}
	// Likes and comments pointing at unknown post ids are dropped.
	for _, l := range s.Likes {
		if e, ok := engagement[l.PostID]; ok {
			e.Likes++
		}
	}
	for _, c := range s.Comments {
		if e, ok := engagement[c.PostID]; ok {
			e.Comments++
		}
	}

	out := make([]PostEngagement, 0, len(engagement))
	for _, e := range engagement {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		si := out[i].Likes + out[i].Comments
		sj := out[j].Likes + out[j].Comments
		if si != sj {
			return si > sj
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topPostLimit {
		out = out[:topPostLimit]
	}
	return out
}

// Engagement computes the per-post averages and the per-category engagement
// ranking over the whole snapshot. With zero posts the averages are 0, never
// NaN, and the ranking is empty.
func Engagement(s Snapshot) Metrics {
	if len(s.Posts) == 0 {
		return Metrics{MostEngagedCategories: []CategoryEngagement{}}
	}

	type bucket struct {
		posts    int
		comments int
		likes    int
	}
	byCategory := map[string]*bucket{}
	postCategory := map[string]string{}

	for _, p := range s.Posts {
		label := categoryLabel(p, s.CategoryNames)
		postCategory[p.ID] = label
		b, ok := byCategory[label]
		if !ok {
			b = &bucket{}
			byCategory[label] = b
		}
		b.posts++
	}
	for _, c := range s.Comments {
		if label, ok := postCategory[c.PostID]; ok {
			byCategory[label].comments++
		}
	}
	for _, l := range s.Likes {
		if label, ok := postCategory[l.PostID]; ok {
			byCategory[label].likes++
		}
	}

	ranked := make([]CategoryEngagement, 0, len(byCategory))
	for label, b := range byCategory {
		if b.posts == 0 {
			continue
		}
		ranked = append(ranked, CategoryEngagement{
			Category:   label,
			Engagement: float64(b.comments+b.likes) / float64(b.posts),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Engagement != ranked[j].Engagement {
			return ranked[i].Engagement > ranked[j].Engagement
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > topEngagementLimit {
		ranked = ranked[:topEngagementLimit]
	}

	return Metrics{
		AvgCommentsPerPost:    float64(len(s.Comments)) / float64(len(s.Posts)),
		AvgLikesPerPost:       float64(len(s.Likes)) / float64(len(s.Posts)),
		MostEngagedCategories: ranked,
	}
}

// UserGrowth returns the cumulative user count per day within the window.
func UserGrowth(s Snapshot, w Window) []GrowthPoint {
	stamps := make([]time.Time, 0, len(s.Users))
	for _, u := range s.Users {
		stamps = append(stamps, u.CreatedAt)
	}
	return cumulative(stamps, w)
}

// ContentGrowth returns the cumulative post count per day within the window.
func ContentGrowth(s Snapshot, w Window) []GrowthPoint {
	stamps := make([]time.Time, 0, len(s.Posts))
	for _, p := range s.Posts {
		stamps = append(stamps, p.CreatedAt)
	}
	return cumulative(stamps, w)
}

func cumulative(stamps []time.Time, w Window) []GrowthPoint {
	inWindow := stamps[:0:0]
	for _, t := range stamps {
		if w.contains(t) {
			inWindow = append(inWindow, t)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool { return inWindow[i].Before(inWindow[j]) })

	byDay := map[string]int{}
	order := []string{}
	total := 0
	for _, t := range inWindow {
		total++
		key := dayKey(t)
		if _, seen := byDay[key]; !seen {
			order = append(order, key)
		}
		byDay[key] = total
	}

	points := make([]GrowthPoint, 0, len(order))
	for _, key := range order {
		points = append(points, GrowthPoint{Date: key, Count: byDay[key]})
	}
	return points
}
