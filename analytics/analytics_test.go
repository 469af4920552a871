package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string, hour int) time.Time {
	return day(s).Add(time.Duration(hour) * time.Hour)
}

func window(start, end string) Window {
	return Window{Start: day(start), End: day(end).Add(24*time.Hour - time.Second)}
}

func TestAggregateWorkedExample(t *testing.T) {
	// One post on 2024-01-01, two comments and three likes on 2024-01-02.
	s := Snapshot{
		Posts: []Post{
			{ID: "p1", Title: "Hello", AuthorID: "a1", AuthorName: "Ada", Category: "technology", CreatedAt: at("2024-01-01", 9)},
		},
		Users: []User{{CreatedAt: at("2024-01-01", 8)}},
		Comments: []Comment{
			{PostID: "p1", CreatedAt: at("2024-01-02", 10)},
			{PostID: "p1", CreatedAt: at("2024-01-02", 11)},
		},
		Likes: []Like{
			{PostID: "p1", CreatedAt: at("2024-01-02", 10)},
			{PostID: "p1", CreatedAt: at("2024-01-02", 11)},
			{PostID: "p1", CreatedAt: at("2024-01-02", 12)},
		},
	}

	d := Aggregate(s, window("2024-01-01", "2024-01-02"))

	assert.Equal(t, 1, d.TotalPosts)
	assert.Equal(t, 2, d.TotalComments)
	assert.Equal(t, 3, d.TotalLikes)
	assert.Equal(t, 1, d.PostsPerDay["2024-01-01"])
	assert.Equal(t, 2, d.CommentsPerDay["2024-01-02"])
	assert.Equal(t, 3, d.LikesPerDay["2024-01-02"])

	require.Len(t, d.TopPosts, 1)
	assert.Equal(t, "p1", d.TopPosts[0].ID)
	assert.Equal(t, 3, d.TopPosts[0].Likes)
	assert.Equal(t, 2, d.TopPosts[0].Comments)
}

func TestAggregateWindowExcludesOutsideRecords(t *testing.T) {
	s := Snapshot{
		Posts: []Post{
			{ID: "in", CreatedAt: at("2024-03-10", 12)},
			{ID: "out", CreatedAt: at("2024-04-01", 12)},
		},
	}

	d := Aggregate(s, window("2024-03-01", "2024-03-31"))

	// Daily series are windowed, totals and rankings are not.
	assert.Equal(t, map[string]int{"2024-03-10": 1}, d.PostsPerDay)
	assert.Equal(t, 2, d.TotalPosts)
	assert.Len(t, d.TopPosts, 2)
}

func TestAggregateInvertedWindow(t *testing.T) {
	s := Snapshot{
		Posts: []Post{{ID: "p1", CreatedAt: at("2024-01-15", 12)}},
		Users: []User{{CreatedAt: at("2024-01-15", 12)}},
	}

	d := Aggregate(s, window("2024-02-01", "2024-01-01"))

	assert.Empty(t, d.PostsPerDay)
	assert.Empty(t, d.UsersPerDay)
	assert.Equal(t, 1, d.TotalPosts)
}

func TestAggregateEmptySnapshot(t *testing.T) {
	d := Aggregate(Snapshot{}, window("2024-01-01", "2024-01-31"))

	assert.Zero(t, d.TotalPosts)
	assert.Empty(t, d.TopCategories)
	assert.Empty(t, d.TopAuthors)
	assert.Empty(t, d.TopPosts)
}

func TestCategoryLabelFallbacks(t *testing.T) {
	s := Snapshot{
		Posts: []Post{
			{ID: "p1", CustomCategoryID: "c1", CreatedAt: at("2024-01-01", 0)},
			{ID: "p2", CustomCategoryID: "missing", CreatedAt: at("2024-01-01", 0)},
			{ID: "p3", CreatedAt: at("2024-01-01", 0)},
			{ID: "p4", Category: "travel", CreatedAt: at("2024-01-01", 0)},
		},
		CategoryNames: map[string]string{"c1": "Gardening"},
	}

	d := Aggregate(s, window("2024-01-01", "2024-01-01"))

	names := map[string]int{}
	for _, c := range d.TopCategories {
		names[c.Name] = c.Count
	}
	assert.Equal(t, 1, names["Gardening"])
	assert.Equal(t, 1, names["Unknown Custom"])
	assert.Equal(t, 1, names["Uncategorized"])
	assert.Equal(t, 1, names["travel"])
}

func TestTopCategoriesDeterministicTieBreak(t *testing.T) {
	s := Snapshot{
		Posts: []Post{
			{ID: "p1", Category: "zebra", CreatedAt: at("2024-01-01", 0)},
			{ID: "p2", Category: "apple", CreatedAt: at("2024-01-01", 0)},
			{ID: "p3", Category: "mango", CreatedAt: at("2024-01-01", 0)},
		},
	}

	for i := 0; i < 20; i++ {
		d := Aggregate(s, window("2024-01-01", "2024-01-01"))
		require.Len(t, d.TopCategories, 3)
		assert.Equal(t, "apple", d.TopCategories[0].Name)
		assert.Equal(t, "mango", d.TopCategories[1].Name)
		assert.Equal(t, "zebra", d.TopCategories[2].Name)
	}
}

func TestTopAuthorsTruncationAndNames(t *testing.T) {
	s := Snapshot{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("author-%02d", i)
		for j := 0; j <= i; j++ {
			s.Posts = append(s.Posts, Post{
				ID:         fmt.Sprintf("p-%d-%d", i, j),
				AuthorID:   id,
				AuthorName: "Author " + id,
				CreatedAt:  at("2024-01-01", 0),
			})
		}
	}
	// A post with no author attribution buckets under "unknown".
	s.Posts = append(s.Posts, Post{ID: "stray", CreatedAt: at("2024-01-01", 0)})

	d := Aggregate(s, window("2024-01-01", "2024-01-01"))

	require.Len(t, d.TopAuthors, 10)
	assert.Equal(t, "author-11", d.TopAuthors[0].ID)
	assert.Equal(t, 12, d.TopAuthors[0].Count)
	for i := 1; i < len(d.TopAuthors); i++ {
		assert.GreaterOrEqual(t, d.TopAuthors[i-1].Count, d.TopAuthors[i].Count)
	}
}

func TestTopPostsIgnoresDanglingReferences(t *testing.T) {
	s := Snapshot{
		Posts: []Post{{ID: "p1", Title: "Kept", CreatedAt: at("2024-01-01", 0)}},
		Likes: []Like{
			{PostID: "p1", CreatedAt: at("2024-01-01", 0)},
			{PostID: "deleted", CreatedAt: at("2024-01-01", 0)},
		},
		Comments: []Comment{{PostID: "deleted", CreatedAt: at("2024-01-01", 0)}},
	}

	d := Aggregate(s, window("2024-01-01", "2024-01-01"))

	require.Len(t, d.TopPosts, 1)
	assert.Equal(t, 1, d.TopPosts[0].Likes)
	assert.Equal(t, 0, d.TopPosts[0].Comments)
}

func TestEngagementZeroPosts(t *testing.T) {
	m := Engagement(Snapshot{
		Comments: []Comment{{PostID: "gone", CreatedAt: at("2024-01-01", 0)}},
	})

	assert.Zero(t, m.AvgCommentsPerPost)
	assert.Zero(t, m.AvgLikesPerPost)
	assert.Empty(t, m.MostEngagedCategories)
}

func TestEngagementAveragesAndRanking(t *testing.T) {
	s := Snapshot{
		Posts: []Post{
			{ID: "p1", Category: "technology", CreatedAt: at("2024-01-01", 0)},
			{ID: "p2", Category: "technology", CreatedAt: at("2024-01-01", 0)},
			{ID: "p3", Category: "travel", CreatedAt: at("2024-01-01", 0)},
		},
		Comments: []Comment{
			{PostID: "p1", CreatedAt: at("2024-01-02", 0)},
			{PostID: "p2", CreatedAt: at("2024-01-02", 0)},
			{PostID: "p3", CreatedAt: at("2024-01-02", 0)},
		},
		Likes: []Like{
			{PostID: "p1", CreatedAt: at("2024-01-02", 0)},
			{PostID: "p3", CreatedAt: at("2024-01-02", 0)},
			{PostID: "p3", CreatedAt: at("2024-01-02", 0)},
		},
	}

	m := Engagement(s)

	assert.InDelta(t, 1.0, m.AvgCommentsPerPost, 1e-9)
	assert.InDelta(t, 1.0, m.AvgLikesPerPost, 1e-9)

	require.Len(t, m.MostEngagedCategories, 2)
	// travel: (1+2)/1 = 3, technology: (2+1)/2 = 1.5
	assert.Equal(t, "travel", m.MostEngagedCategories[0].Category)
	assert.InDelta(t, 3.0, m.MostEngagedCategories[0].Engagement, 1e-9)
	assert.Equal(t, "technology", m.MostEngagedCategories[1].Category)
	assert.InDelta(t, 1.5, m.MostEngagedCategories[1].Engagement, 1e-9)

	// Grouped engagement conserves the ungrouped totals: summing
	// engagement * posts over categories recovers comments + likes.
	total := 3.0*1 + 1.5*2
	assert.InDelta(t, float64(len(s.Comments)+len(s.Likes)), total, 1e-9)
}

func TestUserGrowthCumulative(t *testing.T) {
	s := Snapshot{
		Users: []User{
			{CreatedAt: at("2024-01-03", 9)},
			{CreatedAt: at("2024-01-01", 9)},
			{CreatedAt: at("2024-01-01", 15)},
			{CreatedAt: at("2024-02-01", 9)}, // outside window
		},
	}

	points := UserGrowth(s, window("2024-01-01", "2024-01-31"))

	require.Len(t, points, 2)
	assert.Equal(t, GrowthPoint{Date: "2024-01-01", Count: 2}, points[0])
	assert.Equal(t, GrowthPoint{Date: "2024-01-03", Count: 3}, points[1])
}

func TestContentGrowthEmptyWindow(t *testing.T) {
	s := Snapshot{Posts: []Post{{ID: "p1", CreatedAt: at("2024-06-01", 0)}}}

	points := ContentGrowth(s, window("2024-01-01", "2024-01-31"))

	assert.Empty(t, points)
}
