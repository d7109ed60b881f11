package feed

import (
	"math/rand"
	"testing"
	"time"

	"alcove/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postAt(id uint, createdAt time.Time) *models.Post {
	return &models.Post{ID: id, Title: "post", CreatedAt: createdAt}
}

func feedIDs(items []Item) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Post.ID)
	}
	return ids
}

func TestSortPosts_NewestFirst(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		postAt(1, base),
		postAt(2, base.Add(2*time.Hour)),
		postAt(3, base.Add(time.Hour)),
	}

	sorted := SortPosts(posts)

	require.Len(t, sorted, 3)
	assert.Equal(t, uint(2), sorted[0].ID)
	assert.Equal(t, uint(3), sorted[1].ID)
	assert.Equal(t, uint(1), sorted[2].ID)

	// input untouched
	assert.Equal(t, uint(1), posts[0].ID)
}

func TestSortPosts_EqualTimestampsBreakTiesByID(t *testing.T) {
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		postAt(4, at),
		postAt(9, at),
		postAt(1, at),
		postAt(7, at),
	}

	sorted := SortPosts(posts)

	var ids []uint
	for _, p := range sorted {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{9, 7, 4, 1}, ids)
}

func TestSortPosts_PermutationInvariant(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	var posts []*models.Post
	for id := uint(1); id <= 40; id++ {
		// every fourth post shares a timestamp with a neighbor
		posts = append(posts, postAt(id, base.Add(time.Duration(id/4)*time.Minute)))
	}

	want := feedIDs(Assemble(posts))

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*models.Post, len(posts))
		copy(shuffled, posts)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		assert.Equal(t, want, feedIDs(Assemble(shuffled)), "trial %d", trial)
	}
}

func TestSortPosts_Idempotent(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		postAt(3, base.Add(time.Hour)),
		postAt(2, base.Add(time.Hour)),
		postAt(1, base),
	}

	once := SortPosts(posts)
	twice := SortPosts(once)
	assert.Equal(t, once, twice)
}

func TestAssemble_EmptyInput(t *testing.T) {
	items := Assemble(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAssemble_ZeroCommentsIsExplicit(t *testing.T) {
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	bare := postAt(1, at)
	commented := postAt(2, at.Add(time.Hour))
	commented.Comments = []*models.Comment{
		{ID: 11, Content: "first", PostID: 2},
	}

	items := Assemble([]*models.Post{bare, commented})

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].CommentCount)
	assert.NotNil(t, items[1].Comments)
	assert.Empty(t, items[1].Comments)
	assert.Equal(t, 0, items[1].CommentCount)
}
