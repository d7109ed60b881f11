// Package feed turns an unordered pile of posts into the ordered
// sequence the site renders. Ordering lives here, not in SQL, so a
// single pass over the rows produces the same feed no matter which
// store they came from.
package feed

import (
	"time"

	"alcove/internal/models"
	"alcove/internal/observability"
)

// Item is one feed entry. Comments is never nil: a post without
// comments carries an empty list and a zero count so the view can
// render its "no comments" state instead of guessing from a null.
type Item struct {
	Post         *models.Post      `json:"post"`
	Comments     []*models.Comment `json:"comments"`
	CommentCount int               `json:"comment_count"`
	Liked        bool              `json:"liked"`
}

// Assemble sorts posts newest first and wraps each one as an Item.
// The input slice is not modified. An empty input yields an empty,
// non-nil feed.
func Assemble(posts []*models.Post) []Item {
	start := time.Now()

	sorted := SortPosts(posts)
	items := make([]Item, 0, len(sorted))
	for _, post := range sorted {
		comments := post.Comments
		if comments == nil {
			comments = []*models.Comment{}
		}
		items = append(items, Item{
			Post:         post,
			Comments:     comments,
			CommentCount: len(comments),
		})
	}

	observability.ObserveFeedAssembly(start, len(items))
	return items
}

// SortPosts returns the posts ordered by created_at descending, ties
// broken by id descending. It is a hand-rolled merge sort: splitting
// into halves keeps the order stable, and the explicit id tie-break
// makes equal-timestamp runs come out the same way every time.
func SortPosts(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	copy(out, posts)
	return mergeSort(out)
}

func mergeSort(posts []*models.Post) []*models.Post {
	if len(posts) <= 1 {
		return posts
	}
	mid := len(posts) / 2
	left := mergeSort(posts[:mid])
	right := mergeSort(posts[mid:])
	return merge(left, right)
}

func merge(left, right []*models.Post) []*models.Post {
	merged := make([]*models.Post, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if takeLeft(left[i], right[j]) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	return append(merged, right[j:]...)
}

// takeLeft decides the merge order: newer posts first, and between
// posts created in the same instant the higher id wins.
func takeLeft(a, b *models.Post) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID >= b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
