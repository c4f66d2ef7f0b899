package feed

import (
	"context"
	"fmt"
	"time"
)

type Post struct {
	ID         string
	AuthorID   string
	AuthorName string
	Title      string
	Content    string
	CreatedAt  time.Time
	Likes      int
	LikedBy    []string
	Comments   int
}

// LikedByUser reports whether userID is in the post's like set.
func (post *Post) LikedByUser(userID string) bool {
	for _, id := range post.LikedBy {
		if id == userID {
			return true
		}
	}

	return false
}

type PostRepository interface {
	Insert(ctx context.Context, post *Post) (err error)
	Find(ctx context.Context, postID string) (post *Post, err error)
	List(ctx context.Context) (posts []*Post, err error)

	// ToggleLike atomically flips userID's membership in the post's like set
	// and moves the likes counter with it, reporting the resulting state.
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)

	// IncrementComments atomically adds delta to the post's comment counter.
	IncrementComments(ctx context.Context, postID string, delta int) (err error)
}

type PostNotFoundError struct {
	ID string
}

func (err PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %q not found", err.ID)
}
