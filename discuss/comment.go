package discuss

import (
	"context"
	"time"
)

type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}

type CommentRepository interface {
	// Insert persists the comment and, in the same transaction, bumps the
	// owning post's comment counter by one.
	Insert(ctx context.Context, comment *Comment) (err error)
	List(ctx context.Context, params *ListCommentsParams) (comments []*Comment, err error)
	CountByPost(ctx context.Context, postID string) (count int, err error)
}

type ListCommentsParams struct {
	PostID string
}
