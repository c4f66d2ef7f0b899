// Package discuss is the comment store: comments keyed by post, the live
// per-post comment feed, and the comment-count maintenance on the owning post.
package discuss

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/professorevery/campusfeed/live"
)

// CommentsTopic is the hub topic for one post's comment feed.
func CommentsTopic(postID string) string {
	return "comments/" + postID
}

// PostFeedNotifier lets the comment store tell the post store that a post's
// denormalized state changed, so open post-feed watchers refresh.
type PostFeedNotifier interface {
	PostChanged()
}

type Service struct {
	commentRepo CommentRepository
	hub         *live.Hub
	postFeed    PostFeedNotifier
}

func NewService(commentRepo CommentRepository, hub *live.Hub, postFeed PostFeedNotifier) *Service {
	return &Service{
		commentRepo: commentRepo,
		hub:         hub,
		postFeed:    postFeed,
	}
}

type CreateCommentRequest struct {
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
}

// CreateComment persists a comment on req.PostID. The comment insert and the
// post's comment-counter bump happen in one repository transaction, so the
// counter cannot drift from the comment records it summarizes. Content
// validation is the caller's concern.
func (svc *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	comment := &Comment{
		ID:         uuid.NewString(),
		PostID:     req.PostID,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
		CreatedAt:  time.Now(),
	}

	err := svc.commentRepo.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	svc.hub.Publish(CommentsTopic(comment.PostID))
	svc.postFeed.PostChanged()

	return comment, nil
}

// ListComments returns the post's comments ordered by creation time ascending.
func (svc *Service) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	comments, err := svc.commentRepo.List(ctx, &ListCommentsParams{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CountComments recounts the post's comment records, bypassing the
// denormalized counter.
func (svc *Service) CountComments(ctx context.Context, postID string) (int, error) {
	count, err := svc.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return count, nil
}

// WatchComments opens a live query over one post's comments, with the same
// snapshot contract as the post feed: an immediate first snapshot, then a
// fresh full snapshot after every insert, until cancelled.
func (svc *Service) WatchComments(ctx context.Context, postID string) (<-chan []*Comment, func(), error) {
	signals, unsubscribe := svc.hub.Subscribe(CommentsTopic(postID))

	initial, err := svc.ListComments(ctx, postID)
	if err != nil {
		unsubscribe()

		return nil, nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	snapshots := make(chan []*Comment, 1)
	snapshots <- initial

	stop := make(chan struct{})

	var stopOnce sync.Once

	cancel := func() {
		stopOnce.Do(func() {
			close(stop)
			unsubscribe()
		})
	}

	go func() {
		defer close(snapshots)

		for {
			select {
			case <-ctx.Done():
				cancel()

				return
			case <-stop:
				return
			case _, ok := <-signals:
				if !ok {
					return
				}

				comments, err := svc.ListComments(ctx, postID)
				if err != nil {
					slog.ErrorContext(ctx, "failed to refresh comment feed snapshot",
						"postId", postID, "error", err)

					continue
				}

				select {
				case snapshots <- comments:
				case <-ctx.Done():
					cancel()

					return
				case <-stop:
					return
				}
			}
		}
	}()

	return snapshots, cancel, nil
}
