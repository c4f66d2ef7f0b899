// Package feed is the post store: it owns post records, their like counters
// and like-membership sets, and the live post feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/professorevery/campusfeed/live"
)

// TopicPosts is the hub topic signalled after every post mutation.
const TopicPosts = "posts"

type Service struct {
	postRepo PostRepository
	hub      *live.Hub
}

func NewService(postRepo PostRepository, hub *live.Hub) *Service {
	return &Service{
		postRepo: postRepo,
		hub:      hub,
	}
}

type CreatePostRequest struct {
	AuthorID   string
	AuthorName string
	Title      string
	Content    string
}

// CreatePost persists a new post with zeroed counters and an empty like set.
// Field validation (non-empty title/content) is the caller's concern.
func (svc *Service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	post := &Post{
		ID:         uuid.NewString(),
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  time.Now(),
		Likes:      0,
		LikedBy:    []string{},
		Comments:   0,
	}

	err := svc.postRepo.Insert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	svc.hub.Publish(TopicPosts)

	return post, nil
}

// ListPosts returns all posts ordered by creation time descending.
func (svc *Service) ListPosts(ctx context.Context) ([]*Post, error) {
	posts, err := svc.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (svc *Service) GetPost(ctx context.Context, postID string) (*Post, error) {
	post, err := svc.postRepo.Find(ctx, postID)
	if err != nil {
		var notFoundErr *PostNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, notFoundErr
		}

		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

// ToggleLike adds userID to the post's like set if absent, removes it if
// present. The repository performs the flip as a single conditional update,
// so likes always equals the like-set size, even under concurrent toggles.
func (svc *Service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	liked, err := svc.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}

	svc.hub.Publish(TopicPosts)

	return liked, nil
}

// IncrementCommentCount adjusts the post's denormalized comment counter as a
// single server-side update. Comment creation bumps the counter in its own
// transaction; this entry point serves callers outside that path.
func (svc *Service) IncrementCommentCount(ctx context.Context, postID string, delta int) error {
	err := svc.postRepo.IncrementComments(ctx, postID, delta)
	if err != nil {
		return fmt.Errorf("failed to increment comment count: %w", err)
	}

	svc.hub.Publish(TopicPosts)

	return nil
}

// PostChanged signals post-feed watchers that a post mutated outside this
// service, e.g. a transactional comment insert that bumped a counter.
func (svc *Service) PostChanged() {
	svc.hub.Publish(TopicPosts)
}

// WatchPosts opens a live query over the post feed. The first snapshot is
// delivered immediately; a fresh full snapshot follows every post mutation.
// The consumer stops the stream with the returned cancel func (or by
// cancelling ctx), after which the channel is closed. A failed refresh is
// logged and skipped; the subscription stays up.
func (svc *Service) WatchPosts(ctx context.Context) (<-chan []*Post, func(), error) {
	signals, unsubscribe := svc.hub.Subscribe(TopicPosts)

	initial, err := svc.ListPosts(ctx)
	if err != nil {
		unsubscribe()

		return nil, nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	snapshots := make(chan []*Post, 1)
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

				posts, err := svc.ListPosts(ctx)
				if err != nil {
					slog.ErrorContext(ctx, "failed to refresh post feed snapshot", "error", err)

					continue
				}

				select {
				case snapshots <- posts:
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
