package sqlite3_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/professorevery/campusfeed/db/sqlite3"
	"github.com/professorevery/campusfeed/discuss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComment(postID, content string, createdAt time.Time) *discuss.Comment {
	return &discuss.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		AuthorID:   uuid.NewString(),
		AuthorName: "Lee Jiho",
		Content:    content,
		CreatedAt:  createdAt,
	}
}

func TestCommentRepositoryInsertBumpsPostCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	postRepo := sqlite3.NewPostRepository(db)
	commentRepo := sqlite3.NewCommentRepository(db)

	post := newPost("with comments", time.Now())

	err := postRepo.Insert(ctx, post)
	require.NoError(t, err)

	err = commentRepo.Insert(ctx, newComment(post.ID, "first", time.Now()))
	require.NoError(t, err)

	found, err := postRepo.Find(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Comments)

	err = commentRepo.Insert(ctx, newComment(post.ID, "second", time.Now()))
	require.NoError(t, err)

	found, err = postRepo.Find(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Comments)

	count, err := commentRepo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Comments, count, "denormalized counter must match the recount")
}

func TestCommentRepositoryListOldestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	postRepo := sqlite3.NewPostRepository(db)
	commentRepo := sqlite3.NewCommentRepository(db)

	post := newPost("ordered comments", time.Now())

	err := postRepo.Insert(ctx, post)
	require.NoError(t, err)

	base := time.Now()

	second := newComment(post.ID, "second", base.Add(-time.Minute))
	third := newComment(post.ID, "third", base)
	first := newComment(post.ID, "first", base.Add(-2*time.Minute))

	// insert out of chronological order
	for _, comment := range []*discuss.Comment{second, third, first} {
		err := commentRepo.Insert(ctx, comment)
		require.NoError(t, err)
	}

	comments, err := commentRepo.List(ctx, &discuss.ListCommentsParams{PostID: post.ID})
	require.NoError(t, err)

	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestCommentRepositoryListFiltersByPost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	postRepo := sqlite3.NewPostRepository(db)
	commentRepo := sqlite3.NewCommentRepository(db)

	postA := newPost("post a", time.Now())
	postB := newPost("post b", time.Now())

	err := postRepo.Insert(ctx, postA)
	require.NoError(t, err)

	err = postRepo.Insert(ctx, postB)
	require.NoError(t, err)

	err = commentRepo.Insert(ctx, newComment(postA.ID, "on a", time.Now()))
	require.NoError(t, err)

	err = commentRepo.Insert(ctx, newComment(postB.ID, "on b", time.Now()))
	require.NoError(t, err)

	comments, err := commentRepo.List(ctx, &discuss.ListCommentsParams{PostID: postA.ID})
	require.NoError(t, err)

	require.Len(t, comments, 1)
	assert.Equal(t, postA.ID, comments[0].PostID)
	assert.Equal(t, "on a", comments[0].Content)
}

// A comment referencing an unknown post is still stored; the post id is not a
// database-enforced reference.
func TestCommentRepositoryInsertUnknownPost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	commentRepo := sqlite3.NewCommentRepository(newTestDB(t))

	err := commentRepo.Insert(ctx, newComment("no-such-post", "orphan", time.Now()))
	require.NoError(t, err)

	count, err := commentRepo.CountByPost(ctx, "no-such-post")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
