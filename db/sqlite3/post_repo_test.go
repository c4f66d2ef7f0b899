package sqlite3_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/professorevery/campusfeed/db/sqlite3"
	"github.com/professorevery/campusfeed/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(title string, createdAt time.Time) *feed.Post {
	return &feed.Post{
		ID:         uuid.NewString(),
		AuthorID:   uuid.NewString(),
		AuthorName: "Kim Minji",
		Title:      title,
		Content:    "content of " + title,
		CreatedAt:  createdAt,
		Likes:      0,
		LikedBy:    []string{},
		Comments:   0,
	}
}

func TestPostRepositoryInsertAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	post := newPost("Midterm tips", time.Now())

	err := repo.Insert(ctx, post)
	require.NoError(t, err)

	found, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, post.ID, found.ID)
	assert.Equal(t, post.AuthorID, found.AuthorID)
	assert.Equal(t, post.AuthorName, found.AuthorName)
	assert.Equal(t, post.Title, found.Title)
	assert.Equal(t, post.Content, found.Content)
	assert.Equal(t, 0, found.Likes)
	assert.Equal(t, 0, found.Comments)
	assert.Empty(t, found.LikedBy)
}

func TestPostRepositoryFindNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	_, err := repo.Find(ctx, "no-such-post")

	notFoundErr := &feed.PostNotFoundError{}
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "no-such-post", notFoundErr.ID)
}

func TestPostRepositoryListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	base := time.Now()

	oldest := newPost("oldest", base.Add(-2*time.Hour))
	middle := newPost("middle", base.Add(-time.Hour))
	newest := newPost("newest", base)

	// insert out of chronological order
	for _, post := range []*feed.Post{middle, newest, oldest} {
		err := repo.Insert(ctx, post)
		require.NoError(t, err)
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, newest.ID, posts[0].ID)
	assert.Equal(t, middle.ID, posts[1].ID)
	assert.Equal(t, oldest.ID, posts[2].ID)
}

func TestPostRepositoryToggleLikeParity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	post := newPost("parity", time.Now())

	err := repo.Insert(ctx, post)
	require.NoError(t, err)

	userID := uuid.NewString()

	for i := 1; i <= 5; i++ {
		liked, err := repo.ToggleLike(ctx, post.ID, userID)
		require.NoError(t, err)

		wantLiked := i%2 == 1
		assert.Equal(t, wantLiked, liked, "toggle %d", i)

		found, err := repo.Find(ctx, post.ID)
		require.NoError(t, err)

		assert.Len(t, found.LikedBy, found.Likes, "likes must equal the like-set size")
		assert.Equal(t, wantLiked, found.LikedByUser(userID))

		if wantLiked {
			assert.Equal(t, 1, found.Likes)
		} else {
			assert.Equal(t, 0, found.Likes)
		}
	}
}

func TestPostRepositoryToggleLikeTwoUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	post := newPost("two users", time.Now())

	err := repo.Insert(ctx, post)
	require.NoError(t, err)

	alice := uuid.NewString()
	bob := uuid.NewString()

	_, err = repo.ToggleLike(ctx, post.ID, alice)
	require.NoError(t, err)

	_, err = repo.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)

	found, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, found.Likes)
	assert.ElementsMatch(t, []string{alice, bob}, found.LikedBy)

	_, err = repo.ToggleLike(ctx, post.ID, alice)
	require.NoError(t, err)

	found, err = repo.Find(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, found.Likes)
	assert.ElementsMatch(t, []string{bob}, found.LikedBy)
}

func TestPostRepositoryToggleLikeUnknownPost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	_, err := repo.ToggleLike(ctx, "no-such-post", uuid.NewString())

	notFoundErr := &feed.PostNotFoundError{}
	require.ErrorAs(t, err, &notFoundErr)
}

func TestPostRepositoryIncrementComments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	post := newPost("increment", time.Now())

	err := repo.Insert(ctx, post)
	require.NoError(t, err)

	err = repo.IncrementComments(ctx, post.ID, 1)
	require.NoError(t, err)

	err = repo.IncrementComments(ctx, post.ID, 1)
	require.NoError(t, err)

	found, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Comments)

	err = repo.IncrementComments(ctx, "no-such-post", 1)

	notFoundErr := &feed.PostNotFoundError{}
	require.ErrorAs(t, err, &notFoundErr)
}

// The store itself accepts blank titles and contents; rejecting them is the
// API layer's job.
func TestPostRepositoryAcceptsEmptyFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := sqlite3.NewPostRepository(newTestDB(t))

	post := newPost("", time.Now())
	post.Content = ""

	err := repo.Insert(ctx, post)
	require.NoError(t, err)

	found, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Title)
	assert.Empty(t, found.Content)
}
