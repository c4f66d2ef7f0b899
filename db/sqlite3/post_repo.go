package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/professorevery/campusfeed/feed"
)

const (
	tablePosts     = "posts"
	tablePostLikes = "post_likes"
)

type PostRepository struct {
	db *sql.DB
}

var _ feed.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const (
	postFieldID         = "id"
	postFieldAuthorID   = "author_id"
	postFieldAuthorName = "author_name"
	postFieldTitle      = "title"
	postFieldContent    = "content"
	postFieldCreatedAt  = "created_at"
	postFieldLikes      = "likes"
	postFieldComments   = "comments"
)

const (
	postLikeFieldPostID = "post_id"
	postLikeFieldUserID = "user_id"
)

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldAuthorID,
		postFieldAuthorName,
		postFieldTitle,
		postFieldContent,
		postFieldCreatedAt,
		postFieldLikes,
		postFieldComments,
	}
}

func scanPost(row sq.RowScanner) (*feed.Post, error) {
	var post feed.Post

	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.AuthorName,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.Likes,
		&post.Comments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	post.LikedBy = []string{}

	return &post, nil
}

func (repo *PostRepository) Insert(ctx context.Context, post *feed.Post) error {
	q := sq.Insert(tablePosts).
		Columns(postColumns()...).
		Values(
			post.ID,
			post.AuthorID,
			post.AuthorName,
			post.Title,
			post.Content,
			post.CreatedAt,
			post.Likes,
			post.Comments,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PostRepository) Find(ctx context.Context, postID string) (*feed.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	row := q.QueryRowContext(ctx)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &feed.PostNotFoundError{ID: postID}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	likedBy, err := repo.listLikers(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.LikedBy = likedBy

	return post, nil
}

func (repo *PostRepository) List(ctx context.Context) ([]*feed.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		OrderBy(postFieldCreatedAt + " DESC")

	q = q.RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	posts := make([]*feed.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	err = repo.attachLikers(ctx, posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (repo *PostRepository) listLikers(ctx context.Context, postID string) ([]string, error) {
	q := sq.Select(postLikeFieldUserID).
		From(tablePostLikes).
		Where(sq.Eq{postLikeFieldPostID: postID}).
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query post likes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	likedBy := []string{}

	for rows.Next() {
		var userID string

		err := rows.Scan(&userID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post like row: %w", err)
		}

		likedBy = append(likedBy, userID)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate post like rows: %w", err)
	}

	return likedBy, nil
}

func (repo *PostRepository) attachLikers(ctx context.Context, posts []*feed.Post) error {
	if len(posts) == 0 {
		return nil
	}

	q := sq.Select(postLikeFieldPostID, postLikeFieldUserID).
		From(tablePostLikes).
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to query post likes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	likersByPost := make(map[string][]string)

	for rows.Next() {
		var postID, userID string

		err := rows.Scan(&postID, &userID)
		if err != nil {
			return fmt.Errorf("failed to scan post like row: %w", err)
		}

		likersByPost[postID] = append(likersByPost[postID], userID)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("failed to iterate post like rows: %w", err)
	}

	for _, post := range posts {
		if likedBy, ok := likersByPost[post.ID]; ok {
			post.LikedBy = likedBy
		}
	}

	return nil
}

// ToggleLike flips the user's membership in the post's like set and moves the
// denormalized likes counter in the same transaction, so the counter always
// equals the membership count.
func (repo *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", "error", err)
		}
	}()

	result, err := sq.Delete(tablePostLikes).
		Where(sq.Eq{
			postLikeFieldPostID: postID,
			postLikeFieldUserID: userID,
		}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to exec delete: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	liked := removed == 0
	delta := -1

	if liked {
		_, err = sq.Insert(tablePostLikes).
			Columns(postLikeFieldPostID, postLikeFieldUserID).
			Values(postID, userID).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to exec insert: %w", err)
		}

		delta = 1
	}

	err = incrementPostField(ctx, tx, postID, postFieldLikes, delta)
	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return liked, nil
}

// IncrementComments atomically adds delta to the post's comment counter.
func (repo *PostRepository) IncrementComments(ctx context.Context, postID string, delta int) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", "error", err)
		}
	}()

	err = incrementPostField(ctx, tx, postID, postFieldComments, delta)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func incrementPostField(ctx context.Context, tx *sql.Tx, postID, field string, delta int) error {
	result, err := sq.Update(tablePosts).
		Set(field, sq.Expr(field+" + ?", delta)).
		Where(sq.Eq{postFieldID: postID}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &feed.PostNotFoundError{ID: postID}
	}

	return nil
}
