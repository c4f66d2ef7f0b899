package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/professorevery/campusfeed/feed"
	identitycontext "github.com/professorevery/campusfeed/identity/context"
)

type postResponse struct {
	ID         string   `json:"id"`
	AuthorID   string   `json:"authorId"`
	AuthorName string   `json:"authorName"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Timestamp  int64    `json:"timestamp"`
	Likes      int      `json:"likes"`
	LikedBy    []string `json:"likedBy"`
	Comments   int      `json:"comments"`
}

func toPostResponse(post *feed.Post) postResponse {
	return postResponse{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		AuthorName: post.AuthorName,
		Title:      post.Title,
		Content:    post.Content,
		Timestamp:  post.CreatedAt.UnixMilli(),
		Likes:      post.Likes,
		LikedBy:    post.LikedBy,
		Comments:   post.Comments,
	}
}

func toPostResponses(posts []*feed.Post) []postResponse {
	responses := make([]postResponse, 0, len(posts))

	for _, post := range posts {
		responses = append(responses, toPostResponse(post))
	}

	return responses
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// validateCreatePostRequest rejects blank titles and contents; the post store
// itself accepts them.
func validateCreatePostRequest(req createPostRequest) string {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return "title is required"
	case strings.TrimSpace(req.Content) == "":
		return "content is required"
	default:
		return ""
	}
}

func (h *Handler) HandleCreatePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest

		err := decodeJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")

			return
		}

		if msg := validateCreatePostRequest(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)

			return
		}

		userID := identitycontext.GetSubject(r.Context())

		profile, err := h.identitySvc.GetProfile(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to get author profile", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get author profile")

			return
		}

		post, err := h.feedSvc.CreatePost(r.Context(), feed.CreatePostRequest{
			AuthorID:   userID,
			AuthorName: profile.Name,
			Title:      strings.TrimSpace(req.Title),
			Content:    strings.TrimSpace(req.Content),
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to create post", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create post")

			return
		}

		writeJSON(w, http.StatusCreated, toPostResponse(post))
	})
}

func (h *Handler) HandleListPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.feedSvc.ListPosts(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list posts", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list posts")

			return
		}

		writeJSON(w, http.StatusOK, toPostResponses(posts))
	})
}

func (h *Handler) HandleGetPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")

		post, err := h.feedSvc.GetPost(r.Context(), postID)
		if err != nil {
			var notFoundErr *feed.PostNotFoundError
			if errors.As(err, &notFoundErr) {
				writeError(w, http.StatusNotFound, notFoundErr.Error())

				return
			}

			slog.ErrorContext(r.Context(), "failed to get post", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get post")

			return
		}

		writeJSON(w, http.StatusOK, toPostResponse(post))
	})
}

type toggleLikeResponse struct {
	Liked bool `json:"liked"`
}

func (h *Handler) HandleToggleLike() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")
		userID := identitycontext.GetSubject(r.Context())

		liked, err := h.feedSvc.ToggleLike(r.Context(), postID, userID)
		if err != nil {
			var notFoundErr *feed.PostNotFoundError
			if errors.As(err, &notFoundErr) {
				writeError(w, http.StatusNotFound, notFoundErr.Error())

				return
			}

			slog.ErrorContext(r.Context(), "failed to toggle like", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to toggle like")

			return
		}

		writeJSON(w, http.StatusOK, toggleLikeResponse{Liked: liked})
	})
}
