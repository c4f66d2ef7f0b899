package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/professorevery/campusfeed/discuss"
	"github.com/professorevery/campusfeed/feed"
	identitycontext "github.com/professorevery/campusfeed/identity/context"
)

type commentResponse struct {
	ID         string `json:"id"`
	PostID     string `json:"postId"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

func toCommentResponse(comment *discuss.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		Timestamp:  comment.CreatedAt.UnixMilli(),
	}
}

func toCommentResponses(comments []*discuss.Comment) []commentResponse {
	responses := make([]commentResponse, 0, len(comments))

	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}

	return responses
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func validateCreateCommentRequest(req createCommentRequest) string {
	if strings.TrimSpace(req.Content) == "" {
		return "content is required"
	}

	return ""
}

func (h *Handler) HandleCreateComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")

		var req createCommentRequest

		err := decodeJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")

			return
		}

		if msg := validateCreateCommentRequest(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)

			return
		}

		// The post must exist before commenting; there is no database-level
		// reference from comments back to posts.
		_, err = h.feedSvc.GetPost(r.Context(), postID)
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

		userID := identitycontext.GetSubject(r.Context())

		profile, err := h.identitySvc.GetProfile(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to get author profile", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get author profile")

			return
		}

		comment, err := h.discussSvc.CreateComment(r.Context(), discuss.CreateCommentRequest{
			PostID:     postID,
			AuthorID:   userID,
			AuthorName: profile.Name,
			Content:    strings.TrimSpace(req.Content),
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to create comment", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create comment")

			return
		}

		writeJSON(w, http.StatusCreated, toCommentResponse(comment))
	})
}

func (h *Handler) HandleListComments() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")

		comments, err := h.discussSvc.ListComments(r.Context(), postID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list comments", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list comments")

			return
		}

		writeJSON(w, http.StatusOK, toCommentResponses(comments))
	})
}
