package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// HandleWatchPosts streams the live post feed over a websocket: one JSON
// array per snapshot, newest post first, until the client disconnects.
func (h *Handler) HandleWatchPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to upgrade connection", "error", err)

			return
		}

		ctx, cancelCtx := context.WithCancel(r.Context())
		defer cancelCtx()

		snapshots, cancel, err := h.feedSvc.WatchPosts(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to watch posts", "error", err)
			closeConn(ctx, conn)

			return
		}
		defer cancel()

		go readUntilClosed(conn, cancelCtx)

		for snapshot := range snapshots {
			err := conn.WriteJSON(toPostResponses(snapshot))
			if err != nil {
				slog.InfoContext(ctx, "post feed watcher disconnected", "error", err)

				break
			}
		}

		closeConn(ctx, conn)
	})
}

// HandleWatchComments streams one post's live comment feed over a websocket,
// oldest comment first.
func (h *Handler) HandleWatchComments() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to upgrade connection", "error", err)

			return
		}

		ctx, cancelCtx := context.WithCancel(r.Context())
		defer cancelCtx()

		snapshots, cancel, err := h.discussSvc.WatchComments(ctx, postID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to watch comments", "postId", postID, "error", err)
			closeConn(ctx, conn)

			return
		}
		defer cancel()

		go readUntilClosed(conn, cancelCtx)

		for snapshot := range snapshots {
			err := conn.WriteJSON(toCommentResponses(snapshot))
			if err != nil {
				slog.InfoContext(ctx, "comment feed watcher disconnected",
					"postId", postID, "error", err)

				break
			}
		}

		closeConn(ctx, conn)
	})
}

// readUntilClosed drains client frames so pings are answered and the
// connection's closure is noticed, then cancels the watch.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func closeConn(ctx context.Context, conn *websocket.Conn) {
	err := conn.Close()
	if err != nil {
		slog.ErrorContext(ctx, "failed to close websocket connection", "error", err)
	}
}
