package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"prism/prism/config"
	"prism/prism/controllers"
	"prism/prism/middlewares"
	"prism/prism/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			resp, err := ctrl.GetHistory(r.Context(), middlewares.UserID(r.Context()))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		gr.Post("/message", func(w http.ResponseWriter, r *http.Request) {
			var req types.SendMessageRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, types.NewValidationError("invalid request body"))
				return
			}
			resp, err := ctrl.SendMessage(r.Context(), middlewares.UserID(r.Context()), req.Message)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		gr.Post("/image", func(w http.ResponseWriter, r *http.Request) {
			var req types.GenerateImageRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, types.NewValidationError("invalid request body"))
				return
			}
			resp, err := ctrl.GenerateImage(r.Context(), middlewares.UserID(r.Context()), req.Prompt)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		gr.Delete("/history", func(w http.ResponseWriter, r *http.Request) {
			resp, err := ctrl.ClearHistory(r.Context(), middlewares.UserID(r.Context()))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})
	})

	// Streaming sendMessage. The client authenticates in-band with its first
	// frame: {"token": "...", "message": "..."}.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token   string `json:"token"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			writeStreamEvent(ctx, conn, types.StreamEvent{Type: types.StreamEventError, Error: "invalid json"})
			return
		}

		userID, err := middlewares.VerifyToken(input.Token, cfg.JWTSecret)
		if err != nil {
			writeStreamEvent(ctx, conn, types.StreamEvent{Type: types.StreamEventError, Error: "invalid token"})
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		events, err := ctrl.SendMessageStream(ctx, userID, input.Message)
		if err != nil {
			writeStreamEvent(ctx, conn, types.StreamEvent{Type: types.StreamEventError, Error: err.Error()})
			return
		}

		for ev := range events {
			if err := writeStreamEvent(ctx, conn, ev); err != nil {
				// Consumer went away: cancel the producer and drain.
				cancel()
				for range events {
				}
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}

func writeStreamEvent(ctx context.Context, conn *websocket.Conn, ev types.StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}
