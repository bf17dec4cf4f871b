package routes

import (
	"encoding/json"
	"net/http"

	"prism/prism/config"
	"prism/prism/controllers"
	"prism/prism/middlewares"
	"prism/prism/utils/types"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			user, err := ctrl.GetUser(r.Context(), middlewares.UserID(r.Context()))
			if err != nil {
				writeError(w, err)
				return
			}
			if user == nil {
				writeJSON(w, http.StatusNotFound, &types.APIError{Code: "not_found", Message: "user not found"})
				return
			}
			writeJSON(w, http.StatusOK, user)
		})
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, types.NewValidationError("invalid request body"))
			return
		}
		user, err := ctrl.CreateUser(r.Context(), req.Username, req.Email, req.FullName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	})

	return r
}
