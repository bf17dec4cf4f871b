package routes

import (
	"encoding/json"
	"net/http"

	"prism/prism/controllers"
	"prism/prism/utils/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, types.NewValidationError("invalid request body"))
			return
		}
		token, err := ctrl.Login(r.Context(), req.Username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	})
	return r
}
