package handlers

import (
	"errors"
	"net/http"

	"takatrack-backend/internal/middleware"
	"takatrack-backend/internal/models"
	"takatrack-backend/internal/services"
	"takatrack-backend/pkg/utils"

	"go.uber.org/zap"
)

// respondServiceError writes err with the status its kind maps to. Internal
// errors are logged with the request path and hidden from the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.StatusCode(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorw("❌ request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	utils.RespondError(w, status, services.Message(err))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireUser reads the caller id placed in context by middleware.Auth.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Authorization token is required")
		return 0, false
	}
	return userID, true
}

func Register(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := auth.Register(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "User registered successfully",
			"user":    user,
		})
	}
}

func Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := auth.Login(r.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				zap.S().Infow("🔐 login rejected", "email", req.Email)
			}
			respondServiceError(w, r, err)
			return
		}

		zap.S().Infow("✅ login", "user_id", resp.User.ID)
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

func GetCurrentUser(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		user, err := auth.Me(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
	}
}
