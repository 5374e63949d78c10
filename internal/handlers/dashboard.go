package handlers

import (
	"net/http"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/services"
	"takatrack-backend/pkg/utils"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": models.FormatTime(time.Now()),
		})
	}
}

func GetDashboardStats(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		stats, err := dashboard.Stats(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, stats)
	}
}

func GetNotifications(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, dashboard.Notifications())
	}
}

func RegisterDevice(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.RegisterDeviceRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := dashboard.RegisterDevice(r.Context(), userID, req); err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusCreated, "Device registered successfully")
	}
}

func GetDrivers(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drivers, err := dashboard.ListDrivers(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, drivers)
	}
}
