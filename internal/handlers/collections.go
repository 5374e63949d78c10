package handlers

import (
	"net/http"
	"strconv"

	"takatrack-backend/internal/middleware"
	"takatrack-backend/internal/models"
	"takatrack-backend/internal/services"
	"takatrack-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// statusLabel folds free-form statuses into one metric label.
func statusLabel(status string) string {
	switch status {
	case models.CollectionStatusPending, models.CollectionStatusInProgress, models.CollectionStatusCompleted:
		return status
	}
	return "other"
}

func GetCollections(waste *services.WasteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := waste.ListCollections(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, collections)
	}
}

func CreateCollection(waste *services.WasteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		collection, err := waste.CreateCollection(r.Context(), userID, req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		middleware.CollectionsScheduled.WithLabelValues(collection.WasteType).Inc()
		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"message":    "Collection scheduled successfully",
			"collection": collection,
		})
	}
}

func UpdateCollection(waste *services.WasteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "Invalid collection id")
			return
		}

		var req models.UpdateCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		collection, err := waste.UpdateCollectionStatus(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		middleware.CollectionStatusUpdates.WithLabelValues(statusLabel(collection.Status)).Inc()
		utils.RespondMessage(w, http.StatusOK, "Collection updated successfully")
	}
}
