package handlers

import (
	"net/http"

	"takatrack-backend/internal/middleware"
	"takatrack-backend/internal/models"
	"takatrack-backend/internal/services"
	"takatrack-backend/pkg/utils"
)

func GetRecyclingRecords(recycling *services.RecyclingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := recycling.ListRecords(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, records)
	}
}

func CreateRecyclingRecord(recycling *services.RecyclingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateRecyclingRecordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		record, err := recycling.CreateRecord(r.Context(), userID, req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		material := record.Material
		if !models.KnownMaterial(material) {
			material = "other"
		}
		middleware.RecycledKilograms.WithLabelValues(material).Add(record.Weight)
		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Recycling record added successfully",
			"record":  record,
		})
	}
}

func GetRecyclingStats(recycling *services.RecyclingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := recycling.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, stats)
	}
}
