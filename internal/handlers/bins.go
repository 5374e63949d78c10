package handlers

import (
	"net/http"

	"takatrack-backend/internal/services"
	"takatrack-backend/pkg/utils"
)

func GetBins(waste *services.WasteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := waste.ListBins(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, bins)
	}
}
