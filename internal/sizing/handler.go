package sizing

import (
	"encoding/json"
	"net/http"

	"Gaspipe/internal/calc/gas"
)

type Handler struct {
	Service *Service
}

func (h *Handler) Size(w http.ResponseWriter, r *http.Request) {
	var input RunInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Service.Run(r.Context(), input)
	if err != nil {
		gas.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
