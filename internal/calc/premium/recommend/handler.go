package recommend

import (
	"encoding/json"
	"net/http"

	"Gaspipe/internal/calc/gas"
)

type Handler struct{}

func (h *Handler) Capacity(w http.ResponseWriter, r *http.Request) {
	var input CapacityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Capacities(input)
	if err != nil {
		gas.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
