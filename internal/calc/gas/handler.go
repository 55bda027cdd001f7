package gas

import (
	"encoding/json"
	"net/http"

	"github.com/ansel1/merry"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// WriteError replies with the HTTP code attached to err, 500 if none.
func WriteError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), merry.HTTPCode(err))
}
