package report

import (
	"bytes"
	"encoding/json"
	"net/http"

	"Gaspipe/internal/calc/gas"
	"Gaspipe/internal/calc/premium/batch"
)

type Input struct {
	Meta
	batch.GasBatchInput
}

type Handler struct{}

func decode(w http.ResponseWriter, r *http.Request) (Input, batch.GasBatchResult, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Input{}, batch.GasBatchResult{}, false
	}
	res, err := batch.CalculateGas(input.GasBatchInput)
	if err != nil {
		gas.WriteError(w, err)
		return Input{}, batch.GasBatchResult{}, false
	}
	return input, res, true
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	input, res, ok := decode(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, input.Meta, res); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"gas-sizing.pdf\"")
	w.Write(buf.Bytes())
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	_, res, ok := decode(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, res); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"gas-sizing.xlsx\"")
	w.Write(buf.Bytes())
}
