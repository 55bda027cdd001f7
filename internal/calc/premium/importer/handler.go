package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"Gaspipe/internal/calc/gas"
	"Gaspipe/internal/calc/premium/batch"

	"github.com/ansel1/merry"
	"github.com/xuri/excelize/v2"
)

type Handler struct{}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type GasImportResult struct {
	Count   int                  `json:"count"`
	Skipped []SkippedRow         `json:"skipped,omitempty"`
	Batch   batch.GasBatchResult `json:"batch"`
}

const MaxUploadSize = 10 << 20 // 10MB

func (h *Handler) Gas(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}
	var req gas.Request
	if err := json.Unmarshal([]byte(r.FormValue("request")), &req); err != nil {
		http.Error(w, "Invalid request field", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	segments, skipped, err := ReadSegments(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := batch.CalculateGas(batch.GasBatchInput{Request: req, Segments: segments})
	if err != nil {
		gas.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GasImportResult{Count: len(segments), Skipped: skipped, Batch: res})
}

// ReadSegments reads a pipe schedule from the first sheet of an xlsx
// workbook. Row 1 is a header; rows that cannot be parsed are skipped and
// reported.
func ReadSegments(r io.Reader) ([]gas.Segment, []SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, merry.Prepend(err, "invalid file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, nil, merry.New("empty sheet")
	}

	var (
		segments []gas.Segment
		skipped  []SkippedRow
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		seg, err := parseSegmentRow(row)
		if err != nil {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: err.Error()})
			continue
		}
		segments = append(segments, seg)
	}
	return segments, skipped, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseSegmentRow(row []string) (gas.Segment, error) {
	// expected: id, system_type, flow_mbh, diameter_in
	if len(row) < 4 {
		return gas.Segment{}, fmt.Errorf("bad row: want id, system type, flow MBH, diameter in")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return gas.Segment{}, fmt.Errorf("id %q: %w", row[0], err)
	}
	flow, err := toFloat(row[2])
	if err != nil {
		return gas.Segment{}, fmt.Errorf("flow %q: %w", row[2], err)
	}
	diameterIn, err := toFloat(row[3])
	if err != nil {
		return gas.Segment{}, fmt.Errorf("diameter %q: %w", row[3], err)
	}
	return gas.Segment{
		ID:         id,
		SystemType: strings.TrimSpace(row[1]),
		FlowMBH:    flow,
		DiameterFt: diameterIn / 12.0,
	}, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
