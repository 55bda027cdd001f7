package batch

import (
	"net/http"

	"Gaspipe/internal/calc/gas"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
)

type GasBatchInput struct {
	Request  gas.Request   `json:"request" yaml:"request"`
	Segments []gas.Segment `json:"segments" yaml:"segments"`
}

type GasBatchResult struct {
	RunID      string       `json:"run_id"`
	Request    gas.Request  `json:"request"`
	Results    []gas.Result `json:"results"`
	Changed    int          `json:"changed"`
	OutOfRange int          `json:"out_of_range"`
	Invalid    int          `json:"invalid"`
	Skipped    []int64      `json:"skipped,omitempty"`
}

var ErrNoSegments = merry.New("no segments").WithHTTPCode(http.StatusBadRequest)

// CalculateGas sizes every gas segment under one request. Segments of other
// systems are listed in Skipped and get no result. A bad request fails the
// whole batch; a bad segment only marks its own result.
func CalculateGas(in GasBatchInput) (GasBatchResult, error) {
	if err := in.Request.Validate(); err != nil {
		return GasBatchResult{}, err
	}
	if len(in.Segments) == 0 {
		return GasBatchResult{}, ErrNoSegments.Here()
	}
	out := GasBatchResult{
		RunID:   uuid.NewString(),
		Request: in.Request,
		Results: make([]gas.Result, 0, len(in.Segments)),
	}
	for _, seg := range in.Segments {
		if !seg.IsGas() {
			out.Skipped = append(out.Skipped, seg.ID)
			continue
		}
		out.add(gas.Evaluate(seg, in.Request))
	}
	return out, nil
}

func (b *GasBatchResult) add(res gas.Result) {
	switch res.Outcome {
	case gas.OutcomeResized:
		b.Changed++
	case gas.OutcomeOutOfCatalogRange:
		b.OutOfRange++
	case gas.OutcomeInvalidInput:
		b.Invalid++
	}
	b.Results = append(b.Results, res)
}

// Resized returns the results whose segment needs a new size.
func (b GasBatchResult) Resized() []gas.Result {
	var out []gas.Result
	for _, r := range b.Results {
		if r.Changed {
			out = append(out, r)
		}
	}
	return out
}
