// Package sizing runs gas pipe sizing against the segment store and writes
// the new sizes back in a single transaction.
package sizing

import (
	"context"

	"Gaspipe/internal/calc/gas"
	"Gaspipe/internal/calc/premium/batch"
	"Gaspipe/internal/log"
	"Gaspipe/internal/repo"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
)

type RunInput struct {
	Request     gas.Request `json:"request" yaml:"request"`
	SelectedIDs []int64     `json:"selected_ids,omitempty" yaml:"selected_ids,omitempty"`
	All         bool        `json:"all,omitempty" yaml:"all,omitempty"`
}

type RunResult struct {
	batch.GasBatchResult
	Evaluated int  `json:"evaluated"`
	Applied   bool `json:"applied"`
}

type Service struct {
	Repo repo.Repository
}

func NewService(r repo.Repository) *Service {
	return &Service{Repo: r}
}

// Run sizes the selected gas segments. An empty selection evaluates nothing
// unless All is set, in which case every gas segment in the store is sized.
// Sizes are written only when the request asks to apply changes; a failed
// write rolls back the whole run.
func (s *Service) Run(ctx context.Context, in RunInput) (RunResult, error) {
	if err := in.Request.Validate(); err != nil {
		return RunResult{}, err
	}
	var segments []gas.Segment
	if len(in.SelectedIDs) > 0 || in.All {
		var err error
		if segments, err = s.Repo.GasSegments(ctx, in.SelectedIDs); err != nil {
			return RunResult{}, err
		}
	}
	log.Infow("evaluating selected gas pipes", "count", len(segments), "selected", len(in.SelectedIDs))

	out := RunResult{Evaluated: len(segments)}
	if len(segments) == 0 {
		out.RunID = uuid.NewString()
		out.Request = in.Request
		return out, nil
	}
	res, err := batch.CalculateGas(batch.GasBatchInput{Request: in.Request, Segments: segments})
	if err != nil {
		return RunResult{}, err
	}
	out.GasBatchResult = res
	for _, r := range res.Results {
		logResult(res.RunID, r)
	}

	if in.Request.ApplyChanges && res.Changed > 0 {
		err := s.Repo.WithTx(ctx, func(w repo.Writer) error {
			for _, r := range res.Resized() {
				if err := w.SetDiameter(ctx, r.SegmentID, r.NominalFt); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Errorw("sizing run rolled back", "run", res.RunID, "error", err)
			return RunResult{}, merry.Prepend(err, "apply pipe sizes")
		}
		out.Applied = true
	}
	log.Infow("sizing run finished", "run", res.RunID, "changed", res.Changed, "applied", out.Applied)
	return out, nil
}

func logResult(runID string, r gas.Result) {
	switch r.Outcome {
	case gas.OutcomeResized:
		log.Infow("pipe resized", "run", runID, "segment", r.SegmentID,
			"was_in", r.PreviousIn(), "now_in", r.NominalIn(), "calc_in", r.DiameterIn)
	case gas.OutcomeUnchanged:
		log.Debugw("pipe did not need to be adjusted", "run", runID, "segment", r.SegmentID)
	case gas.OutcomeOutOfCatalogRange:
		log.Warnw("pipe exceeds catalog range", "run", runID, "segment", r.SegmentID, "calc_in", r.DiameterIn)
	default:
		log.Warnw("pipe skipped", "run", runID, "segment", r.SegmentID, "reason", r.Notes)
	}
}
