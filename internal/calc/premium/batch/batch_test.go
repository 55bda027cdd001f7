package batch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Gaspipe/internal/calc/gas"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGas(t *testing.T) {
	in := GasBatchInput{
		Request: gas.Request{DevelopedLengthFt: 100, Regime: gas.LowPressure(6.0), Fuel: gas.FuelNaturalGas},
		Segments: []gas.Segment{
			{ID: 1, SystemType: "Natural Gas", FlowMBH: 10, DiameterFt: 2.5 / 12},
			{ID: 2, SystemType: "Natural Gas", FlowMBH: 1, DiameterFt: 0.75 / 12},
			{ID: 3, SystemType: "Natural Gas", FlowMBH: 0, DiameterFt: 0.75 / 12},
			{ID: 4, SystemType: "Natural Gas", FlowMBH: 50000, DiameterFt: 4.0 / 12},
			{ID: 5, SystemType: "Natural Gas", FlowMBH: 5, DiameterFt: 0.5 / 12},
		},
	}
	res, err := CalculateGas(in)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	require.Len(t, res.Results, 5)
	assert.Equal(t, 2, res.Changed)
	assert.Equal(t, 1, res.OutOfRange)
	assert.Equal(t, 1, res.Invalid)

	outcomes := make([]gas.Outcome, 0, len(res.Results))
	for _, r := range res.Results {
		outcomes = append(outcomes, r.Outcome)
	}
	assert.Equal(t, []gas.Outcome{
		gas.OutcomeUnchanged,
		gas.OutcomeResized,
		gas.OutcomeInvalidInput,
		gas.OutcomeOutOfCatalogRange,
		gas.OutcomeResized,
	}, outcomes)

	resized := res.Resized()
	require.Len(t, resized, 2)
	assert.Equal(t, int64(2), resized[0].SegmentID)
	assert.Equal(t, int64(5), resized[1].SegmentID)
	assert.InDelta(t, 1.5/12, resized[1].NominalFt, 1e-12)
}

func TestCalculateGasSkipsOtherSystems(t *testing.T) {
	res, err := CalculateGas(GasBatchInput{
		Request: gas.Request{DevelopedLengthFt: 100, Regime: gas.LowPressure(6.0), Fuel: gas.FuelNaturalGas},
		Segments: []gas.Segment{
			{ID: 1, SystemType: "Domestic Cold Water", FlowMBH: 100, DiameterFt: 0.5 / 12},
			{ID: 2, SystemType: "Natural Gas", FlowMBH: 1, DiameterFt: 0.75 / 12},
			{ID: 3, FlowMBH: 1, DiameterFt: 0.5 / 12},
			{ID: 4, SystemType: "GAS - Medium Pressure", FlowMBH: 10, DiameterFt: 2.5 / 12},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, res.Skipped)
	require.Len(t, res.Results, 2)
	assert.Equal(t, int64(2), res.Results[0].SegmentID)
	assert.Equal(t, int64(4), res.Results[1].SegmentID)
	assert.Equal(t, 1, res.Changed)

	res, err = CalculateGas(GasBatchInput{
		Request:  gas.Request{DevelopedLengthFt: 100, Regime: gas.LowPressure(6.0), Fuel: gas.FuelNaturalGas},
		Segments: []gas.Segment{{ID: 7, SystemType: "Sanitary", FlowMBH: 100}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Changed)
	assert.Equal(t, []int64{7}, res.Skipped)
}

func TestCalculateGasRejects(t *testing.T) {
	_, err := CalculateGas(GasBatchInput{
		Request:  gas.Request{DevelopedLengthFt: 100, Regime: gas.HighPressure(4), Fuel: gas.FuelNaturalGas},
		Segments: []gas.Segment{{ID: 1, SystemType: "Natural Gas", FlowMBH: 10}},
	})
	assert.True(t, merry.Is(err, gas.ErrInvalidRegime))

	_, err = CalculateGas(GasBatchInput{
		Request: gas.Request{DevelopedLengthFt: 100, Regime: gas.HighPressure(2), Fuel: gas.FuelNaturalGas},
	})
	assert.True(t, merry.Is(err, ErrNoSegments))
}

func TestHandlerGas(t *testing.T) {
	body := `{"request":{"developed_length_ft":50,"regime":{"mode":"high","inlet_psi":5},"fuel":"natural_gas"},
		"segments":[{"id":9,"system_type":"Natural Gas","flow_mbh":100,"diameter_ft":0.5}]}`
	rec := httptest.NewRecorder()
	(&Handler{}).Gas(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed":1`)
}
