package dto

import "slices"

// PredictedClose is one step of the future forecast.
type PredictedClose struct {
	Date           string   `json:"date,omitempty"`
	PredictedClose *float64 `json:"predicted_close"`
}

type LossPoint struct {
	Epoch *int     `json:"epoch"`
	Loss  *float64 `json:"loss"`
}

type ValLossPoint struct {
	Epoch   *int     `json:"epoch,omitempty"`
	ValLoss *float64 `json:"val_loss"`
}

// Row is one model output row. A JSON null value decodes to a nil element.
type Row []*float64

// PredictionResult is the body of GET /predict/{symbol}. Series are rows of
// a single value each, as produced by the model.
type PredictionResult struct {
	Predictions  []PredictedClose `json:"predictions"`
	OriginalData []Row            `json:"original_data"`
	TrainPredict []Row            `json:"train_predict"`
	TestPredict  []Row            `json:"test_predict"`
	Loss         []LossPoint      `json:"loss"`
	ValLoss      []ValLossPoint   `json:"val_loss"`
	TrainRMSE    *float64         `json:"train_rmse"`
	TestRMSE     *float64         `json:"test_rmse"`
	Error        string           `json:"error,omitempty"`
}

// PredictionSnapshot is a saved copy of one prediction run. A nil series
// means it was absent when saved.
type PredictionSnapshot struct {
	Symbol       string           `json:"symbol"`
	Predictions  []PredictedClose `json:"predictions"`
	OriginalData []Row            `json:"originalData"`
	TrainPredict []Row            `json:"trainPredict"`
	TestPredict  []Row            `json:"testPredict"`
	Loss         []LossPoint      `json:"loss"`
	ValLoss      []ValLossPoint   `json:"valLoss"`
	TrainRMSE    *float64         `json:"trainRmse"`
	TestRMSE     *float64         `json:"testRmse"`
}

// Snapshot copies r under symbol.
func (r *PredictionResult) Snapshot(symbol string) PredictionSnapshot {
	return PredictionSnapshot{
		Symbol:       symbol,
		Predictions:  slices.Clone(r.Predictions),
		OriginalData: copyRows(r.OriginalData),
		TrainPredict: copyRows(r.TrainPredict),
		TestPredict:  copyRows(r.TestPredict),
		Loss:         slices.Clone(r.Loss),
		ValLoss:      slices.Clone(r.ValLoss),
		TrainRMSE:    r.TrainRMSE,
		TestRMSE:     r.TestRMSE,
	}
}

func copyRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		out[i] = make(Row, len(row))
		for j, v := range row {
			if v != nil {
				c := *v
				out[i][j] = &c
			}
		}
	}
	return out
}

// CombinedSeriesPoint is one x position of the forecast chart. At most one
// of the four values is set.
type CombinedSeriesPoint struct {
	Date          int      `json:"date"`
	Original      *float64 `json:"original"`
	TrainPredict  *float64 `json:"train_predict"`
	TestPredict   *float64 `json:"test_predict"`
	FuturePredict *float64 `json:"future_predict"`
}

type LossSeriesPoint struct {
	Epoch   int      `json:"epoch"`
	Loss    *float64 `json:"loss"`
	ValLoss *float64 `json:"val_loss"`
}

// PredictionChart bundles the chart-ready series for a result or snapshot.
type PredictionChart struct {
	Symbol    string                `json:"symbol"`
	Series    []CombinedSeriesPoint `json:"series"`
	Loss      []LossSeriesPoint     `json:"loss"`
	TrainRMSE *float64              `json:"trainRmse"`
	TestRMSE  *float64              `json:"testRmse"`
}

// SavedPredictionView is a saved snapshot with its position in the list.
type SavedPredictionView struct {
	Index int `json:"index"`
	PredictionChart
}

// Normalize replaces absent series with empty ones, as a freshly fetched
// result always has all series present.
func (r *PredictionResult) Normalize() {
	if r.Predictions == nil {
		r.Predictions = []PredictedClose{}
	}
	if r.OriginalData == nil {
		r.OriginalData = []Row{}
	}
	if r.TrainPredict == nil {
		r.TrainPredict = []Row{}
	}
	if r.TestPredict == nil {
		r.TestPredict = []Row{}
	}
	if r.Loss == nil {
		r.Loss = []LossPoint{}
	}
	if r.ValLoss == nil {
		r.ValLoss = []ValLossPoint{}
	}
}
