// Package series shapes prediction results into chart-ready sequences.
package series

import "stockvue/internal/dto"

// TimeStep is the model's warm-up window: the number of leading original
// points that have no fitted value.
const TimeStep = 100

// Combine lays the original series, the train and test fits and the future
// forecast on one ordinal axis. Fits start at TimeStep, test right after
// train; forecast points follow the last original point. A nil input yields
// an empty result.
func Combine(original, trainPredict, testPredict []dto.Row, predictions []dto.PredictedClose) []dto.CombinedSeriesPoint {
	if original == nil || trainPredict == nil || testPredict == nil || predictions == nil {
		return []dto.CombinedSeriesPoint{}
	}

	trainEnd := TimeStep + len(trainPredict)
	testEnd := trainEnd + len(testPredict)

	combined := make([]dto.CombinedSeriesPoint, 0, len(original)+len(predictions))
	for i, row := range original {
		p := dto.CombinedSeriesPoint{
			Date:     i,
			Original: first(row),
		}
		if i >= TimeStep && i < trainEnd {
			p.TrainPredict = first(trainPredict[i-TimeStep])
		}
		if i >= trainEnd && i < testEnd {
			p.TestPredict = first(testPredict[i-trainEnd])
		}
		combined = append(combined, p)
	}

	for j, pred := range predictions {
		combined = append(combined, dto.CombinedSeriesPoint{
			Date:          len(original) + j,
			FuturePredict: copyFloat(pred.PredictedClose),
		})
	}
	return combined
}

// CombineLoss pairs loss and validation loss by position, not by epoch, and
// drops entries without an epoch. Misaligned inputs pair wrongly; callers
// rely on the server emitting both series in epoch order.
func CombineLoss(loss []dto.LossPoint, valLoss []dto.ValLossPoint) []dto.LossSeriesPoint {
	if loss == nil || valLoss == nil {
		return []dto.LossSeriesPoint{}
	}

	out := make([]dto.LossSeriesPoint, 0, len(loss))
	for i, l := range loss {
		if l.Epoch == nil {
			continue
		}
		p := dto.LossSeriesPoint{
			Epoch: *l.Epoch,
			Loss:  copyFloat(l.Loss),
		}
		if i < len(valLoss) {
			p.ValLoss = copyFloat(valLoss[i].ValLoss)
		}
		out = append(out, p)
	}
	return out
}

// Chart builds both series for a fetched result.
func Chart(symbol string, r *dto.PredictionResult) dto.PredictionChart {
	return dto.PredictionChart{
		Symbol:    symbol,
		Series:    Combine(r.OriginalData, r.TrainPredict, r.TestPredict, r.Predictions),
		Loss:      CombineLoss(r.Loss, r.ValLoss),
		TrainRMSE: r.TrainRMSE,
		TestRMSE:  r.TestRMSE,
	}
}

// SnapshotChart builds both series for a saved snapshot.
func SnapshotChart(s dto.PredictionSnapshot) dto.PredictionChart {
	return dto.PredictionChart{
		Symbol:    s.Symbol,
		Series:    Combine(s.OriginalData, s.TrainPredict, s.TestPredict, s.Predictions),
		Loss:      CombineLoss(s.Loss, s.ValLoss),
		TrainRMSE: s.TrainRMSE,
		TestRMSE:  s.TestRMSE,
	}
}

// first is the row's value; an empty row or a null value is absent.
func first(row dto.Row) *float64 {
	if len(row) == 0 {
		return nil
	}
	return copyFloat(row[0])
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
