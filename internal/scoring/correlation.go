package scoring

import (
	"math"

	"github.com/mbharti12/goal-tracker/internal/model"
)

// Comparison is the correlation between two goals' trend ratios.
// Correlation is nil when fewer than three paired points exist or either
// side has zero variance.
type Comparison struct {
	GoalIDA     string   `json:"goal_id_a"`
	GoalIDB     string   `json:"goal_id_b"`
	Correlation *float64 `json:"correlation"`
	N           int      `json:"n"`
}

// BuildComparisons pairs every two series (i < j), zips their points by
// index, keeps points where both sides are applicable and scored, and
// correlates the remaining ratio pairs.
func BuildComparisons(series []TrendSeries) []Comparison {
	comparisons := make([]Comparison, 0)
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			ratiosA := make([]float64, 0)
			ratiosB := make([]float64, 0)
			n := len(series[i].Points)
			if len(series[j].Points) < n {
				n = len(series[j].Points)
			}
			for k := 0; k < n; k++ {
				pointA := series[i].Points[k]
				pointB := series[j].Points[k]
				if pointA.Applicable && pointB.Applicable &&
					pointA.Status != model.StatusNotApplicable && pointB.Status != model.StatusNotApplicable {
					ratiosA = append(ratiosA, pointA.Ratio)
					ratiosB = append(ratiosB, pointB.Ratio)
				}
			}
			comparisons = append(comparisons, Comparison{
				GoalIDA:     series[i].GoalID,
				GoalIDB:     series[j].GoalID,
				Correlation: Pearson(ratiosA, ratiosB),
				N:           len(ratiosA),
			})
		}
	}
	return comparisons
}

// Pearson returns the correlation coefficient of the paired values, or nil
// when it is undefined: fewer than three pairs, or zero variance on either
// side (a constant series correlates with nothing).
func Pearson(valuesA, valuesB []float64) *float64 {
	n := len(valuesA)
	if len(valuesB) < n {
		n = len(valuesB)
	}
	if n < 3 {
		return nil
	}
	avgA := mean(valuesA[:n])
	avgB := mean(valuesB[:n])
	varA := 0.0
	varB := 0.0
	for i := 0; i < n; i++ {
		varA += (valuesA[i] - avgA) * (valuesA[i] - avgA)
		varB += (valuesB[i] - avgB) * (valuesB[i] - avgB)
	}
	if varA == 0 || varB == 0 {
		return nil
	}
	cov := 0.0
	for i := 0; i < n; i++ {
		cov += (valuesA[i] - avgA) * (valuesB[i] - avgB)
	}
	correlation := cov / math.Sqrt(varA*varB)
	return &correlation
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}
