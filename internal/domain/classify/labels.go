package classify

import (
	"fmt"
	"math"

	"github.com/okian/nutriscreen/internal/domain/reference"
)

// above returns the smallest float greater than v, turning the half-open
// band bounds into "> v" for tables whose upper cutoffs are inclusive.
func above(v float64) float64 { return math.Nextafter(v, inf) }

func label(key string, lo, hi float64, status string, cat Category) Band {
	return Band{Key: key, Lower: lo, Upper: hi, Outcome: Outcome{Status: status, Category: cat}}
}

// IndicatorBands returns the WHO z-score label table for ind. A z-score of
// exactly +2 (or +1 for BMI-for-age) is still Normal.
func IndicatorBands(ind reference.Indicator) Bands {
	switch ind {
	case reference.WeightForAge:
		return Bands{
			label("severely_underweight", -inf, -3, "Severely Underweight", CategoryUndernutrition),
			label("underweight", -3, -2, "Underweight", CategoryUndernutrition),
			label("normal", -2, above(2), "Normal", CategoryNormal),
			label("overweight", above(2), inf, "Overweight", CategoryOvernutrition),
		}
	case reference.HeightForAge:
		return Bands{
			label("severely_stunted", -inf, -3, "Severely Stunted", CategoryUndernutrition),
			label("stunted", -3, -2, "Stunted", CategoryUndernutrition),
			label("normal", -2, above(2), "Normal", CategoryNormal),
			label("tall", above(2), inf, "Tall", CategoryNormal),
		}
	case reference.WeightForHeight:
		return Bands{
			label("severely_wasted", -inf, -3, "Severely Wasted", CategoryUndernutrition),
			label("wasted", -3, -2, "Wasted", CategoryUndernutrition),
			label("normal", -2, above(2), "Normal", CategoryNormal),
			label("overweight", above(2), above(3), "Overweight", CategoryOvernutrition),
			label("obese", above(3), inf, "Obese", CategoryOvernutrition),
		}
	case reference.BMIForAge:
		return Bands{
			label("severely_underweight", -inf, -3, "Severely Underweight", CategoryUndernutrition),
			label("underweight", -3, -2, "Underweight", CategoryUndernutrition),
			label("normal", -2, above(1), "Normal", CategoryNormal),
			label("overweight", above(1), above(2), "Overweight", CategoryOvernutrition),
			label("obese", above(2), inf, "Obese", CategoryOvernutrition),
		}
	default:
		return nil
	}
}

// indicatorLabels holds the label table of every indicator.
type indicatorLabels map[reference.Indicator]Bands

func defaultIndicatorLabels() (indicatorLabels, error) {
	out := make(indicatorLabels, len(reference.Indicators()))
	for _, ind := range reference.Indicators() {
		bs := IndicatorBands(ind)
		if err := bs.Validate(); err != nil {
			return nil, fmt.Errorf("%s labels: %w", ind, err)
		}
		out[ind] = bs
	}
	return out, nil
}

// of labels z for ind, or "" when ind has no table.
func (l indicatorLabels) of(ind reference.Indicator, z float64) string {
	b, ok := l[ind].Find(z)
	if !ok {
		return ""
	}
	return b.Status
}
