package logic

import "gonum.org/v1/gonum/stat"

// Classifier infers the cooking type and vessel from the temperature-rise
// trajectory. The inference is a heuristic and may never resolve.
type Classifier struct {
	t Tuning
}

// NewClassifier creates a classifier.
func NewClassifier(t Tuning) Classifier {
	return Classifier{t: t}
}

// Trend summarises the rise observed across the history window.
type Trend struct {
	Rate          float64 // center °C per tick
	Ratio         float64 // peripheral mean rise / center rise
	PeripheralStd float64 // spread of peripheral sensors right now
}

// Observe computes the trend from the oldest history entry to the current reading.
// ok is false while the window is too short.
func (c Classifier) Observe(h *History, tick int64, now Reading) (Trend, bool) {
	if h.Len() <= c.t.ClassifyMinHistory {
		return Trend{}, false
	}
	first, _ := h.First()
	elapsed := tick - first.Tick
	if elapsed <= 0 {
		return Trend{}, false
	}

	centerRise := now.Center() - first.CenterTemp
	periphNow, std := stat.MeanStdDev(now.Peripheral(), nil)
	periphFirst := stat.Mean(first.Sensors.Peripheral(), nil)

	tr := Trend{
		Rate:          centerRise / float64(elapsed),
		PeripheralStd: std,
	}
	if centerRise > 0 {
		tr.Ratio = (periphNow - periphFirst) / centerRise
	}
	return tr, true
}

// Classify buckets a trend into a cooking type.
func (c Classifier) Classify(tr Trend) CookingType {
	t := c.t
	switch {
	case tr.Rate >= t.FryingRate:
		return CookingFrying
	case tr.Rate >= t.BoilingRate:
		if tr.Ratio >= t.BoilingRatio {
			return CookingBoiling
		}
		return CookingPanSearing
	case tr.Rate >= t.SimmeringRate:
		return CookingSimmering
	}
	return CookingUnknown
}

// Vessel infers vessel attributes from a trend.
// Fast rise suggests thin aluminum, slow rise heavy cast iron. Peripheral
// sensors tracking the center closely mean the vessel covers them.
func (c Classifier) Vessel(tr Trend) VesselInfo {
	t := c.t
	v := VesselInfo{Size: SizeMedium, Alignment: AlignmentCentered}

	switch {
	case tr.Rate >= t.FryingRate:
		v.Material = MaterialAluminum
	case tr.Rate >= t.BoilingRate:
		v.Material = MaterialStainless
	default:
		v.Material = MaterialCastIron
	}

	switch {
	case tr.Ratio >= t.LargeVesselRatio:
		v.Size = SizeLarge
	case tr.Ratio < t.SmallVesselRatio:
		v.Size = SizeSmall
	}

	if tr.PeripheralStd > t.EccentricStdDev {
		v.Alignment = AlignmentEccentric
	}
	return v
}
