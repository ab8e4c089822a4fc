package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampHistory fills h with a linear rise: center gains rate per tick and
// every peripheral gains rate*ratio.
func rampHistory(h *History, ticks int, rate, ratio float64) Reading {
	var r Reading
	for i := 1; i <= ticks; i++ {
		rise := rate * float64(i-1)
		r = uniformReading(22 + rise*ratio)
		r[0] = 22 + rise
		h.Push(HistoryEntry{Tick: int64(i), CenterTemp: r[0], Sensors: r})
	}
	return r
}

func TestClassifierNeedsHistory(t *testing.T) {
	c := NewClassifier(DefaultTuning())
	h := NewHistory(60)
	now := rampHistory(h, 10, 0.5, 0.8)

	_, ok := c.Observe(h, 11, now)
	assert.False(t, ok)

	h = NewHistory(60)
	now = rampHistory(h, 11, 0.5, 0.8)
	_, ok = c.Observe(h, 12, now)
	assert.True(t, ok)
}

func TestClassifierObserve(t *testing.T) {
	c := NewClassifier(DefaultTuning())
	h := NewHistory(60)
	rampHistory(h, 20, 0.5, 0.8)

	now := uniformReading(22 + 0.5*20*0.8)
	now[0] = 22 + 0.5*20
	tr, ok := c.Observe(h, 21, now)
	require.True(t, ok)

	assert.InDelta(t, 0.5, tr.Rate, 1e-9)
	assert.InDelta(t, 0.8, tr.Ratio, 1e-9)
	assert.InDelta(t, 0, tr.PeripheralStd, 1e-9)
}

func TestClassifierEccentricSpread(t *testing.T) {
	c := NewClassifier(DefaultTuning())
	h := NewHistory(60)
	now := rampHistory(h, 20, 0.5, 0.8)
	now[1] += 6
	now[5] -= 6

	tr, ok := c.Observe(h, 21, now)
	require.True(t, ok)
	assert.Greater(t, tr.PeripheralStd, 1.5)
	assert.Equal(t, AlignmentEccentric, c.Vessel(tr).Alignment)
}

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultTuning())

	tests := []struct {
		name  string
		trend Trend
		want  CookingType
	}{
		{"fast rise", Trend{Rate: 1.2, Ratio: 0.5}, CookingFrying},
		{"medium rise wide vessel", Trend{Rate: 0.5, Ratio: 0.8}, CookingBoiling},
		{"medium rise narrow contact", Trend{Rate: 0.5, Ratio: 0.4}, CookingPanSearing},
		{"slow rise", Trend{Rate: 0.2, Ratio: 0.8}, CookingSimmering},
		{"flat", Trend{Rate: 0.01}, CookingUnknown},
		{"cooling", Trend{Rate: -0.1}, CookingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.trend))
		})
	}
}

func TestVesselInference(t *testing.T) {
	c := NewClassifier(DefaultTuning())

	tests := []struct {
		name  string
		trend Trend
		want  VesselInfo
	}{
		{"thin pan", Trend{Rate: 1.0, Ratio: 0.9}, VesselInfo{MaterialAluminum, SizeLarge, AlignmentCentered}},
		{"steel pot", Trend{Rate: 0.5, Ratio: 0.8}, VesselInfo{MaterialStainless, SizeMedium, AlignmentCentered}},
		{"heavy skillet off center", Trend{Rate: 0.2, Ratio: 0.5, PeripheralStd: 3}, VesselInfo{MaterialCastIron, SizeSmall, AlignmentEccentric}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Vessel(tt.trend))
		})
	}
}
