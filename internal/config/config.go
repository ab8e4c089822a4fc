// Package config loads the recipe catalog and control tuning from YAML.
//
// The embedded defaults.yaml is always parsed first; an operator file given
// with --config is decoded over it, so it only needs the keys it changes.
// A recipes list in the operator file replaces the default catalog.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/induction-hob/internal/logic"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the validated runtime configuration.
type Config struct {
	Tuning  logic.Tuning
	Catalog *logic.Catalog
}

// File is the on-disk layout. All sections must be listed here to satisfy
// strict parsing.
type File struct {
	Tuning  TuningFile   `yaml:"tuning"`
	Recipes []RecipeFile `yaml:"recipes"`
}

// TuningFile mirrors logic.Tuning grouped by concern.
type TuningFile struct {
	TickPeriod time.Duration  `yaml:"tick_period"`
	Ambient    float64        `yaml:"ambient"`
	Ceiling    float64        `yaml:"ceiling"`
	Thermal    ThermalFile    `yaml:"thermal"`
	Froth      FrothFile      `yaml:"froth"`
	Control    ControlFile    `yaml:"control"`
	Hazards    HazardsFile    `yaml:"hazards"`
	Classifier ClassifierFile `yaml:"classifier"`
	Schedule   ScheduleFile   `yaml:"schedule"`
}

type ThermalFile struct {
	HeatGainDivisor   float64 `yaml:"heat_gain_divisor"`
	SaturationOffset  float64 `yaml:"saturation_offset"`
	SaturationRatio   float64 `yaml:"saturation_ratio"`
	PeripheralGainMin float64 `yaml:"peripheral_gain_min"`
	PeripheralGainMax float64 `yaml:"peripheral_gain_max"`
	PeripheralNoise   float64 `yaml:"peripheral_noise"`
	EnvelopingSpread  float64 `yaml:"enveloping_spread"`
	CoolingRate       float64 `yaml:"cooling_rate"`
	OvershootNudge    float64 `yaml:"overshoot_nudge"`
	LegacyLag         float64 `yaml:"legacy_lag"`
	LegacyNoise       float64 `yaml:"legacy_noise"`
	UniformityK       float64 `yaml:"uniformity_k"`
}

type FrothFile struct {
	Base             float64 `yaml:"base"`
	Floor            float64 `yaml:"floor"`
	Noise            float64 `yaml:"noise"`
	Decay            float64 `yaml:"decay"`
	Onset            float64 `yaml:"onset"`
	Gain             float64 `yaml:"gain"`
	IngredientFactor float64 `yaml:"ingredient_factor"`
}

type ControlFile struct {
	TargetTolerance        float64 `yaml:"target_tolerance"`
	OvershootMargin        float64 `yaml:"overshoot_margin"`
	MaintenanceBand        float64 `yaml:"maintenance_band"`
	MaintenancePower       int     `yaml:"maintenance_power"`
	MaintenanceCap         int     `yaml:"maintenance_cap"`
	ProportionalGain       float64 `yaml:"proportional_gain"`
	PreheatPower           int     `yaml:"preheat_power"`
	EnvelopingPreheatPower int     `yaml:"enveloping_preheat_power"`
	CookPower              int     `yaml:"cook_power"`
	EnvelopingCookPower    int     `yaml:"enveloping_cook_power"`
	KeepWarmPower          int     `yaml:"keep_warm_power"`
	ThrottlePower          int     `yaml:"throttle_power"`
}

type HazardsFile struct {
	BoilOverThreshold      float64       `yaml:"boil_over_threshold"`
	BoilOverRecovery       float64       `yaml:"boil_over_recovery"`
	DisturbanceProbability float64       `yaml:"disturbance_probability"`
	DisturbanceDrop        float64       `yaml:"disturbance_drop"`
	DisturbanceRecovery    time.Duration `yaml:"disturbance_recovery"`
}

type ClassifierFile struct {
	MinHistory       int     `yaml:"min_history"`
	FryingRate       float64 `yaml:"frying_rate"`
	BoilingRate      float64 `yaml:"boiling_rate"`
	SimmeringRate    float64 `yaml:"simmering_rate"`
	BoilingRatio     float64 `yaml:"boiling_ratio"`
	LargeVesselRatio float64 `yaml:"large_vessel_ratio"`
	SmallVesselRatio float64 `yaml:"small_vessel_ratio"`
	EccentricStdDev  float64 `yaml:"eccentric_std_dev"`
}

type ScheduleFile struct {
	PreheatBuffer   time.Duration `yaml:"preheat_buffer"`
	AutoOffAfter    time.Duration `yaml:"auto_off_after"`
	HistoryCapacity int           `yaml:"history_capacity"`
}

// RecipeFile is one catalog entry.
type RecipeFile struct {
	ID                string        `yaml:"id"`
	Name              string        `yaml:"name"`
	Description       string        `yaml:"description"`
	TargetTemperature float64       `yaml:"target_temperature"`
	CookDuration      time.Duration `yaml:"cook_duration"`
	EnvelopingHeat    bool          `yaml:"enveloping_heat"`
	AutoStartsCooking bool          `yaml:"auto_starts_cooking"`
	Reservable        bool          `yaml:"reservable"`
	AutoDetect        bool          `yaml:"auto_detect"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Parse(nil)
}

// Load reads the operator file at path over the embedded defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes overlay over the embedded defaults and validates the result.
func Parse(overlay []byte) (*Config, error) {
	var f File
	if err := decode(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	if len(overlay) > 0 {
		if err := decode(overlay, &f); err != nil {
			return nil, err
		}
	}
	return f.Build()
}

// decode parses YAML with strict field checking: typos must cause errors.
func decode(data []byte, into *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Build converts and validates the file.
func (f File) Build() (*Config, error) {
	t := f.Tuning.toLogic()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	if len(f.Recipes) == 0 {
		return nil, errors.New("no recipes configured")
	}
	recipes := make([]logic.Recipe, 0, len(f.Recipes))
	for _, r := range f.Recipes {
		recipes = append(recipes, r.toLogic())
	}
	catalog, err := logic.NewCatalog(t, recipes...)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &Config{Tuning: t, Catalog: catalog}, nil
}

func (tf TuningFile) toLogic() logic.Tuning {
	return logic.Tuning{
		TickPeriod: tf.TickPeriod,
		Ambient:    tf.Ambient,
		Ceiling:    tf.Ceiling,

		HeatGainDivisor:   tf.Thermal.HeatGainDivisor,
		SaturationOffset:  tf.Thermal.SaturationOffset,
		SaturationRatio:   tf.Thermal.SaturationRatio,
		PeripheralGainMin: tf.Thermal.PeripheralGainMin,
		PeripheralGainMax: tf.Thermal.PeripheralGainMax,
		PeripheralNoise:   tf.Thermal.PeripheralNoise,
		EnvelopingSpread:  tf.Thermal.EnvelopingSpread,
		CoolingRate:       tf.Thermal.CoolingRate,
		OvershootNudge:    tf.Thermal.OvershootNudge,
		LegacyLag:         tf.Thermal.LegacyLag,
		LegacyNoise:       tf.Thermal.LegacyNoise,
		UniformityK:       tf.Thermal.UniformityK,

		VibrationBase:         tf.Froth.Base,
		VibrationFloor:        tf.Froth.Floor,
		VibrationNoise:        tf.Froth.Noise,
		VibrationDecay:        tf.Froth.Decay,
		FrothOnset:            tf.Froth.Onset,
		FrothGain:             tf.Froth.Gain,
		IngredientFrothFactor: tf.Froth.IngredientFactor,

		TargetTolerance:        tf.Control.TargetTolerance,
		OvershootMargin:        tf.Control.OvershootMargin,
		MaintenanceBand:        tf.Control.MaintenanceBand,
		MaintenancePower:       tf.Control.MaintenancePower,
		MaintenanceCap:         tf.Control.MaintenanceCap,
		ProportionalGain:       tf.Control.ProportionalGain,
		PreheatPower:           tf.Control.PreheatPower,
		EnvelopingPreheatPower: tf.Control.EnvelopingPreheatPower,
		CookPower:              tf.Control.CookPower,
		EnvelopingCookPower:    tf.Control.EnvelopingCookPower,
		KeepWarmPower:          tf.Control.KeepWarmPower,
		ThrottlePower:          tf.Control.ThrottlePower,

		BoilOverThreshold:      tf.Hazards.BoilOverThreshold,
		BoilOverRecovery:       tf.Hazards.BoilOverRecovery,
		DisturbanceProbability: tf.Hazards.DisturbanceProbability,
		DisturbanceDrop:        tf.Hazards.DisturbanceDrop,
		DisturbanceRecovery:    tf.Hazards.DisturbanceRecovery,

		ClassifyMinHistory: tf.Classifier.MinHistory,
		FryingRate:         tf.Classifier.FryingRate,
		BoilingRate:        tf.Classifier.BoilingRate,
		SimmeringRate:      tf.Classifier.SimmeringRate,
		BoilingRatio:       tf.Classifier.BoilingRatio,
		LargeVesselRatio:   tf.Classifier.LargeVesselRatio,
		SmallVesselRatio:   tf.Classifier.SmallVesselRatio,
		EccentricStdDev:    tf.Classifier.EccentricStdDev,

		PreheatBuffer:   tf.Schedule.PreheatBuffer,
		AutoOffAfter:    tf.Schedule.AutoOffAfter,
		HistoryCapacity: tf.Schedule.HistoryCapacity,
	}
}

func (rf RecipeFile) toLogic() logic.Recipe {
	return logic.Recipe{
		ID:                rf.ID,
		Name:              rf.Name,
		Description:       rf.Description,
		TargetTemperature: rf.TargetTemperature,
		CookDuration:      rf.CookDuration,
		EnvelopingHeat:    rf.EnvelopingHeat,
		AutoStartsCooking: rf.AutoStartsCooking,
		Reservable:        rf.Reservable,
		AutoDetect:        rf.AutoDetect,
	}
}
