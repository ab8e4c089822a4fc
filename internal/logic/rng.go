package logic

import (
	"hash/fnv"
	"math/rand"
)

// Source is the randomness the core draws from. Float64 returns a value in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// RNG subsystems. Each draws from its own stream so that, for example, adding
// a disturbance draw never shifts the sensor noise sequence.
const (
	SubsystemPlant    = "plant"
	SubsystemDetector = "detector"
	SubsystemSession  = "session"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// The derived seed for a subsystem is masterSeed XOR fnv1a64(name).
//
// Thread-safety: NOT thread-safe. The controller only uses it under its lock.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same name always returns the same *rand.Rand instance. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// FixedSource always returns the same value. Useful for reproducing
// noise-free trajectories.
type FixedSource float64

// Float64 returns the fixed value.
func (f FixedSource) Float64() float64 {
	return float64(f)
}
