package cstn

import (
	"errors"
	"time"
)

// Sentinel errors, per spec §7.
var (
	ErrNilGraph         = errors.New("cstn: graph is nil")
	ErrNotControllable  = errors.New("cstn: network is not dynamically consistent")
	ErrInvalidSemantics = errors.New("cstn: Std semantics is incompatible with only-to-Z propagation")
	ErrBadTimeout       = errors.New("cstn: timeout seconds must be non-negative")
)

// Semantics selects one of the three DC reaction semantics, per spec §4.4.
type Semantics int

const (
	// Std permits the responder to schedule simultaneously with the
	// observation.
	Std Semantics = iota
	// IR (Instantaneous Reaction) also permits simultaneous scheduling,
	// but removes the one-tick guard value Std keeps on R0/R3.
	IR
	// Epsilon delays the reaction by a fixed positive integer configured
	// via Options.Epsilon; guards are widened by that amount.
	Epsilon
)

// Algorithm enumerates the CSTN checking algorithms named in spec §6.6.
type Algorithm int

const (
	HunsbergerPosenato18 Algorithm = iota
	HunsbergerPosenato19
	HunsbergerPosenato20
)

// Options configures an Engine/Checker.
type Options struct {
	Algorithm      Algorithm
	Semantics      Semantics
	Epsilon        int64
	OnlyToZ        bool
	WoNodeLabels   bool
	TimeoutSeconds int64
}

// Option is a functional option for configuring a Checker.
type Option func(*Options)

func WithAlgorithm(a Algorithm) Option { return func(o *Options) { o.Algorithm = a } }
func WithSemantics(s Semantics) Option { return func(o *Options) { o.Semantics = s } }
func WithEpsilon(eps int64) Option     { return func(o *Options) { o.Epsilon = eps } }
func WithOnlyToZ(b bool) Option        { return func(o *Options) { o.OnlyToZ = b } }
func WithWoNodeLabels(b bool) Option   { return func(o *Options) { o.WoNodeLabels = b } }
func WithTimeoutSeconds(seconds int64) Option {
	return func(o *Options) {
		if seconds < 0 {
			panic(ErrBadTimeout.Error())
		}
		o.TimeoutSeconds = seconds
	}
}

// DefaultOptions returns HunsbergerPosenato20/IR semantics, epsilon=1, no
// only-to-Z restriction, no timeout.
func DefaultOptions() Options {
	return Options{
		Algorithm: HunsbergerPosenato20,
		Semantics: IR,
		Epsilon:   1,
	}
}

// Validate rejects the Std+onlyToZ combination forbidden by spec §4.4.
func (o Options) Validate() error {
	if o.Semantics == Std && o.OnlyToZ {
		return ErrInvalidSemantics
	}
	return nil
}

func (o Options) budget() (time.Duration, bool) {
	if o.TimeoutSeconds <= 0 {
		return 0, false
	}
	return time.Duration(o.TimeoutSeconds) * time.Second, true
}

// guard returns the per-rule adjustment amount for R0/R3: -1 under Std
// (the one-tick guard: only strictly negative values, w<0, qualify), 0
// under IR (the guard removed, so w<=0 qualifies) and -Epsilon under the
// ε semantics.
func (o Options) guard() int64 {
	switch o.Semantics {
	case IR:
		return 0
	case Epsilon:
		return -o.Epsilon
	default: // Std keeps the one-tick guard: strictly negative, not <=0.
		return -1
	}
}
