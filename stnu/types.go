package stnu

import (
	"errors"
	"time"
)

// Sentinel errors, per spec §7.
var (
	ErrNilGraph       = errors.New("stnu: graph is nil")
	ErrNotControllable = errors.New("stnu: network is not dynamically controllable")
	ErrBadTimeout     = errors.New("stnu: timeout seconds must be non-negative")
)

// Algorithm enumerates the STNU checking algorithms named in spec §6.5.
// Only one engine is implemented: every value is accepted as a
// configuration value (for API parity with the enum), and every value
// runs the same RUL-family engine.
type Algorithm int

const (
	Morris2014 Algorithm = iota
	Morris2014Dispatchable
	RUL2018
	RUL2020
	RUL2021
	FDSTNU
	FDSTNUImproved
	FastSTNUDispatch
	SRNCycleFinder
)

// PropagationMode selects between full propagation and the to-Z-only
// restriction, per spec §4.3.
type PropagationMode int

const (
	FullPropagation PropagationMode = iota
	ToZOnly
)

// Options configures an Engine.
type Options struct {
	Algorithm      Algorithm
	Mode           PropagationMode
	TimeoutSeconds int64
}

// Option is a functional option for configuring an Engine.
type Option func(*Options)

func WithAlgorithm(a Algorithm) Option { return func(o *Options) { o.Algorithm = a } }
func WithMode(m PropagationMode) Option { return func(o *Options) { o.Mode = m } }
func WithTimeoutSeconds(seconds int64) Option {
	return func(o *Options) {
		if seconds < 0 {
			panic(ErrBadTimeout.Error())
		}
		o.TimeoutSeconds = seconds
	}
}

// DefaultOptions returns RUL2021, full propagation, no timeout.
func DefaultOptions() Options {
	return Options{Algorithm: RUL2021, Mode: FullPropagation, TimeoutSeconds: 0}
}

func (o Options) budget() (time.Duration, bool) {
	if o.TimeoutSeconds <= 0 {
		return 0, false
	}
	return time.Duration(o.TimeoutSeconds) * time.Second, true
}
