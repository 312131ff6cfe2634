// Package satint provides saturating signed-integer arithmetic for the
// temporal-network kernels: every edge weight and propagated distance in
// stn, stnu, cstn and pstn flows through SatInt rather than a bare int64,
// so that +Inf/-Inf/absent sentinels never silently wrap or overflow.
//
// Values are bounded to a 31-bit magnitude (±(1<<30)); the kernels reject
// networks whose horizon (max |weight| × (|V|-1)) would exceed that bound
// before running any propagation (see Overflow in the owning packages).
package satint

import "fmt"

// SatInt is a saturating integer with three sentinel states layered on top
// of a plain magnitude: Null (absent/undefined), +Inf and -Inf.
type SatInt struct {
	kind kind
	v    int64
}

type kind int8

const (
	kindFinite kind = iota
	kindNull
	kindPosInf
	kindNegInf
)

// MaxMagnitude bounds the finite values SatInt will hold. Kept well below
// int64's range so that two finite values can always be added without
// wrapping, and so that Horizon (magnitude × |V|) stays representable for
// any realistic network.
const MaxMagnitude = int64(1) << 30

// Null is the absent/undefined value: "no constraint recorded".
var Null = SatInt{kind: kindNull}

// PosInf is positive infinity: an unbounded upper constraint.
var PosInf = SatInt{kind: kindPosInf}

// NegInf is negative infinity: an unbounded lower constraint.
var NegInf = SatInt{kind: kindNegInf}

// Zero is the finite value 0, provided for readability at call sites.
var Zero = Finite(0)

// Finite constructs a finite SatInt. It panics if v exceeds MaxMagnitude in
// absolute value — callers that accept externally supplied weights must
// validate with InRange first and turn a violation into an Overflow error
// rather than letting this panic fire.
func Finite(v int64) SatInt {
	if v > MaxMagnitude || v < -MaxMagnitude {
		panic(fmt.Sprintf("satint: magnitude %d exceeds MaxMagnitude %d", v, MaxMagnitude))
	}
	return SatInt{kind: kindFinite, v: v}
}

// InRange reports whether v can be wrapped by Finite without panicking.
func InRange(v int64) bool {
	return v <= MaxMagnitude && v >= -MaxMagnitude
}

// IsNull reports whether s is the absent sentinel.
func (s SatInt) IsNull() bool { return s.kind == kindNull }

// IsPosInf reports whether s is +Inf.
func (s SatInt) IsPosInf() bool { return s.kind == kindPosInf }

// IsNegInf reports whether s is -Inf.
func (s SatInt) IsNegInf() bool { return s.kind == kindNegInf }

// IsFinite reports whether s carries a concrete magnitude.
func (s SatInt) IsFinite() bool { return s.kind == kindFinite }

// Value returns the finite magnitude of s and true, or (0, false) if s is
// not finite.
func (s SatInt) Value() (int64, bool) {
	if s.kind != kindFinite {
		return 0, false
	}
	return s.v, true
}

// Add computes the saturating sum a⊕b per spec §3.1:
//   - +Inf if either operand is +Inf and the other is not -Inf;
//   - -Inf if either operand is -Inf and the other is not +Inf;
//   - Null if either operand is Null;
//   - the mathematical sum otherwise, saturating to +Inf or -Inf when its
//     magnitude exceeds MaxMagnitude.
//
// +Inf ⊕ -Inf is defined here as Null: the spec does not assign it a
// value, and treating it as an undefined constraint (rather than picking
// a side) avoids silently discarding the conflict.
func Add(a, b SatInt) SatInt {
	if a.kind == kindNull || b.kind == kindNull {
		return Null
	}
	if a.kind == kindPosInf && b.kind == kindNegInf {
		return Null
	}
	if a.kind == kindNegInf && b.kind == kindPosInf {
		return Null
	}
	if a.kind == kindPosInf || b.kind == kindPosInf {
		return PosInf
	}
	if a.kind == kindNegInf || b.kind == kindNegInf {
		return NegInf
	}

	sum := a.v + b.v
	if sum > MaxMagnitude {
		return PosInf
	}
	if sum < -MaxMagnitude {
		return NegInf
	}
	return Finite(sum)
}

// Neg returns -s, with infinities flipped and Null fixed.
func Neg(s SatInt) SatInt {
	switch s.kind {
	case kindPosInf:
		return NegInf
	case kindNegInf:
		return PosInf
	case kindNull:
		return Null
	default:
		return Finite(-s.v)
	}
}

// Less reports whether a < b under the total order Null < -Inf < finite < +Inf.
// Null is ordered below everything else so that "no constraint" never wins
// a min() against a real bound; callers that must treat Null specially
// (e.g. "absent means unconstrained") should filter it out before calling
// Less/Min.
func Less(a, b SatInt) bool {
	return rank(a) < rank(b) || (rank(a) == rank(b) && a.kind == kindFinite && a.v < b.v)
}

func rank(s SatInt) int {
	switch s.kind {
	case kindNull:
		return 0
	case kindNegInf:
		return 1
	case kindFinite:
		return 2
	case kindPosInf:
		return 3
	default:
		return 2
	}
}

// Min returns the smaller of a and b by Less, skipping Null operands: if
// exactly one of a, b is Null the other is returned; if both are Null,
// Null is returned.
func Min(a, b SatInt) SatInt {
	if a.kind == kindNull {
		return b
	}
	if b.kind == kindNull {
		return a
	}
	if Less(b, a) {
		return b
	}
	return a
}

// Equal reports whether a and b are the same sentinel/value.
func Equal(a, b SatInt) bool {
	if a.kind != b.kind {
		return false
	}
	return a.kind != kindFinite || a.v == b.v
}

// String renders s for debug output and error messages.
func (s SatInt) String() string {
	switch s.kind {
	case kindNull:
		return "null"
	case kindPosInf:
		return "+inf"
	case kindNegInf:
		return "-inf"
	default:
		return fmt.Sprintf("%d", s.v)
	}
}
