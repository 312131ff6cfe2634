package satint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/satint"
)

func TestAdd_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		a, b satint.SatInt
		want satint.SatInt
	}{
		{"finite+finite", satint.Finite(3), satint.Finite(4), satint.Finite(7)},
		{"posinf+finite", satint.PosInf, satint.Finite(4), satint.PosInf},
		{"neginf+finite", satint.NegInf, satint.Finite(4), satint.NegInf},
		{"null+finite", satint.Null, satint.Finite(4), satint.Null},
		{"posinf+posinf", satint.PosInf, satint.PosInf, satint.PosInf},
		{"posinf+neginf", satint.PosInf, satint.NegInf, satint.Null},
		{"neginf+neginf", satint.NegInf, satint.NegInf, satint.NegInf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := satint.Add(tt.a, tt.b)
			assert.True(t, satint.Equal(tt.want, got), "Add(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		})
	}
}

func TestAdd_Saturates(t *testing.T) {
	a := satint.Finite(satint.MaxMagnitude - 1)
	b := satint.Finite(satint.MaxMagnitude - 1)
	got := satint.Add(a, b)
	assert.True(t, got.IsPosInf())
}

func TestFinite_PanicsOutOfRange(t *testing.T) {
	require.Panics(t, func() {
		satint.Finite(satint.MaxMagnitude + 1)
	})
}

func TestInRange(t *testing.T) {
	assert.True(t, satint.InRange(satint.MaxMagnitude))
	assert.False(t, satint.InRange(satint.MaxMagnitude+1))
}

func TestLess_TotalOrder(t *testing.T) {
	assert.True(t, satint.Less(satint.NegInf, satint.Finite(-1000)))
	assert.True(t, satint.Less(satint.Finite(5), satint.PosInf))
	assert.True(t, satint.Less(satint.Null, satint.NegInf))
	assert.False(t, satint.Less(satint.Finite(5), satint.Finite(5)))
}

func TestMin_SkipsNull(t *testing.T) {
	assert.True(t, satint.Equal(satint.Finite(3), satint.Min(satint.Null, satint.Finite(3))))
	assert.True(t, satint.Equal(satint.Finite(3), satint.Min(satint.Finite(3), satint.Finite(5))))
	assert.True(t, satint.Min(satint.Null, satint.Null).IsNull())
}

func TestNeg(t *testing.T) {
	assert.True(t, satint.Neg(satint.PosInf).IsNegInf())
	assert.True(t, satint.Neg(satint.NegInf).IsPosInf())
	v, ok := satint.Neg(satint.Finite(4)).Value()
	require.True(t, ok)
	assert.Equal(t, int64(-4), v)
}
