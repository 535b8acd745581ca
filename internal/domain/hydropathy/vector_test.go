package hydropathy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 8}
	assert.Equal(t, Vec3{5, 8, 11}, a.Add(b))
	assert.Equal(t, Vec3{3, 4, 5}, b.Sub(a))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.InDelta(t, 5.0, Vec3{3, 4, 0}.Norm(), 1e-12)
	assert.InDelta(t, math.Sqrt(50), a.Distance(b), 1e-12)
}

func TestVec3_Unit(t *testing.T) {
	u := Vec3{3, 0, 4}.Unit()
	assert.InDelta(t, 1.0, u.Norm(), 1e-12)
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Z, 1e-12)

	assert.Equal(t, Vec3{}, Vec3{}.Unit())
}

func TestVec3_IsFinite(t *testing.T) {
	assert.True(t, Vec3{1, 2, 3}.IsFinite())
	assert.False(t, Vec3{math.NaN(), 0, 0}.IsFinite())
	assert.False(t, Vec3{0, math.Inf(1), 0}.IsFinite())
	assert.True(t, Vec3{}.IsZero())
	assert.False(t, Vec3{0, 0, 1e-9}.IsZero())
}

//Personal.AI order the ending
