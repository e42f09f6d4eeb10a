package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.MulScalar(2))
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(2, 4, -6)

	assert.True(t, a.Lerp(b, 0).Compare(a, K_FLOAT_EPSILON))
	assert.True(t, a.Lerp(b, 1).Compare(b, K_FLOAT_EPSILON))
	assert.True(t, a.Lerp(b, 0.5).Compare(NewVec3(1, 2, -3), K_FLOAT_EPSILON))
}

func TestVec3MinMax(t *testing.T) {
	a := NewVec3(1, 5, -2)
	b := NewVec3(3, 2, -4)

	assert.Equal(t, NewVec3(1, 2, -4), a.Min(b))
	assert.Equal(t, NewVec3(3, 5, -2), a.Max(b))
}

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	id := NewMat4Identity()

	assert.True(t, m.Mul(id).Compare(m, K_FLOAT_EPSILON))
	assert.True(t, id.Mul(m).Compare(m, K_FLOAT_EPSILON))
}

func TestMat4TranslationTransform(t *testing.T) {
	m := NewMat4Translation(NewVec3(10, 20, 30))
	v := NewVec3(1, 2, 3).Transform(m)

	assert.True(t, v.Compare(NewVec3(11, 22, 33), K_FLOAT_EPSILON))
}

func TestMat4ScaleTransform(t *testing.T) {
	m := NewMat4Scale(NewVec3(2, 3, 4))
	v := NewVec3(1, 1, 1).Transform(m)

	assert.True(t, v.Compare(NewVec3(2, 3, 4), K_FLOAT_EPSILON))
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3)).Mul(NewMat4Scale(NewVec3(2, 2, 2)))
	inv := m.Inverse()

	assert.True(t, m.Mul(inv).Compare(NewMat4Identity(), 1e-5))
}

func TestQuaternionNormalize(t *testing.T) {
	q := NewQuat(0, 0, 2, 0).Normalize()

	require.InDelta(t, 1.0, float64(q.Normal()), 1e-6)
	assert.InDelta(t, 1.0, float64(q.Z), 1e-6)
}

func TestQuaternionSlerpEndpoints(t *testing.T) {
	q0 := NewQuatIdentity()
	q1 := NewQuat(0, 0.7071068, 0, 0.7071068)

	assert.True(t, q0.Slerp(q1, 0).Compare(q0, 1e-5))
	assert.True(t, q0.Slerp(q1, 1).Compare(q1, 1e-5))
}

func TestQuaternionIdentityToMat4(t *testing.T) {
	m := NewQuatIdentity().ToMat4()

	assert.True(t, m.Compare(NewMat4Identity(), K_FLOAT_EPSILON))
}

func TestClampAlignUp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0, Clamp(-3, 0, 5))
	assert.Equal(t, 3, Clamp(3, 0, 5))

	assert.Equal(t, uint32(8), AlignUp(uint32(5), uint32(4)))
	assert.Equal(t, uint32(4), AlignUp(uint32(4), uint32(4)))
	assert.Equal(t, uint32(4), AlignUp(uint32(1), uint32(4)))
}

func TestExtentsUnionAndTransform(t *testing.T) {
	a := Extents3D{Min: NewVec3(-1, -1, -1), Max: NewVec3(1, 1, 1)}
	b := Extents3D{Min: NewVec3(0, 0, 0), Max: NewVec3(2, 3, 4)}

	u := a.Union(b)
	assert.Equal(t, NewVec3(-1, -1, -1), u.Min)
	assert.Equal(t, NewVec3(2, 3, 4), u.Max)

	moved := a.Transform(NewMat4Translation(NewVec3(10, 0, 0)))
	assert.True(t, moved.Min.Compare(NewVec3(9, -1, -1), K_FLOAT_EPSILON))
	assert.True(t, moved.Max.Compare(NewVec3(11, 1, 1), K_FLOAT_EPSILON))
}
