package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtentsFromVertices(t *testing.T) {
	vertices := []Vertex3D{
		{Position: NewVec3(-1, 0, 2)},
		{Position: NewVec3(3, -4, 0)},
		{Position: NewVec3(0, 5, -6)},
	}
	extents, center := ExtentsFromVertices(vertices)
	assert.True(t, extents.Min.Compare(NewVec3(-1, -4, -6), K_FLOAT_EPSILON))
	assert.True(t, extents.Max.Compare(NewVec3(3, 5, 2), K_FLOAT_EPSILON))
	assert.True(t, center.Compare(NewVec3(1, 0.5, -2), K_FLOAT_EPSILON))
}

func TestExtentsFromVerticesEmpty(t *testing.T) {
	extents, center := ExtentsFromVertices(nil)
	assert.Equal(t, Extents3D{}, extents)
	assert.Equal(t, NewVec3Zero(), center)
}

func TestGeometryGenerateNormals(t *testing.T) {
	vertices := []Vertex3D{
		{Position: NewVec3(0, 0, 0)},
		{Position: NewVec3(1, 0, 0)},
		{Position: NewVec3(0, 1, 0)},
	}
	indices := []uint32{0, 1, 2}
	GeometryGenerateNormals(3, vertices, 3, indices)

	for _, v := range vertices {
		assert.True(t, v.Normal.Compare(NewVec3(0, 0, 1), K_FLOAT_EPSILON))
	}
}

func TestVertex3dEqual(t *testing.T) {
	a := Vertex3D{Position: NewVec3(1, 2, 3), Normal: NewVec3(0, 0, 1)}
	b := a
	assert.True(t, Vertex3dEqual(a, b))

	b.Position.X += 0.5
	assert.False(t, Vertex3dEqual(a, b))
}
