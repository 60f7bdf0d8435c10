package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
	"github.com/spaghettifunk/anvil/engine/scene"
	"github.com/spaghettifunk/anvil/engine/systems"
)

func newTestCombiner(t *testing.T) (*MeshCombiner, *systems.GeometrySystem, *systems.MaterialSystem) {
	t.Helper()
	ms, err := systems.NewMaterialSystem(&systems.MaterialSystemConfig{MaxMaterialCount: 64})
	require.NoError(t, err)
	gs, err := systems.NewGeometrySystem(&systems.GeometrySystemConfig{MaxGeometryCount: 64}, ms)
	require.NoError(t, err)
	mc, err := NewMeshCombiner(gs, ms)
	require.NoError(t, err)
	return mc, gs, ms
}

func registerMaterial(t *testing.T, ms *systems.MaterialSystem, name string) *resources.Material {
	t.Helper()
	mat, err := ms.AcquireFromConfig(&resources.MaterialConfig{
		Name:        name,
		AutoRelease: false,
	})
	require.NoError(t, err)
	return mat
}

// triangle builds an unregistered source geometry: a unit triangle in
// the XY plane facing +Z.
func triangle(name string, mat *resources.Material) *resources.Geometry {
	return &resources.Geometry{
		Name: name,
		Vertices: []math.Vertex3D{
			{Position: math.NewVec3(0, 0, 0), Normal: math.NewVec3(0, 0, 1)},
			{Position: math.NewVec3(1, 0, 0), Normal: math.NewVec3(0, 0, 1)},
			{Position: math.NewVec3(0, 1, 0), Normal: math.NewVec3(0, 0, 1)},
		},
		Indices:  []uint32{0, 1, 2},
		Material: mat,
	}
}

func instanceOf(geometry *resources.Geometry, world math.Mat4, visible bool) *MeshInstance {
	var mat *resources.Material
	if geometry != nil {
		mat = geometry.Material
	}
	return &MeshInstance{
		Geometry: geometry,
		Material: mat,
		World:    world,
		Visible:  visible,
	}
}

// cubeNode registers a cube geometry and wraps it in a scene node at
// the given position.
func cubeNode(t *testing.T, gs *systems.GeometrySystem, name, materialName string, position math.Vec3) *scene.Node {
	t.Helper()
	config, err := gs.GenerateCubeConfig(2.0, 2.0, 2.0, 1.0, 1.0, name, materialName)
	require.NoError(t, err)
	geometry, err := gs.AcquireFromConfig(config, true)
	require.NoError(t, err)
	n := scene.NewMeshNode(name, geometry)
	n.Transform.SetPosition(position)
	return n
}
