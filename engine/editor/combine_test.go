package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/scene"
	"github.com/spaghettifunk/anvil/engine/systems"
)

const cubeVertexCount = 24
const cubeIndexCount = 36

func combineScene(t *testing.T, gs *systems.GeometrySystem, ms *systems.MaterialSystem) (*scene.Scene, *scene.Node, *scene.Node, *scene.Node) {
	t.Helper()
	registerMaterial(t, ms, "brick")
	registerMaterial(t, ms, "stone")

	s := scene.NewScene("test")
	brick1 := cubeNode(t, gs, "brick_1", "brick", math.NewVec3(0, 0, 0))
	brick2 := cubeNode(t, gs, "brick_2", "brick", math.NewVec3(5, 0, 0))
	stone1 := cubeNode(t, gs, "stone_1", "stone", math.NewVec3(0, 5, 0))
	s.AddNode(brick1)
	s.AddNode(brick2)
	s.AddNode(stone1)
	return s, brick1, brick2, stone1
}

func TestCombineGroupsByMaterial(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, brick1, brick2, stone1 := combineScene(t, gs, ms)

	result, err := mc.Combine(s, s.Roots, Options{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 2)
	assert.Nil(t, result.Root)

	byName := map[string]*CombinedGroup{}
	for _, g := range result.Groups {
		byName[g.Material.Name] = g
	}
	require.Contains(t, byName, "brick")
	require.Contains(t, byName, "stone")
	assert.Equal(t, 2, byName["brick"].SourceCount)
	assert.Equal(t, 1, byName["stone"].SourceCount)

	// Merged vertex counts are the sums of the source counts.
	assert.Equal(t, uint32(2*cubeVertexCount), byName["brick"].Geometry.VertexCount())
	assert.Equal(t, uint32(cubeVertexCount), byName["stone"].Geometry.VertexCount())
	assert.Equal(t, uint32(2*cubeIndexCount), byName["brick"].Geometry.IndexCount())

	// Originals are deleted by default; outputs live in the scene.
	assert.False(t, s.Contains(brick1))
	assert.False(t, s.Contains(brick2))
	assert.False(t, s.Contains(stone1))
	for _, n := range result.Nodes {
		assert.True(t, s.Contains(n))
	}
}

func TestCombineKeepOriginalDeactivates(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, brick1, brick2, stone1 := combineScene(t, gs, ms)

	result, err := mc.Combine(s, []*scene.Node{brick1, brick2, stone1}, Options{KeepOriginal: true})
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)

	for _, n := range []*scene.Node{brick1, brick2, stone1} {
		assert.True(t, s.Contains(n))
		assert.False(t, n.IsActive())
		assert.Equal(t, DispositionDeactivated, result.Dispositions[n])
	}
}

func TestCombineIgnoreHiddenExcludes(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, brick1, _, _ := combineScene(t, gs, ms)
	brick1.Visible = false

	result, err := mc.Combine(s, s.Roots, Options{IgnoreHidden: true})
	require.NoError(t, err)

	byName := map[string]*CombinedGroup{}
	for _, g := range result.Groups {
		byName[g.Material.Name] = g
	}
	assert.Equal(t, 1, byName["brick"].SourceCount)
	assert.Equal(t, uint32(cubeVertexCount), byName["brick"].Geometry.VertexCount())

	// The hidden node stays exactly as it was.
	assert.True(t, s.Contains(brick1))
	assert.True(t, brick1.IsActive())
	assert.Equal(t, DispositionUntouched, result.Dispositions[brick1])
}

func TestCombineHiddenIncludedWhenNotIgnoring(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, brick1, _, _ := combineScene(t, gs, ms)
	brick1.Visible = false

	result, err := mc.Combine(s, s.Roots, Options{IgnoreHidden: false})
	require.NoError(t, err)

	byName := map[string]*CombinedGroup{}
	for _, g := range result.Groups {
		byName[g.Material.Name] = g
	}
	assert.Equal(t, 2, byName["brick"].SourceCount)
	assert.False(t, s.Contains(brick1))
	assert.Equal(t, DispositionDeleted, result.Dispositions[brick1])
}

func TestCombineEmptySelection(t *testing.T) {
	mc, _, _ := newTestCombiner(t)
	s := scene.NewScene("empty")

	_, err := mc.Combine(s, s.Roots, Options{})
	assert.ErrorIs(t, err, ErrNoInstancesFound)
}

func TestCombineSelectionWithoutMeshes(t *testing.T) {
	mc, _, _ := newTestCombiner(t)
	s := scene.NewScene("groups_only")
	s.AddNode(scene.NewNode("group_a"))
	s.AddNode(scene.NewNode("group_b"))

	_, err := mc.Combine(s, s.Roots, Options{})
	assert.ErrorIs(t, err, ErrNoInstancesFound)

	// No partial side effects.
	assert.Len(t, s.Roots, 2)
}

func TestCombineAllHiddenWithIgnoreHidden(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, brick1, brick2, stone1 := combineScene(t, gs, ms)
	brick1.Visible = false
	brick2.Visible = false
	stone1.Visible = false

	_, err := mc.Combine(s, s.Roots, Options{IgnoreHidden: true})
	assert.ErrorIs(t, err, ErrNoInstancesFound)
	assert.True(t, s.Contains(brick1))
}

func TestCombineDegenerateGroupIsSkipped(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, _, _, _ := combineScene(t, gs, ms)

	registerMaterial(t, ms, "broken")
	flat := cubeNode(t, gs, "flat", "broken", math.NewVec3(0, 0, 9))
	flat.Transform.SetScale(math.NewVec3(1, 0, 1))
	s.AddNode(flat)

	result, err := mc.Combine(s, s.Roots, Options{})
	require.NoError(t, err)

	// The degenerate group is dropped; siblings still combine.
	assert.Len(t, result.Groups, 2)
	assert.Equal(t, 1, result.SkippedGroups)

	// Sources of the failed group keep their geometry and stay put.
	assert.True(t, s.Contains(flat))
	assert.True(t, flat.IsActive())
	assert.Equal(t, DispositionUntouched, result.Dispositions[flat])
}

func TestCombineAllGroupsDegenerate(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	registerMaterial(t, ms, "broken")

	s := scene.NewScene("test")
	flat := cubeNode(t, gs, "flat", "broken", math.NewVec3Zero())
	flat.Transform.SetScale(math.NewVec3(0, 0, 0))
	s.AddNode(flat)

	_, err := mc.Combine(s, s.Roots, Options{})
	assert.ErrorIs(t, err, ErrNoMaterialGroups)
	assert.True(t, s.Contains(flat))
}

func TestCombineSelectionCenterPivot(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	registerMaterial(t, ms, "brick")

	s := scene.NewScene("test")
	n := cubeNode(t, gs, "cube", "brick", math.NewVec3(4, 0, 0))
	source := n.Mesh.Geometry
	s.AddNode(n)

	center := math.NewVec3(4, 0, 0)
	result, err := mc.Combine(s, s.Roots, Options{
		Pivot:           PivotSelectionCenter,
		SelectionCenter: center,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Root)
	assert.Equal(t, CombinedRootName, result.Root.Name)
	assert.True(t, s.Contains(result.Root))
	assert.True(t, result.Root.Transform.Position.Compare(center, 1e-5))

	require.Len(t, result.Nodes, 1)
	out := result.Nodes[0]
	assert.Same(t, result.Root, out.Parent)

	// With the pivot at the cube's own position, baked vertices equal
	// the source's local vertices.
	merged := out.Mesh.Geometry
	require.Equal(t, source.VertexCount(), merged.VertexCount())
	for i := range merged.Vertices {
		assert.True(t, merged.Vertices[i].Position.Compare(source.Vertices[i].Position, 1e-4), "vertex %d", i)
	}

	// And the root's transform puts them back where the source was.
	world := out.WorldTransform()
	first := merged.Vertices[0].Position.Transform(world)
	assert.True(t, first.Compare(source.Vertices[0].Position.Add(center), 1e-4))
}

func TestCombineOriginPivotBakesWorldSpace(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	registerMaterial(t, ms, "brick")

	s := scene.NewScene("test")
	n := cubeNode(t, gs, "cube", "brick", math.NewVec3(3, 2, 1))
	source := n.Mesh.Geometry
	s.AddNode(n)

	result, err := mc.Combine(s, s.Roots, Options{Pivot: PivotOrigin})
	require.NoError(t, err)

	assert.Nil(t, result.Root)
	require.Len(t, result.Nodes, 1)
	merged := result.Nodes[0].Mesh.Geometry
	expected := source.Vertices[0].Position.Add(math.NewVec3(3, 2, 1))
	assert.True(t, merged.Vertices[0].Position.Compare(expected, 1e-4))
}

func TestCombineMergedMeshNaming(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	s, _, _, _ := combineScene(t, gs, ms)

	result, err := mc.Combine(s, s.Roots, Options{})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, g := range result.Groups {
		names[g.Geometry.Name] = true
		assert.Equal(t, g.Material.Name+CombinedMeshSuffix, g.Node.Name)
	}
	assert.True(t, names["brick"+CombinedMeshSuffix])
	assert.True(t, names["stone"+CombinedMeshSuffix])
}

func TestCombineDuplicateSelectionRootsCountOnce(t *testing.T) {
	mc, gs, ms := newTestCombiner(t)
	registerMaterial(t, ms, "brick")

	s := scene.NewScene("test")
	n := cubeNode(t, gs, "cube", "brick", math.NewVec3Zero())
	s.AddNode(n)

	result, err := mc.Combine(s, []*scene.Node{n, n}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, 1, result.Groups[0].SourceCount)
	assert.Equal(t, uint32(cubeVertexCount), result.Groups[0].Geometry.VertexCount())
}

func TestCombineFiresCompletedEvent(t *testing.T) {
	core.EventInitialize()
	defer core.EventShutdown()

	mc, gs, ms := newTestCombiner(t)
	s, _, _, _ := combineScene(t, gs, ms)

	var got [4]uint32
	received := false
	listener := &struct{ name string }{"combine_test"}
	handler := func(code core.SystemEventCode, sender, l interface{}, data core.EventContext) bool {
		received = true
		got = data.Data.U32
		return false
	}
	require.True(t, core.EventRegister(core.EVENT_CODE_COMBINE_COMPLETED, listener, handler))
	defer core.EventUnregister(core.EVENT_CODE_COMBINE_COMPLETED, listener, handler)

	_, err := mc.Combine(s, s.Roots, Options{})
	require.NoError(t, err)

	assert.True(t, received)
	assert.Equal(t, uint32(2), got[0])
	assert.Equal(t, uint32(3*cubeVertexCount), got[1])
	assert.Equal(t, uint32(3*cubeIndexCount), got[2])
	assert.Equal(t, uint32(0), got[3])
}

func TestDecideDisposition(t *testing.T) {
	cases := []struct {
		visible      bool
		ignoreHidden bool
		keepOriginal bool
		want         Disposition
	}{
		{true, false, false, DispositionDeleted},
		{true, false, true, DispositionDeactivated},
		{true, true, false, DispositionDeleted},
		{true, true, true, DispositionDeactivated},
		{false, false, false, DispositionDeleted},
		{false, false, true, DispositionDeactivated},
		{false, true, false, DispositionUntouched},
		{false, true, true, DispositionUntouched},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecideDisposition(c.visible, c.ignoreHidden, c.keepOriginal),
			"visible=%v ignoreHidden=%v keepOriginal=%v", c.visible, c.ignoreHidden, c.keepOriginal)
	}
}

func TestNewMeshCombinerRequiresSystems(t *testing.T) {
	_, gs, ms := newTestCombiner(t)
	_, err := NewMeshCombiner(nil, ms)
	assert.Error(t, err)
	_, err = NewMeshCombiner(gs, nil)
	assert.Error(t, err)
}

func TestPivotModeString(t *testing.T) {
	assert.Equal(t, "origin", PivotOrigin.String())
	assert.Equal(t, "selection_center", PivotSelectionCenter.String())
}
