package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/scene"
)

func TestPartitionGroupsByMaterial(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")
	stone := registerMaterial(t, ms, "stone")

	instances := []*MeshInstance{
		instanceOf(triangle("a", brick), math.NewMat4Identity(), true),
		instanceOf(triangle("b", stone), math.NewMat4Identity(), true),
		instanceOf(triangle("c", brick), math.NewMat4Identity(), true),
	}

	groups := mc.Partition(instances, false)
	require.Len(t, groups, 2)
	// First appearance order.
	assert.Same(t, brick, groups[0].Material)
	assert.Same(t, stone, groups[1].Material)
	assert.Len(t, groups[0].Entries, 2)
	assert.Len(t, groups[1].Entries, 1)
}

func TestPartitionSkipsNilGeometry(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")

	instances := []*MeshInstance{
		instanceOf(nil, math.NewMat4Identity(), true),
		instanceOf(triangle("a", brick), math.NewMat4Identity(), true),
	}

	groups := mc.Partition(instances, false)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 1)
}

func TestPartitionVisibilityFilter(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")

	instances := []*MeshInstance{
		instanceOf(triangle("visible", brick), math.NewMat4Identity(), true),
		instanceOf(triangle("hidden", brick), math.NewMat4Identity(), false),
	}

	// Hidden instances are excluded only when asked.
	groups := mc.Partition(instances, true)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 1)

	groups = mc.Partition(instances, false)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 2)
}

func TestPartitionAllHiddenProducesNoGroups(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")

	instances := []*MeshInstance{
		instanceOf(triangle("hidden", brick), math.NewMat4Identity(), false),
	}
	assert.Empty(t, mc.Partition(instances, true))
}

func TestPartitionDeduplicatesNodes(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")

	node := scene.NewNode("shared")
	a := instanceOf(triangle("a", brick), math.NewMat4Identity(), true)
	a.Node = node
	b := instanceOf(a.Geometry, math.NewMat4Identity(), true)
	b.Node = node

	groups := mc.Partition([]*MeshInstance{a, b}, false)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 1)
}

func TestPartitionNilMaterialFallsBackToDefault(t *testing.T) {
	mc, _, ms := newTestCombiner(t)

	instances := []*MeshInstance{
		instanceOf(triangle("naked", nil), math.NewMat4Identity(), true),
	}
	groups := mc.Partition(instances, false)
	require.Len(t, groups, 1)
	assert.Same(t, ms.GetDefault(), groups[0].Material)
}

func TestPartitionOrderIsDeterministic(t *testing.T) {
	mc, _, ms := newTestCombiner(t)

	instances := make([]*MeshInstance, 0, 10)
	names := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("mat_%d", i)
		mat := registerMaterial(t, ms, name)
		instances = append(instances, instanceOf(triangle(name, mat), math.NewMat4Identity(), true))
		names = append(names, name)
	}

	for run := 0; run < 5; run++ {
		groups := mc.Partition(instances, false)
		require.Len(t, groups, 10)
		for i, group := range groups {
			assert.Equal(t, names[i], group.Material.Name)
		}
	}
}

func TestPartitionKeepsEntryWorldTransforms(t *testing.T) {
	mc, _, ms := newTestCombiner(t)
	brick := registerMaterial(t, ms, "brick")

	world := math.NewMat4Translation(math.NewVec3(7, 0, 0))
	groups := mc.Partition([]*MeshInstance{
		instanceOf(triangle("a", brick), world, true),
	}, false)
	require.Len(t, groups, 1)
	assert.Equal(t, world, groups[0].Entries[0].World)
}
