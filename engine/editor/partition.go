package editor

import (
	"github.com/spaghettifunk/anvil/engine/core"
)

/**
 * @brief Partitions mesh instances into material groups. Instances
 * without geometry are skipped, duplicate nodes contribute once, and
 * instances without a material are folded into the default material
 * group with a warning. Group order follows the first appearance of
 * each material in the input, so the same input always produces the
 * same grouping.
 */
func (mc *MeshCombiner) Partition(instances []*MeshInstance, ignoreHidden bool) []*MaterialGroup {
	groups := make([]*MaterialGroup, 0)
	// Map lookup only; iteration always runs over the ordered slice
	// because map iteration order is randomized.
	groupIndex := make(map[uint32]int)
	seen := make(map[interface{}]bool)

	for _, inst := range instances {
		if inst == nil || inst.Geometry == nil {
			// Grouping nodes and unloaded meshes are not an error.
			continue
		}
		if ignoreHidden && !inst.Visible {
			continue
		}

		// The same node may be reachable through several selection
		// roots; it only contributes its geometry once.
		var key interface{} = inst
		if inst.Node != nil {
			key = inst.Node
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		material := inst.Material
		if material == nil {
			material = mc.materialSystem.GetDefault()
			name := "<detached>"
			if inst.Node != nil {
				name = inst.Node.Name
			}
			core.LogWarn("mesh instance '%s' has no material assigned. Falling back to default material", name)
		}

		idx, ok := groupIndex[material.ID]
		if !ok {
			idx = len(groups)
			groupIndex[material.ID] = idx
			groups = append(groups, &MaterialGroup{
				Material: material,
			})
		}
		group := groups[idx]
		group.Entries = append(group.Entries, &BakeEntry{
			Geometry: inst.Geometry,
			World:    inst.World,
		})
		group.Instances = append(group.Instances, inst)
	}

	return groups
}
