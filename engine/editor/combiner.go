package editor

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
	"github.com/spaghettifunk/anvil/engine/scene"
	"github.com/spaghettifunk/anvil/engine/systems"
)

var (
	// ErrNoInstancesFound means the selection yielded zero eligible mesh
	// instances. No scene mutation happens in this case.
	ErrNoInstancesFound = errors.New("selection contains no combinable mesh instances")
	// ErrNoMaterialGroups means instances existed but no group produced
	// a merged mesh.
	ErrNoMaterialGroups = errors.New("no material group produced a merged mesh")
	// ErrDegenerateTransform means a pivot or instance transform is
	// singular and cannot be inverted.
	ErrDegenerateTransform = errors.New("transform is singular and cannot be inverted")
)

/** @brief The suffix appended to a material name to form the merged mesh name. */
const CombinedMeshSuffix = "_combined"

/** @brief The name of the root node created in selection-center mode. */
const CombinedRootName = "combined_root"

type PivotMode int

const (
	// Bake combined geometry directly into world space.
	PivotOrigin PivotMode = iota
	// Bake combined geometry relative to the selection center.
	PivotSelectionCenter
)

func (pm PivotMode) String() string {
	switch pm {
	case PivotOrigin:
		return "origin"
	case PivotSelectionCenter:
		return "selection_center"
	}
	return fmt.Sprintf("PivotMode(%d)", int(pm))
}

type Options struct {
	/** @brief Exclude invisible instances from the combine. */
	IgnoreHidden bool
	/** @brief Deactivate combined source nodes instead of deleting them. */
	KeepOriginal bool
	/** @brief The coordinate frame the combined geometry is baked into. */
	Pivot PivotMode
	/** @brief The pivot point used in selection-center mode. Resolved by the caller from editor state. */
	SelectionCenter math.Vec3
}

// Disposition is the outcome applied to a source node after its group
// has been combined.
type Disposition int

const (
	DispositionUntouched Disposition = iota
	DispositionDeactivated
	DispositionDeleted
)

// DecideDisposition is the original-handling decision table. It is a
// pure function of the instance visibility and the combine flags;
// applying the outcome to the scene graph is kept separate.
func DecideDisposition(visible, ignoreHidden, keepOriginal bool) Disposition {
	if ignoreHidden && !visible {
		return DispositionUntouched
	}
	if keepOriginal {
		return DispositionDeactivated
	}
	return DispositionDeleted
}

/**
 * @brief A single combinable record: one mesh-bearing node resolved to
 * its geometry, material and world transform. The geometry buffers are
 * read-only sources; the combiner never mutates them.
 */
type MeshInstance struct {
	Node     *scene.Node
	Geometry *resources.Geometry
	/** @brief The material of the instance. Nil means unassigned. */
	Material *resources.Material
	World    math.Mat4
	Visible  bool
}

/**
 * @brief One entry of a material group: a geometry plus the transform
 * that places it in the world.
 */
type BakeEntry struct {
	Geometry *resources.Geometry
	World    math.Mat4
}

/**
 * @brief The set of mesh instances sharing one material identity.
 * Entry order is the input order, which determines the vertex order of
 * the merged mesh.
 */
type MaterialGroup struct {
	Material  *resources.Material
	Entries   []*BakeEntry
	Instances []*MeshInstance
}

// CombinedGroup is the per-material output of a combine operation.
type CombinedGroup struct {
	Material *resources.Material
	Geometry *resources.Geometry
	Node     *scene.Node
	// Number of source instances baked into the merged mesh.
	SourceCount int
}

type Result struct {
	/** @brief The combination root. Nil in origin mode, where output nodes stand alone. */
	Root *scene.Node
	/** @brief One output node per successfully merged material group. */
	Nodes  []*scene.Node
	Groups []*CombinedGroup
	/** @brief Number of groups skipped due to degenerate transforms. */
	SkippedGroups int
	/** @brief What happened to each collected source node. */
	Dispositions map[*scene.Node]Disposition
}

/**
 * @brief Combines mesh-bearing scene nodes into one merged mesh per
 * material. Registered geometry and material systems provide the
 * resource tables the outputs are registered with.
 */
type MeshCombiner struct {
	geometrySystem *systems.GeometrySystem
	materialSystem *systems.MaterialSystem
}

func NewMeshCombiner(gs *systems.GeometrySystem, ms *systems.MaterialSystem) (*MeshCombiner, error) {
	if gs == nil || ms == nil {
		return nil, fmt.Errorf("func NewMeshCombiner - geometry and material systems are required")
	}
	return &MeshCombiner{
		geometrySystem: gs,
		materialSystem: ms,
	}, nil
}

/**
 * @brief Runs the full combine pipeline over the selection:
 * flatten -> partition -> merge per group -> attach outputs -> apply
 * original handling. A group that fails to merge is skipped with a
 * warning; sibling groups still complete.
 */
func (mc *MeshCombiner) Combine(s *scene.Scene, selection []*scene.Node, opts Options) (*Result, error) {
	clock := core.NewClock()
	clock.Start()

	meshNodes := scene.CollectMeshNodes(selection)
	instances := make([]*MeshInstance, 0, len(meshNodes))
	for _, n := range meshNodes {
		inst := &MeshInstance{
			Node:     n,
			Geometry: n.Mesh.Geometry,
			World:    n.WorldTransform(),
			Visible:  n.Visible,
		}
		if inst.Geometry != nil {
			inst.Material = inst.Geometry.Material
		}
		instances = append(instances, inst)
	}

	groups := mc.Partition(instances, opts.IgnoreHidden)
	if len(groups) == 0 {
		fireCombineFailed("no eligible mesh instances in selection")
		return nil, ErrNoInstancesFound
	}

	pivot := math.NewMat4Identity()
	if opts.Pivot == PivotSelectionCenter {
		pivot = math.NewMat4Translation(opts.SelectionCenter)
	}

	result := &Result{
		Dispositions: make(map[*scene.Node]Disposition, len(meshNodes)),
	}
	for _, n := range meshNodes {
		result.Dispositions[n] = DispositionUntouched
	}

	var totalVertices, totalIndices uint32
	merged := make([]*MaterialGroup, 0, len(groups))
	for _, group := range groups {
		config, err := mc.MergeGroup(group, pivot)
		if err != nil {
			core.LogWarn("skipping material group '%s': %v", group.Material.Name, err)
			result.SkippedGroups++
			continue
		}

		geometry, err := mc.geometrySystem.AcquireFromConfig(config, true)
		if err != nil {
			core.LogWarn("skipping material group '%s': %v", group.Material.Name, err)
			result.SkippedGroups++
			continue
		}

		node := scene.NewMeshNode(config.Name, geometry)
		result.Nodes = append(result.Nodes, node)
		result.Groups = append(result.Groups, &CombinedGroup{
			Material:    group.Material,
			Geometry:    geometry,
			Node:        node,
			SourceCount: len(group.Instances),
		})
		totalVertices += config.VertexCount
		totalIndices += config.IndexCount
		merged = append(merged, group)
	}

	if len(result.Groups) == 0 {
		fireCombineFailed("every material group failed to merge")
		return nil, ErrNoMaterialGroups
	}

	// Grouping under a parent transform happens only in selection-center
	// mode; origin-mode outputs stand alone in world space.
	if opts.Pivot == PivotSelectionCenter {
		root := scene.NewNode(CombinedRootName)
		root.Transform.SetPosition(opts.SelectionCenter)
		s.AddNode(root)
		for _, n := range result.Nodes {
			root.AddChild(n)
		}
		result.Root = root
	} else {
		for _, n := range result.Nodes {
			s.AddNode(n)
		}
	}

	// Original handling runs only for instances whose group actually
	// merged; sources of a failed group keep their geometry.
	for _, group := range merged {
		for _, inst := range group.Instances {
			if inst.Node == nil {
				continue
			}
			d := DecideDisposition(inst.Visible, opts.IgnoreHidden, opts.KeepOriginal)
			result.Dispositions[inst.Node] = d
			switch d {
			case DispositionDeactivated:
				inst.Node.SetActive(false)
			case DispositionDeleted:
				s.RemoveNode(inst.Node)
			}
		}
	}

	clock.Update()
	core.LogInfo("combined %d material group(s), %d vertices, %d indices in %.2fms",
		len(result.Groups), totalVertices, totalIndices, clock.ElapsedMilliseconds())

	context := core.EventContext{}
	context.Data.U32[0] = uint32(len(result.Groups))
	context.Data.U32[1] = totalVertices
	context.Data.U32[2] = totalIndices
	context.Data.U32[3] = uint32(result.SkippedGroups)
	core.EventFire(core.EVENT_CODE_COMBINE_COMPLETED, mc, context)

	return result, nil
}

func fireCombineFailed(reason string) {
	core.LogWarn("combine produced no output: %s", reason)
	context := core.EventContext{}
	context.Data.C[0] = reason
	core.EventFire(core.EVENT_CODE_COMBINE_FAILED, nil, context)
}
