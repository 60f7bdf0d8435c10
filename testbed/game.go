package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anvil/engine/config"
	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/editor"
	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
	"github.com/spaghettifunk/anvil/engine/scene"
	"github.com/spaghettifunk/anvil/engine/systems"
)

/**
 * @brief An example tool session that builds a small test scene and
 * runs the mesh combiner over it with the configured defaults.
 */
type TestGame struct {
	SystemManager *systems.SystemManager
	Config        *config.Config

	scene    *scene.Scene
	combiner *editor.MeshCombiner
}

func NewTestGame(sm *systems.SystemManager, cfg *config.Config) (*TestGame, error) {
	if sm == nil {
		return nil, fmt.Errorf("func NewTestGame - a system manager is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	combiner, err := editor.NewMeshCombiner(sm.GeometrySystem(), sm.MaterialSystem())
	if err != nil {
		return nil, err
	}
	return &TestGame{
		SystemManager: sm,
		Config:        cfg,
		combiner:      combiner,
	}, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	ms := g.SystemManager.MaterialSystem()
	gs := g.SystemManager.GeometrySystem()

	if _, err := ms.AcquireFromConfig(&resources.MaterialConfig{
		Name:          "test_material",
		AutoRelease:   true,
		DiffuseColour: math.NewVec4(0.8, 0.2, 0.2, 1.0),
		Shininess:     8.0,
	}); err != nil {
		return err
	}
	if _, err := ms.AcquireFromConfig(&resources.MaterialConfig{
		Name:          "floor_material",
		AutoRelease:   true,
		DiffuseColour: math.NewVec4(0.3, 0.3, 0.3, 1.0),
		Shininess:     2.0,
	}); err != nil {
		return err
	}

	g.scene = scene.NewScene("testbed")

	// A couple of cubes sharing a material, at different spots.
	cubeConfig, err := gs.GenerateCubeConfig(2.0, 2.0, 2.0, 1.0, 1.0, "test_cube", "test_material")
	if err != nil {
		return err
	}
	cube1, err := gs.AcquireFromConfig(cubeConfig, true)
	if err != nil {
		return err
	}
	node1 := scene.NewMeshNode("cube_1", cube1)
	g.scene.AddNode(node1)

	cubeConfig2, err := gs.GenerateCubeConfig(1.0, 1.0, 1.0, 1.0, 1.0, "test_cube_2", "test_material")
	if err != nil {
		return err
	}
	cube2, err := gs.AcquireFromConfig(cubeConfig2, true)
	if err != nil {
		return err
	}
	node2 := scene.NewMeshNode("cube_2", cube2)
	node2.Transform.SetPosition(math.NewVec3(5.0, 0.0, 1.0))
	g.scene.AddNode(node2)

	// A floor plane on its own material.
	planeConfig, err := gs.GeneratePlaneConfig(20.0, 20.0, 4, 4, 4.0, 4.0, "test_floor", "floor_material")
	if err != nil {
		return err
	}
	floor, err := gs.AcquireFromConfig(planeConfig, true)
	if err != nil {
		return err
	}
	floorNode := scene.NewMeshNode("floor", floor)
	floorNode.Transform.SetPosition(math.NewVec3(0.0, -1.0, 0.0))
	g.scene.AddNode(floorNode)

	// A hidden cube, to exercise the visibility filter.
	cubeConfig3, err := gs.GenerateCubeConfig(1.0, 1.0, 1.0, 1.0, 1.0, "test_cube_hidden", "test_material")
	if err != nil {
		return err
	}
	cube3, err := gs.AcquireFromConfig(cubeConfig3, true)
	if err != nil {
		return err
	}
	node3 := scene.NewMeshNode("cube_hidden", cube3)
	node3.Transform.SetPosition(math.NewVec3(-5.0, 0.0, 0.0))
	node3.Visible = false
	g.scene.AddNode(node3)

	core.EventRegister(core.EVENT_CODE_COMBINE_COMPLETED, g, g.onCombineEvent)
	core.EventRegister(core.EVENT_CODE_COMBINE_FAILED, g, g.onCombineEvent)

	return nil
}

// Run combines the whole scene with the configured defaults and
// reports what came out.
func (g *TestGame) Run() error {
	opts := editor.Options{
		IgnoreHidden: g.Config.Combine.IgnoreHidden,
		KeepOriginal: g.Config.Combine.KeepOriginal,
	}
	if g.Config.Combine.Pivot == "selection_center" {
		opts.Pivot = editor.PivotSelectionCenter
		opts.SelectionCenter = g.selectionCenter(g.scene.Roots)
	}

	result, err := g.combiner.Combine(g.scene, g.scene.Roots, opts)
	if err != nil {
		return err
	}

	for _, group := range result.Groups {
		core.LogInfo("material '%s': %d source mesh(es) -> '%s' (%d vertices, %d indices)",
			group.Material.Name, group.SourceCount, group.Geometry.Name,
			group.Geometry.VertexCount(), group.Geometry.IndexCount())
	}
	return nil
}

// selectionCenter averages the world positions of the mesh nodes in
// the selection. This stands in for the editor gizmo position.
func (g *TestGame) selectionCenter(roots []*scene.Node) math.Vec3 {
	nodes := scene.CollectMeshNodes(roots)
	if len(nodes) == 0 {
		return math.NewVec3Zero()
	}
	sum := math.NewVec3Zero()
	for _, n := range nodes {
		world := n.WorldTransform()
		sum = sum.Add(math.NewVec3(world.Data[12], world.Data[13], world.Data[14]))
	}
	return sum.MulScalar(1.0 / float32(len(nodes)))
}

func (g *TestGame) onCombineEvent(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_COMBINE_COMPLETED:
		core.LogInfo("combine completed: %d group(s), %d vertices, %d indices, %d skipped",
			data.Data.U32[0], data.Data.U32[1], data.Data.U32[2], data.Data.U32[3])
	case core.EVENT_CODE_COMBINE_FAILED:
		core.LogError("combine failed: %s", data.Data.C[0])
	}
	return false
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_COMBINE_COMPLETED, g, g.onCombineEvent)
	core.EventUnregister(core.EVENT_CODE_COMBINE_FAILED, g, g.onCombineEvent)
	return nil
}
