package systems

import (
	"fmt"

	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
)

type GeometrySystemConfig struct {
	/** @brief The maximum number of registered geometries. */
	MaxGeometryCount uint32
}

/**
 * @brief Owns the geometry resource table. Geometry buffers are
 * retained CPU-side and treated as read-only by every consumer.
 */
type GeometrySystem struct {
	config *GeometrySystemConfig
	// Slot table of registered geometries.
	registeredGeometries []*resources.GeometryReference
	materialSystem       *MaterialSystem
}

func NewGeometrySystem(config *GeometrySystemConfig, ms *MaterialSystem) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	config.MaxGeometryCount = math.Clamp(config.MaxGeometryCount, 1, 65536)

	gs := &GeometrySystem{
		config:               config,
		registeredGeometries: make([]*resources.GeometryReference, config.MaxGeometryCount),
		materialSystem:       ms,
	}

	// Invalidate all geometries in the array.
	for i := uint32(0); i < config.MaxGeometryCount; i++ {
		gs.registeredGeometries[i] = &resources.GeometryReference{
			Geometry: &resources.Geometry{
				ID:         resources.InvalidID,
				Generation: resources.InvalidIDUint16,
			},
		}
	}

	return gs, nil
}

func (gs *GeometrySystem) Shutdown() error {
	return nil
}

/**
 * @brief Acquires an existing geometry by id.
 */
func (gs *GeometrySystem) AcquireByID(id uint32) (*resources.Geometry, error) {
	if id != resources.InvalidID && id < gs.config.MaxGeometryCount &&
		gs.registeredGeometries[id].Geometry.ID != resources.InvalidID {
		gs.registeredGeometries[id].ReferenceCount++
		return gs.registeredGeometries[id].Geometry, nil
	}

	err := fmt.Errorf("cannot acquire invalid geometry id %d: %w", id, core.ErrInvalidHandle)
	core.LogError(err.Error())
	return nil, err
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 * The material is resolved by name; a missing or unknown material name
 * falls back to the default material.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *resources.GeometryConfig, autoRelease bool) (*resources.Geometry, error) {
	var geometry *resources.Geometry
	for i := uint32(0); i < gs.config.MaxGeometryCount; i++ {
		if gs.registeredGeometries[i].Geometry.ID == resources.InvalidID {
			// Found empty slot.
			gs.registeredGeometries[i].AutoRelease = autoRelease
			gs.registeredGeometries[i].ReferenceCount = 1
			geometry = gs.registeredGeometries[i].Geometry
			geometry.ID = i
			break
		}
	}

	if geometry == nil {
		err := fmt.Errorf("unable to obtain free slot for geometry. Adjust configuration to allow more space")
		core.LogError(err.Error())
		return nil, core.ErrTableFull
	}

	geometry.Name = config.Name
	if len(geometry.Name) == 0 {
		geometry.Name = resources.DefaultGeometryName
	}
	geometry.Vertices = config.Vertices
	geometry.Indices = config.Indices
	geometry.Center = config.Center
	geometry.Extents.Min = config.MinExtents
	geometry.Extents.Max = config.MaxExtents
	geometry.Generation++

	// Acquire the material.
	materialName := config.MaterialName
	if len(materialName) == 0 {
		materialName = resources.DefaultMaterialName
	}
	mat, err := gs.materialSystem.Acquire(materialName)
	if err != nil {
		core.LogWarn("geometry '%s' references unknown material '%s'. Using default", geometry.Name, materialName)
		mat = gs.materialSystem.GetDefault()
	}
	geometry.Material = mat

	return geometry, nil
}

/**
 * @brief Releases a reference to the provided geometry.
 */
func (gs *GeometrySystem) Release(geometry *resources.Geometry) {
	if geometry != nil && geometry.ID != resources.InvalidID {
		ref := gs.registeredGeometries[geometry.ID]

		if ref.Geometry.ID == geometry.ID {
			if ref.ReferenceCount > 0 {
				ref.ReferenceCount--
			}

			// Also blanks out the geometry id.
			if ref.ReferenceCount < 1 && ref.AutoRelease {
				gs.destroyGeometry(ref.Geometry)
				ref.ReferenceCount = 0
				ref.AutoRelease = false
			}
		} else {
			core.LogError("Geometry id mismatch. Check registration logic, as this should never occur.")
		}
		return
	}

	core.LogWarn("GeometrySystem.Release cannot release invalid geometry id. Nothing was done.")
}

func (gs *GeometrySystem) destroyGeometry(geometry *resources.Geometry) {
	geometry.ID = resources.InvalidID
	geometry.Generation = resources.InvalidIDUint16
	geometry.Name = ""
	geometry.Vertices = nil
	geometry.Indices = nil

	// Release the material.
	if geometry.Material != nil && len(geometry.Material.Name) > 0 {
		gs.materialSystem.Release(geometry.Material.Name)
		geometry.Material = nil
	}
}

/**
 * @brief Generates configuration for plane geometries given the provided parameters.
 *
 * @param width The overall width of the plane. Must be non-zero.
 * @param height The overall height of the plane. Must be non-zero.
 * @param xSegmentCount The number of segments along the x-axis in the plane. Must be non-zero.
 * @param ySegmentCount The number of segments along the y-axis in the plane. Must be non-zero.
 * @param tileX The number of times the texture should tile across the plane on the x-axis. Must be non-zero.
 * @param tileY The number of times the texture should tile across the plane on the y-axis. Must be non-zero.
 * @param name The name of the generated geometry.
 * @param materialName The name of the material to be used.
 * @return A geometry configuration which can then be fed into AcquireFromConfig().
 */
func (gs *GeometrySystem) GeneratePlaneConfig(width, height float32, xSegmentCount, ySegmentCount uint32, tileX, tileY float32, name, materialName string) (*resources.GeometryConfig, error) {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if xSegmentCount < 1 {
		core.LogWarn("xSegmentCount must be a positive number. Defaulting to one.")
		xSegmentCount = 1
	}
	if ySegmentCount < 1 {
		core.LogWarn("ySegmentCount must be a positive number. Defaulting to one.")
		ySegmentCount = 1
	}

	if tileX == 0 {
		core.LogWarn("tileX must be nonzero. Defaulting to one.")
		tileX = 1.0
	}
	if tileY == 0 {
		core.LogWarn("tileY must be nonzero. Defaulting to one.")
		tileY = 1.0
	}

	config := &resources.GeometryConfig{
		VertexCount: xSegmentCount * ySegmentCount * 4, // 4 verts per segment
		Vertices:    make([]math.Vertex3D, xSegmentCount*ySegmentCount*4),
		IndexCount:  xSegmentCount * ySegmentCount * 6, // 6 indices per segment
		Indices:     make([]uint32, xSegmentCount*ySegmentCount*6),
	}

	// TODO: This generates extra vertices, but we can always deduplicate them later.
	segWidth := width / float32(xSegmentCount)
	segHeight := height / float32(ySegmentCount)
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	for y := uint32(0); y < ySegmentCount; y++ {
		for x := uint32(0); x < xSegmentCount; x++ {
			// Generate vertices
			minX := (float32(x) * segWidth) - halfWidth
			minY := (float32(y) * segHeight) - halfHeight
			maxX := minX + segWidth
			maxY := minY + segHeight
			minUVX := (float32(x) / float32(xSegmentCount)) * tileX
			minUVY := (float32(y) / float32(ySegmentCount)) * tileY
			maxUVX := (float32(x+1) / float32(xSegmentCount)) * tileX
			maxUVY := (float32(y+1) / float32(ySegmentCount)) * tileY

			vOffset := ((y * xSegmentCount) + x) * 4
			v0 := &config.Vertices[vOffset+0]
			v1 := &config.Vertices[vOffset+1]
			v2 := &config.Vertices[vOffset+2]
			v3 := &config.Vertices[vOffset+3]

			v0.Position = math.NewVec3(minX, minY, 0)
			v0.Texcoord = math.NewVec2(minUVX, minUVY)

			v1.Position = math.NewVec3(maxX, maxY, 0)
			v1.Texcoord = math.NewVec2(maxUVX, maxUVY)

			v2.Position = math.NewVec3(minX, maxY, 0)
			v2.Texcoord = math.NewVec2(minUVX, maxUVY)

			v3.Position = math.NewVec3(maxX, minY, 0)
			v3.Texcoord = math.NewVec2(maxUVX, minUVY)

			// Generate indices
			iOffset := ((y * xSegmentCount) + x) * 6
			config.Indices[iOffset+0] = vOffset + 0
			config.Indices[iOffset+1] = vOffset + 1
			config.Indices[iOffset+2] = vOffset + 2
			config.Indices[iOffset+3] = vOffset + 0
			config.Indices[iOffset+4] = vOffset + 3
			config.Indices[iOffset+5] = vOffset + 1
		}
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = resources.DefaultGeometryName
	}

	if len(materialName) > 0 {
		config.MaterialName = materialName
	} else {
		config.MaterialName = resources.DefaultMaterialName
	}

	return config, nil
}

func (gs *GeometrySystem) GenerateCubeConfig(width, height, depth, tileX, tileY float32, name, materialName string) (*resources.GeometryConfig, error) {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1
	}
	if tileX == 0 {
		core.LogWarn("tileX must be nonzero. Defaulting to one.")
		tileX = 1.0
	}
	if tileY == 0 {
		core.LogWarn("tileY must be nonzero. Defaulting to one.")
		tileY = 1.0
	}

	config := &resources.GeometryConfig{
		VertexCount: 4 * 6, // 4 verts per side, 6 sides
		Vertices:    make([]math.Vertex3D, 4*6),
		IndexCount:  6 * 6, // 6 indices per side, 6 sides
		Indices:     make([]uint32, 6*6),
	}

	halfWidth := width * 0.5
	halfHeight := height * 0.5
	halfDepth := depth * 0.5
	minX := -halfWidth
	minY := -halfHeight
	minZ := -halfDepth
	maxX := halfWidth
	maxY := halfHeight
	maxZ := halfDepth
	minUVX := float32(0.0)
	minUVY := float32(0.0)
	maxUVX := tileX
	maxUVY := tileY

	config.MinExtents = math.NewVec3(minX, minY, minZ)
	config.MaxExtents = math.NewVec3(maxX, maxY, maxZ)
	// Always 0 since min/max of each axis are -/+ half of the size.
	config.Center = math.NewVec3Zero()

	verts := config.Vertices

	// Front face
	verts[(0*4)+0].Position = math.NewVec3(minX, minY, maxZ)
	verts[(0*4)+1].Position = math.NewVec3(maxX, maxY, maxZ)
	verts[(0*4)+2].Position = math.NewVec3(minX, maxY, maxZ)
	verts[(0*4)+3].Position = math.NewVec3(maxX, minY, maxZ)
	verts[(0*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(0*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(0*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(0*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(0*4)+0].Normal = math.NewVec3(0.0, 0.0, 1.0)
	verts[(0*4)+1].Normal = math.NewVec3(0.0, 0.0, 1.0)
	verts[(0*4)+2].Normal = math.NewVec3(0.0, 0.0, 1.0)
	verts[(0*4)+3].Normal = math.NewVec3(0.0, 0.0, 1.0)

	// Back face
	verts[(1*4)+0].Position = math.NewVec3(maxX, minY, minZ)
	verts[(1*4)+1].Position = math.NewVec3(minX, maxY, minZ)
	verts[(1*4)+2].Position = math.NewVec3(maxX, maxY, minZ)
	verts[(1*4)+3].Position = math.NewVec3(minX, minY, minZ)
	verts[(1*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(1*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(1*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(1*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(1*4)+0].Normal = math.NewVec3(0.0, 0.0, -1.0)
	verts[(1*4)+1].Normal = math.NewVec3(0.0, 0.0, -1.0)
	verts[(1*4)+2].Normal = math.NewVec3(0.0, 0.0, -1.0)
	verts[(1*4)+3].Normal = math.NewVec3(0.0, 0.0, -1.0)

	// Left
	verts[(2*4)+0].Position = math.NewVec3(minX, minY, minZ)
	verts[(2*4)+1].Position = math.NewVec3(minX, maxY, maxZ)
	verts[(2*4)+2].Position = math.NewVec3(minX, maxY, minZ)
	verts[(2*4)+3].Position = math.NewVec3(minX, minY, maxZ)
	verts[(2*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(2*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(2*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(2*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(2*4)+0].Normal = math.NewVec3(-1.0, 0.0, 0.0)
	verts[(2*4)+1].Normal = math.NewVec3(-1.0, 0.0, 0.0)
	verts[(2*4)+2].Normal = math.NewVec3(-1.0, 0.0, 0.0)
	verts[(2*4)+3].Normal = math.NewVec3(-1.0, 0.0, 0.0)

	// Right face
	verts[(3*4)+0].Position = math.NewVec3(maxX, minY, maxZ)
	verts[(3*4)+1].Position = math.NewVec3(maxX, maxY, minZ)
	verts[(3*4)+2].Position = math.NewVec3(maxX, maxY, maxZ)
	verts[(3*4)+3].Position = math.NewVec3(maxX, minY, minZ)
	verts[(3*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(3*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(3*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(3*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(3*4)+0].Normal = math.NewVec3(1.0, 0.0, 0.0)
	verts[(3*4)+1].Normal = math.NewVec3(1.0, 0.0, 0.0)
	verts[(3*4)+2].Normal = math.NewVec3(1.0, 0.0, 0.0)
	verts[(3*4)+3].Normal = math.NewVec3(1.0, 0.0, 0.0)

	// Bottom face
	verts[(4*4)+0].Position = math.NewVec3(maxX, minY, maxZ)
	verts[(4*4)+1].Position = math.NewVec3(minX, minY, minZ)
	verts[(4*4)+2].Position = math.NewVec3(maxX, minY, minZ)
	verts[(4*4)+3].Position = math.NewVec3(minX, minY, maxZ)
	verts[(4*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(4*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(4*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(4*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(4*4)+0].Normal = math.NewVec3(0.0, -1.0, 0.0)
	verts[(4*4)+1].Normal = math.NewVec3(0.0, -1.0, 0.0)
	verts[(4*4)+2].Normal = math.NewVec3(0.0, -1.0, 0.0)
	verts[(4*4)+3].Normal = math.NewVec3(0.0, -1.0, 0.0)

	// Top face
	verts[(5*4)+0].Position = math.NewVec3(minX, maxY, maxZ)
	verts[(5*4)+1].Position = math.NewVec3(maxX, maxY, minZ)
	verts[(5*4)+2].Position = math.NewVec3(minX, maxY, minZ)
	verts[(5*4)+3].Position = math.NewVec3(maxX, maxY, maxZ)
	verts[(5*4)+0].Texcoord = math.NewVec2(minUVX, minUVY)
	verts[(5*4)+1].Texcoord = math.NewVec2(maxUVX, maxUVY)
	verts[(5*4)+2].Texcoord = math.NewVec2(minUVX, maxUVY)
	verts[(5*4)+3].Texcoord = math.NewVec2(maxUVX, minUVY)
	verts[(5*4)+0].Normal = math.NewVec3(0.0, 1.0, 0.0)
	verts[(5*4)+1].Normal = math.NewVec3(0.0, 1.0, 0.0)
	verts[(5*4)+2].Normal = math.NewVec3(0.0, 1.0, 0.0)
	verts[(5*4)+3].Normal = math.NewVec3(0.0, 1.0, 0.0)

	for i := 0; i < 6; i++ {
		vOffset := i * 4
		iOffset := i * 6
		config.Indices[iOffset+0] = uint32(vOffset + 0)
		config.Indices[iOffset+1] = uint32(vOffset + 1)
		config.Indices[iOffset+2] = uint32(vOffset + 2)
		config.Indices[iOffset+3] = uint32(vOffset + 0)
		config.Indices[iOffset+4] = uint32(vOffset + 3)
		config.Indices[iOffset+5] = uint32(vOffset + 1)
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = resources.DefaultGeometryName
	}

	if len(materialName) > 0 {
		config.MaterialName = materialName
	} else {
		config.MaterialName = resources.DefaultMaterialName
	}

	config.Vertices = math.GeometryGenerateTangents(config.VertexCount, config.Vertices, config.IndexCount, config.Indices)

	return config, nil
}
