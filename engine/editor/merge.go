package editor

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
)

/**
 * @brief Merges the geometry of a material group into a single
 * geometry configuration expressed in the pivot space. Vertices keep
 * the entry order of the group; indices are rebased by the running
 * vertex offset so triangles keep pointing at their own vertices.
 * Source buffers are copied, never mutated.
 *
 * An empty group returns (nil, nil). A singular pivot or instance
 * transform returns ErrDegenerateTransform and leaves the group
 * unconsumed.
 */
func (mc *MeshCombiner) MergeGroup(group *MaterialGroup, pivot math.Mat4) (*resources.GeometryConfig, error) {
	if group == nil || len(group.Entries) == 0 {
		return nil, nil
	}

	if math32.Abs(pivot.Determinant()) <= math.K_FLOAT_EPSILON {
		return nil, fmt.Errorf("pivot transform: %w", ErrDegenerateTransform)
	}
	invPivot := pivot.Inverse()

	var totalVertices, totalIndices uint32
	for _, entry := range group.Entries {
		totalVertices += entry.Geometry.VertexCount()
		totalIndices += entry.Geometry.IndexCount()
	}

	config := &resources.GeometryConfig{
		VertexCount:  totalVertices,
		Vertices:     make([]math.Vertex3D, 0, totalVertices),
		IndexCount:   totalIndices,
		Indices:      make([]uint32, 0, totalIndices),
		Name:         group.Material.Name + CombinedMeshSuffix,
		MaterialName: group.Material.Name,
	}

	var vertexOffset uint32
	for i, entry := range group.Entries {
		// Bake the instance into the output space in one hop.
		xform := entry.World.Mul(invPivot)
		if math32.Abs(xform.Determinant()) <= math.K_FLOAT_EPSILON {
			return nil, fmt.Errorf("instance %d ('%s'): %w", i, entry.Geometry.Name, ErrDegenerateTransform)
		}
		// Normals and tangents transform by the inverse transpose so
		// non-uniform scale does not shear them.
		normalMatrix := math.NewMat4Transposed(xform.Inverse())

		for _, src := range entry.Geometry.Vertices {
			v := src
			v.Position = src.Position.Transform(xform)
			v.Normal = transformDirection(src.Normal, normalMatrix)
			v.Tangent = transformDirection(src.Tangent, normalMatrix)
			config.Vertices = append(config.Vertices, v)
		}
		for _, index := range entry.Geometry.Indices {
			config.Indices = append(config.Indices, index+vertexOffset)
		}
		vertexOffset += entry.Geometry.VertexCount()
	}

	extents, center := math.ExtentsFromVertices(config.Vertices)
	config.MinExtents = extents.Min
	config.MaxExtents = extents.Max
	config.Center = center

	return config, nil
}

// transformDirection applies a direction-vector transform and
// renormalizes. Zero-length inputs stay zero.
func transformDirection(v math.Vec3, m math.Mat4) math.Vec3 {
	out := v.TransformNormal(m)
	if out.LengthSquared() > 0 {
		return out.Normalized()
	}
	return out
}
