package resources

import "github.com/spaghettifunk/anvil/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

type MaterialReference struct {
	ReferenceCount uint64
	Handle         uint32
	AutoRelease    bool
}

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to register a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Indicates if the material should be automatically released when no references to it remain. */
	AutoRelease bool
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief The shininess of the material. */
	Shininess float32
}

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as colour and shininess.
 *
 * Material identity is the table slot (ID), not the property values:
 * two materials with identical properties but different IDs are
 * distinct for grouping purposes.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
}
