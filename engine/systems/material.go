package systems

import (
	"fmt"

	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/math"
	"github.com/spaghettifunk/anvil/engine/resources"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. */
	MaxMaterialCount uint32
}

/**
 * @brief Owns the material resource table. Materials are acquired by
 * name with reference counting; the slot index doubles as the material
 * identity used for grouping.
 */
type MaterialSystem struct {
	config *MaterialSystemConfig
	// Slot table of registered materials.
	registeredMaterials []*resources.MaterialReference
	materials           []*resources.Material
	// Name -> slot lookup.
	lookup          map[string]uint32
	defaultMaterial *resources.Material
}

func NewMaterialSystem(config *MaterialSystemConfig) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	config.MaxMaterialCount = math.Clamp(config.MaxMaterialCount, 1, 65536)

	ms := &MaterialSystem{
		config:              config,
		registeredMaterials: make([]*resources.MaterialReference, config.MaxMaterialCount),
		materials:           make([]*resources.Material, config.MaxMaterialCount),
		lookup:              make(map[string]uint32),
	}

	// Invalidate all entries in the table.
	for i := uint32(0); i < config.MaxMaterialCount; i++ {
		ms.registeredMaterials[i] = &resources.MaterialReference{}
		ms.materials[i] = &resources.Material{ID: resources.InvalidID}
	}

	// The default material occupies the first slot and is never released.
	def, err := ms.AcquireFromConfig(&resources.MaterialConfig{
		Name:          resources.DefaultMaterialName,
		AutoRelease:   false,
		DiffuseColour: math.NewVec4One(),
		Shininess:     8.0,
	})
	if err != nil {
		core.LogError("failed to create default material. Application cannot continue")
		return nil, err
	}
	ms.defaultMaterial = def

	return ms, nil
}

func (ms *MaterialSystem) Shutdown() error {
	for i := range ms.materials {
		ms.materials[i] = &resources.Material{ID: resources.InvalidID}
		ms.registeredMaterials[i] = &resources.MaterialReference{}
	}
	ms.lookup = make(map[string]uint32)
	return nil
}

/**
 * @brief Registers and acquires a material using the given config. If a
 * material with the same name is already registered, its reference count
 * is incremented instead.
 */
func (ms *MaterialSystem) AcquireFromConfig(config *resources.MaterialConfig) (*resources.Material, error) {
	if id, ok := ms.lookup[config.Name]; ok {
		ms.registeredMaterials[id].ReferenceCount++
		return ms.materials[id], nil
	}

	for i := uint32(0); i < ms.config.MaxMaterialCount; i++ {
		if ms.materials[i].ID == resources.InvalidID {
			// Found empty slot.
			mat := ms.materials[i]
			mat.ID = i
			mat.Name = config.Name
			mat.DiffuseColour = config.DiffuseColour
			mat.Shininess = config.Shininess
			mat.Generation++

			ms.registeredMaterials[i].Handle = i
			ms.registeredMaterials[i].ReferenceCount = 1
			ms.registeredMaterials[i].AutoRelease = config.AutoRelease
			ms.lookup[config.Name] = i
			return mat, nil
		}
	}

	err := fmt.Errorf("unable to obtain free slot for material '%s'. Adjust configuration to allow more space", config.Name)
	core.LogError(err.Error())
	return nil, core.ErrTableFull
}

/**
 * @brief Acquires an already-registered material by name.
 */
func (ms *MaterialSystem) Acquire(name string) (*resources.Material, error) {
	id, ok := ms.lookup[name]
	if !ok {
		return nil, fmt.Errorf("material '%s' is not registered: %w", name, core.ErrInvalidHandle)
	}
	ms.registeredMaterials[id].ReferenceCount++
	return ms.materials[id], nil
}

/**
 * @brief Releases a reference to the named material. Auto-release
 * materials are invalidated when their reference count reaches zero.
 */
func (ms *MaterialSystem) Release(name string) {
	if name == resources.DefaultMaterialName {
		core.LogWarn("tried to release the default material. Nothing was done")
		return
	}
	id, ok := ms.lookup[name]
	if !ok {
		core.LogWarn("tried to release non-existent material '%s'. Nothing was done", name)
		return
	}

	ref := ms.registeredMaterials[id]
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount < 1 && ref.AutoRelease {
		ms.materials[id] = &resources.Material{ID: resources.InvalidID}
		ms.registeredMaterials[id] = &resources.MaterialReference{}
		delete(ms.lookup, name)
	}
}

/**
 * @brief Obtains a pointer to the default material.
 */
func (ms *MaterialSystem) GetDefault() *resources.Material {
	return ms.defaultMaterial
}
