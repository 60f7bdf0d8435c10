package systems

type SystemManager struct {
	geometrySystem *GeometrySystem
	materialSystem *MaterialSystem
}

func NewSystemManager(maxMaterialCount, maxGeometryCount uint32) (*SystemManager, error) {
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: maxMaterialCount,
	})
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: maxGeometryCount,
	}, ms)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		materialSystem: ms,
		geometrySystem: gs,
	}, nil
}

func (sm *SystemManager) MaterialSystem() *MaterialSystem {
	return sm.materialSystem
}

func (sm *SystemManager) GeometrySystem() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
