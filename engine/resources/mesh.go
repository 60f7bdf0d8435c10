package resources

type Mesh struct {
	UniqueID   uint32
	Generation uint8
	Geometry   *Geometry
}
