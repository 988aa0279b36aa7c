package scene

// Texture is decoded RGBA8 image data awaiting GPU upload.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
}

// Material describes how a mesh is shaded.
type Material struct {
	Name             string
	BaseColor        [4]float32
	BaseColorTexture *Texture
	DoubleSided      bool
}

// DefaultMaterial is opaque white.
func DefaultMaterial() *Material {
	return &Material{Name: "default", BaseColor: [4]float32{1, 1, 1, 1}}
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
	Material  *Material
}

// IndexCount returns the number of indices drawn. Non-indexed meshes draw
// their vertices in order.
func (m *Mesh) IndexCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices)
	}
	return len(m.Positions)
}
