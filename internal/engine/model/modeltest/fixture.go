// Package modeltest builds small GLTF bundles for tests.
package modeltest

import (
	"bytes"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Options controls the generated bundle.
type Options struct {
	// Animated adds a one-second clip moving the mesh node up by 5 units.
	Animated bool
	// NodeTranslation is baked into the mesh node.
	NodeTranslation [3]float64
}

// Document returns a single-triangle document.
func Document(opts Options) *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = []*gltf.Material{{
		Name: "hull",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 1, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos, "NORMAL": nrm},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []int{1}},
		{Name: "body", Mesh: gltf.Index(0), Translation: opts.NodeTranslation},
	}
	doc.Scenes[0].Nodes = []int{0}

	if opts.Animated {
		in := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
		out := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {0, 5, 0}})
		doc.Animations = []*gltf.Animation{{
			Name:     "hover",
			Samplers: []*gltf.AnimationSampler{{Input: in, Output: out}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation},
			}},
		}}
	}
	return doc
}

// GLB encodes the document as a binary bundle.
func GLB(opts Options) []byte {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(Document(opts)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
