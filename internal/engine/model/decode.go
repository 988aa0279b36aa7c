// Package model decodes GLTF bundles into scene nodes and animation clips.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"io/fs"
	"net/url"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration (EXT_texture_webp)

	"github.com/Faultbox/spacescene/internal/engine/anim"
	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/internal/logger"
	"github.com/Faultbox/spacescene/pkg/math"
)

// ErrNoGeometry is returned for bundles without any scene node.
var ErrNoGeometry = errors.New("gltf bundle has no nodes")

// Bundle is a decoded GLTF document.
type Bundle struct {
	// Root groups the document's scene roots. Its own transform is identity.
	Root     *scene.Node
	Clips    []*anim.Clip
	Textures []*scene.Texture
}

// Decode parses a .gltf or .glb stream. Relative buffer and image URIs are
// resolved against fsys.
func Decode(r io.Reader, fsys fs.FS, name string) (*Bundle, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(r, fsys).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return build(doc, fsys, name)
}

func build(doc *gltf.Document, fsys fs.FS, name string) (*Bundle, error) {
	if len(doc.Nodes) == 0 {
		return nil, ErrNoGeometry
	}

	b := &Bundle{Root: scene.NewNode(name)}

	textures := b.loadTextures(doc, fsys)
	materials := loadMaterials(doc, textures)

	meshes := make([][]*scene.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				logger.Warn("skipping gltf primitive",
					zap.String("bundle", name), zap.Int("mesh", mi), zap.Int("primitive", pi), zap.Error(err))
				continue
			}
			if prim.Material != nil && *prim.Material < len(materials) {
				m.Material = materials[*prim.Material]
			}
			meshes[mi] = append(meshes[mi], m)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		nodes[i] = loadNode(i, gn, meshes)
	}
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) && c != i {
				nodes[i].AddChild(nodes[c])
			}
		}
	}

	for _, root := range sceneRoots(doc) {
		if root < len(nodes) && nodes[root].Parent() == nil {
			b.Root.AddChild(nodes[root])
		}
	}

	for ai, ga := range doc.Animations {
		clip, err := loadAnimation(doc, ai, ga, nodes)
		if err != nil {
			logger.Warn("skipping gltf animation",
				zap.String("bundle", name), zap.Int("animation", ai), zap.Error(err))
			continue
		}
		b.Clips = append(b.Clips, clip)
	}

	return b, nil
}

// sceneRoots returns the root node indices of the default scene, falling
// back to the first scene and then to every parentless node.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var (
	zeroMatrix     [16]float64
	identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
)

func loadNode(i int, gn *gltf.Node, meshes [][]*scene.Mesh) *scene.Node {
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", i)
	}
	n := scene.NewNode(name)

	if gn.Matrix != zeroMatrix && gn.Matrix != identityMatrix {
		var m math.Mat4
		for k, v := range gn.Matrix {
			m[k] = float32(v)
		}
		n.Position, n.Rotation, n.Scale = m.Decompose()
	} else {
		t := gn.TranslationOrDefault()
		n.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
		r := gn.RotationOrDefault()
		n.Rotation = math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
		s := gn.ScaleOrDefault()
		n.Scale = math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
	}

	if gn.Mesh != nil && *gn.Mesh < len(meshes) {
		n.Meshes = meshes[*gn.Mesh]
	}
	return n
}

func loadPrimitive(doc *gltf.Document, meshName string, idx int, prim *gltf.Primitive) (*scene.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	m := &scene.Mesh{
		Name:      fmt.Sprintf("%s_p%d", meshName, idx),
		Positions: positions,
	}
	if i, ok := prim.Attributes["NORMAL"]; ok {
		if m.Normals, err = modeler.ReadNormal(doc, doc.Accessors[i], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if i, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if m.UVs, err = modeler.ReadTextureCoord(doc, doc.Accessors[i], nil); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}
	if prim.Indices != nil {
		if m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	return m, nil
}

func loadMaterials(doc *gltf.Document, textures []*scene.Texture) []*scene.Material {
	materials := make([]*scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := scene.DefaultMaterial()
		mat.Name = gm.Name
		mat.DoubleSided = gm.DoubleSided

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.BaseColor = [4]float32{float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3])}
			if pbr.BaseColorTexture != nil {
				if idx := pbr.BaseColorTexture.Index; idx < len(textures) {
					mat.BaseColorTexture = textures[idx]
				}
			}
		}
		materials[i] = mat
	}
	return materials
}

// loadTextures decodes every texture image. Textures that fail to decode are
// logged and left nil so the mesh falls back to its base colour.
func (b *Bundle) loadTextures(doc *gltf.Document, fsys fs.FS) []*scene.Texture {
	textures := make([]*scene.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		img := doc.Images[*gt.Source]
		raw, err := imageBytes(doc, img, fsys)
		if err != nil {
			logger.Warn("gltf image unavailable", zap.Int("image", *gt.Source), zap.Error(err))
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image_%d", *gt.Source)
		}
		tex, err := DecodeTexture(name, raw)
		if err != nil {
			logger.Warn("gltf image decode failed", zap.String("image", name), zap.Error(err))
			continue
		}
		textures[i] = tex
		b.Textures = append(b.Textures, tex)
	}
	return textures
}

func imageBytes(doc *gltf.Document, img *gltf.Image, fsys fs.FS) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		return modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			return nil, err
		}
		return fs.ReadFile(fsys, uri)
	}
	return nil, errors.New("image has no data source")
}

// DecodeTexture decodes PNG, JPEG or WebP bytes into an RGBA8 texture.
func DecodeTexture(name string, data []byte) (*scene.Texture, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return &scene.Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}
