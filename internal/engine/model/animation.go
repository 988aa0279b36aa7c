package model

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/spacescene/internal/engine/anim"
	"github.com/Faultbox/spacescene/internal/engine/scene"
)

// loadAnimation converts a GLTF animation into a clip targeting nodes.
// Morph-target weight channels are not supported and are dropped.
func loadAnimation(doc *gltf.Document, idx int, ga *gltf.Animation, nodes []*scene.Node) (*anim.Clip, error) {
	name := ga.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", idx)
	}

	var channels []anim.Channel
	for ci, gc := range ga.Channels {
		if gc.Target.Node == nil || *gc.Target.Node >= len(nodes) {
			continue
		}
		path, ok := channelPath(gc.Target.Path)
		if !ok {
			continue
		}
		if gc.Sampler >= len(ga.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", ci, gc.Sampler)
		}
		gs := ga.Samplers[gc.Sampler]

		times, err := readTimes(doc, gs.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", ci, err)
		}
		values, err := readValues(doc, gs.Output)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", ci, err)
		}

		interp := interpolation(gs.Interpolation)
		want := len(times)
		if interp == anim.CubicSpline {
			want *= 3
		}
		if len(values) < want {
			return nil, fmt.Errorf("channel %d: %d values for %d keys", ci, len(values), len(times))
		}

		channels = append(channels, anim.Channel{
			Target:        nodes[*gc.Target.Node],
			Path:          path,
			Interpolation: interp,
			Times:         times,
			Values:        values[:want],
		})
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("animation %q has no supported channels", name)
	}
	return anim.NewClip(name, channels), nil
}

func channelPath(p gltf.TRSProperty) (anim.Path, bool) {
	switch p {
	case gltf.TRSTranslation:
		return anim.PathTranslation, true
	case gltf.TRSRotation:
		return anim.PathRotation, true
	case gltf.TRSScale:
		return anim.PathScale, true
	}
	return 0, false
}

func interpolation(i gltf.Interpolation) anim.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return anim.Step
	case gltf.InterpolationCubicSpline:
		return anim.CubicSpline
	}
	return anim.Linear
}

func readTimes(doc *gltf.Document, accessor int) ([]float32, error) {
	if accessor >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	times, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times have type %T, want []float32", data)
	}
	return times, nil
}

func readValues(doc *gltf.Document, accessor int) ([][4]float32, error) {
	if accessor >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		return v, nil
	}
	return nil, fmt.Errorf("keyframe values have type %T", data)
}
