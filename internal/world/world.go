// Package world aggregates the models that finished loading.
package world

import (
	"github.com/Faultbox/spacescene/internal/engine/anim"
	"github.com/Faultbox/spacescene/internal/engine/scene"
	"github.com/Faultbox/spacescene/internal/placement"
)

// LoadedModel is a placed model ready to be drawn. Player is nil for static
// models; animated models get their player before they are published, so a
// model is never visible without it.
type LoadedModel struct {
	Spec   placement.Spec
	Node   *scene.Node
	Player *anim.Player
}

// Aggregator is the ordered collection of loaded models. It has a single
// writer, the render thread, and is not safe for concurrent use.
type Aggregator struct {
	scene  *scene.Scene
	models []*LoadedModel
}

// NewAggregator creates an aggregator publishing into s.
func NewAggregator(s *scene.Scene) *Aggregator {
	return &Aggregator{scene: s}
}

// Add publishes m: its node joins the scene and it is appended to the
// collection. Models only ever get added.
func (a *Aggregator) Add(m *LoadedModel) {
	if a.scene != nil && m.Node != nil {
		a.scene.Add(m.Node)
	}
	a.models = append(a.models, m)
}

// Models returns the loaded models in insertion order. The slice must not be
// modified.
func (a *Aggregator) Models() []*LoadedModel {
	return a.models
}

// Len returns the number of loaded models.
func (a *Aggregator) Len() int {
	return len(a.models)
}

// Advance steps every model that has an animation player by dt seconds.
func (a *Aggregator) Advance(dt float32) {
	for _, m := range a.models {
		if m.Player != nil {
			m.Player.Update(dt)
		}
	}
}
