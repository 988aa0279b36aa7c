// Package loader loads placed models from the asset store concurrently.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Faultbox/spacescene/internal/assets"
	"github.com/Faultbox/spacescene/internal/engine/anim"
	"github.com/Faultbox/spacescene/internal/engine/model"
	"github.com/Faultbox/spacescene/internal/logger"
	"github.com/Faultbox/spacescene/internal/placement"
	"github.com/Faultbox/spacescene/internal/world"
)

// ErrNoAnimation is returned for animated placements whose bundle has no
// clips.
var ErrNoAnimation = errors.New("model has no animation clips")

// LoadError reports a model that could not be loaded. The scene carries on
// without it.
type LoadError struct {
	ModelID string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.ModelID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the outcome of one placement. Exactly one of Model and Err is
// set. Index is the placement's position in the table passed to LoadAll.
type Result struct {
	Index int
	Spec  placement.Spec
	Model *world.LoadedModel
	Err   error
}

// Loader fetches and decodes bundles.
type Loader struct {
	assets *assets.Manager
	format string
	sem    *semaphore.Weighted
}

// New creates a loader reading models/<id>/scene.<format> from m with at most
// maxConcurrent loads in flight.
func New(m *assets.Manager, format string, maxConcurrent int) *Loader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Loader{
		assets: m,
		format: format,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Load builds one placed model. The returned model is complete: its node
// carries the placement transform and, for animated placements, the player
// of the first clip is already playing.
func (l *Loader) Load(ctx context.Context, spec placement.Spec) (*world.LoadedModel, error) {
	m, err := l.load(ctx, spec)
	if err != nil {
		return nil, &LoadError{ModelID: spec.ModelID, Err: err}
	}
	return m, nil
}

func (l *Loader) load(ctx context.Context, spec placement.Spec) (*world.LoadedModel, error) {
	name := assets.ModelPath(spec.ModelID, l.format)
	data, err := l.assets.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	bundle, err := model.Decode(bytes.NewReader(data), l.assets.FS(ctx, path.Dir(name)), spec.ModelID)
	if err != nil {
		return nil, err
	}

	node := bundle.Root
	node.Scale = spec.Scale
	node.Position = spec.Position
	node.SetEuler(spec.Rotation)

	lm := &world.LoadedModel{Spec: spec, Node: node}
	if spec.Animated {
		if len(bundle.Clips) == 0 {
			return nil, ErrNoAnimation
		}
		lm.Player = anim.NewPlayer(bundle.Clips[0])
		lm.Player.Play()
	}
	return lm, nil
}

// LoadAll starts one load per spec and returns a channel that yields every
// result as it settles, in no particular order. The channel is closed once
// all loads have settled. A failing or slow load does not hold back the
// others.
func (l *Loader) LoadAll(ctx context.Context, specs []placement.Spec) <-chan Result {
	results := make(chan Result, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.run(ctx, i, spec)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func (l *Loader) run(ctx context.Context, i int, spec placement.Spec) Result {
	r := Result{Index: i, Spec: spec}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		r.Err = &LoadError{ModelID: spec.ModelID, Err: err}
		return r
	}
	defer l.sem.Release(1)

	start := time.Now()
	logger.Debug("loading model", zap.String("model", spec.ModelID), zap.Int("index", i))
	r.Model, r.Err = l.Load(ctx, spec)
	logger.Debug("model settled",
		zap.String("model", spec.ModelID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", r.Err == nil),
	)
	return r
}

// Gather runs LoadAll and waits for every result. Results are ordered by
// their index in specs.
func (l *Loader) Gather(ctx context.Context, specs []placement.Spec) []Result {
	out := make([]Result, len(specs))
	for r := range l.LoadAll(ctx, specs) {
		out[r.Index] = r
	}
	return out
}
