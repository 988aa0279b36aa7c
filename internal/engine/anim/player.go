package anim

import gomath "math"

// Player advances a single clip. It loops by default.
type Player struct {
	clip      *Clip
	time      float32
	playing   bool
	Loop      bool
	TimeScale float32
}

// NewPlayer binds clip to a new, stopped player.
func NewPlayer(clip *Clip) *Player {
	return &Player{
		clip:      clip,
		Loop:      true,
		TimeScale: 1,
	}
}

// Clip returns the bound clip.
func (p *Player) Clip() *Clip { return p.clip }

// Time returns the current playhead in seconds.
func (p *Player) Time() float32 { return p.time }

// Playing reports whether Update advances the playhead.
func (p *Player) Playing() bool { return p.playing }

// Play starts or resumes playback.
func (p *Player) Play() {
	p.playing = true
}

// Stop halts playback and rewinds to the start.
func (p *Player) Stop() {
	p.playing = false
	p.time = 0
}

// Update advances the playhead by dt seconds and poses the clip targets.
func (p *Player) Update(dt float32) {
	if !p.playing || p.clip == nil {
		return
	}

	p.time += dt * p.TimeScale
	if d := p.clip.Duration; d > 0 {
		switch {
		case p.Loop:
			p.time = float32(gomath.Mod(float64(p.time), float64(d)))
			if p.time < 0 {
				p.time += d
			}
		case p.time >= d:
			p.time = d
			p.playing = false
		case p.time < 0:
			p.time = 0
			p.playing = false
		}
	}

	p.clip.Apply(p.time)
}
