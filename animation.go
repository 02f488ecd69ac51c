package lumina

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a single value and hands every step to an apply function.
// Call Update(dt) each frame until Done.
type Tween struct {
	tween *gween.Tween
	apply func(float64)
	Done  bool
}

// NewTween creates a tween from from to to over duration seconds. A
// non-positive duration applies to on the first Update.
func NewTween(from, to float64, duration float32, fn ease.TweenFunc, apply func(float64)) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	if duration <= 0 {
		from, duration = to, 0.0001
	}
	return &Tween{tween: gween.New(float32(from), float32(to), duration, fn), apply: apply}
}

// Update advances the tween by dt seconds and applies the new value.
func (t *Tween) Update(dt float32) {
	if t.Done {
		return
	}
	val, finished := t.tween.Update(dt)
	if t.apply != nil {
		t.apply(float64(val))
	}
	t.Done = finished
}

// TweenGroup runs a set of keyed tweens. Starting a tween under a key that
// is already animating replaces the running one.
type TweenGroup struct {
	keys   []WidgetID
	tweens []*Tween
}

// Start adds t under key, replacing any tween already running for key.
func (g *TweenGroup) Start(key WidgetID, t *Tween) {
	for i, k := range g.keys {
		if k == key {
			g.tweens[i] = t
			return
		}
	}
	g.keys = append(g.keys, key)
	g.tweens = append(g.tweens, t)
}

// Stop drops the tween running under key, if any.
func (g *TweenGroup) Stop(key WidgetID) {
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i], g.keys[i+1:]...)
			g.tweens = append(g.tweens[:i], g.tweens[i+1:]...)
			return
		}
	}
}

// Update advances every tween and drops the finished ones. It reports
// whether any tween ran.
func (g *TweenGroup) Update(dt float32) bool {
	if len(g.tweens) == 0 {
		return false
	}
	n := 0
	for i, t := range g.tweens {
		t.Update(dt)
		if !t.Done {
			g.keys[n] = g.keys[i]
			g.tweens[n] = t
			n++
		}
	}
	clear(g.tweens[n:])
	g.keys = g.keys[:n]
	g.tweens = g.tweens[:n]
	return true
}

// Len returns the number of running tweens.
func (g *TweenGroup) Len() int { return len(g.tweens) }
