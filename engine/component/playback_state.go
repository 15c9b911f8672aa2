package component

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PlaybackType controls what happens when playback reaches the end of the animation.
type PlaybackType int

const (
	// PlaybackTypeOnce plays to the end, stops and reports completion.
	PlaybackTypeOnce PlaybackType = iota
	// PlaybackTypeLooping wraps back to the start and reports every wrap.
	PlaybackTypeLooping
)

// String returns a readable name for the playback type.
func (p PlaybackType) String() string {
	switch p {
	case PlaybackTypeOnce:
		return "once"
	case PlaybackTypeLooping:
		return "looping"
	default:
		return "unknown"
	}
}

// fadeState is the outgoing half of a crossfade. Its group is frozen at the playback and blendline
// positions it had when the fade started.
type fadeState struct {
	group     animator.SkinnedAnimationGroup
	blendType animator.BlendType
	timer     float32
	maxTime   float32
	position  float32
	blendline float32
	weight    *gween.Tween
}

// newFadeState starts a fade whose outgoing weight falls linearly from 1 to 0 over maxTime.
// The blend type shapes that weight when the groups are blended.
func newFadeState(group animator.SkinnedAnimationGroup, blendType animator.BlendType, maxTime, position, blendline float32) *fadeState {
	return &fadeState{
		group:     group,
		blendType: blendType,
		maxTime:   maxTime,
		position:  position,
		blendline: blendline,
		weight:    gween.New(1, 0, maxTime, ease.Linear),
	}
}

// outgoingWeight returns the unshaped weight of the outgoing group at the current timer.
func (f *fadeState) outgoingWeight() float32 {
	w, _ := f.weight.Set(f.timer)
	return w
}

// complete reports whether the fade has run its course.
func (f *fadeState) complete() bool {
	return f.maxTime <= 0 || f.timer >= f.maxTime
}

// playbackState holds the active group and, only while a crossfade runs, the fading group.
// The fading group is reachable through fade alone, so a non-nil fade is the fading state.
type playbackState struct {
	active animator.SkinnedAnimationGroup
	fade   *fadeState
}

func (p *playbackState) isFading() bool {
	return p.fade != nil
}

// sampleable returns the group render reads should use: the active group when prepared, else the fading one.
func (p *playbackState) sampleable() (animator.SkinnedAnimationGroup, bool) {
	if p.active != nil && p.active.IsPrepared() {
		return p.active, true
	}
	if p.fade != nil && p.fade.group.IsPrepared() {
		return p.fade.group, false
	}
	return nil, false
}

// poseCache tracks whether the sampled pose matches the playback state.
type poseCache struct {
	dirty   bool
	rebuild func()
}

func (c *poseCache) invalidate() {
	c.dirty = true
}

func (c *poseCache) markFresh() {
	c.dirty = false
}

// rebuildIfStale runs the rebuild callback when the pose is out of date.
func (c *poseCache) rebuildIfStale() {
	if c.dirty {
		c.rebuild()
	}
}
