package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidClip is returned by AnimationClip.Validate.
var ErrInvalidClip = errors.New("invalid animation clip")

// Validate checks that every channel targets a bone of skeleton, that keys are sorted by time
// and that the duration is not negative.
//
// Parameters:
//   - skeleton: the skeleton the clip will be played on
//
// Returns:
//   - error: wraps ErrInvalidClip describing the first problem found, or nil
func (c *AnimationClip) Validate(skeleton *Skeleton) error {
	if c.Duration < 0 {
		return fmt.Errorf("%w: %q has negative duration %v", ErrInvalidClip, c.Name, c.Duration)
	}
	for i, ch := range c.Channels {
		if ch.BoneIndex < 0 || int(ch.BoneIndex) >= skeleton.BoneCount() {
			return fmt.Errorf("%w: %q channel %d targets bone %d of %d", ErrInvalidClip, c.Name, i, ch.BoneIndex, skeleton.BoneCount())
		}
		if !sort.SliceIsSorted(ch.PositionKeys, func(a, b int) bool { return ch.PositionKeys[a].Time < ch.PositionKeys[b].Time }) ||
			!sort.SliceIsSorted(ch.RotationKeys, func(a, b int) bool { return ch.RotationKeys[a].Time < ch.RotationKeys[b].Time }) ||
			!sort.SliceIsSorted(ch.ScaleKeys, func(a, b int) bool { return ch.ScaleKeys[a].Time < ch.ScaleKeys[b].Time }) {
			return fmt.Errorf("%w: %q channel %d has unsorted keys", ErrInvalidClip, c.Name, i)
		}
	}
	return nil
}

// Sample evaluates the clip at time t and writes one local transform per bone into out.
// Bones without a channel, and channel components without keys, keep the bind pose value.
// Times outside the key range clamp to the first or last key.
//
// Parameters:
//   - t: the sample time in seconds
//   - skeleton: the skeleton providing the bind pose
//   - out: destination, at least skeleton.BoneCount() long
func (c *AnimationClip) Sample(t float32, skeleton *Skeleton, out []Transform) {
	skeleton.BindPose(out)
	for i := range c.Channels {
		ch := &c.Channels[i]
		local := &out[ch.BoneIndex]
		if len(ch.PositionKeys) > 0 {
			local.Translation = sampleVector(ch.PositionKeys, t)
		}
		if len(ch.RotationKeys) > 0 {
			local.Rotation = sampleQuaternion(ch.RotationKeys, t)
		}
		if len(ch.ScaleKeys) > 0 {
			local.Scale = sampleVector(ch.ScaleKeys, t)
		}
	}
}

// keySpan finds the pair of keys surrounding t and the interpolation amount between them.
// When t is outside the key range both indices point at the clamped key.
func keySpan(n int, timeAt func(int) float32, t float32) (int, int, float32) {
	if n == 1 || t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, n - 1, 0
	}
	next := sort.Search(n, func(i int) bool { return timeAt(i) > t })
	prev := next - 1
	span := timeAt(next) - timeAt(prev)
	if span <= 0 {
		return next, next, 0
	}
	return prev, next, (t - timeAt(prev)) / span
}

func sampleVector(keys []VectorKeyframe, t float32) mgl32.Vec3 {
	a, b, amount := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value
	}
	return lerpVec3(keys[a].Value, keys[b].Value, amount)
}

func sampleQuaternion(keys []QuaternionKeyframe, t float32) mgl32.Quat {
	a, b, amount := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value.Normalize()
	}
	return nlerpQuat(keys[a].Value, keys[b].Value, amount)
}
