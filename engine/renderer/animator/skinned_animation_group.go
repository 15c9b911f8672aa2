package animator

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// attachedClip is one clip of a group together with its coordinate on the blendline.
type attachedClip struct {
	clip      *model.AnimationClip
	blendline float32
}

// skinnedAnimationGroup is the implementation of the SkinnedAnimationGroup interface.
type skinnedAnimationGroup struct {
	skeleton *model.Skeleton
	clips    []attachedClip

	local    []model.Transform
	scratch  []model.Transform
	world    []mgl32.Mat4
	prepared bool
}

// SkinnedAnimationGroup samples and blends a set of animation clips on one skeleton.
//
// Clips are attached at positions along a blendline. Building the animation data samples the two clips
// bracketing the requested blendline position and blends them into one local pose; a second group can
// then be blended on top for crossfades before the pose is turned into world-space bone matrices.
//
// A group owns its pose buffers exclusively and is not safe for concurrent use, but distinct groups
// sharing the same skeleton and clips can be driven from different goroutines.
type SkinnedAnimationGroup interface {
	// Skeleton returns the skeleton the group animates.
	//
	// Returns:
	//   - *model.Skeleton: the shared skeleton
	Skeleton() *model.Skeleton

	// AttachAnimation adds a clip at the given blendline position.
	// Clips sharing a position keep their attach order and the first one attached is sampled.
	//
	// Parameters:
	//   - clip: the clip to attach, must not be nil
	//   - blendlinePosition: the clip's coordinate on the blendline
	AttachAnimation(clip *model.AnimationClip, blendlinePosition float32)

	// DetachAnimation removes the first attachment of clip. Unknown clips are ignored.
	//
	// Parameters:
	//   - clip: the clip to detach
	DetachAnimation(clip *model.AnimationClip)

	// ClearAnimations removes every clip and marks the group as not prepared.
	ClearAnimations()

	// Animations returns the attached clips ordered by blendline position.
	//
	// Returns:
	//   - []*model.AnimationClip: a new slice of the attached clips
	Animations() []*model.AnimationClip

	// IsPrepared reports whether the group holds a sampled pose.
	//
	// Returns:
	//   - bool: true once BuildAnimationData or BlendGroup produced data
	IsPrepared() bool

	// BuildAnimationData samples the attached clips at position and blends the two clips that bracket
	// blendlinePosition. Positions beyond either end of the blendline use the end clip alone.
	// With no clips attached the pose is reset to the bind pose and the prepared state is left as is.
	//
	// Parameters:
	//   - blendType: the curve applied to the factor between the two bracketing clips
	//   - position: the playback time in seconds
	//   - blendlinePosition: the blend coordinate to sample at
	BuildAnimationData(blendType BlendType, position, blendlinePosition float32)

	// BlendGroup blends other's pose into this group's pose. factor is the weight of other
	// (this group keeps 1 - factor) before shaping by blendType. An unprepared other group leaves
	// this group unchanged.
	//
	// Parameters:
	//   - blendType: the curve applied to factor
	//   - other: the group to blend in, on the same skeleton
	//   - factor: the weight of other in [0, 1]
	BlendGroup(blendType BlendType, other SkinnedAnimationGroup, factor float32)

	// BuildMatrices converts the local pose into model-space bone matrices, walking the skeleton root to leaf.
	BuildMatrices()

	// BuildRenderSkinnedAnimation builds the skinning palette (bone matrix * inverse bind pose) in memory
	// taken from the frame allocator. Panics when the group is not prepared or the inverse bind pose count
	// does not match the bone count.
	//
	// Parameters:
	//   - allocator: the frame arena the palette is allocated from
	//   - inverseBindPoseMatrices: one matrix per bone, usually from the render mesh
	//
	// Returns:
	//   - *renderer.RenderSkinnedAnimation: the palette, valid until the allocator is reset
	BuildRenderSkinnedAnimation(allocator renderer.FrameAllocator, inverseBindPoseMatrices []mgl32.Mat4) *renderer.RenderSkinnedAnimation

	// AnimationLength returns the duration of the longest attached clip, or 0 without clips.
	//
	// Returns:
	//   - float32: the length in seconds
	AnimationLength() float32

	// MatrixAtIndex returns the model-space matrix of one bone as of the last BuildMatrices.
	//
	// Parameters:
	//   - boneIndex: the bone index
	//
	// Returns:
	//   - mgl32.Mat4: the bone matrix
	MatrixAtIndex(boneIndex int) mgl32.Mat4

	// Pose returns the local pose buffer. The slice is owned by the group.
	//
	// Returns:
	//   - []model.Transform: one local transform per bone
	Pose() []model.Transform

	// Matrices returns the model-space bone matrices. The slice is owned by the group.
	//
	// Returns:
	//   - []mgl32.Mat4: one matrix per bone
	Matrices() []mgl32.Mat4
}

var _ SkinnedAnimationGroup = &skinnedAnimationGroup{}

// NewSkinnedAnimationGroup creates an empty, unprepared group for skeleton.
//
// Parameters:
//   - skeleton: the skeleton to animate, must not be nil
//   - options: a variadic list of SkinnedAnimationGroupBuilderOption functions
//
// Returns:
//   - SkinnedAnimationGroup: the new group
func NewSkinnedAnimationGroup(skeleton *model.Skeleton, options ...SkinnedAnimationGroupBuilderOption) SkinnedAnimationGroup {
	if skeleton == nil {
		panic("animator: skeleton cannot be nil")
	}
	n := skeleton.BoneCount()
	g := &skinnedAnimationGroup{
		skeleton: skeleton,
		local:    make([]model.Transform, n),
		scratch:  make([]model.Transform, n),
		world:    make([]mgl32.Mat4, n),
	}
	skeleton.BindPose(g.local)
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *skinnedAnimationGroup) Skeleton() *model.Skeleton {
	return g.skeleton
}

func (g *skinnedAnimationGroup) AttachAnimation(clip *model.AnimationClip, blendlinePosition float32) {
	if clip == nil {
		panic("animator: cannot attach a nil animation")
	}
	at := sort.Search(len(g.clips), func(i int) bool { return g.clips[i].blendline > blendlinePosition })
	g.clips = append(g.clips, attachedClip{})
	copy(g.clips[at+1:], g.clips[at:])
	g.clips[at] = attachedClip{clip: clip, blendline: blendlinePosition}
}

func (g *skinnedAnimationGroup) DetachAnimation(clip *model.AnimationClip) {
	for i := range g.clips {
		if g.clips[i].clip == clip {
			g.clips = append(g.clips[:i], g.clips[i+1:]...)
			return
		}
	}
}

func (g *skinnedAnimationGroup) ClearAnimations() {
	clear(g.clips)
	g.clips = g.clips[:0]
	g.prepared = false
}

func (g *skinnedAnimationGroup) Animations() []*model.AnimationClip {
	out := make([]*model.AnimationClip, len(g.clips))
	for i := range g.clips {
		out[i] = g.clips[i].clip
	}
	return out
}

func (g *skinnedAnimationGroup) IsPrepared() bool {
	return g.prepared
}

func (g *skinnedAnimationGroup) BuildAnimationData(blendType BlendType, position, blendlinePosition float32) {
	if len(g.clips) == 0 {
		g.skeleton.BindPose(g.local)
		return
	}

	lo, hi := g.bracket(blendlinePosition)
	g.clips[lo].clip.Sample(position, g.skeleton, g.local)
	if lo != hi {
		a, b := g.clips[lo].blendline, g.clips[hi].blendline
		g.clips[hi].clip.Sample(position, g.skeleton, g.scratch)
		t := blendType.Shape((blendlinePosition - a) / (b - a))
		for i := range g.local {
			g.local[i] = model.LerpTransform(g.local[i], g.scratch[i], t)
		}
	}
	g.prepared = true
}

// bracket returns the indices of the clips surrounding blendlinePosition. Both indices are equal when
// the position is at or beyond an end of the blendline or lands exactly on a clip.
func (g *skinnedAnimationGroup) bracket(blendlinePosition float32) (int, int) {
	firstAt := func(i int) int {
		for i > 0 && g.clips[i-1].blendline == g.clips[i].blendline {
			i--
		}
		return i
	}

	last := len(g.clips) - 1
	if blendlinePosition <= g.clips[0].blendline {
		return 0, 0
	}
	if blendlinePosition >= g.clips[last].blendline {
		top := firstAt(last)
		return top, top
	}
	hi := sort.Search(len(g.clips), func(i int) bool { return g.clips[i].blendline > blendlinePosition })
	lo := firstAt(hi - 1)
	if g.clips[lo].blendline == blendlinePosition {
		return lo, lo
	}
	return lo, hi
}

func (g *skinnedAnimationGroup) BlendGroup(blendType BlendType, other SkinnedAnimationGroup, factor float32) {
	if other == nil || !other.IsPrepared() {
		return
	}
	pose := other.Pose()
	if len(pose) != len(g.local) {
		panic(fmt.Sprintf("animator: cannot blend groups with %d and %d bones", len(g.local), len(pose)))
	}
	t := blendType.Shape(factor)
	for i := range g.local {
		g.local[i] = model.LerpTransform(g.local[i], pose[i], t)
	}
	g.prepared = true
}

func (g *skinnedAnimationGroup) BuildMatrices() {
	for i := range g.skeleton.Bones {
		local := g.local[i].Matrix()
		if parent := g.skeleton.Bones[i].ParentIndex; parent >= 0 {
			g.world[i] = g.world[parent].Mul4(local)
		} else {
			g.world[i] = local
		}
	}
}

func (g *skinnedAnimationGroup) BuildRenderSkinnedAnimation(allocator renderer.FrameAllocator, inverseBindPoseMatrices []mgl32.Mat4) *renderer.RenderSkinnedAnimation {
	if !g.prepared {
		panic("animator: cannot build a skinned animation from an unprepared group")
	}
	if len(inverseBindPoseMatrices) != len(g.world) {
		panic(fmt.Sprintf("animator: %d inverse bind pose matrices for %d bones", len(inverseBindPoseMatrices), len(g.world)))
	}
	out := allocator.AllocMatrices(len(g.world))
	for i := range g.world {
		out[i] = g.world[i].Mul4(inverseBindPoseMatrices[i])
	}
	return &renderer.RenderSkinnedAnimation{Matrices: out}
}

func (g *skinnedAnimationGroup) AnimationLength() float32 {
	var length float32
	for i := range g.clips {
		length = max(length, g.clips[i].clip.Duration)
	}
	return length
}

func (g *skinnedAnimationGroup) MatrixAtIndex(boneIndex int) mgl32.Mat4 {
	return g.world[boneIndex]
}

func (g *skinnedAnimationGroup) Pose() []model.Transform {
	return g.local
}

func (g *skinnedAnimationGroup) Matrices() []mgl32.Mat4 {
	return g.world
}
