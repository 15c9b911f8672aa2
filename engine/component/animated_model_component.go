package component

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/event"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

type queuedEvent int

// maxLoopEventsPerUpdate bounds the loop events one update can queue when a step spans many loops.
const maxLoopEventsPerUpdate = 1 << 16

const (
	queuedCompletion queuedEvent = iota
	queuedLooped
)

type animatedModelComponent struct {
	owner game_object.GameObject

	model     model.Model
	materials []material.Material

	state     playbackState
	cache     poseCache
	blendType animator.BlendType

	playbackType PlaybackType
	position     float32
	blendline    float32
	speed        float32
	finished     bool

	attachments []attachment

	shadowCasting bool
	renderLayer   uint32

	changedEvent    event.Event[AnimatedModelComponent]
	completionEvent event.Event[AnimatedModelComponent]
	loopedEvent     event.Event[AnimatedModelComponent]
	queued          []queuedEvent
}

// AnimatedModelComponent renders a skinned model and drives its skeletal animation.
//
// The component owns one active animation group and, while a crossfade runs, one fading group frozen at the
// pose it had when the fade began. Every update advances the playback clock, samples the active group, blends
// the fading group on top with a weight that decays to zero over the fade time, builds the bone matrices and
// snaps attached entities to their bones. During render snapshot traversal it submits one render object per
// mesh with a skinning palette allocated from the frame allocator.
//
// Using a model or material that is not loaded, or any other contract violation, panics. A component is not
// safe for concurrent use; the scene drives each component from one goroutine at a time.
type AnimatedModelComponent interface {
	game_object.RenderComponent
	game_object.PoseComponent

	// Owner returns the GameObject the component was added to, or nil.
	//
	// Returns:
	//   - game_object.GameObject: the owner
	Owner() game_object.GameObject

	// SetModel replaces the model, resizes the material list to the mesh count and resets all animation state.
	// Materials at indices the new model still has are kept; new slots must be assigned before rendering.
	//
	// Parameters:
	//   - m: a loaded model with a skeleton
	SetModel(m model.Model)

	// SetModelWithMaterial replaces the model and assigns mat to every mesh.
	//
	// Parameters:
	//   - m: a loaded model with a skeleton
	//   - mat: a loaded material
	SetModelWithMaterial(m model.Model, mat material.Material)

	// SetModelWithMaterials replaces the model and assigns one material per mesh.
	//
	// Parameters:
	//   - m: a loaded model with a skeleton
	//   - mats: loaded materials, exactly one per mesh
	SetModelWithMaterials(m model.Model, mats []material.Material)

	// Model returns the current model, or nil.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// SetMaterial assigns mat to every mesh.
	//
	// Parameters:
	//   - mat: a loaded material
	SetMaterial(mat material.Material)

	// SetMaterialForMesh assigns mat to one mesh.
	//
	// Parameters:
	//   - mat: a loaded material
	//   - meshIndex: the mesh index
	SetMaterialForMesh(mat material.Material, meshIndex int)

	// SetMaterialForMeshName assigns mat to the named mesh.
	//
	// Parameters:
	//   - mat: a loaded material
	//   - meshName: the mesh name, which must exist
	SetMaterialForMeshName(mat material.Material, meshName string)

	// Material returns the material of one mesh, which may be nil if it was never assigned.
	//
	// Parameters:
	//   - meshIndex: the mesh index
	//
	// Returns:
	//   - material.Material: the material
	Material(meshIndex int) material.Material

	// Materials returns a copy of the per-mesh material list.
	//
	// Returns:
	//   - []material.Material: one entry per mesh
	Materials() []material.Material

	// SetAnimation replaces every animation with clip at blendline position 0, with no crossfade.
	//
	// Parameters:
	//   - clip: the clip to play
	//   - playbackType: once or looping
	SetAnimation(clip *model.AnimationClip, playbackType PlaybackType)

	// AttachAnimation adds clip to the active group at a blendline position.
	//
	// Parameters:
	//   - clip: the clip to add
	//   - blendlinePosition: the clip's coordinate on the blendline
	AttachAnimation(clip *model.AnimationClip, blendlinePosition float32)

	// DetachAnimation removes clip from the active group.
	//
	// Parameters:
	//   - clip: the clip to remove
	DetachAnimation(clip *model.AnimationClip)

	// FadeTo crossfades from the current animation to clip over fadeOutTime seconds.
	// When the current group has no sampled pose yet there is nothing to fade from and the switch is immediate.
	//
	// Parameters:
	//   - clip: the clip to fade to
	//   - playbackType: the playback type of the new animation
	//   - blendType: the curve shaping the crossfade
	//   - fadeOutTime: the crossfade duration in seconds
	FadeTo(clip *model.AnimationClip, playbackType PlaybackType, blendType animator.BlendType, fadeOutTime float32)

	// FadeOut fades the current animation out over fadeOutTime seconds, leaving an empty active group.
	//
	// Parameters:
	//   - blendType: the curve shaping the fade
	//   - fadeOutTime: the fade duration in seconds
	FadeOut(blendType animator.BlendType, fadeOutTime float32)

	// ClearAnimations removes every animation, cancels any fade and rewinds playback.
	ClearAnimations()

	// Animations returns the clips of the active group ordered by blendline position.
	//
	// Returns:
	//   - []*model.AnimationClip: the clips
	Animations() []*model.AnimationClip

	// SetBlendlinePosition moves the sampling coordinate on the blendline.
	//
	// Parameters:
	//   - position: the blendline coordinate
	SetBlendlinePosition(position float32)

	// BlendlinePosition returns the sampling coordinate on the blendline.
	//
	// Returns:
	//   - float32: the blendline coordinate
	BlendlinePosition() float32

	// SetPlaybackPosition moves the playback clock, clamped to [0, AnimationLength].
	//
	// Parameters:
	//   - position: the time in seconds
	SetPlaybackPosition(position float32)

	// SetPlaybackPositionNormalized moves the playback clock to a fraction of the animation length.
	//
	// Parameters:
	//   - position: the fraction in [0, 1]
	SetPlaybackPositionNormalized(position float32)

	// PlaybackPosition returns the playback clock in seconds.
	//
	// Returns:
	//   - float32: the position
	PlaybackPosition() float32

	// PlaybackPositionNormalized returns the playback clock as a fraction of the animation length.
	//
	// Returns:
	//   - float32: the fraction, 0 when the length is 0
	PlaybackPositionNormalized() float32

	// PlaybackType returns the current playback type.
	//
	// Returns:
	//   - PlaybackType: once or looping
	PlaybackType() PlaybackType

	// SetPlaybackType changes the playback type without touching the clock.
	//
	// Parameters:
	//   - playbackType: once or looping
	SetPlaybackType(playbackType PlaybackType)

	// PlaybackSpeedMultiplier returns the factor applied to delta time. Negative values play backwards.
	//
	// Returns:
	//   - float32: the multiplier
	PlaybackSpeedMultiplier() float32

	// SetPlaybackSpeedMultiplier sets the factor applied to delta time.
	//
	// Parameters:
	//   - speed: the multiplier
	SetPlaybackSpeedMultiplier(speed float32)

	// AnimationLength returns the length of the longest clip in the active group.
	//
	// Returns:
	//   - float32: the length in seconds
	AnimationLength() float32

	// IsFinished reports whether a once animation reached its end.
	//
	// Returns:
	//   - bool: true once finished
	IsFinished() bool

	// IsFading reports whether a crossfade is in progress.
	//
	// Returns:
	//   - bool: true while fading
	IsFading() bool

	// FadeProgress returns how far the crossfade has run.
	//
	// Returns:
	//   - float32: fraction in [0, 1], 0 when not fading
	FadeProgress() float32

	// UpdateAnimation advances playback by deltaTime and rebuilds the pose, bone matrices and attachments.
	// It is PreparePose followed by CommitPose.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	UpdateAnimation(deltaTime float32)

	// AttachEntity makes entity a child of the owner that follows the named bone every update.
	// Attaching an entity that already has a parent logs a warning and does nothing.
	//
	// Parameters:
	//   - entity: an entity with no parent that is not in a scene
	//   - boneName: a bone of the model's skeleton
	AttachEntity(entity game_object.GameObject, boneName string)

	// DetachEntity stops entity following its bone and removes it from the owner.
	//
	// Parameters:
	//   - entity: the attached entity
	DetachEntity(entity game_object.GameObject)

	// DetachAllEntities detaches every attached entity.
	DetachAllEntities()

	// AttachedEntities returns the live attached entities.
	//
	// Returns:
	//   - []game_object.GameObject: the entities
	AttachedEntities() []game_object.GameObject

	// BoneMatrix returns the model-space matrix of the named bone, rebuilding a stale pose first.
	//
	// Parameters:
	//   - boneName: the bone name
	//
	// Returns:
	//   - mgl32.Mat4: the bone matrix
	//   - bool: false when the bone does not exist or no pose is available
	BoneMatrix(boneName string) (mgl32.Mat4, bool)

	// AABB returns the world-space axis-aligned bounds of the model's local bounds.
	//
	// Returns:
	//   - common.AABB: the bounds
	AABB() common.AABB

	// BoundingSphere returns a sphere around AABB with a radius of half its diagonal.
	//
	// Returns:
	//   - common.Sphere: the sphere
	BoundingSphere() common.Sphere

	// OOBB returns the model's local bounds together with the owner's world matrix.
	//
	// Returns:
	//   - common.OOBB: the oriented box
	OOBB() common.OOBB

	// Reset detaches every entity and replaces all animation state with a fresh empty group.
	Reset()

	// ShadowCasting reports whether render objects cast shadows.
	//
	// Returns:
	//   - bool: the flag
	ShadowCasting() bool

	// SetShadowCastingEnabled sets whether render objects cast shadows.
	//
	// Parameters:
	//   - enabled: the flag
	SetShadowCastingEnabled(enabled bool)

	// RenderLayer returns the render layer bitmask.
	//
	// Returns:
	//   - uint32: the layer mask
	RenderLayer() uint32

	// SetRenderLayer sets the render layer bitmask.
	//
	// Parameters:
	//   - layer: the layer mask
	SetRenderLayer(layer uint32)

	// AnimationChangedEvent fires when the animation set is replaced, faded or cleared.
	//
	// Returns:
	//   - *event.Event[AnimatedModelComponent]: the event
	AnimationChangedEvent() *event.Event[AnimatedModelComponent]

	// AnimationCompletionEvent fires once when a once animation reaches its end.
	//
	// Returns:
	//   - *event.Event[AnimatedModelComponent]: the event
	AnimationCompletionEvent() *event.Event[AnimatedModelComponent]

	// AnimationLoopedEvent fires every time a looping animation wraps.
	//
	// Returns:
	//   - *event.Event[AnimatedModelComponent]: the event
	AnimationLoopedEvent() *event.Event[AnimatedModelComponent]
}

var _ AnimatedModelComponent = &animatedModelComponent{}

// NewAnimatedModelComponent creates a new AnimatedModelComponent configured with the given options.
// Apply WithModel before WithAnimation.
//
// Parameters:
//   - options: functional options to configure the component
//
// Returns:
//   - AnimatedModelComponent: the component
func NewAnimatedModelComponent(options ...AnimatedModelComponentBuilderOption) AnimatedModelComponent {
	c := &animatedModelComponent{
		speed:         1,
		shadowCasting: true,
		renderLayer:   1,
	}
	c.cache.rebuild = func() { c.UpdateAnimation(0) }
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *animatedModelComponent) assertModel() {
	if c.model == nil {
		panic("component: model is not set")
	}
}

func (c *animatedModelComponent) assertOwner() {
	if c.owner == nil {
		panic("component: not added to a game object")
	}
}

func assertModelLoaded(m model.Model) {
	if m == nil {
		panic("component: model cannot be nil")
	}
	if m.LoadState() != common.LoadStateLoaded {
		panic(fmt.Sprintf("component: model %q is %s, not loaded", m.Name(), m.LoadState()))
	}
	if m.Skeleton() == nil {
		panic(fmt.Sprintf("component: model %q has no skeleton", m.Name()))
	}
}

func assertMaterialLoaded(mat material.Material) {
	if mat == nil {
		panic("component: material cannot be nil")
	}
	if mat.LoadState() != common.LoadStateLoaded {
		panic(fmt.Sprintf("component: material %q is %s, not loaded", mat.Name(), mat.LoadState()))
	}
}

// --- Lifecycle ---

func (c *animatedModelComponent) OnAddedToGameObject(obj game_object.GameObject) {
	c.owner = obj
}

func (c *animatedModelComponent) OnAddedToScene() {
	c.cache.invalidate()
}

func (c *animatedModelComponent) OnRemovedFromScene() {
	c.DetachAllEntities()
}

func (c *animatedModelComponent) OnUpdate(deltaTime float32) {
	c.UpdateAnimation(deltaTime)
}

func (c *animatedModelComponent) Owner() game_object.GameObject {
	return c.owner
}

// --- Model & materials ---

func (c *animatedModelComponent) SetModel(m model.Model) {
	assertModelLoaded(m)
	meshes := m.MeshCount()
	switch {
	case len(c.materials) > meshes:
		clear(c.materials[meshes:])
		c.materials = c.materials[:meshes]
	case len(c.materials) < meshes:
		c.materials = append(c.materials, make([]material.Material, meshes-len(c.materials))...)
	}
	c.model = m
	c.Reset()
}

func (c *animatedModelComponent) SetModelWithMaterial(m model.Model, mat material.Material) {
	assertMaterialLoaded(mat)
	c.SetModel(m)
	c.SetMaterial(mat)
}

func (c *animatedModelComponent) SetModelWithMaterials(m model.Model, mats []material.Material) {
	assertModelLoaded(m)
	if len(mats) != m.MeshCount() {
		panic(fmt.Sprintf("component: %d materials for %d meshes", len(mats), m.MeshCount()))
	}
	for _, mat := range mats {
		assertMaterialLoaded(mat)
	}
	c.SetModel(m)
	copy(c.materials, mats)
}

func (c *animatedModelComponent) Model() model.Model {
	return c.model
}

func (c *animatedModelComponent) SetMaterial(mat material.Material) {
	assertMaterialLoaded(mat)
	for i := range c.materials {
		c.materials[i] = mat
	}
}

func (c *animatedModelComponent) SetMaterialForMesh(mat material.Material, meshIndex int) {
	assertMaterialLoaded(mat)
	if meshIndex < 0 || meshIndex >= len(c.materials) {
		panic(fmt.Sprintf("component: mesh index %d out of range [0, %d)", meshIndex, len(c.materials)))
	}
	c.materials[meshIndex] = mat
}

func (c *animatedModelComponent) SetMaterialForMeshName(mat material.Material, meshName string) {
	c.assertModel()
	i := c.model.MeshIndexByName(meshName)
	if i < 0 {
		panic(fmt.Sprintf("component: model %q has no mesh %q", c.model.Name(), meshName))
	}
	c.SetMaterialForMesh(mat, i)
}

func (c *animatedModelComponent) Material(meshIndex int) material.Material {
	return c.materials[meshIndex]
}

func (c *animatedModelComponent) Materials() []material.Material {
	return append([]material.Material(nil), c.materials...)
}

// --- Animation set ---

func (c *animatedModelComponent) SetAnimation(clip *model.AnimationClip, playbackType PlaybackType) {
	c.assertModel()
	c.assertClip(clip)
	c.state.active.ClearAnimations()
	c.state.active.AttachAnimation(clip, 0)
	c.state.fade = nil
	c.playbackType = playbackType
	c.position = 0
	c.finished = false
	c.cache.invalidate()
	c.changedEvent.Emit(c)
}

func (c *animatedModelComponent) AttachAnimation(clip *model.AnimationClip, blendlinePosition float32) {
	c.assertModel()
	c.assertClip(clip)
	c.state.active.AttachAnimation(clip, blendlinePosition)
	c.cache.invalidate()
}

// assertClip panics unless clip targets bones of the component's skeleton.
func (c *animatedModelComponent) assertClip(clip *model.AnimationClip) {
	if clip == nil {
		panic("component: animation cannot be nil")
	}
	if err := clip.Validate(c.model.Skeleton()); err != nil {
		panic(fmt.Sprintf("component: animation %q does not fit model %q: %v", clip.Name, c.model.Name(), err))
	}
}

func (c *animatedModelComponent) DetachAnimation(clip *model.AnimationClip) {
	c.assertModel()
	c.state.active.DetachAnimation(clip)
	c.cache.invalidate()
}

func (c *animatedModelComponent) FadeTo(clip *model.AnimationClip, playbackType PlaybackType, blendType animator.BlendType, fadeOutTime float32) {
	c.assertModel()
	c.assertClip(clip)
	c.fadeOut(blendType, fadeOutTime)
	c.state.active.AttachAnimation(clip, 0)
	c.playbackType = playbackType
	c.changedEvent.Emit(c)
}

func (c *animatedModelComponent) FadeOut(blendType animator.BlendType, fadeOutTime float32) {
	c.assertModel()
	c.fadeOut(blendType, fadeOutTime)
	c.changedEvent.Emit(c)
}

// fadeOut moves a prepared active group into the fading slot, or clears it when there is nothing to fade from,
// then starts a fresh active group at playback position 0.
func (c *animatedModelComponent) fadeOut(blendType animator.BlendType, fadeOutTime float32) {
	if c.state.active.IsPrepared() {
		c.state.fade = newFadeState(c.state.active, blendType, fadeOutTime, c.position, c.blendline)
		common.Logger().Debug("component: crossfade started",
			"blend", blendType.String(),
			"duration", fadeOutTime,
			"from_position", c.position,
		)
	} else {
		c.state.active.ClearAnimations()
	}
	c.state.active = animator.NewSkinnedAnimationGroup(c.model.Skeleton())
	c.position = 0
	c.finished = false
	c.cache.invalidate()
}

func (c *animatedModelComponent) ClearAnimations() {
	c.assertModel()
	c.state.active.ClearAnimations()
	c.state.fade = nil
	c.position = 0
	c.finished = false
	c.cache.invalidate()
	c.changedEvent.Emit(c)
}

func (c *animatedModelComponent) Animations() []*model.AnimationClip {
	if c.state.active == nil {
		return nil
	}
	return c.state.active.Animations()
}

// --- Playback clock ---

func (c *animatedModelComponent) SetBlendlinePosition(position float32) {
	c.blendline = position
	c.cache.invalidate()
}

func (c *animatedModelComponent) BlendlinePosition() float32 {
	return c.blendline
}

func (c *animatedModelComponent) SetPlaybackPosition(position float32) {
	length := c.AnimationLength()
	c.position = min(max(position, 0), length)
	if c.position < length {
		c.finished = false
	}
	c.cache.invalidate()
}

func (c *animatedModelComponent) SetPlaybackPositionNormalized(position float32) {
	c.SetPlaybackPosition(common.Clamp01(position) * c.AnimationLength())
}

func (c *animatedModelComponent) PlaybackPosition() float32 {
	return c.position
}

func (c *animatedModelComponent) PlaybackPositionNormalized() float32 {
	length := c.AnimationLength()
	if length <= 0 {
		return 0
	}
	return c.position / length
}

func (c *animatedModelComponent) PlaybackType() PlaybackType {
	return c.playbackType
}

func (c *animatedModelComponent) SetPlaybackType(playbackType PlaybackType) {
	c.playbackType = playbackType
	if playbackType == PlaybackTypeLooping {
		c.finished = false
	}
}

func (c *animatedModelComponent) PlaybackSpeedMultiplier() float32 {
	return c.speed
}

func (c *animatedModelComponent) SetPlaybackSpeedMultiplier(speed float32) {
	c.speed = speed
}

func (c *animatedModelComponent) AnimationLength() float32 {
	if c.state.active == nil {
		return 0
	}
	return c.state.active.AnimationLength()
}

func (c *animatedModelComponent) IsFinished() bool {
	return c.finished
}

func (c *animatedModelComponent) IsFading() bool {
	return c.state.isFading()
}

func (c *animatedModelComponent) FadeProgress() float32 {
	if !c.state.isFading() {
		return 0
	}
	return 1 - c.state.fade.outgoingWeight()
}

// --- Per-frame update ---

func (c *animatedModelComponent) UpdateAnimation(deltaTime float32) {
	c.PreparePose(deltaTime)
	c.CommitPose()
}

func (c *animatedModelComponent) PreparePose(deltaTime float32) {
	c.assertModel()
	c.advanceClock(deltaTime)

	active := c.state.active
	active.BuildAnimationData(c.blendType, c.position, c.blendline)

	if fade := c.state.fade; fade != nil {
		if fade.complete() {
			c.state.fade = nil
			common.Logger().Debug("component: crossfade complete")
		} else {
			fade.group.BuildAnimationData(c.blendType, fade.position, fade.blendline)
			active.BlendGroup(fade.blendType, fade.group, fade.outgoingWeight())
		}
	}

	active.BuildMatrices()
	if group, isActive := c.state.sampleable(); group != nil && !isActive {
		group.BuildMatrices()
	}
}

// advanceClock moves the playback position and fade timer, queueing completion and loop events.
func (c *animatedModelComponent) advanceClock(deltaTime float32) {
	length := c.AnimationLength()

	switch c.playbackType {
	case PlaybackTypeLooping:
		c.finished = false
		c.position += deltaTime * c.speed
		if length > 0 {
			wraps := math.Floor(float64(c.position) / float64(length))
			if wraps != 0 {
				c.position = float32(float64(c.position) - wraps*float64(length))
				// float32 rounding can land exactly on length
				if c.position >= length || c.position < 0 {
					c.position = 0
				}
				for range int(min(math.Abs(wraps), maxLoopEventsPerUpdate)) {
					c.queued = append(c.queued, queuedLooped)
				}
			}
		} else {
			c.position = 0
		}
	default:
		if c.finished {
			break
		}
		c.position += deltaTime * c.speed
		end := c.position >= length || (c.speed < 0 && c.position <= 0)
		c.position = min(max(c.position, 0), length)
		// an empty group has nothing to complete
		if end && len(c.state.active.Animations()) > 0 {
			c.finished = true
			c.queued = append(c.queued, queuedCompletion)
		}
	}

	if c.state.fade != nil {
		c.state.fade.timer += deltaTime
	}
}

func (c *animatedModelComponent) CommitPose() {
	c.updateAttachments()
	c.cache.markFresh()

	queued := c.queued
	c.queued = c.queued[:0]
	for _, q := range queued {
		switch q {
		case queuedCompletion:
			c.completionEvent.Emit(c)
		case queuedLooped:
			c.loopedEvent.Emit(c)
		}
	}
}

// --- Rendering ---

func (c *animatedModelComponent) OnRenderSnapshot(snapshot *renderer.RenderSnapshot, allocator renderer.FrameAllocator) {
	c.assertModel()
	c.assertOwner()
	for _, mat := range c.materials {
		assertMaterialLoaded(mat)
	}

	c.cache.rebuildIfStale()
	group, _ := c.state.sampleable()
	if group == nil {
		panic(fmt.Sprintf("component: model %q has no prepared animation to render", c.model.Name()))
	}

	world := c.owner.WorldMatrix()
	for i := 0; i < c.model.MeshCount(); i++ {
		mesh := c.model.Mesh(i)
		palette := group.BuildRenderSkinnedAnimation(allocator, mesh.InverseBindPoseMatrices)
		snapshot.AddRenderSkinnedAnimation(palette)
		snapshot.AddRenderObject(renderer.RenderObject{
			MaterialGroup:    c.materials[i].RenderMaterialGroup(),
			Mesh:             mesh.Handle,
			SkinnedAnimation: palette,
			WorldTransform:   world,
			BoundingSphere:   mesh.BoundingSphere.Transform(world),
			CastsShadow:      c.shadowCasting,
			Layer:            c.renderLayer,
		})
	}
}

func (c *animatedModelComponent) BoneMatrix(boneName string) (mgl32.Mat4, bool) {
	if c.model == nil {
		return mgl32.Mat4{}, false
	}
	bone := c.model.Skeleton().NodeIndexByName(boneName)
	if bone < 0 {
		return mgl32.Mat4{}, false
	}
	c.cache.rebuildIfStale()
	group, _ := c.state.sampleable()
	if group == nil {
		return mgl32.Mat4{}, false
	}
	return group.MatrixAtIndex(int(bone)), true
}

// --- Bounds ---

func (c *animatedModelComponent) AABB() common.AABB {
	c.assertModel()
	c.assertOwner()
	return c.model.AABB().Transform(c.owner.WorldMatrix())
}

func (c *animatedModelComponent) BoundingSphere() common.Sphere {
	return c.AABB().BoundingSphere()
}

func (c *animatedModelComponent) OOBB() common.OOBB {
	c.assertModel()
	c.assertOwner()
	return common.OOBB{Local: c.model.AABB(), Transform: c.owner.WorldMatrix()}
}

// --- Reset & flags ---

func (c *animatedModelComponent) Reset() {
	c.assertModel()
	c.DetachAllEntities()
	c.state = playbackState{active: animator.NewSkinnedAnimationGroup(c.model.Skeleton())}
	c.position = 0
	c.blendline = 0
	c.finished = false
	c.queued = c.queued[:0]
	c.cache.invalidate()
}

func (c *animatedModelComponent) ShadowCasting() bool {
	return c.shadowCasting
}

func (c *animatedModelComponent) SetShadowCastingEnabled(enabled bool) {
	c.shadowCasting = enabled
}

func (c *animatedModelComponent) RenderLayer() uint32 {
	return c.renderLayer
}

func (c *animatedModelComponent) SetRenderLayer(layer uint32) {
	c.renderLayer = layer
}

func (c *animatedModelComponent) AnimationChangedEvent() *event.Event[AnimatedModelComponent] {
	return &c.changedEvent
}

func (c *animatedModelComponent) AnimationCompletionEvent() *event.Event[AnimatedModelComponent] {
	return &c.completionEvent
}

func (c *animatedModelComponent) AnimationLoopedEvent() *event.Event[AnimatedModelComponent] {
	return &c.loopedEvent
}
