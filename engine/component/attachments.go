package component

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// attachment is a weak reference to an entity that follows a bone.
type attachment struct {
	registry *game_object.Registry
	handle   game_object.Handle
	bone     int32
}

// resolve returns the attached entity if it is still alive and still parented to owner.
func (a attachment) resolve(owner game_object.GameObject) (game_object.GameObject, bool) {
	obj, ok := a.registry.Resolve(a.handle)
	if !ok || obj.Destroyed() || obj.Parent() != owner {
		return nil, false
	}
	return obj, true
}

func (c *animatedModelComponent) AttachEntity(entity game_object.GameObject, boneName string) {
	c.assertModel()
	c.assertOwner()
	if entity == nil {
		panic("component: cannot attach a nil entity")
	}
	if c.attachmentIndex(entity) >= 0 {
		panic("component: entity is already attached")
	}
	if entity.Parent() != nil {
		common.Logger().Warn("component: cannot attach an entity that already has a parent",
			"entity", entity.Name(),
			"bone", boneName,
		)
		return
	}
	if entity.Scene() != nil {
		panic("component: cannot attach an entity that is already in a scene")
	}
	bone := c.model.Skeleton().NodeIndexByName(boneName)
	if bone < 0 {
		panic("component: bone " + boneName + " does not exist in the skeleton")
	}

	c.attachments = append(c.attachments, attachment{
		registry: entity.Registry(),
		handle:   entity.Handle(),
		bone:     bone,
	})
	c.owner.AddChild(entity)
	if group, _ := c.state.sampleable(); group != nil {
		entity.SetLocalMatrix(group.MatrixAtIndex(int(bone)))
	}
	c.cache.invalidate()
}

func (c *animatedModelComponent) DetachEntity(entity game_object.GameObject) {
	i := c.attachmentIndex(entity)
	if i < 0 {
		return
	}
	c.attachments = append(c.attachments[:i], c.attachments[i+1:]...)
	if entity.Parent() == c.owner {
		entity.RemoveFromParent()
	}
}

func (c *animatedModelComponent) DetachAllEntities() {
	attachments := c.attachments
	c.attachments = nil
	for _, a := range attachments {
		if obj, ok := a.resolve(c.owner); ok {
			obj.RemoveFromParent()
		}
	}
}

func (c *animatedModelComponent) AttachedEntities() []game_object.GameObject {
	out := make([]game_object.GameObject, 0, len(c.attachments))
	for _, a := range c.attachments {
		if obj, ok := a.resolve(c.owner); ok {
			out = append(out, obj)
		}
	}
	return out
}

func (c *animatedModelComponent) attachmentIndex(entity game_object.GameObject) int {
	h := entity.Handle()
	reg := entity.Registry()
	for i, a := range c.attachments {
		if a.handle == h && a.registry == reg {
			return i
		}
	}
	return -1
}

// updateAttachments snaps every live attachment to its bone and prunes the dead ones.
func (c *animatedModelComponent) updateAttachments() {
	if len(c.attachments) == 0 {
		return
	}
	group, _ := c.state.sampleable()
	live := c.attachments[:0]
	for _, a := range c.attachments {
		obj, ok := a.resolve(c.owner)
		if !ok {
			continue
		}
		if group != nil {
			obj.SetLocalMatrix(group.MatrixAtIndex(int(a.bone)))
		}
		live = append(live, a)
	}
	clear(c.attachments[len(live):])
	c.attachments = live
}
