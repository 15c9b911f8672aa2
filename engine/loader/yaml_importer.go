package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// yamlImporter converts a decoded yamlAsset into engine resources.
// nextHandle hands out mesh and material group handles for entries that do not name one.
type yamlImporter struct {
	nextHandle func() uint64
}

func (im *yamlImporter) importAsset(doc *yamlAsset) (*Asset, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: asset has no name", ErrInvalidAsset)
	}

	skeleton, err := im.importSkeleton(doc.Skeleton)
	if err != nil {
		return nil, err
	}

	library, err := im.importMaterials(doc.Materials)
	if err != nil {
		return nil, err
	}

	meshes := make([]model.RenderMesh, len(doc.Meshes))
	meshMaterials := make([]material.Material, len(doc.Meshes))
	for i, m := range doc.Meshes {
		meshes[i] = model.RenderMesh{Name: m.Name, Handle: im.nextHandle()}
		if m.BoundingSphere != nil {
			center, err := vec3(m.BoundingSphere.Center, mgl32.Vec3{})
			if err != nil {
				return nil, fmt.Errorf("%w: mesh %q bounding sphere: %v", ErrInvalidAsset, m.Name, err)
			}
			meshes[i].BoundingSphere = common.Sphere{Center: center, Radius: m.BoundingSphere.Radius}
		}
		if m.Material == "" {
			continue
		}
		mat, ok := library[m.Material]
		if !ok {
			return nil, fmt.Errorf("%w: mesh %q uses unknown material %q", ErrInvalidAsset, m.Name, m.Material)
		}
		meshMaterials[i] = mat
	}

	clips := make([]*model.AnimationClip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := importClip(&doc.Animations[i], skeleton)
		if err != nil {
			return nil, err
		}
		clips[i] = clip
	}

	var aabb common.AABB
	if doc.AABB != nil {
		if aabb.Min, err = vec3(doc.AABB.Min, mgl32.Vec3{}); err == nil {
			aabb.Max, err = vec3(doc.AABB.Max, mgl32.Vec3{})
		}
		if err != nil {
			return nil, fmt.Errorf("%w: aabb: %v", ErrInvalidAsset, err)
		}
	} else {
		aabb = boundsFromSkeleton(skeleton)
	}

	return &Asset{
		Name: doc.Name,
		Model: model.NewModel(
			model.WithName(doc.Name),
			model.WithSkeleton(skeleton),
			model.WithMeshes(meshes...),
			model.WithAnimations(clips...),
			model.WithAABB(aabb),
		),
		MeshMaterials: meshMaterials,
		Materials:     library,
	}, nil
}

// importSkeleton resolves parent names and sorts bones so that parents come before children.
func (im *yamlImporter) importSkeleton(docs []yamlBone) (*model.Skeleton, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: skeleton has no bones", ErrInvalidAsset)
	}

	nameToIndex := make(map[string]int32, len(docs))
	for i, b := range docs {
		if _, dup := nameToIndex[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bone %q", ErrInvalidAsset, b.Name)
		}
		nameToIndex[b.Name] = int32(i)
	}

	bones := make([]model.Bone, len(docs))
	inverseBind := make(map[string]mgl32.Mat4)
	var roots []int32
	for i, b := range docs {
		local, err := importTransform(b.Translation, b.Rotation, b.Scale)
		if err != nil {
			return nil, fmt.Errorf("%w: bone %q: %v", ErrInvalidAsset, b.Name, err)
		}
		parent := int32(-1)
		if b.Parent != "" {
			p, ok := nameToIndex[b.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: bone %q has unknown parent %q", ErrInvalidAsset, b.Name, b.Parent)
			}
			parent = p
		} else {
			roots = append(roots, int32(i))
		}
		if b.InverseBind != nil {
			if len(b.InverseBind) != 16 {
				return nil, fmt.Errorf("%w: bone %q inverse_bind has %d values, want 16", ErrInvalidAsset, b.Name, len(b.InverseBind))
			}
			inverseBind[b.Name] = mgl32.Mat4(b.InverseBind)
		}
		bones[i] = model.Bone{Name: b.Name, ParentIndex: parent, LocalTransform: local}
	}

	sorted := topologicalSortBones(bones, roots)
	skeleton, err := model.NewSkeleton(sorted)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	skeleton.ComputeInverseBindMatrices()
	for name, m := range inverseBind {
		skeleton.Bones[skeleton.NodeIndexByName(name)].InverseBindMatrix = m
	}
	return skeleton, nil
}

// topologicalSortBones orders bones breadth-first from the roots and remaps parent indices.
// Bones unreachable from a root (parent cycles) are appended unchanged and rejected by NewSkeleton.
func topologicalSortBones(bones []model.Bone, roots []int32) []model.Bone {
	children := make(map[int32][]int32)
	for i, bone := range bones {
		if bone.ParentIndex >= 0 {
			children[bone.ParentIndex] = append(children[bone.ParentIndex], int32(i))
		}
	}

	sorted := make([]int32, 0, len(bones))
	queue := append([]int32(nil), roots...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		sorted = append(sorted, idx)
		queue = append(queue, children[idx]...)
	}
	if len(sorted) < len(bones) {
		visited := make(map[int32]bool, len(sorted))
		for _, idx := range sorted {
			visited[idx] = true
		}
		for i := range bones {
			if !visited[int32(i)] {
				sorted = append(sorted, int32(i))
			}
		}
	}

	oldToNew := make(map[int32]int32, len(sorted))
	for newIdx, oldIdx := range sorted {
		oldToNew[oldIdx] = int32(newIdx)
	}
	out := make([]model.Bone, len(bones))
	for newIdx, oldIdx := range sorted {
		bone := bones[oldIdx]
		if bone.ParentIndex >= 0 {
			bone.ParentIndex = oldToNew[bone.ParentIndex]
		}
		out[newIdx] = bone
	}
	return out
}

func (im *yamlImporter) importMaterials(docs []yamlMaterial) (map[string]material.Material, error) {
	library := make(map[string]material.Material, len(docs))
	for _, m := range docs {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: material has no name", ErrInvalidAsset)
		}
		if _, dup := library[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrInvalidAsset, m.Name)
		}
		group := m.Group
		if group == 0 {
			group = im.nextHandle()
		}
		options := []material.MaterialBuilderOption{
			material.WithName(m.Name),
			material.WithRenderMaterialGroup(group),
			material.WithMetallic(m.Metallic),
		}
		if m.Roughness != nil {
			options = append(options, material.WithRoughness(*m.Roughness))
		}
		if m.BaseColor != nil {
			if len(m.BaseColor) != 4 {
				return nil, fmt.Errorf("%w: material %q base_color has %d values, want 4", ErrInvalidAsset, m.Name, len(m.BaseColor))
			}
			options = append(options, material.WithBaseColor([4]float32(m.BaseColor)))
		}
		library[m.Name] = material.NewMaterial(options...)
	}
	return library, nil
}

func importClip(doc *yamlClip, skeleton *model.Skeleton) (*model.AnimationClip, error) {
	clip := &model.AnimationClip{Name: doc.Name, Duration: doc.Duration}
	var maxTime float32
	for _, ch := range doc.Channels {
		bone := skeleton.NodeIndexByName(ch.Bone)
		if bone < 0 {
			return nil, fmt.Errorf("%w: clip %q animates unknown bone %q", ErrInvalidAsset, doc.Name, ch.Bone)
		}
		channel := model.AnimationChannel{BoneIndex: bone}
		var err error
		if channel.PositionKeys, err = vectorKeys(ch.Position); err != nil {
			return nil, fmt.Errorf("%w: clip %q bone %q position: %v", ErrInvalidAsset, doc.Name, ch.Bone, err)
		}
		if channel.ScaleKeys, err = vectorKeys(ch.Scale); err != nil {
			return nil, fmt.Errorf("%w: clip %q bone %q scale: %v", ErrInvalidAsset, doc.Name, ch.Bone, err)
		}
		if channel.RotationKeys, err = quaternionKeys(ch.Rotation); err != nil {
			return nil, fmt.Errorf("%w: clip %q bone %q rotation: %v", ErrInvalidAsset, doc.Name, ch.Bone, err)
		}
		for _, k := range ch.Position {
			maxTime = max(maxTime, k.Time)
		}
		for _, k := range ch.Rotation {
			maxTime = max(maxTime, k.Time)
		}
		for _, k := range ch.Scale {
			maxTime = max(maxTime, k.Time)
		}
		clip.Channels = append(clip.Channels, channel)
	}
	clip.Duration = common.Coalesce(clip.Duration, maxTime)

	if err := clip.Validate(skeleton); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	return clip, nil
}

func vectorKeys(keys []yamlKey) ([]model.VectorKeyframe, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([]model.VectorKeyframe, len(keys))
	for i, k := range keys {
		v, err := vec3(k.Value, mgl32.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		out[i] = model.VectorKeyframe{Time: k.Time, Value: v}
	}
	return out, nil
}

func quaternionKeys(keys []yamlKey) ([]model.QuaternionKeyframe, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([]model.QuaternionKeyframe, len(keys))
	for i, k := range keys {
		q, err := quat(k.Value)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		out[i] = model.QuaternionKeyframe{Time: k.Time, Value: q}
	}
	return out, nil
}

func importTransform(translation, rotation, scale []float32) (model.Transform, error) {
	t := model.IdentityTransform()
	var err error
	if t.Translation, err = vec3(translation, t.Translation); err != nil {
		return t, fmt.Errorf("translation: %w", err)
	}
	if t.Scale, err = vec3(scale, t.Scale); err != nil {
		return t, fmt.Errorf("scale: %w", err)
	}
	if rotation != nil {
		if t.Rotation, err = quat(rotation); err != nil {
			return t, fmt.Errorf("rotation: %w", err)
		}
	}
	return t, nil
}

// vec3 converts a 3-element list, returning fallback for a missing one.
func vec3(v []float32, fallback mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return fallback, fmt.Errorf("got %d values, want 3", len(v))
	}
}

// quat converts an x, y, z, w list into a normalized quaternion.
func quat(v []float32) (mgl32.Quat, error) {
	if len(v) != 4 {
		return mgl32.QuatIdent(), fmt.Errorf("got %d values, want 4", len(v))
	}
	q := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
	if q.Len() == 0 {
		return mgl32.QuatIdent(), fmt.Errorf("zero quaternion")
	}
	return q.Normalize(), nil
}

// boundsFromSkeleton returns the box around every bone's bind position, padded so a single bone still has volume.
func boundsFromSkeleton(s *model.Skeleton) common.AABB {
	world := s.BindPoseWorldMatrices()
	box := common.AABB{Min: world[0].Col(3).Vec3(), Max: world[0].Col(3).Vec3()}
	for _, m := range world[1:] {
		p := m.Col(3).Vec3()
		for i := range 3 {
			box.Min[i] = min(box.Min[i], p[i])
			box.Max[i] = max(box.Max[i], p[i])
		}
	}
	pad := mgl32.Vec3{0.1, 0.1, 0.1}
	box.Min = box.Min.Sub(pad)
	box.Max = box.Max.Add(pad)
	return box
}
