package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidSkeleton is returned by NewSkeleton when the bone list violates the hierarchy rules.
var ErrInvalidSkeleton = errors.New("invalid skeleton")

// NewSkeleton builds a Skeleton from bones ordered root to leaf.
// Bone names must be unique and every parent index must refer to an earlier bone.
//
// Parameters:
//   - bones: the bone list, parents before children
//
// Returns:
//   - *Skeleton: the validated skeleton
//   - error: wraps ErrInvalidSkeleton when validation fails
func NewSkeleton(bones []Bone) (*Skeleton, error) {
	s := &Skeleton{
		Bones:           bones,
		BoneNameToIndex: make(map[string]int32, len(bones)),
	}
	for i, b := range bones {
		if b.Name == "" {
			return nil, fmt.Errorf("%w: bone %d has no name", ErrInvalidSkeleton, i)
		}
		if _, dup := s.BoneNameToIndex[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bone name %q", ErrInvalidSkeleton, b.Name)
		}
		if b.ParentIndex >= int32(i) || b.ParentIndex < -1 {
			return nil, fmt.Errorf("%w: bone %q has parent %d, must be -1 or below %d", ErrInvalidSkeleton, b.Name, b.ParentIndex, i)
		}
		s.BoneNameToIndex[b.Name] = int32(i)
		if b.ParentIndex == -1 {
			s.RootBoneIndices = append(s.RootBoneIndices, int32(i))
		}
	}
	return s, nil
}

// BoneCount returns the number of bones in the skeleton.
func (s *Skeleton) BoneCount() int {
	return len(s.Bones)
}

// NodeIndexByName returns the index of the named bone, or -1 when no bone has that name.
func (s *Skeleton) NodeIndexByName(name string) int32 {
	if idx, ok := s.BoneNameToIndex[name]; ok {
		return idx
	}
	return -1
}

// BindPose writes every bone's bind pose local transform into out.
// out must hold at least BoneCount entries.
func (s *Skeleton) BindPose(out []Transform) {
	for i := range s.Bones {
		out[i] = s.Bones[i].LocalTransform
	}
}

// BindPoseWorldMatrices returns the model-space matrix of every bone at bind pose.
func (s *Skeleton) BindPoseWorldMatrices() []mgl32.Mat4 {
	world := make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		local := b.LocalTransform.Matrix()
		if b.ParentIndex >= 0 {
			world[i] = world[b.ParentIndex].Mul4(local)
		} else {
			world[i] = local
		}
	}
	return world
}

// ComputeInverseBindMatrices fills every bone's InverseBindMatrix from its bind pose.
// Used when the asset does not provide the matrices explicitly.
func (s *Skeleton) ComputeInverseBindMatrices() {
	for i, w := range s.BindPoseWorldMatrices() {
		s.Bones[i].InverseBindMatrix = w.Inv()
	}
}

// InverseBindMatrices returns a copy of every bone's inverse bind matrix in bone order.
func (s *Skeleton) InverseBindMatrices() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		out[i] = b.InverseBindMatrix
	}
	return out
}
