package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/camera"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// boneRaster is a renderer backend that draws every skinned object as a stick figure of its bones.
// Each submitted snapshot becomes one frame of an animated WebP.
type boneRaster struct {
	mu sync.Mutex

	cam         camera.Camera
	size        int
	supersample int
	background  color.RGBA
	lineWidth   float32

	// joints holds the bind pose joint position of every bone, per mesh handle.
	joints  map[uint64][]mgl32.Vec3
	parents []int32
	colors  map[uint64]color.RGBA

	frames []image.Image
}

var _ renderer.RendererBackend = &boneRaster{}

func newBoneRaster(m model.Model, cam camera.Camera, size, supersample int) *boneRaster {
	if supersample < 1 {
		supersample = 1
	}
	r := &boneRaster{
		cam:         cam,
		size:        size,
		supersample: supersample,
		background:  color.RGBA{24, 24, 28, 255},
		lineWidth:   2,
		joints:      make(map[uint64][]mgl32.Vec3),
		colors:      make(map[uint64]color.RGBA),
	}
	for _, b := range m.Skeleton().Bones {
		r.parents = append(r.parents, b.ParentIndex)
	}
	for i := 0; i < m.MeshCount(); i++ {
		mesh := m.Mesh(i)
		joints := make([]mgl32.Vec3, len(mesh.InverseBindPoseMatrices))
		for j, ibm := range mesh.InverseBindPoseMatrices {
			joints[j] = ibm.Inv().Col(3).Vec3()
		}
		r.joints[mesh.Handle] = joints
	}
	return r
}

// setColor assigns the stroke color of a render material group.
func (r *boneRaster) setColor(group uint64, rgba [4]float32) {
	r.colors[group] = color.RGBA{
		R: uint8(clamp01(rgba[0]) * 255),
		G: uint8(clamp01(rgba[1]) * 255),
		B: uint8(clamp01(rgba[2]) * 255),
		A: 255,
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func (r *boneRaster) Submit(snapshot *renderer.RenderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	big := r.size * r.supersample
	canvas := image.NewRGBA(image.Rect(0, 0, big, big))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	seen := make(map[*renderer.RenderSkinnedAnimation]struct{})
	for _, obj := range snapshot.RenderObjects() {
		if obj.SkinnedAnimation == nil {
			continue
		}
		// meshes of one model share a pose, so draw each palette once
		if _, ok := seen[obj.SkinnedAnimation]; ok {
			continue
		}
		seen[obj.SkinnedAnimation] = struct{}{}

		joints, ok := r.joints[obj.Mesh]
		if !ok {
			return fmt.Errorf("posedump: unknown mesh handle %d", obj.Mesh)
		}
		col, ok := r.colors[obj.MaterialGroup]
		if !ok {
			col = color.RGBA{230, 230, 230, 255}
		}
		r.drawSkeleton(canvas, obj, joints, col)
	}

	frame := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.CatmullRom.Scale(frame, frame.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	r.frames = append(r.frames, frame)
	return nil
}

func (r *boneRaster) drawSkeleton(dst *image.RGBA, obj renderer.RenderObject, joints []mgl32.Vec3, col color.RGBA) {
	palette := obj.SkinnedAnimation.Matrices
	points := make([]mgl32.Vec2, len(palette))
	visible := make([]bool, len(palette))
	for i, m := range palette {
		world := obj.WorldTransform.Mul4(m).Mul4x1(joints[i].Vec4(1)).Vec3()
		points[i], visible[i] = r.toScreen(world)
	}

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	w := r.lineWidth * float32(r.supersample)
	for i, p := range r.parents {
		if visible[i] {
			addSquare(z, points[i], w*1.5)
		}
		if p < 0 || !visible[i] || !visible[p] {
			continue
		}
		addSegment(z, points[p], points[i], w)
	}
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// toScreen maps a world position to supersampled pixel coordinates.
func (r *boneRaster) toScreen(p mgl32.Vec3) (mgl32.Vec2, bool) {
	ndc, ok := r.cam.Project(p)
	if !ok {
		return mgl32.Vec2{}, false
	}
	big := float32(r.size * r.supersample)
	return mgl32.Vec2{(ndc.X() + 1) * 0.5 * big, (1 - ndc.Y()) * 0.5 * big}, true
}

// addSegment adds a quad of the given width around the segment a-b.
func addSegment(z *vector.Rasterizer, a, b mgl32.Vec2, width float32) {
	d := b.Sub(a)
	if d.Len() < 1e-3 {
		return
	}
	n := mgl32.Vec2{-d.Y(), d.X()}.Normalize().Mul(width * 0.5)
	z.MoveTo(a.X()+n.X(), a.Y()+n.Y())
	z.LineTo(b.X()+n.X(), b.Y()+n.Y())
	z.LineTo(b.X()-n.X(), b.Y()-n.Y())
	z.LineTo(a.X()-n.X(), a.Y()-n.Y())
	z.ClosePath()
}

func addSquare(z *vector.Rasterizer, c mgl32.Vec2, size float32) {
	h := size * 0.5
	z.MoveTo(c.X()-h, c.Y()-h)
	z.LineTo(c.X()+h, c.Y()-h)
	z.LineTo(c.X()+h, c.Y()+h)
	z.LineTo(c.X()-h, c.Y()+h)
	z.ClosePath()
}

// FrameCount returns the number of frames drawn so far.
func (r *boneRaster) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Encode writes the drawn frames as a looping animated WebP.
func (r *boneRaster) Encode(w io.Writer, frameMillis uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.frames) == 0 {
		return fmt.Errorf("posedump: no frames to encode")
	}
	ani := &nativewebp.Animation{
		Images:    r.frames,
		Durations: make([]uint, len(r.frames)),
		Disposals: make([]uint, len(r.frames)),
	}
	for i := range ani.Durations {
		ani.Durations[i] = frameMillis
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("posedump: encode: %w", err)
	}
	return nil
}
