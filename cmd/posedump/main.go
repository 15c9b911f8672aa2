// Command posedump plays the animations of a YAML skeletal asset through the engine and writes the
// resulting poses as an animated WebP stick figure.
//
// Usage:
//
//	posedump -asset hero.yaml -clips walk,wave -switch 1.5 -out hero.webp
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/camera"
	"github.com/Carmen-Shannon/oxy-anim/engine/component"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type options struct {
	asset      string
	config     string
	out        string
	clips      []string
	once       bool
	switchTime float32
	fade       float32
	blend      string
	duration   float32
	fps        int
	size       int
	ss         int
	azimuth    float32
	elevation  float32
	spin       float32
}

func main() {
	configFile := flag.String("config", "", "Path to engine config YAML")
	asset := flag.String("asset", "", "Path to the asset YAML (required)")
	out := flag.String("out", "pose.webp", "Output animated WebP")
	clips := flag.String("clips", "", "Comma separated clip names to play in order (default: first clip)")
	once := flag.Bool("once", false, "Play clips once instead of looping")
	switchTime := flag.Float64("switch", 1, "Seconds between clip changes")
	fade := flag.Float64("fade", -1, "Crossfade time in seconds (default: config default_fade_time)")
	blend := flag.String("blend", "", "Crossfade blend type (default: config default_blend_type)")
	duration := flag.Float64("duration", 3, "Seconds of animation to record")
	fps := flag.Int("fps", 24, "Frames per second")
	size := flag.Int("size", 256, "Output size in pixels")
	ss := flag.Int("supersample", 2, "Supersampling factor")
	azimuth := flag.Float64("azimuth", 30, "Camera azimuth in degrees")
	elevation := flag.Float64("elevation", 15, "Camera elevation in degrees")
	spin := flag.Float64("spin", 0, "Camera orbit speed in degrees per second")
	verbose := flag.Bool("v", false, "Log at debug level")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := options{
		asset:      *asset,
		out:        *out,
		once:       *once,
		switchTime: float32(*switchTime),
		fade:       float32(*fade),
		blend:      *blend,
		duration:   float32(*duration),
		fps:        *fps,
		size:       *size,
		ss:         *ss,
		azimuth:    float32(*azimuth),
		elevation:  float32(*elevation),
		spin:       float32(*spin),
	}
	if *clips != "" {
		opts.clips = strings.Split(*clips, ",")
	}

	frames, err := run(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d frames to %s\n", frames, opts.out)
}

// run records the requested clips and writes the WebP. It returns the number of frames written.
func run(cfg *config.Config, opts options) (int, error) {
	if opts.asset == "" {
		return 0, errors.New("no asset given")
	}
	if opts.fps <= 0 || opts.size <= 0 || opts.duration <= 0 {
		return 0, fmt.Errorf("fps, size and duration must be positive")
	}
	if opts.fade < 0 {
		opts.fade = cfg.DefaultFadeTime
	}
	blendType := cfg.BlendType()
	if opts.blend != "" {
		bt, ok := animator.ParseBlendType(opts.blend)
		if !ok {
			return 0, fmt.Errorf("unknown blend type %q", opts.blend)
		}
		blendType = bt
	}

	ld := loader.NewLoader(loader.BackendTypeYAML)
	defer ld.Close()
	asset, err := ld.Load(opts.asset)
	if err != nil {
		return 0, err
	}

	clips, err := resolveClips(asset.Model, opts.clips)
	if err != nil {
		return 0, err
	}
	playback := component.PlaybackTypeLooping
	if opts.once {
		playback = component.PlaybackTypeOnce
	}

	sphere := asset.Model.AABB().BoundingSphere()
	ctrl := camera.NewOrbitController(
		camera.WithTarget(sphere.Center),
		camera.WithRadius(max(sphere.Radius, 0.5)*3),
		camera.WithAzimuth(mgl32.DegToRad(opts.azimuth)),
		camera.WithElevation(mgl32.DegToRad(opts.elevation)),
	)
	cam := camera.NewCamera(camera.WithController(ctrl), camera.WithAspect(1))

	raster := newBoneRaster(asset.Model, cam, opts.size, opts.ss)
	materials := make([]material.Material, len(asset.MeshMaterials))
	for i, mat := range asset.MeshMaterials {
		if mat == nil {
			mat = material.NewMaterial(material.WithName("default"))
		}
		materials[i] = mat
		raster.setColor(mat.RenderMaterialGroup(), mat.BaseColor())
	}

	anim := component.NewAnimatedModelComponent(
		component.WithModel(asset.Model, materials...),
		component.WithAnimation(clips[0], playback),
	)
	anim.AnimationCompletionEvent().Connect(func(c component.AnimatedModelComponent) {
		common.Logger().Info("posedump: animation finished", "position", c.PlaybackPosition())
	})

	sceneOpts := []scene.SceneBuilderOption{scene.WithCamera(cam)}
	if cfg.ComputeWorkers > 0 {
		sceneOpts = append(sceneOpts, scene.WithComputeWorkers(cfg.ComputeWorkers))
	}
	sc := scene.NewScene(asset.Name, sceneOpts...)
	defer sc.Close()
	sc.Add(sc.NewGameObject(game_object.WithName(asset.Name), game_object.WithComponents(anim)))

	r := renderer.NewRenderer(renderer.BackendTypeCustom, renderer.WithBackend(raster))
	e := engine.NewEngine(engine.WithConfig(cfg), engine.WithRenderer(r), engine.WithScene(0, sc))

	dt := 1 / float32(opts.fps)
	frames := int(math.Ceil(float64(opts.duration * float32(opts.fps))))
	var elapsed float32
	next := 1
	for range frames {
		if len(clips) > 1 && elapsed >= float32(next)*opts.switchTime {
			clip := clips[next%len(clips)]
			common.Logger().Debug("posedump: crossfade", "clip", clip.Name, "at", elapsed)
			anim.FadeTo(clip, playback, blendType, opts.fade)
			next++
		}
		if opts.spin != 0 {
			ctrl.Orbit(mgl32.DegToRad(opts.spin)*dt, 0)
		}
		if _, err := e.Step(dt); err != nil {
			return 0, err
		}
		elapsed += dt
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", opts.out, err)
	}
	defer f.Close()
	if err := raster.Encode(f, uint(1000/opts.fps)); err != nil {
		return 0, err
	}
	return raster.FrameCount(), nil
}

// resolveClips looks up the named clips, defaulting to the model's first clip.
func resolveClips(m model.Model, names []string) ([]*model.AnimationClip, error) {
	if len(names) == 0 {
		all := m.Animations()
		if len(all) == 0 {
			return nil, fmt.Errorf("model %q has no animations", m.Name())
		}
		return all[:1], nil
	}
	clips := make([]*model.AnimationClip, 0, len(names))
	for _, name := range names {
		clip := m.Animation(strings.TrimSpace(name))
		if clip == nil {
			return nil, fmt.Errorf("model %q has no animation %q", m.Name(), name)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}
