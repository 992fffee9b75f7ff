package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/loaders"
	"github.com/df07/go-meshtrace/pkg/scene"
	"github.com/urfave/cli"
)

// SceneFlags are shared by every command that takes a scene argument.
var SceneFlags = []cli.Flag{
	cli.Float64Flag{
		Name:  "scale",
		Value: 1.0,
		Usage: "uniform scale applied to mesh files",
	},
	cli.BoolFlag{
		Name:  "flat",
		Usage: "ignore vertex normals in mesh files",
	},
	cli.StringFlag{
		Name:  "albedo",
		Value: "0.8,0.8,0.0",
		Usage: "mesh color as r,g,b",
	},
}

// RenderFlags configure image size and sampling.
var RenderFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: 400,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 225,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 4,
		Usage: "samples per pixel",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "number of concurrent row workers (0 = one per CPU)",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 42,
		Usage: "seed for sample jitter",
	},
}

// loadScene resolves the scene argument: the builtin "spheres" scene, a
// YAML manifest, or an OBJ/PLY mesh. Render flags set on the command line
// override values from a manifest.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene argument (spheres, a .yaml manifest or a .obj/.ply mesh)")
	}
	arg := ctx.Args().First()

	var s *scene.Scene
	var err error
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml":
		s, err = scene.LoadManifest(arg)
	case ".obj", ".ply":
		var albedo core.Vec3
		if albedo, err = parseVec3(ctx.String("albedo")); err != nil {
			return nil, fmt.Errorf("invalid --albedo: %w", err)
		}
		opts := loaders.DefaultMeshOptions()
		opts.Scale = ctx.Float64("scale")
		opts.FlatShading = ctx.Bool("flat")
		s, err = scene.NewMeshScene(arg, albedo, opts)
	default:
		if arg != "spheres" {
			return nil, fmt.Errorf("unknown scene %q", arg)
		}
		s = scene.NewSphereScene()
	}
	if err != nil {
		return nil, err
	}

	applyRenderFlags(ctx, s)
	return s, nil
}

func applyRenderFlags(ctx *cli.Context, s *scene.Scene) {
	if ctx.IsSet("width") {
		s.Config.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		s.Config.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		s.Config.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("workers") {
		s.Config.NumWorkers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		s.Config.Seed = ctx.Int64("seed")
	}
}

func parseVec3(value string) (core.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected r,g,b, got %q", value)
	}
	var xyz [3]float64
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q", part)
		}
		xyz[i] = value
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}
