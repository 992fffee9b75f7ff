package main

import (
	"os"

	"github.com/df07/go-meshtrace/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "meshtrace"
	app.Usage = "ray trace triangle meshes with a bounding volume hierarchy"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "per-module levels, e.g. loaders=debug,renderer=warning",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Load a scene, build a BVH over its primitives and render it with one
headlight-shaded primary ray per sample.

The scene argument is "spheres" for the builtin test scene, a YAML manifest
or a single .obj/.ply mesh that is framed automatically.`,
			ArgsUsage: "scene",
			Flags: append(append([]cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "output.png",
					Usage: "image filename for the rendered frame",
				},
				cli.BoolFlag{
					Name:  "linear",
					Usage: "trace against the flat primitive list instead of the BVH",
				},
			}, cmd.RenderFlags...), cmd.SceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "stats",
			Usage:     "build the BVH for a scene and print its statistics",
			ArgsUsage: "scene",
			Flags:     cmd.SceneFlags,
			Action:    cmd.ShowStats,
		},
		{
			Name:  "compare",
			Usage: "check BVH traversal against the flat list and time both",
			Description: `
Trace a grid of camera rays through the flat primitive list and through the
BVH. Exits with status 2 if any ray reports a different nearest hit.`,
			ArgsUsage: "scene",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "grid",
					Value: 128,
					Usage: "trace grid x grid rays",
				},
			}, cmd.SceneFlags...),
			Action: cmd.CompareScene,
		},
	}
	return app
}

func main() {
	newApp().Run(os.Args)
}
