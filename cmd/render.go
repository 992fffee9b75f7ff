package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/renderer"
	"github.com/urfave/cli"
)

// RenderFrame renders a still frame and writes it as PNG.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	s, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var world geometry.Primitive = s.Objects
	if ctx.Bool("linear") {
		logger.Notice("rendering without BVH")
	} else {
		if err := s.Preprocess(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		world = s.World
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := renderer.Render(runCtx, world, s.Camera(), s.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	out := ctx.String("out")
	if err := renderer.SavePNG(img, out); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	logger.Noticef("wrote %s (%v, %.0f rays/s)", out, stats, stats.RaysPerSecond())
	return nil
}
