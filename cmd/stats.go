package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ShowStats builds the BVH for a scene and prints its shape.
func ShowStats(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	s, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	start := time.Now()
	if err := s.Preprocess(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	buildTime := time.Since(start)

	box, _ := s.BVH().BoundingBox()

	var buf bytes.Buffer
	writeBVHStats(&buf, s.Objects.Len(), s.BVH().Stats(), box.Min().String(), box.Max().String(), buildTime)
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func writeBVHStats(w io.Writer, primitives int, stats geometry.BVHStats, boxMin, boxMax string, buildTime time.Duration) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", stats.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgLeafDepth)})
	table.Append([]string{"Bounds min", boxMin})
	table.Append([]string{"Bounds max", boxMax})
	table.SetFooter([]string{"Build time", buildTime.String()})
	table.Render()
}
