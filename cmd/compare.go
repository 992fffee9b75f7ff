package cmd

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// compareTolerance bounds the difference in hit distance between the two
// traversals
const compareTolerance = 1e-9

// CompareResult summarizes tracing the same rays through two structures
type CompareResult struct {
	Rays       int
	Hits       int
	Mismatches int
	Linear     time.Duration
	BVH        time.Duration
}

// Speedup returns how many times faster the BVH traversal was
func (r CompareResult) Speedup() float64 {
	if r.BVH <= 0 {
		return math.Inf(1)
	}
	return float64(r.Linear) / float64(r.BVH)
}

// CompareTraversal traces a grid x grid set of camera rays through the flat
// list and the BVH and counts the rays where they disagree on whether there
// is a hit, its distance or its material.
func CompareTraversal(linear, bvh geometry.Primitive, camera *renderer.Camera, grid int) CompareResult {
	rays := make([]core.Ray, 0, grid*grid)
	for j := 0; j < grid; j++ {
		for i := 0; i < grid; i++ {
			s := (float64(i) + 0.5) / float64(grid)
			t := (float64(j) + 0.5) / float64(grid)
			rays = append(rays, camera.GetRay(s, t))
		}
	}

	rayT := core.NewInterval(0.001, math.Inf(1))
	trace := func(world geometry.Primitive) ([]*geometry.HitRecord, time.Duration) {
		records := make([]*geometry.HitRecord, len(rays))
		start := time.Now()
		for i, ray := range rays {
			if hit, ok := world.Hit(ray, rayT); ok {
				records[i] = hit
			}
		}
		return records, time.Since(start)
	}

	linearHits, linearTime := trace(linear)
	bvhHits, bvhTime := trace(bvh)

	result := CompareResult{Rays: len(rays), Linear: linearTime, BVH: bvhTime}
	for i := range rays {
		a, b := linearHits[i], bvhHits[i]
		switch {
		case a == nil && b == nil:
		case a == nil || b == nil:
			result.Mismatches++
		default:
			result.Hits++
			if math.Abs(a.T-b.T) > compareTolerance || a.Material != b.Material {
				result.Mismatches++
			}
		}
	}
	return result
}

// CompareScene checks that BVH traversal agrees with the flat list.
func CompareScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	s, err := loadScene(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	grid := ctx.Int("grid")
	if grid <= 0 {
		return cli.NewExitError(fmt.Sprintf("grid must be positive, got %d", grid), 1)
	}

	// Copy the list first since building the BVH reorders it
	linear := geometry.NewComposite(s.Objects.Primitives()...)
	if err := s.Preprocess(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	result := CompareTraversal(linear, s.World, s.Camera(), grid)

	var buf bytes.Buffer
	writeCompareResult(&buf, result)
	fmt.Fprint(ctx.App.Writer, buf.String())

	if result.Mismatches > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d rays disagree", result.Mismatches, result.Rays), 2)
	}
	return nil
}

func writeCompareResult(w io.Writer, result CompareResult) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Structure", "Rays", "Hits", "Time", "ns/ray"})
	perRay := func(d time.Duration) string {
		if result.Rays == 0 {
			return "-"
		}
		return fmt.Sprintf("%.0f", float64(d.Nanoseconds())/float64(result.Rays))
	}
	table.Append([]string{"linear", fmt.Sprintf("%d", result.Rays), fmt.Sprintf("%d", result.Hits), result.Linear.String(), perRay(result.Linear)})
	table.Append([]string{"bvh", fmt.Sprintf("%d", result.Rays), fmt.Sprintf("%d", result.Hits), result.BVH.String(), perRay(result.BVH)})
	table.SetFooter([]string{"", "", "MISMATCHES", fmt.Sprintf("%d", result.Mismatches), fmt.Sprintf("%.1fx", result.Speedup())})
	table.Render()
}
