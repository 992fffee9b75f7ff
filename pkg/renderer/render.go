package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/log"
	"golang.org/x/sync/errgroup"
)

var logger = log.New("renderer")

// Config controls image size and sampling
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Jittered primary rays per pixel
	NumWorkers      int   // Concurrent row workers (0 = runtime.NumCPU())
	Seed            int64 // Base seed for the per-row random sources
}

// DefaultConfig returns sensible defaults for a quick preview
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 4,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate reports configuration values that cannot produce an image
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

// AspectRatio returns width / height
func (c Config) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// shadingMinT skips self-intersections at the camera origin
const shadingMinT = 0.001

// Render traces the world through the camera, one errgroup task per row.
// Each row draws from its own random source so output does not depend on
// scheduling. Cancelling ctx stops the render between rows.
func Render(ctx context.Context, world geometry.Primitive, camera *Camera, cfg Config) (*image.RGBA, RenderStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	numWorkers := cfg.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}

	startTime := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	var rays, hits atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)

	for y := 0; y < cfg.Height; y++ {
		row := y
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rowRays, rowHits := renderRow(world, camera, cfg, row, img)
			rays.Add(int64(rowRays))
			hits.Add(int64(rowHits))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("render cancelled: %w", err)
	}

	stats := RenderStats{
		TotalPixels:  cfg.Width * cfg.Height,
		TotalSamples: int(rays.Load()),
		Hits:         int(hits.Load()),
		Duration:     time.Since(startTime),
	}
	logger.Infof("rendered %dx%d with %d workers: %v", cfg.Width, cfg.Height, numWorkers, stats)

	return img, stats, nil
}

// renderRow shades one image row. Row 0 is the top of the image.
func renderRow(world geometry.Primitive, camera *Camera, cfg Config, y int, img *image.RGBA) (int, int) {
	random := rand.New(rand.NewSource(cfg.Seed + int64(y)))
	rays, hits := 0, 0

	for x := 0; x < cfg.Width; x++ {
		var accum core.Vec3
		for sample := 0; sample < cfg.SamplesPerPixel; sample++ {
			s := (float64(x) + random.Float64()) / float64(cfg.Width)
			t := 1.0 - (float64(y)+random.Float64())/float64(cfg.Height)

			c, hit := RayColor(camera.GetRay(s, t), world)
			accum = accum.Add(c)
			rays++
			if hit {
				hits++
			}
		}
		img.SetRGBA(x, y, vec3ToColor(accum.Multiply(1.0/float64(cfg.SamplesPerPixel))))
	}

	return rays, hits
}

// RayColor shades a primary ray with a headlight term and returns whether
// it hit anything
func RayColor(ray core.Ray, world geometry.Primitive) (core.Vec3, bool) {
	hit, ok := world.Hit(ray, core.NewInterval(shadingMinT, math.Inf(1)))
	if !ok {
		return skyColor(ray), false
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	if hit.Material != nil {
		albedo = hit.Material.Albedo(hit.Point)
	}

	facing := math.Abs(hit.Normal.Dot(ray.Direction.Normalize().Negate()))
	return albedo.Multiply(0.2 + 0.8*facing), true
}

// skyColor blends white at the horizon to light blue overhead
func skyColor(ray core.Ray) core.Vec3 {
	unit := ray.Direction.Normalize()
	a := 0.5 * (unit.Y + 1.0)
	white := core.NewVec3(1.0, 1.0, 1.0)
	blue := core.NewVec3(0.5, 0.7, 1.0)
	return white.Multiply(1.0 - a).Add(blue.Multiply(a))
}

// vec3ToColor converts a Vec3 color to RGBA with clamping and gamma 2 correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = core.NewVec3(
		math.Sqrt(math.Max(0, colorVec.X)),
		math.Sqrt(math.Max(0, colorVec.Y)),
		math.Sqrt(math.Max(0, colorVec.Z)),
	).Clamp(0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
