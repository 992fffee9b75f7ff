package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of primary rays traced
	Hits         int           // Primary rays that hit the scene
	Duration     time.Duration // Wall clock time of the render
}

// HitRatio returns the fraction of primary rays that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalSamples)
}

// RaysPerSecond returns primary ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d pixels, %d rays (%.1f%% hit) in %v",
		s.TotalPixels, s.TotalSamples, 100*s.HitRatio(), s.Duration.Round(time.Millisecond))
}
