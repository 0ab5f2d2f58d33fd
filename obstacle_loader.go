package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// loadObstaclesFromDir loads obstacle rectangles from GeoJSON files. Each
// feature contributes the axis-aligned bounding box of its geometry; the
// engine only understands rectangles, so finer polygon detail is dropped
// at the door. Zero-area geometries (points, vertical/horizontal lines)
// are skipped.
func loadObstaclesFromDir(dir string) ([]Obstacle, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	var obstacles []Obstacle
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("⚠️  failed to read obstacle file", "file", file, "error", err)
			continue
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			slog.Warn("⚠️  failed to parse obstacle file", "file", file, "error", err)
			continue
		}

		count := 0
		for _, feature := range fc.Features {
			if feature.Geometry == nil {
				continue
			}
			b := feature.Geometry.Bound()
			width := b.Max.X() - b.Min.X()
			height := b.Max.Y() - b.Min.Y()
			if width <= 0 || height <= 0 {
				continue
			}
			obstacles = append(obstacles, Obstacle{
				X:      b.Min.X(),
				Y:      b.Min.Y(),
				Width:  width,
				Height: height,
			})
			count++
		}
		slog.Info("✅ loaded obstacles", "file", filepath.Base(file), "count", count)
	}

	return obstacles, nil
}
