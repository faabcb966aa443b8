package baseline

import (
	"fmt"
	"image/png"
	"os"
)

// ShotComparison is the result of comparing one screenshot against its
// baseline counterpart.
type ShotComparison struct {
	Name           string  `json:"name"`
	BaselinePath   string  `json:"baseline_path"`
	CurrentPath    string  `json:"current_path,omitempty"`
	Missing        bool    `json:"missing"`
	DimensionMatch bool    `json:"dimension_match"`
	SizeDeltaPct   float64 `json:"size_delta_pct"`
	Changed        bool    `json:"changed"`
}

// Comparison pairs a run's screenshots with a baseline run's.
type Comparison struct {
	Shots      []ShotComparison `json:"shots"`
	NewShots   []string         `json:"new_shots,omitempty"`
	ChangedNum int              `json:"changed"`
	MissingNum int              `json:"missing"`
}

// Clean reports whether the run matched its baseline everywhere.
func (c *Comparison) Clean() bool {
	return c.ChangedNum == 0 && c.MissingNum == 0
}

// sizeDeltaThresholdPct is how far a screenshot's byte size may drift
// from its baseline before the shot counts as changed.
const sizeDeltaThresholdPct = 10.0

// Compare pairs screenshots by name stem and flags dimension changes and
// large byte-size drifts. It is a coarse regression signal, not a pixel
// diff.
func Compare(baselinePaths, currentPaths []string) (*Comparison, error) {
	current := make(map[string]string, len(currentPaths))
	for _, path := range currentPaths {
		current[stem(path)] = path
	}

	comparison := &Comparison{}
	matched := make(map[string]struct{}, len(baselinePaths))

	for _, basePath := range baselinePaths {
		name := stem(basePath)
		shot := ShotComparison{Name: name, BaselinePath: basePath}

		currentPath, ok := current[name]
		if !ok {
			shot.Missing = true
			comparison.MissingNum++
			comparison.Shots = append(comparison.Shots, shot)
			continue
		}
		matched[name] = struct{}{}
		shot.CurrentPath = currentPath

		baseInfo, err := imageInfo(basePath)
		if err != nil {
			return nil, err
		}
		currentInfo, err := imageInfo(currentPath)
		if err != nil {
			return nil, err
		}

		shot.DimensionMatch = baseInfo.width == currentInfo.width && baseInfo.height == currentInfo.height
		if baseInfo.bytes > 0 {
			delta := float64(currentInfo.bytes-baseInfo.bytes) / float64(baseInfo.bytes) * 100
			if delta < 0 {
				delta = -delta
			}
			shot.SizeDeltaPct = delta
		}
		shot.Changed = !shot.DimensionMatch || shot.SizeDeltaPct > sizeDeltaThresholdPct
		if shot.Changed {
			comparison.ChangedNum++
		}

		comparison.Shots = append(comparison.Shots, shot)
	}

	for _, path := range currentPaths {
		if _, ok := matched[stem(path)]; !ok {
			comparison.NewShots = append(comparison.NewShots, path)
		}
	}

	return comparison, nil
}

type pngInfo struct {
	width  int
	height int
	bytes  int64
}

func imageInfo(path string) (pngInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return pngInfo{}, fmt.Errorf("failed to open screenshot %s: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return pngInfo{}, err
	}

	config, err := png.DecodeConfig(file)
	if err != nil {
		return pngInfo{}, fmt.Errorf("failed to decode screenshot %s: %w", path, err)
	}

	return pngInfo{width: config.Width, height: config.Height, bytes: stat.Size()}, nil
}
