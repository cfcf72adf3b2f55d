package segment

import (
	"fmt"
	"strings"

	"colorseg/pkg/colorutil"
)

// Method selects the segmentation strategy.
type Method int

const (
	// MethodHSV thresholds pixels against a fixed HSV range.
	MethodHSV Method = iota
	// MethodKMeans clusters pixel colors and keeps the cluster nearest the target.
	MethodKMeans
)

func (m Method) String() string {
	switch m {
	case MethodHSV:
		return "hsv"
	case MethodKMeans:
		return "kmeans"
	default:
		return "unknown"
	}
}

// Methods lists the valid segmentation methods.
func Methods() []Method {
	return []Method{MethodHSV, MethodKMeans}
}

// ParseMethod maps a method name (case-insensitive) to a Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods() {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown method %q (valid methods: hsv, kmeans)", s)
}

// Target is the color the clustering segmenter looks for.
type Target int

const (
	TargetGreen Target = iota
	TargetBlue
)

func (t Target) String() string {
	switch t {
	case TargetGreen:
		return "green"
	case TargetBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Color returns the pure BGR color for the target.
func (t Target) Color() colorutil.BGR {
	if t == TargetBlue {
		return colorutil.Blue
	}
	return colorutil.Green
}

// Targets lists the valid target colors.
func Targets() []Target {
	return []Target{TargetGreen, TargetBlue}
}

// ParseTarget maps a color name (case-insensitive) to a Target.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown target %q (valid targets: green, blue)", s)
}

// HSVRange holds closed intervals for each HSV channel in OpenCV's 8-bit
// convention (H 0-180, S 0-255, V 0-255). Bounds are not validated: an
// inverted or out-of-domain interval simply matches nothing.
type HSVRange struct {
	HMin, HMax int
	SMin, SMax int
	VMin, VMax int
}

// Contains reports whether the HSV triple lies within every interval.
func (r HSVRange) Contains(h, s, v uint8) bool {
	return int(h) >= r.HMin && int(h) <= r.HMax &&
		int(s) >= r.SMin && int(s) <= r.SMax &&
		int(v) >= r.VMin && int(v) <= r.VMax
}

// Empty reports whether no HSV value can satisfy the range.
func (r HSVRange) Empty() bool {
	return r.HMin > r.HMax || r.SMin > r.SMax || r.VMin > r.VMax
}

func (r HSVRange) String() string {
	return fmt.Sprintf("H(%d-%d) S(%d-%d) V(%d-%d)", r.HMin, r.HMax, r.SMin, r.SMax, r.VMin, r.VMax)
}

// Config is the immutable segmentation configuration for a run.
type Config struct {
	Method Method
	HSV    HSVRange
	K      int
	Target Target
}

// DefaultConfig returns the default segmentation configuration: HSV
// thresholding over a broad green range, with 3 clusters targeting green
// when k-means is selected.
func DefaultConfig() Config {
	return Config{
		Method: MethodHSV,
		HSV: HSVRange{
			HMin: 35,
			HMax: 120,
			SMin: 40,
			SMax: 255,
			VMin: 0,
			VMax: 255,
		},
		K:      3,
		Target: TargetGreen,
	}
}

// WithMethod returns a copy of the config using method m.
func (c Config) WithMethod(m Method) Config {
	c.Method = m
	return c
}

// WithHSV returns a copy of the config with custom HSV bounds.
func (c Config) WithHSV(hMin, hMax, sMin, sMax, vMin, vMax int) Config {
	c.HSV = HSVRange{
		HMin: hMin, HMax: hMax,
		SMin: sMin, SMax: sMax,
		VMin: vMin, VMax: vMax,
	}
	return c
}

// WithClusters returns a copy of the config with a cluster count and target.
func (c Config) WithClusters(k int, target Target) Config {
	c.K = k
	c.Target = target
	return c
}

// Validate rejects configurations OpenCV cannot run. HSV bounds are not
// checked; an inverted range yields an empty mask.
func (c Config) Validate() error {
	switch c.Method {
	case MethodHSV:
		return nil
	case MethodKMeans:
		if c.K < 1 {
			return fmt.Errorf("cluster count must be at least 1, got %d", c.K)
		}
		if c.Target != TargetGreen && c.Target != TargetBlue {
			return fmt.Errorf("invalid target %d", c.Target)
		}
		return nil
	default:
		return fmt.Errorf("invalid method %d", c.Method)
	}
}

// TargetInRange reports whether the configured target color falls inside
// the configured HSV range.
func (c Config) TargetInRange() bool {
	return c.HSV.Contains(c.Target.Color().HSV())
}
