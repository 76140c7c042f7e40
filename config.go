package rtscam

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidHeightRange = errors.New("height_min must be below height_max")
	ErrSmoothnessRange    = errors.New("smoothness must be in [0,1]")
	ErrZoomRange          = errors.New("zoom must be in [0,1]")
	ErrEdgePanRange       = errors.New("edge_pan_width must be in [0,0.5]")
	ErrNegativeSpeed      = errors.New("speed must not be negative")
	ErrUnknownBinding     = errors.New("unknown key binding")
)

type BindingsConfig struct {
	Up     string `yaml:"up"`
	Down   string `yaml:"down"`
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Rotate string `yaml:"rotate"`
}

// RtsCameraConfig is the file form of an RtsCamera. Keys missing from the
// file keep their defaults.
type RtsCameraConfig struct {
	Bindings     BindingsConfig `yaml:"bindings"`
	EdgePanWidth float32        `yaml:"edge_pan_width"`
	Speed        float32        `yaml:"speed"`
	HeightMin    float32        `yaml:"height_min"`
	HeightMax    float32        `yaml:"height_max"`
	// AngleDegrees is the view pitch. 0 looks straight down.
	AngleDegrees float32 `yaml:"angle_degrees"`
	Smoothness   float32 `yaml:"smoothness"`
	// Zoom is the starting zoom. It is not applied to running cameras.
	Zoom    float32 `yaml:"zoom"`
	Enabled bool    `yaml:"enabled"`
}

func DefaultRtsCameraConfig() RtsCameraConfig {
	return RtsCameraConfig{
		Bindings: BindingsConfig{
			Up:     "W",
			Down:   "S",
			Left:   "A",
			Right:  "D",
			Rotate: "MouseMiddle",
		},
		EdgePanWidth: 0.05,
		Speed:        1.0,
		HeightMin:    0.1,
		HeightMax:    5.0,
		AngleDegrees: 25,
		Smoothness:   0.9,
		Zoom:         0,
		Enabled:      true,
	}
}

func LoadRtsCameraConfig(filename string) (RtsCameraConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return RtsCameraConfig{}, fmt.Errorf("rts camera config: load %s: %w", filename, err)
	}
	cfg, err := ParseRtsCameraConfig(data)
	if err != nil {
		return RtsCameraConfig{}, fmt.Errorf("rts camera config: %s: %w", filename, err)
	}
	return cfg, nil
}

// ParseRtsCameraConfig decodes YAML over the defaults and validates the
// result.
func ParseRtsCameraConfig(data []byte) (RtsCameraConfig, error) {
	cfg := DefaultRtsCameraConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RtsCameraConfig{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RtsCameraConfig{}, err
	}
	return cfg, nil
}

func (cfg RtsCameraConfig) Validate() error {
	if cfg.HeightMin >= cfg.HeightMax {
		return fmt.Errorf("height_min %v, height_max %v: %w", cfg.HeightMin, cfg.HeightMax, ErrInvalidHeightRange)
	}
	if cfg.Smoothness < 0 || cfg.Smoothness > 1 {
		return fmt.Errorf("smoothness %v: %w", cfg.Smoothness, ErrSmoothnessRange)
	}
	if cfg.Zoom < 0 || cfg.Zoom > 1 {
		return fmt.Errorf("zoom %v: %w", cfg.Zoom, ErrZoomRange)
	}
	if cfg.EdgePanWidth < 0 || cfg.EdgePanWidth > 0.5 {
		return fmt.Errorf("edge_pan_width %v: %w", cfg.EdgePanWidth, ErrEdgePanRange)
	}
	if cfg.Speed < 0 {
		return fmt.Errorf("speed %v: %w", cfg.Speed, ErrNegativeSpeed)
	}
	_, err := cfg.Bindings.resolve()
	return err
}

// Apply copies the configuration onto cam. Target and Initialized are left
// alone, and Zoom is only set on cameras that have not run yet.
func (cfg RtsCameraConfig) Apply(cam *RtsCamera) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	keys, _ := cfg.Bindings.resolve()
	cam.KeyUp, cam.KeyDown, cam.KeyLeft, cam.KeyRight, cam.ButtonRotate = keys[0], keys[1], keys[2], keys[3], keys[4]
	cam.EdgePanWidth = cfg.EdgePanWidth
	cam.Speed = cfg.Speed
	cam.HeightMin = cfg.HeightMin
	cam.HeightMax = cfg.HeightMax
	cam.Angle = mgl32.DegToRad(cfg.AngleDegrees)
	cam.Smoothness = cfg.Smoothness
	cam.Enabled = cfg.Enabled
	if !cam.Initialized {
		cam.Zoom = cfg.Zoom
	}
	return nil
}

func (b BindingsConfig) resolve() ([5]int, error) {
	var keys [5]int
	for i, name := range []string{b.Up, b.Down, b.Left, b.Right, b.Rotate} {
		k, ok := KeyByName(name)
		if !ok {
			return keys, fmt.Errorf("binding %q: %w", name, ErrUnknownBinding)
		}
		keys[i] = k
	}
	return keys, nil
}
