// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"msaa_samples"`
}

// CameraConfig holds projection and navigation settings.
type CameraConfig struct {
	FOV           float32    `yaml:"fov"` // degrees
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position"`
	MoveSpeed     float32    `yaml:"move_speed"` // world units per frame
	EnableDamping bool       `yaml:"enable_damping"`
	DampingFactor float32    `yaml:"damping_factor"`
	RotateSpeed   float32    `yaml:"rotate_speed"`
	ZoomSpeed     float32    `yaml:"zoom_speed"`
}

// AssetsConfig holds model storage settings.
type AssetsConfig struct {
	Root          string        `yaml:"root"`     // local directory containing models/
	BaseURL       string        `yaml:"base_url"` // HTTP base, takes priority over Root
	Format        string        `yaml:"format"`   // gltf or glb
	MaxConcurrent int           `yaml:"max_concurrent"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
}

// SceneConfig holds world layout settings.
type SceneConfig struct {
	Placements    string  `yaml:"placements"` // optional YAML placement table
	AnimationStep float32 `yaml:"animation_step"`
	ScreenshotDir string  `yaml:"screenshot_dir"` // F12 captures
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "Space Scene",
			Width:   1280,
			Height:  720,
			VSync:   true,
			Samples: 4,
		},
		Camera: CameraConfig{
			FOV:           75,
			Near:          0.1,
			Far:           1000,
			Position:      [3]float32{0, 3, 12},
			MoveSpeed:     0.1,
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1.0,
			ZoomSpeed:     1.0,
		},
		Assets: AssetsConfig{
			Root:          ".",
			Format:        "gltf",
			MaxConcurrent: 4,
			HTTPTimeout:   0,
		},
		Scene: SceneConfig{
			AnimationStep: 0.016,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
