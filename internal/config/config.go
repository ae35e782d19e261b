// Package config loads reelswipe settings from built-in defaults, an
// optional YAML file and REELSWIPE_* environment variables, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/olivier-w/reelswipe/internal/card"
	"github.com/olivier-w/reelswipe/internal/motion"
	"github.com/olivier-w/reelswipe/internal/swipe"
)

// EnvPrefix prefixes every environment override, e.g.
// REELSWIPE_SWIPE_THRESHOLD_VELOCITY -> swipe.threshold_velocity.
const EnvPrefix = "REELSWIPE_"

// PathEnvVar points at a config file explicitly.
const PathEnvVar = EnvPrefix + "CONFIG"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{
	"reelswipe.yaml",
	"reelswipe.yml",
}

// Config is the full application configuration.
type Config struct {
	Swipe   SwipeConfig   `koanf:"swipe"`
	Physics PhysicsConfig `koanf:"physics"`
	Deck    DeckConfig    `koanf:"deck"`
	UI      UIConfig      `koanf:"ui"`
	Logging LoggingConfig `koanf:"logging"`
}

// SwipeConfig holds the swipe decision thresholds.
type SwipeConfig struct {
	ThresholdVelocity float64  `koanf:"threshold_velocity" validate:"gt=0"`
	ThresholdDistance float64  `koanf:"threshold_distance" validate:"gt=0"`
	FlickOnSwipe      bool     `koanf:"flick_on_swipe"`
	Prevent           []string `koanf:"prevent" validate:"dive,oneof=left right up down"`
}

// Spring is a friction/tension spring profile.
type Spring struct {
	Friction float64 `koanf:"friction" validate:"gt=0"`
	Tension  float64 `koanf:"tension" validate:"gt=0"`
}

// PhysicsConfig tunes card motion.
type PhysicsConfig struct {
	MaxTilt      float64       `koanf:"max_tilt" validate:"gte=0,lte=90"`
	TiltScale    float64       `koanf:"tilt_scale" validate:"gte=0"`
	Follow       Spring        `koanf:"follow"`
	Return       Spring        `koanf:"return"`
	MaxStep      time.Duration `koanf:"max_step" validate:"gt=0"`
	RestDelta    float64       `koanf:"rest_delta" validate:"gt=0"`
	RestVelocity float64       `koanf:"rest_velocity" validate:"gt=0"`
}

// DeckConfig selects the movie deck and where choices are written.
type DeckConfig struct {
	Path    string `koanf:"path"`
	Output  string `koanf:"output"`
	Shuffle bool   `koanf:"shuffle"`
}

// UIConfig controls the terminal host.
type UIConfig struct {
	FPS        int     `koanf:"fps" validate:"gte=10,lte=240"`
	CellWidth  float64 `koanf:"cell_width" validate:"gt=0"`
	CellHeight float64 `koanf:"cell_height" validate:"gt=0"`
}

// LoggingConfig controls zerolog output. The TUI owns the terminal, so
// logs go to File or are discarded when it is empty.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	File   string `koanf:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	th := swipe.DefaultThresholds()
	mc := motion.DefaultConfig()
	return Config{
		Swipe: SwipeConfig{
			ThresholdVelocity: th.Velocity,
			ThresholdDistance: th.Distance,
			FlickOnSwipe:      true,
		},
		Physics: PhysicsConfig{
			MaxTilt:      mc.MaxTilt,
			TiltScale:    mc.TiltScale,
			Follow:       Spring{Friction: mc.Follow.Friction, Tension: mc.Follow.Tension},
			Return:       Spring{Friction: mc.Return.Friction, Tension: mc.Return.Tension},
			MaxStep:      mc.MaxStep,
			RestDelta:    mc.RestDelta,
			RestVelocity: mc.RestVelocity,
		},
		Deck: DeckConfig{
			Output: "choices.json",
		},
		UI: UIConfig{
			FPS:        60,
			CellWidth:  8,
			CellHeight: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. path overrides the file search when set.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	// Lists arrive from the environment as comma-separated strings.
	if raw, ok := k.Get("swipe.prevent").(string); ok {
		if err := k.Set("swipe.prevent", splitList(raw)); err != nil {
			return Config{}, fmt.Errorf("parse swipe.prevent: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CardOptions maps the configuration onto card options.
func (c Config) CardOptions() card.Options {
	opts := card.DefaultOptions()
	opts.Thresholds = swipe.Thresholds{
		Velocity: c.Swipe.ThresholdVelocity,
		Distance: c.Swipe.ThresholdDistance,
	}
	opts.FlickOnSwipe = c.Swipe.FlickOnSwipe
	for _, s := range c.Swipe.Prevent {
		if d, err := swipe.ParseDirection(s); err == nil && d.Valid() {
			opts.PreventSwipe = append(opts.PreventSwipe, d)
		}
	}
	opts.Motion = motion.Config{
		Follow:       motion.SpringConfig{Friction: c.Physics.Follow.Friction, Tension: c.Physics.Follow.Tension},
		Return:       motion.SpringConfig{Friction: c.Physics.Return.Friction, Tension: c.Physics.Return.Tension},
		MaxTilt:      c.Physics.MaxTilt,
		TiltScale:    c.Physics.TiltScale,
		MaxStep:      c.Physics.MaxStep,
		RestDelta:    c.Physics.RestDelta,
		RestVelocity: c.Physics.RestVelocity,
	}
	return opts
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps REELSWIPE_SECTION_FIELD_NAME to section.field_name.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	switch section {
	case "physics":
		// physics.follow.friction, physics.return.tension
		for _, spring := range []string{"follow", "return"} {
			if rest, ok := strings.CutPrefix(field, spring+"_"); ok {
				return section + "." + spring + "." + rest
			}
		}
	}
	return section + "." + field
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
