package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game   GameConfig   `mapstructure:"game"`
	Board  BoardConfig  `mapstructure:"board"`
	UI     UIConfig     `mapstructure:"ui"`
	Server ServerConfig `mapstructure:"server"`
	Replay ReplayConfig `mapstructure:"replay"`
}

// GameConfig holds game rule settings
type GameConfig struct {
	GridSize         int    `mapstructure:"grid_size"`
	MaxTreasureValue int    `mapstructure:"max_treasure_value"`
	Seed             int64  `mapstructure:"seed"` // 0 picks a time-based seed
	EndReasonPlayer  string `mapstructure:"end_reason_player"`
}

// BoardConfig holds random board generation settings
type BoardConfig struct {
	Random             bool `mapstructure:"random"`
	Monsters           int  `mapstructure:"monsters"`
	Treasures          int  `mapstructure:"treasures"`
	Obstacles          int  `mapstructure:"obstacles"`
	MinMonsterDistance int  `mapstructure:"min_monster_distance"`
}

// UIConfig holds console presentation settings
type UIConfig struct {
	MonsterPhaseDelayMs int  `mapstructure:"monster_phase_delay_ms"`
	ShowCoordinates     bool `mapstructure:"show_coordinates"`
}

// MonsterPhaseDelay returns the cosmetic pause before the monster phase is shown
func (u UIConfig) MonsterPhaseDelay() time.Duration {
	return time.Duration(u.MonsterPhaseDelayMs) * time.Millisecond
}

// ServerConfig holds process-level settings
type ServerConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ReplayConfig controls writing a replay file when a game ends
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// Global config instance. A published *Config is never mutated; reloads
	// swap in a fresh value under mu.
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper

	// Environment overlay re-applied on every reload
	overlayEnv string
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.grid_size", 10)
	v.SetDefault("game.max_treasure_value", 9)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.end_reason_player", "Player ended the game")

	// Random board defaults
	v.SetDefault("board.random", false)
	v.SetDefault("board.monsters", 3)
	v.SetDefault("board.treasures", 5)
	v.SetDefault("board.obstacles", 8)
	v.SetDefault("board.min_monster_distance", 2)

	// UI defaults
	v.SetDefault("ui.monster_phase_delay_ms", 500)
	v.SetDefault("ui.show_coordinates", true)

	// Server defaults
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")

	// Replay defaults
	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.path", "replay.json")
}

// Init initializes the configuration
func Init(configPath string) error {
	vp := viper.New()

	setViperDefaults(vp)

	if configPath != "" {
		vp.SetConfigFile(configPath)
	} else {
		vp.SetConfigName("config")
		vp.SetConfigType("yaml")
		vp.AddConfigPath(".")
		vp.AddConfigPath("./config")
		vp.AddConfigPath("/etc/treasure-hunter")
	}

	vp.SetEnvPrefix("TH")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" {
			// Specific file requested but not found - use defaults
			if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
				return fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c, err := decode(vp)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	v = vp
	cfg = c
	overlayEnv = ""
	return nil
}

// decode unmarshals the viper settings into a fresh Config and validates it
func decode(vp *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := vp.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Get returns the global config instance. The returned value must be treated
// as read-only.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadEnvironmentConfig merges config.<env>.yaml from the directory of the
// loaded config file (or the working directory) over the current settings.
// A missing overlay file is not an error. The overlay is applied again after
// every hot reload.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if v == nil {
		return fmt.Errorf("config not initialized - call Init() first")
	}

	found, err := mergeEnvironment(v, env)
	if err != nil || !found {
		return err
	}
	c, err := decode(v)
	if err != nil {
		return err
	}
	cfg = c
	overlayEnv = env
	return nil
}

func mergeEnvironment(vp *viper.Viper, env string) (bool, error) {
	dir := "."
	if used := vp.ConfigFileUsed(); used != "" {
		dir = filepath.Dir(used)
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	overlay := viper.New()
	overlay.SetConfigFile(envFile)
	if err := overlay.ReadInConfig(); err != nil {
		return false, fmt.Errorf("error reading environment config %s: %w", envFile, err)
	}
	if err := vp.MergeConfigMap(overlay.AllSettings()); err != nil {
		return false, fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}
	return true, nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Each change is decoded
// and validated into a new Config; an invalid file keeps the previous one and
// is reported to onChange with a nil Config.
func WatchConfig(onChange func(*Config, error)) {
	mu.RLock()
	vp := v
	mu.RUnlock()
	if vp == nil {
		return
	}

	vp.OnConfigChange(func(e fsnotify.Event) {
		c, err := reload(vp)
		if onChange != nil {
			onChange(c, err)
		}
	})
	vp.WatchConfig()
}

func reload(vp *viper.Viper) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	// A later Init replaced this viper instance
	if v != vp {
		return nil, fmt.Errorf("config watcher is stale")
	}
	if overlayEnv != "" {
		if _, err := mergeEnvironment(vp, overlayEnv); err != nil {
			return nil, err
		}
	}
	c, err := decode(vp)
	if err != nil {
		return nil, err
	}
	cfg = c
	return c, nil
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.GridSize < 2 || c.Game.GridSize > 50 {
		return fmt.Errorf("game.grid_size must be between 2 and 50")
	}
	if c.Game.MaxTreasureValue < 1 || c.Game.MaxTreasureValue > 9 {
		return fmt.Errorf("game.max_treasure_value must be between 1 and 9")
	}
	if c.Game.Seed < 0 {
		return fmt.Errorf("game.seed must be non-negative")
	}

	if c.Board.Monsters < 0 || c.Board.Treasures < 0 || c.Board.Obstacles < 0 {
		return fmt.Errorf("board piece counts must be non-negative")
	}
	if c.Board.Random && c.Board.Treasures == 0 {
		return fmt.Errorf("board.treasures must be positive for a random board")
	}
	if c.Board.Random && 1+c.Board.Monsters+c.Board.Treasures+c.Board.Obstacles > c.Game.GridSize*c.Game.GridSize {
		return fmt.Errorf("board pieces do not fit on a %dx%d grid", c.Game.GridSize, c.Game.GridSize)
	}
	if c.Board.MinMonsterDistance < 0 {
		return fmt.Errorf("board.min_monster_distance must be non-negative")
	}

	if c.UI.MonsterPhaseDelayMs < 0 {
		return fmt.Errorf("ui.monster_phase_delay_ms must be non-negative")
	}

	switch c.Server.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("server.log_format must be console or json")
	}

	if c.Replay.Enabled && c.Replay.Path == "" {
		return fmt.Errorf("replay.path is required when replay is enabled")
	}

	return nil
}
