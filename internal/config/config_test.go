package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	mu.Lock()
	defer mu.Unlock()
	cfg = nil
	v = nil
	overlayEnv = ""
}

// replaceConfigFile swaps the file in with a rename so the watcher never sees
// a truncated file
func replaceConfigFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  grid_size: 12
  seed: 77
board:
  random: true
  monsters: 4
ui:
  monster_phase_delay_ms: 0
  show_coordinates: false
replay:
  enabled: true
  path: out/replay.json
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 12, c.Game.GridSize)
	assert.Equal(t, int64(77), c.Game.Seed)
	assert.True(t, c.Board.Random)
	assert.Equal(t, 4, c.Board.Monsters)
	assert.Equal(t, 5, c.Board.Treasures, "unset keys keep their defaults")
	assert.Equal(t, time.Duration(0), c.UI.MonsterPhaseDelay())
	assert.False(t, c.UI.ShowCoordinates)
	assert.True(t, c.Replay.Enabled)
	assert.Equal(t, "out/replay.json", c.Replay.Path)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 10, c.Game.GridSize)
	assert.Equal(t, 9, c.Game.MaxTreasureValue)
	assert.Zero(t, c.Game.Seed)
	assert.Equal(t, "Player ended the game", c.Game.EndReasonPlayer)
	assert.Equal(t, 500*time.Millisecond, c.UI.MonsterPhaseDelay())
	assert.True(t, c.UI.ShowCoordinates)
	assert.Equal(t, "info", c.Server.LogLevel)
	assert.Equal(t, "console", c.Server.LogFormat)
	assert.False(t, c.Replay.Enabled)
	assert.Equal(t, "replay.json", c.Replay.Path)
}

func TestInitInvalidFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game: [unclosed"), 0644))

	resetGlobals()
	assert.Error(t, Init(configFile))
}

func TestInitValidationFailure(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  grid_size: 1\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.grid_size")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("TH_GAME_GRID_SIZE", "8")
	t.Setenv("TH_SERVER_LOG_LEVEL", "debug")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 8, c.Game.GridSize)
	assert.Equal(t, "debug", c.Server.LogLevel)
}

func TestGetInitializesDefaults(t *testing.T) {
	resetGlobals()

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, 10, c.Game.GridSize)
	assert.Same(t, c, Get())
}

func TestWatchConfig_ReloadWhileReading(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("ui:\n  monster_phase_delay_ms: 100\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	reloaded := make(chan *Config, 64)
	WatchConfig(func(c *Config, err error) {
		if err == nil {
			select {
			case reloaded <- c:
			default:
			}
		}
	})

	stop := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for {
			select {
			case <-stop:
				return
			default:
				c := Get()
				_ = c.UI.MonsterPhaseDelay()
				_ = c.UI.ShowCoordinates
			}
		}
	}()

	for i := 1; i <= 20; i++ {
		content := fmt.Sprintf("ui:\n  monster_phase_delay_ms: %d\n", 100+i)
		replaceConfigFile(t, configFile, content)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return Get().UI.MonsterPhaseDelayMs == 120
	}, 5*time.Second, 20*time.Millisecond)

	close(stop)
	readers.Wait()
	assert.NotEmpty(t, reloaded)
}

func TestWatchConfig_InvalidReloadKeepsPrevious(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  grid_size: 12\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))
	before := Get()

	rejected := make(chan error, 16)
	WatchConfig(func(c *Config, err error) {
		if err != nil {
			select {
			case rejected <- err:
			default:
			}
		}
	})

	replaceConfigFile(t, configFile, "game:\n  grid_size: 99\n")

	select {
	case err := <-rejected:
		assert.Contains(t, err.Error(), "game.grid_size")
	case <-time.After(5 * time.Second):
		t.Fatal("invalid config file was not reported")
	}
	assert.Same(t, before, Get())
	assert.Equal(t, 12, Get().Game.GridSize)
}

func TestWatchConfig_ReappliesEnvironmentOverlay(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(baseConfig, []byte("server:\n  log_level: info\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.prod.yaml"), []byte("server:\n  log_format: json\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	reloaded := make(chan *Config, 16)
	WatchConfig(func(c *Config, err error) {
		if err == nil {
			select {
			case reloaded <- c:
			default:
			}
		}
	})

	replaceConfigFile(t, baseConfig, "server:\n  log_level: debug\n")

	select {
	case c := <-reloaded:
		assert.Equal(t, "debug", c.Server.LogLevel)
		assert.Equal(t, "json", c.Server.LogFormat)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not picked up")
	}
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
game:
  grid_size: 10
server:
  log_level: info
`
	require.NoError(t, os.WriteFile(baseConfig, []byte(baseContent), 0644))

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
game:
  grid_size: 16
server:
  log_format: json
`
	require.NoError(t, os.WriteFile(envConfig, []byte(envContent), 0644))

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 16, c.Game.GridSize)          // Overridden
	assert.Equal(t, "json", c.Server.LogFormat)   // New value
	assert.Equal(t, "info", c.Server.LogLevel)    // Kept
	assert.Equal(t, baseConfig, ConfigFilePath()) // Watch target unchanged

	// Missing overlays are ignored
	assert.NoError(t, LoadEnvironmentConfig("staging"))
	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestLoadEnvironmentConfig_NotInitialized(t *testing.T) {
	resetGlobals()
	assert.Error(t, LoadEnvironmentConfig("prod"))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Game:   GameConfig{GridSize: 10, MaxTreasureValue: 9},
			Board:  BoardConfig{Monsters: 3, Treasures: 5, Obstacles: 8, MinMonsterDistance: 2},
			UI:     UIConfig{MonsterPhaseDelayMs: 500},
			Server: ServerConfig{LogLevel: "info", LogFormat: "console"},
			Replay: ReplayConfig{Path: "replay.json"},
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"grid too small", func(c *Config) { c.Game.GridSize = 1 }, "game.grid_size"},
		{"grid too large", func(c *Config) { c.Game.GridSize = 51 }, "game.grid_size"},
		{"treasure value", func(c *Config) { c.Game.MaxTreasureValue = 10 }, "game.max_treasure_value"},
		{"negative seed", func(c *Config) { c.Game.Seed = -1 }, "game.seed"},
		{"negative monsters", func(c *Config) { c.Board.Monsters = -1 }, "non-negative"},
		{"random without treasures", func(c *Config) { c.Board.Random = true; c.Board.Treasures = 0 }, "board.treasures"},
		{"random board too full", func(c *Config) { c.Board.Random = true; c.Board.Obstacles = 100 }, "do not fit"},
		{"negative delay", func(c *Config) { c.UI.MonsterPhaseDelayMs = -5 }, "ui.monster_phase_delay_ms"},
		{"log format", func(c *Config) { c.Server.LogFormat = "xml" }, "server.log_format"},
		{"replay path", func(c *Config) { c.Replay.Enabled = true; c.Replay.Path = "" }, "replay.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
