package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appDirName = "presence-pulse"

// Load finds and reads the config file, trying
// $XDG_CONFIG_HOME/presence-pulse/config.toml first and then
// ~/.config/presence-pulse/config.toml. With no file present the
// built-in defaults apply, still subject to environment overrides.
func Load() (*Config, error) {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from path. A missing file is not an
// error; the defaults come back instead.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML from r on top of the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig is the configuration used when no file and no
// environment overrides are present.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			CacheDir: filepath.Join(xdgDir("XDG_CACHE_HOME", home, ".cache"), appDirName),
		},
		Lanyard: LanyardConfig{
			BaseURL:      "https://api.lanyard.rest",
			PollInterval: Duration{15 * time.Second},
			Timeout:      Duration{10 * time.Second},
		},
		Display: DisplayConfig{
			ArtEnabled:  true,
			ArtProtocol: "auto",
			PrefsFile:   filepath.Join(xdgDir("XDG_CONFIG_HOME", home, ".config"), appDirName, "prefs.yaml"),
		},
	}
}

// applyEnvOverrides lets PRESENCE_PULSE_* variables win over file values.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"PRESENCE_PULSE_USER_ID", &cfg.Lanyard.UserID},
		{"PRESENCE_PULSE_BASE_URL", &cfg.Lanyard.BaseURL},
		{"PRESENCE_PULSE_PROTOCOL", &cfg.Display.ArtProtocol},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// searchPaths lists candidate config files, most specific first. When
// XDG_CONFIG_HOME points somewhere custom, ~/.config is still checked
// after it.
func searchPaths() []string {
	home, _ := os.UserHomeDir()

	primary := filepath.Join(xdgDir("XDG_CONFIG_HOME", home, ".config"), appDirName, "config.toml")
	fallback := filepath.Join(home, ".config", appDirName, "config.toml")
	if primary == fallback {
		return []string{primary}
	}
	return []string{primary, fallback}
}

// xdgDir resolves one XDG base directory variable with its conventional
// home-relative fallback.
func xdgDir(env, home, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(home, fallback)
}
