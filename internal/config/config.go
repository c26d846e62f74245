package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the builder settings. Everything has a usable default so a
// missing config file is never an error.
type Config struct {
	Schema        int      `json:"schema"`
	Extensions    []string `json:"extensions,omitempty"`
	MaxTokens     int      `json:"max_tokens,omitempty"`
	TokensPerWord float64  `json:"tokens_per_word,omitempty"`
	PresetsDir    string   `json:"presets_dir,omitempty"`
	TasktypesDir  string   `json:"tasktypes_dir,omitempty"`
}

const CurrentConfigSchema = 1

// DefaultExtensions is the allow-list of file extensions eligible for
// prompt inclusion.
var DefaultExtensions = []string{
	"py", "js", "ts", "svelte", "css", "html", "json", "txt",
	"md", "xml", "yml", "yaml", "sql", "jsx", "tsx", "php",
	"rb", "java", "c", "cpp", "cs", "sh", "bash", "go",
	"rs", "swift", "kt", "r", "dart", "scala", "ini",
	"env", "toml", "scss", "less", "pl", "lua", "ps1",
	"vb", "bat", "coffee",
}

func DefaultConfig() *Config {
	dir := configDir()
	return &Config{
		Schema:        CurrentConfigSchema,
		Extensions:    DefaultExtensions,
		MaxTokens:     128000,
		TokensPerWord: 1.2,
		PresetsDir:    filepath.Join(dir, "presets"),
		TasktypesDir:  filepath.Join(dir, "tasktypes"),
	}
}

// Load reads the config, trying an explicit path first, then the XDG
// location. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	paths := getConfigPaths(configPath)

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		cfg := DefaultConfig()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		cfg.expandPaths()
		return cfg, nil
	}

	return DefaultConfig(), nil
}

func getConfigPaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	paths = append(paths, filepath.Join(configDir(), "config.json"))
	return paths
}

func configDir() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "pb")
}

func (c *Config) expandPaths() {
	home, _ := os.UserHomeDir()
	expand := func(p string) string {
		if strings.HasPrefix(p, "~") {
			return filepath.Join(home, p[1:])
		}
		return p
	}
	c.PresetsDir = expand(c.PresetsDir)
	c.TasktypesDir = expand(c.TasktypesDir)
}

// lastDirFile is the one-line text file remembering the last base
// directory between runs.
func lastDirFile() string {
	return filepath.Join(configDir(), "last_directory")
}

// LoadLastDir returns the persisted base directory, or "" if none was
// saved or the saved path is no longer a directory. Never an error: an
// unusable entry just means no prior directory.
func LoadLastDir() string {
	data, err := os.ReadFile(lastDirFile())
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// SaveLastDir overwrites the persisted base directory.
func SaveLastDir(dir string) error {
	if err := os.MkdirAll(configDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(lastDirFile(), []byte(dir+"\n"), 0o644)
}

// LogFile is where the application log goes; the TUI owns the terminal, so
// zap writes here instead.
func LogFile() string {
	return filepath.Join(configDir(), "pb.log")
}
