// Package config loads and saves the freeze table: the per-game list of
// named addresses, pointer chains and typed values fed to the accessor and
// the patch scheduler.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zenakin-1777/TerrariaMenu/process"

	"gopkg.in/yaml.v2"
)

const (
	configDir  = ".terrariamenu"
	configFile = "config.yml"
)

// Config is the on-disk tool configuration.
type Config struct {
	// Process is the target process name, matched case-insensitively and
	// without extension.
	Process string `yaml:"process"`

	// SweepIntervalMS overrides the 50ms sweep period when > 0.
	SweepIntervalMS int `yaml:"sweep_interval_ms,omitempty"`

	// Patches is the address table.
	Patches []PatchConfig `yaml:"patches"`
}

// PatchConfig is one named patch in the table. Base is relative to the main
// module unless Absolute is set. Offsets, when present, describe a pointer
// chain resolved from Base.
type PatchConfig struct {
	Name     string   `yaml:"name"`
	Base     string   `yaml:"base"`
	Absolute bool     `yaml:"absolute,omitempty"`
	Offsets  []string `yaml:"offsets,omitempty"`
	Type     string   `yaml:"type"`
	Value    string   `yaml:"value"`
}

// ParseAddress parses a hex ("0x...") or decimal address string.
func ParseAddress(s string) (process.MemoryAddress, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return process.MemoryAddress(v), nil
}

// BaseAddress resolves the patch's base against the module base.
func (p PatchConfig) BaseAddress(moduleBase process.MemoryAddress) (process.MemoryAddress, error) {
	off, err := ParseAddress(p.Base)
	if err != nil {
		return 0, err
	}
	if p.Absolute {
		return off, nil
	}
	return moduleBase + off, nil
}

// OffsetChain parses the pointer chain offsets.
func (p PatchConfig) OffsetChain() ([]process.MemorySize, error) {
	out := make([]process.MemorySize, 0, len(p.Offsets))
	for _, s := range p.Offsets {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad offset %q in patch %q: %w", s, p.Name, err)
		}
		out = append(out, process.MemorySize(v))
	}
	return out, nil
}

// PatchValue parses the typed value.
func (p PatchConfig) PatchValue() (process.Value, error) {
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "int32", "int":
		v, err := strconv.ParseInt(strings.TrimSpace(p.Value), 0, 32)
		if err != nil {
			return process.Value{}, fmt.Errorf("patch %q: bad int32 %q: %w", p.Name, p.Value, err)
		}
		return process.Int32Value(int32(v)), nil
	case "float32", "float":
		v, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 32)
		if err != nil {
			return process.Value{}, fmt.Errorf("patch %q: bad float32 %q: %w", p.Name, p.Value, err)
		}
		return process.Float32Value(float32(v)), nil
	case "float64", "double":
		v, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
		if err != nil {
			return process.Value{}, fmt.Errorf("patch %q: bad float64 %q: %w", p.Name, p.Value, err)
		}
		return process.Float64Value(v), nil
	}
	return process.Value{}, fmt.Errorf("patch %q: unknown type %q", p.Name, p.Type)
}

// DefaultPath returns ~/.terrariamenu/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configDir, configFile), nil
}

const defaultConfig = `# terrariamenu freeze table
process: Terraria
# sweep_interval_ms: 50
patches: []
# patches:
#  - name: health
#    base: "0x1010"                     # relative to the main module unless absolute: true
#    offsets: ["0x10", "0x20", "0x08"]  # optional pointer chain from base
#    type: int32                        # int32, float32 or float64
#    value: "400"
`

// LoadDefault loads the config from the default path, writing a commented
// sample file on first run.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("created default config at %s, fill in the freeze table first", path)
	}
	return Load(path)
}

func createDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if c.Process == "" {
		return nil, fmt.Errorf("config %s: missing process name", path)
	}
	seen := make(map[string]bool, len(c.Patches))
	for _, p := range c.Patches {
		if p.Name == "" {
			return nil, fmt.Errorf("config %s: patch with empty name", path)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("config %s: duplicate patch name %q", path, p.Name)
		}
		seen[p.Name] = true
		if _, err := p.PatchValue(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &c, nil
}

// Save writes the config, creating parent directories as needed.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
