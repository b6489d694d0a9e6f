// Package config handles luadec.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

const FileName = "luadec.toml"

// Config represents a luadec.toml file. Zero values are replaced by the
// defaults at load time.
type Config struct {
	Output    Output    `toml:"output"`
	Format    Format    `toml:"format"`
	Decompile Decompile `toml:"decompile"`
	Log       Log       `toml:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

type Output struct {
	Suffix string `toml:"suffix"`
	Jobs   int    `toml:"jobs"`
	Report string `toml:"report"`
}

type Format struct {
	Indent string `toml:"indent"`
	Raw    bool   `toml:"raw"`
}

type Decompile struct {
	Condition string `toml:"condition"`
	Check     bool   `toml:"check"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Output.Suffix == "" {
		c.Output.Suffix = "_d"
	}
	if c.Output.Jobs <= 0 {
		c.Output.Jobs = runtime.NumCPU()
	}
	if c.Format.Indent == "" {
		c.Format.Indent = "\t"
	}
	if c.Decompile.Condition == "" {
		c.Decompile.Condition = "testCOND"
	}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	c.Path = path
	c.setDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find a luadec.toml file and loads
// it. Without a file the defaults are returned.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
