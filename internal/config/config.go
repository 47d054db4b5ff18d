// Package config loads and validates chartmint.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/chartmint/chartmint/internal/version"
	"github.com/goccy/go-yaml"
)

// Filename is the configuration file chartmint looks for at the
// repository root. It is also part of every image's relevant path set,
// since build args and similar settings influence the built image.
const Filename = "chartmint.yaml"

// ErrInvalid marks configuration errors; check with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level chartmint.yaml schema.
type Config struct {
	Charts []Chart `yaml:"charts"`
}

// Chart configures version computation and publishing for one chart.
type Chart struct {
	Name        string `yaml:"name"`
	ImagePrefix string `yaml:"imagePrefix"`

	// BaseVersion is a literal SemVer2 string (usually with a
	// prerelease, e.g. "1.3.0-0.dev") or one of the keywords major,
	// minor, patch.
	BaseVersion string `yaml:"baseVersion"`

	// ResetTag and ResetVersion are written by --reset instead of
	// computed values.
	ResetTag     string `yaml:"resetTag"`
	ResetVersion string `yaml:"resetVersion"`

	// Paths lists extra repository paths whose changes affect the
	// chart version, beyond the chart directory and its images.
	Paths []string `yaml:"paths"`

	Repo   ChartRepo        `yaml:"repo"`
	Images map[string]Image `yaml:"images"`
}

// ChartRepo locates the chart repository charts are published to.
type ChartRepo struct {
	// Git is either an "owner/name" GitHub path or a full git URL.
	Git string `yaml:"git"`
	// Published is the public URL of the chart repository index.
	Published string `yaml:"published"`
}

// Image configures tag computation and building for one image.
type Image struct {
	ContextPath    string            `yaml:"contextPath"`
	DockerfilePath string            `yaml:"dockerfilePath"`
	Paths          []string          `yaml:"paths"`
	SkipPlatforms  []string          `yaml:"skipPlatforms"`
	BuildArgs      map[string]string `yaml:"buildArgs"`

	// ValuesPath holds one or more dot/index paths into values.yaml
	// where this image's reference is recorded.
	ValuesPath StringList `yaml:"valuesPath"`
}

// StringList unmarshals from either a single YAML scalar or a sequence
// of scalars.
type StringList []string

func (s *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Context returns the image's build context directory, defaulting to
// images/<name>.
func (i Image) Context(name string) string {
	if i.ContextPath != "" {
		return i.ContextPath
	}
	return filepath.Join("images", name)
}

// Dockerfile returns the dockerfile path, defaulting to
// <context>/Dockerfile.
func (i Image) Dockerfile(name string) string {
	if i.DockerfilePath != "" {
		return i.DockerfilePath
	}
	return filepath.Join(i.Context(name), "Dockerfile")
}

// ResetVersionOrDefault returns the version --reset writes.
func (c Chart) ResetVersionOrDefault() string {
	if c.ResetVersion != "" {
		return c.ResetVersion
	}
	return "0.0.1-set.by.chartmint"
}

// ResetTagOrDefault returns the image tag --reset writes.
func (c Chart) ResetTagOrDefault() string {
	if c.ResetTag != "" {
		return c.ResetTag
	}
	return "set-by-chartmint"
}

// Load reads and validates a chartmint.yaml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the schema invariants before any history query runs.
func (c *Config) Validate() error {
	if len(c.Charts) == 0 {
		return fmt.Errorf("%w: no charts defined", ErrInvalid)
	}

	for _, chart := range c.Charts {
		if chart.Name == "" {
			return fmt.Errorf("%w: chart without a name", ErrInvalid)
		}
		if err := validateBaseVersion(chart.BaseVersion); err != nil {
			return fmt.Errorf("%w: chart %s: %v", ErrInvalid, chart.Name, err)
		}
		if len(chart.Images) > 0 && chart.ImagePrefix == "" {
			return fmt.Errorf("%w: chart %s: imagePrefix is required with images", ErrInvalid, chart.Name)
		}
		for name, img := range chart.Images {
			if len(img.ValuesPath) == 0 {
				return fmt.Errorf("%w: chart %s: image %s: valuesPath is required", ErrInvalid, chart.Name, name)
			}
		}
	}
	return nil
}

func validateBaseVersion(base string) error {
	switch base {
	case "", version.KeywordMajor, version.KeywordMinor, version.KeywordPatch:
		return nil
	}
	if _, err := semver.StrictNewVersion(base); err != nil {
		return fmt.Errorf("baseVersion %q is neither SemVer2 nor major/minor/patch", base)
	}
	return nil
}
