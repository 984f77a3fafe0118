// Package types defines the data structures shared across shader-manifest.
package types

type (
	// Target pairs a shader source directory with the manifest file it produces.
	Target struct {
		Source string `yaml:"source"`
		Output string `yaml:"output"`
	}

	// FilterConfig contains configuration for the entry filter.
	FilterConfig struct {
		IgnoredPatterns   []string `yaml:"ignore,omitempty"`
		AllowedExtensions []string `yaml:"extensions,omitempty"`
	}
)
