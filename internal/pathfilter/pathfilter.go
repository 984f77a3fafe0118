// Package pathfilter decides which directory entries belong in a manifest.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/taigrr/shader-manifest/internal/types"
)

// PathFilter filters entry names by ignore pattern and extension.
// The zero configuration allows every name.
type PathFilter struct {
	ignoredPatterns   []*regexp.Regexp
	allowedExtensions []string
}

// New creates a new PathFilter with the given configuration.
func New(config *types.FilterConfig) *PathFilter {
	pf := &PathFilter{}
	if config == nil {
		return pf
	}

	for _, pattern := range config.IgnoredPatterns {
		if re := globToRegexp(pattern); re != nil {
			pf.ignoredPatterns = append(pf.ignoredPatterns, re)
		}
	}
	for _, ext := range config.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		pf.allowedExtensions = append(pf.allowedExtensions, ext)
	}

	return pf
}

// globToRegexp converts a glob pattern to an anchored regex.
func globToRegexp(pattern string) *regexp.Regexp {
	normalizedPattern := strings.ReplaceAll(pattern, "\\", "/")

	// Escape all regex special chars first
	regexPattern := regexp.QuoteMeta(normalizedPattern)

	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*")
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")

	re, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil
	}
	return re
}

// IsAllowed reports whether an entry name passes the filter rules.
func (pf *PathFilter) IsAllowed(name string) bool {
	normalizedName := strings.ReplaceAll(name, "\\", "/")

	for _, re := range pf.ignoredPatterns {
		if re.MatchString(normalizedName) {
			return false
		}
	}

	if len(pf.allowedExtensions) == 0 {
		return true
	}

	lowerName := strings.ToLower(normalizedName)
	for _, ext := range pf.allowedExtensions {
		if strings.HasSuffix(lowerName, ext) && len(lowerName) > len(ext) {
			return true
		}
	}
	return false
}

// FilterNames filters a slice of names to only include allowed ones.
func (pf *PathFilter) FilterNames(names []string) []string {
	allowed := make([]string, 0, len(names))
	for _, name := range names {
		if pf.IsAllowed(name) {
			allowed = append(allowed, name)
		}
	}
	return allowed
}
