// Package manifest generates shader manifest files from source directories.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/taigrr/shader-manifest/internal/pathfilter"
	"github.com/taigrr/shader-manifest/internal/types"
)

// ErrNotADirectory is returned when a source path exists but is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// Separator joins manifest entries. The last entry is not terminated.
const Separator = "\n"

// Service generates manifests for paths under a project root.
type Service struct {
	rootPath   string
	pathFilter *pathfilter.PathFilter
	sort       bool
}

// Option configures a Service.
type Option func(*Service)

// WithSort sorts manifest names instead of keeping directory order.
func WithSort(sort bool) Option {
	return func(s *Service) {
		s.sort = sort
	}
}

// New creates a new manifest Service rooted at rootPath.
func New(rootPath string, pf *pathfilter.PathFilter, opts ...Option) *Service {
	absPath, _ := filepath.Abs(rootPath)
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	s := &Service{
		rootPath:   absPath,
		pathFilter: pf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolvePath resolves a path against the project root. Absolute paths are
// used as given; relative paths may not leave the root.
func (s *Service) ResolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	absPath, err := filepath.Abs(filepath.Join(s.rootPath, path))
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(s.rootPath, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", path)
	}

	return absPath, nil
}

// BaseName strips the final extension from a file name. Leading dots do not
// start an extension, so ".hidden" is returned unchanged.
func BaseName(name string) string {
	stem := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(stem, ".")
	if idx == -1 {
		return name
	}
	return name[:len(name)-len(stem)+idx]
}

// Render joins names into manifest text.
func Render(names []string) string {
	return strings.Join(names, Separator)
}

// Names lists the regular files directly inside sourceDir and returns their
// base names in directory order, or sorted when the Service sorts.
func (s *Service) Names(sourceDir string) ([]string, error) {
	fullPath, err := s.ResolvePath(sourceDir)
	if err != nil {
		return nil, err
	}

	entries, err := readDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("source directory not found: %s: %w", sourceDir, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("permission denied: %s: %w", sourceDir, err)
		}
		if errors.Is(err, ErrNotADirectory) {
			return nil, fmt.Errorf("source path is not a directory: %s: %w", sourceDir, err)
		}
		return nil, fmt.Errorf("failed to list directory: %s - %w", sourceDir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if isRegularFile(fullPath, entry) {
			files = append(files, entry.Name())
		}
	}

	names := s.pathFilter.FilterNames(files)
	for i, name := range names {
		names[i] = BaseName(name)
	}

	if s.sort {
		slices.Sort(names)
	}

	return names, nil
}

// Generate writes the manifest for sourceDir to outputFile, replacing any
// previous contents. The output's parent directory must already exist.
func (s *Service) Generate(sourceDir, outputFile string) error {
	names, err := s.Names(sourceDir)
	if err != nil {
		return err
	}

	fullPath, err := s.ResolvePath(outputFile)
	if err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, []byte(Render(names)), 0o644); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("output directory not found: %s: %w", filepath.Dir(outputFile), err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied: %s: %w", outputFile, err)
		}
		if errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("output parent is not a directory: %s: %w", filepath.Dir(outputFile), ErrNotADirectory)
		}
		return fmt.Errorf("failed to write manifest: %s - %w", outputFile, err)
	}

	return nil
}

// GenerateAll generates every target. A failing target does not stop the
// others; all failures are returned joined.
func (s *Service) GenerateAll(targets []types.Target) error {
	var errs []error
	for _, target := range targets {
		if err := s.Generate(target.Source, target.Output); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Check compares the manifest on disk with what Generate would write.
func (s *Service) Check(target types.Target) (types.CheckResult, error) {
	result := types.CheckResult{Target: target}

	names, err := s.Names(target.Source)
	if err != nil {
		return result, err
	}
	result.Expected = Render(names)

	fullPath, err := s.ResolvePath(target.Output)
	if err != nil {
		return result, err
	}

	current, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Missing = true
			result.Stale = true
			return result, nil
		}
		return result, fmt.Errorf("failed to read manifest: %s - %w", target.Output, err)
	}

	result.Stale = !bytes.Equal(current, []byte(result.Expected))
	return result, nil
}

// CheckAll checks every target, collecting results for the targets that
// could be checked and joining the errors of those that could not.
func (s *Service) CheckAll(targets []types.Target) ([]types.CheckResult, error) {
	var (
		results []types.CheckResult
		errs    []error
	)
	for _, target := range targets {
		result, err := s.Check(target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

// readDir returns the entries of dir in the order the OS lists them.
func readDir(dir string) ([]fs.DirEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, syscall.ENOTDIR) {
		return nil, ErrNotADirectory
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadDir(-1)
}

// isRegularFile reports whether entry is a regular file, following symlinks.
func isRegularFile(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
