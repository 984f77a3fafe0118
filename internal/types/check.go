package types

// CheckResult reports whether a manifest on disk matches its source directory.
type CheckResult struct {
	Target   Target
	Stale    bool
	Missing  bool
	Expected string
}
