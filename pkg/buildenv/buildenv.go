// Package buildenv captures the ambient process environment the option
// schema depends on: directories, CPU count, terminal and CI detection.
//
// The snapshot is taken once at process start and injected into option
// registration, so schema defaults and the validator stay pure and testable
// instead of reading the environment behind the caller's back.
package buildenv

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"gitlab.com/tozd/go/errors"
)

// Version is the anvil release this binary was built from.
const Version = "2.0.0.dev0"

// markerFiles identify a directory as a build root, checked in order while
// walking upward from the working directory.
var markerFiles = []string{"anvil.yaml", "anvil.hcl", ".anvilrc", "BUILDROOT"}

// Env is an immutable snapshot of the process environment.
type Env struct {
	// BuildRoot is the repository root: the nearest ancestor of the working
	// directory carrying a marker file, or the working directory itself.
	BuildRoot string

	// CacheDir is the per-user anvil cache directory.
	CacheDir string

	// ConfigDir is the per-user anvil config directory.
	ConfigDir string

	// TempDir is the default sandbox root for local process execution.
	TempDir string

	// NumCPUs is the host's available-processor count.
	NumCPUs int

	StdoutIsTTY bool
	StderrIsTTY bool

	// InCI reports whether a CI-indicator environment variable is present.
	// It suppresses the dynamic-UI default.
	InCI bool

	// Version of the running binary.
	Version string
}

// Capture snapshots the process environment. Call it once at startup.
func Capture() (Env, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Env{}, errors.Errorf("determining working directory: %w", err)
	}

	userCache, err := os.UserCacheDir()
	if err != nil {
		return Env{}, errors.Errorf("determining user cache dir: %w", err)
	}
	userConfig, err := os.UserConfigDir()
	if err != nil {
		return Env{}, errors.Errorf("determining user config dir: %w", err)
	}

	_, inCI := os.LookupEnv("CI")

	return Env{
		BuildRoot:   findBuildRoot(cwd),
		CacheDir:    filepath.Join(userCache, "anvil"),
		ConfigDir:   filepath.Join(userConfig, "anvil"),
		TempDir:     os.TempDir(),
		NumCPUs:     runtime.NumCPU(),
		StdoutIsTTY: isTerminal(os.Stdout),
		StderrIsTTY: isTerminal(os.Stderr),
		InCI:        inCI,
		Version:     Version,
	}, nil
}

// DefaultConfigFile is the config file anvil reads when none is given.
func (e Env) DefaultConfigFile() string {
	return filepath.Join(e.BuildRoot, "anvil.yaml")
}

// findBuildRoot walks upward from start looking for a marker file. If no
// ancestor carries one, start itself is the build root.
func findBuildRoot(start string) string {
	dir := start
	for {
		for _, marker := range markerFiles {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
