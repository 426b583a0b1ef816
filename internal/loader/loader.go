// Package loader builds the parent registry from a conf directory: the
// core context file plus every plugin context file discovered beneath it.
//
// Failure handling follows the portal's startup contract. File-level
// problems (unreadable, malformed XML) are isolated: the file is skipped,
// recorded, and its siblings still load. Definition-level problems
// (unknown type, duplicate name, bad ref, failing init hook) abort the
// whole build - a registry with a known-bad bean must never come up.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/registry"
)

const (
	// SuffixContextFile identifies plugin context files.
	SuffixContextFile = "_context.xml"
	// FileCoreContext is the root context file, required in the conf dir.
	FileCoreContext = "core_context.xml"
	// DirPlugins is the conventional subdirectory for plugin contexts.
	DirPlugins = "plugins"
)

// InitError wraps a definition-level failure that aborted the build.
type InitError struct {
	Cause error
}

func (e *InitError) Error() string {
	return "context initialization failed: " + e.Cause.Error()
}

func (e *InitError) Unwrap() error { return e.Cause }

// FileError records one isolated file-level failure.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("context file %s: %v", e.Path, e.Err)
}

// Result is the outcome of a Load.
type Result struct {
	Registry *registry.Registry
	Loaded   []string    // context files that contributed definitions
	Skipped  []FileError // file-level failures that were isolated
}

// Load builds a registry from confDir. The core context file must load -
// its absence or malformation is a hard failure, as is any invalid
// definition in any file. Other context files are loaded with per-file
// isolation and reported in Result.Skipped.
func Load(confDir string) (*Result, error) {
	res := &Result{Registry: registry.New(nil)}

	corePath := filepath.Join(confDir, FileCoreContext)
	if err := addFile(res.Registry, corePath); err != nil {
		return nil, &InitError{Cause: err}
	}
	res.Loaded = append(res.Loaded, corePath)

	files, err := Discover(confDir)
	if err != nil {
		return nil, &InitError{Cause: err}
	}

	for _, path := range files {
		if err := addFile(res.Registry, path); err != nil {
			// Parse and read failures are isolated per file. Anything the
			// registry rejected is a bad declaration and fails the build.
			if isFileLevel(err) {
				res.Skipped = append(res.Skipped, FileError{Path: path, Err: err})
				continue
			}
			return nil, &InitError{Cause: err}
		}
		res.Loaded = append(res.Loaded, path)
	}

	if err := res.Registry.Refresh(); err != nil {
		return nil, &InitError{Cause: err}
	}
	return res, nil
}

// Discover returns every *_context.xml under confDir except the core
// file, sorted for deterministic load order. Conventionally these live in
// confDir/plugins/, but the walk is recursive so nested layouts work.
func Discover(confDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(confDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SuffixContextFile) {
			return nil
		}
		if d.Name() == FileCoreContext && filepath.Dir(path) == filepath.Clean(confDir) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk conf directory %s: %w", confDir, err)
	}
	return files, nil
}

// ParseDir parses every context file under confDir (core included)
// without building a registry. Used by the diff command, which compares
// declarations rather than live containers. File-level failures are
// returned alongside whatever parsed.
func ParseDir(confDir string) ([]bean.Definition, []FileError, error) {
	corePath := filepath.Join(confDir, FileCoreContext)
	paths := []string{}
	if _, err := os.Stat(corePath); err == nil {
		paths = append(paths, corePath)
	}
	discovered, err := Discover(confDir)
	if err != nil {
		return nil, nil, err
	}
	paths = append(paths, discovered...)

	var defs []bean.Definition
	var skipped []FileError
	for _, path := range paths {
		fileDefs, err := parseFile(path, confDir)
		if err != nil {
			skipped = append(skipped, FileError{Path: path, Err: err})
			continue
		}
		defs = append(defs, fileDefs...)
	}
	return defs, skipped, nil
}

// isFileLevel reports whether err is a read/parse failure rather than a
// rejected declaration.
func isFileLevel(err error) bool {
	var fe *fileParseError
	return errors.As(err, &fe)
}
