// files.go handles reading individual context files into the registry.
//
// Separated from loader.go to keep the failure classification in one
// place: everything that goes wrong before definitions reach the registry
// is a file-level error (isolated), everything after is definition-level
// (fatal).

package loader

import (
	"os"
	"path/filepath"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/registry"
)

// fileParseError marks read/parse failures for isolation.
type fileParseError struct {
	err error
}

func (e *fileParseError) Error() string { return e.err.Error() }
func (e *fileParseError) Unwrap() error { return e.err }

// addFile loads one context file into reg. Read and parse failures come
// back as *fileParseError; registry rejections come back as-is.
func addFile(reg *registry.Registry, path string) error {
	defs, err := parseFile(path, filepath.Dir(path))
	if err != nil {
		return err
	}
	for _, d := range defs {
		if err := reg.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// parseFile reads and decodes one context file. Sources are recorded
// relative to baseDir when possible, keeping output stable across
// machines.
func parseFile(path, baseDir string) ([]bean.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &fileParseError{err: err}
	}

	source := path
	if rel, relErr := filepath.Rel(baseDir, path); relErr == nil {
		source = rel
	}

	defs, err := bean.Parse(data, source)
	if err != nil {
		return nil, &fileParseError{err: err}
	}
	return defs, nil
}
