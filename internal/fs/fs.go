// Package fs abstracts reading source text for the parser: a thin
// seam so hosts can serve .quest/.qsf files from anything (embedded
// assets, a network store, tests) without the parser ever touching the
// operating system directly.
package fs

import (
	"os"

	"mozok/internal/result"
)

// FileSystem resolves a path to its text contents.
type FileSystem interface {
	GetTextFile(path string) (string, result.Result)
}

// OS is the default FileSystem, reading directly from the local
// filesystem via os.ReadFile.
type OS struct{}

func (OS) GetTextFile(path string) (string, result.Result) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", result.Errorf("Can't read file '%s': %s", path, err.Error())
	}
	return string(data), result.OK()
}
