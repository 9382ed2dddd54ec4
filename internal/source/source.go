// Package source reads the schema files of a documentation bundle, given as
// a zip archive or an unpacked directory.
package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/oaserrors"
)

// File is one schema file of a bundle.
type File struct {
	// Name is the slash-separated path inside the bundle.
	Name string
	// Namespace is the tag derived from Name by the path rules.
	Namespace string
	Data      []byte
}

// Selector decides which bundle entries are read and how they are tagged.
type Selector struct {
	Source    config.SourceConfig
	Namespace config.NamespaceConfig
}

// NewSelector returns the selector of cfg.
func NewSelector(cfg *config.Config) Selector {
	return Selector{Source: cfg.Source, Namespace: cfg.Namespace}
}

func (s Selector) file(name string, data []byte) File {
	return File{Name: name, Namespace: s.Namespace.ForPath(name), Data: data}
}

// ReadArchive reads every selected entry of the zip archive at path.
func ReadArchive(path string, sel Selector) ([]File, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &oaserrors.SourceError{Path: path, Message: "cannot open archive", Cause: err}
	}
	defer func() { _ = zr.Close() }()

	files, err := readZip(&zr.Reader, sel)
	if err != nil {
		return nil, &oaserrors.SourceError{Path: path, Message: "cannot read archive", Cause: err}
	}
	return files, nil
}

// ReadArchiveFrom reads every selected entry of a zip archive held in r.
func ReadArchiveFrom(r io.ReaderAt, size int64, sel Selector) ([]File, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &oaserrors.SourceError{Message: "cannot open archive", Cause: err}
	}
	files, err := readZip(zr, sel)
	if err != nil {
		return nil, &oaserrors.SourceError{Message: "cannot read archive", Cause: err}
	}
	return files, nil
}

func readZip(zr *zip.Reader, sel Selector) ([]File, error) {
	var files []File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !sel.Source.Include(zf.Name) {
			continue
		}
		data, err := readZipFile(zf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", zf.Name, err)
		}
		files = append(files, sel.file(zf.Name, data))
	}
	Sort(files)
	return files, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// ReadDirectory reads every selected file below root. Names are relative to
// root and slash-separated, as they would be inside the archive.
func ReadDirectory(root string, sel Selector) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &oaserrors.SourceError{Path: root, Message: "cannot open directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &oaserrors.SourceError{Path: root, Message: "not a directory"}
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !sel.Source.Include(name) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, sel.file(name, data))
		return nil
	})
	if err != nil {
		return nil, &oaserrors.SourceError{Path: root, Message: "cannot read directory", Cause: err}
	}
	Sort(files)
	return files, nil
}

// Read reads a bundle from path, which may be a zip archive or a directory.
func Read(path string, sel Selector) ([]File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &oaserrors.SourceError{Path: path, Message: "bundle does not exist", Cause: err}
		}
		return nil, &oaserrors.SourceError{Path: path, Message: "cannot open bundle", Cause: err}
	}
	if info.IsDir() {
		return ReadDirectory(path, sel)
	}
	return ReadArchive(path, sel)
}

// Sort orders files by name. Output ordering follows input ordering, so
// every reader sorts.
func Sort(files []File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
}
