// Package model locates the files of an influx_si network model: the .netw
// file naming the model and the sibling files sharing its stem.
package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// NetwExt is the extension of the network file that names a model.
const NetwExt = ".netw"

// Extensions lists the model file extensions, in the order they are
// reported.
var Extensions = []string{".netw", ".tvar", ".mflux", ".miso", ".cnstr", ".mmet", ".opt"}

// Model is a network model on disk.
type Model struct {
	Name  string
	Dir   string
	Files map[string]string // extension -> path
}

// Discover validates netwPath and collects the model files next to it.
func Discover(netwPath string) (*Model, error) {
	info, err := os.Stat(netwPath)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("model: %s is a directory", netwPath)
	}
	if filepath.Ext(netwPath) != NetwExt {
		return nil, fmt.Errorf("model: %s is invalid, expected a file with %q extension", netwPath, NetwExt)
	}

	m := &Model{
		Name:  strings.TrimSuffix(filepath.Base(netwPath), NetwExt),
		Dir:   filepath.Dir(netwPath),
		Files: make(map[string]string),
	}
	for _, ext := range Extensions {
		path := filepath.Join(m.Dir, m.Name+ext)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			m.Files[ext] = path
		}
	}
	return m, nil
}

// Kinds returns the extensions present, without dot, in Extensions order.
// They are the constant columns of a .vmtf file.
func (m *Model) Kinds() []string {
	var kinds []string
	for _, ext := range Extensions {
		if _, ok := m.Files[ext]; ok {
			kinds = append(kinds, strings.TrimPrefix(ext, "."))
		}
	}
	return kinds
}

// CopyTo copies the model files into dir, which must exist.
func (m *Model) CopyTo(dir string) error {
	for _, ext := range Extensions {
		src, ok := m.Files[ext]
		if !ok {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
		}
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
