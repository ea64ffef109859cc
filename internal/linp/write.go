package linp

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/isodesign/internal/ir"
)

// ManifestName is the file listing every written configuration.
const ManifestName = "files_combinations.txt"

// Ext is the extension of label-input files.
const Ext = ".linp"

var linpHeader = []string{"Id", "Comment", "Specie", "Isotopomer", "Value", "Price"}

// WriteLINP writes cfg as a tab-separated .linp table.
func WriteLINP(w io.Writer, cfg ir.Configuration) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(linpHeader); err != nil {
		return err
	}
	for _, r := range cfg.Rows {
		if err := cw.Write([]string{"", "", r.Specie, r.Isotopomer, r.Value, r.Price}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteManifest writes the human-readable list of configurations: the id
// and species on the first line, then patterns, values and prices.
func WriteManifest(w io.Writer, configs []ir.Configuration) error {
	bw := bufio.NewWriter(w)
	for _, cfg := range configs {
		species := make([]string, len(cfg.Rows))
		patterns := make([]string, len(cfg.Rows))
		values := make([]string, len(cfg.Rows))
		prices := make([]string, len(cfg.Rows))
		for i, r := range cfg.Rows {
			species[i] = r.Specie
			patterns[i] = r.Isotopomer
			values[i] = r.Value
			prices[i] = r.Price
			if prices[i] == "" {
				prices[i] = "-"
			}
		}
		fmt.Fprintf(bw, "%s - %s\n", cfg.ID, strings.Join(species, ", "))
		fmt.Fprintf(bw, "\t%s\n", strings.Join(patterns, ", "))
		fmt.Fprintf(bw, "\t%s\n", strings.Join(values, ", "))
		fmt.Fprintf(bw, "\t%s\n", strings.Join(prices, ", "))
	}
	return bw.Flush()
}

// WriteFiles writes one <id>.linp file per selected configuration and the
// manifest into dir, creating dir if needed. It returns the ids written.
func WriteFiles(dir string, sel Selection) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	configs := sel.Configurations()
	ids := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if err := writeFile(filepath.Join(dir, cfg.ID+Ext), func(w io.Writer) error {
			return WriteLINP(w, cfg)
		}); err != nil {
			return nil, fmt.Errorf("write %s: %w", cfg.ID, err)
		}
		ids = append(ids, cfg.ID)
	}

	if err := writeFile(filepath.Join(dir, ManifestName), func(w io.Writer) error {
		return WriteManifest(w, configs)
	}); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return ids, nil
}

// VMTF describes a .vmtf file: the model name, the extensions (without
// dot) of the constant model files present, and the configuration ids.
type VMTF struct {
	Name     string
	Constant []string
	IDs      []string
}

// WriteVMTF writes <Name>.vmtf into dir and returns its path. Each row
// pairs the constant model files with one .linp file; the ftbl column
// names the result directory after the configuration id. The leading Id
// and Comment columns are part of the vmtf layout and are left empty.
func WriteVMTF(dir string, v VMTF) (string, error) {
	if v.Name == "" {
		return "", fmt.Errorf("vmtf: model name is empty")
	}
	if len(v.IDs) == 0 {
		return "", fmt.Errorf("vmtf: no configurations")
	}

	header := append([]string{"Id", "Comment"}, v.Constant...)
	header = append(header, "linp", "ftbl")

	path := filepath.Join(dir, v.Name+".vmtf")
	err := writeFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = '\t'
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, id := range v.IDs {
			row := []string{"", ""} // Id, Comment
			for range v.Constant {
				row = append(row, v.Name)
			}
			row = append(row, id, id)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", fmt.Errorf("write vmtf: %w", err)
	}
	return path, nil
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
