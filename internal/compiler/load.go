package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadFile reads and compiles a design file. The design is named after the
// file unless it sets name itself.
func LoadFile(path string, mode Mode) (*Design, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read design file: %w", err)}
	}
	d, errs := LoadBytes(path, data, mode)
	if len(errs) > 0 {
		return nil, errs
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// LoadBytes compiles design source. filename only labels positions.
func LoadBytes(filename string, src []byte, mode Mode) (*Design, []error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError("design", err)}
	}
	return Compile(v, mode)
}
