package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/mixture"
	"github.com/roach88/isodesign/internal/tracer"
)

// Design is a compiled design file.
type Design struct {
	Name       string
	Substrates []Substrate
}

// Substrate is one input metabolite with its tracers, unlabelled form first
// when present.
type Substrate struct {
	Name       string
	Carbons    int
	Unlabelled bool
	Tracers    []*tracer.Tracer
}

// Groups returns the substrate groups in declaration order.
func (d *Design) Groups() []mixture.Group {
	groups := make([]mixture.Group, len(d.Substrates))
	for i, s := range d.Substrates {
		groups[i] = mixture.Group{
			Substrate: s.Name,
			Tracers:   append([]*tracer.Tracer(nil), s.Tracers...),
		}
	}
	return groups
}

// Object returns the canonical form of the design, for hashing and storage.
// The name is left out: renaming a file does not change its content id.
func (d *Design) Object() ir.Object {
	subs := make(ir.Array, len(d.Substrates))
	for i, s := range d.Substrates {
		tracers := make(ir.Array, len(s.Tracers))
		for j, t := range s.Tracers {
			obj := ir.Object{
				"labelling": ir.String(t.Labelling()),
				"intervals": ir.Int(t.Intervals()),
				"lower":     ir.String(frac.String(t.Lower())),
				"upper":     ir.String(frac.String(t.Upper())),
			}
			if t.HasPrice() {
				obj["price"] = ir.String(frac.String(t.Price()))
			}
			tracers[j] = obj
		}
		subs[i] = ir.Object{
			"name":    ir.String(s.Name),
			"carbons": ir.Int(s.Carbons),
			"tracers": tracers,
		}
	}
	return ir.Object{"substrates": subs}
}

// Hash returns the content id of the design.
func (d *Design) Hash() (string, error) {
	return ir.DesignHash(d.Object())
}

// Mode controls error handling during compilation.
type Mode int

const (
	// FailFast stops at the first error.
	FailFast Mode = iota
	// CollectAll reports every error it can find.
	CollectAll
)

type compiler struct {
	mode Mode
	errs []error
}

// fail records err and reports whether compilation must stop.
func (c *compiler) fail(err error) bool {
	c.errs = append(c.errs, err)
	return c.mode == FailFast
}

// CompileDesign compiles the root value of a design file.
func CompileDesign(v cue.Value) (*Design, error) {
	d, errs := Compile(v, FailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return d, nil
}

// Compile compiles the root value of a design file. With CollectAll the
// returned design is nil whenever errors are returned.
func Compile(v cue.Value, mode Mode) (*Design, []error) {
	c := &compiler{mode: mode}
	d := c.design(v)
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return d, nil
}

var designFields = map[string]bool{"name": true, "substrate": true}

func (c *compiler) design(v cue.Value) *Design {
	if err := v.Validate(); err != nil {
		c.fail(formatCUEError("design", err))
		return nil
	}
	if c.unknownFields(v, "design", designFields) {
		return nil
	}

	d := &Design{}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			if c.fail(invalidType("name", "a string", nameVal)) {
				return nil
			}
		}
		d.Name = name
	}

	subsVal := v.LookupPath(cue.ParsePath("substrate"))
	if !subsVal.Exists() {
		c.fail(&CompileError{Code: CodeNoSubstrates, Field: "substrate", Message: "at least one substrate is required", Pos: v.Pos()})
		return nil
	}
	iter, err := subsVal.Fields()
	if err != nil {
		c.fail(formatCUEError("substrate", err))
		return nil
	}
	for iter.Next() {
		s, ok := c.substrate(iter.Selector().Unquoted(), iter.Value())
		if !ok {
			if c.mode == FailFast {
				return nil
			}
			continue
		}
		d.Substrates = append(d.Substrates, *s)
	}
	if len(d.Substrates) == 0 && len(c.errs) == 0 {
		c.fail(&CompileError{Code: CodeNoSubstrates, Field: "substrate", Message: "at least one substrate is required", Pos: subsVal.Pos()})
	}
	return d
}

var substrateFields = map[string]bool{"carbons": true, "unlabelled": true, "tracers": true}

// CompileSubstrate compiles one substrate struct.
func CompileSubstrate(name string, v cue.Value) (*Substrate, error) {
	c := &compiler{mode: FailFast}
	s, ok := c.substrate(name, v)
	if !ok {
		return nil, c.errs[0]
	}
	return s, nil
}

func (c *compiler) substrate(name string, v cue.Value) (*Substrate, bool) {
	field := "substrate." + name
	before := len(c.errs)
	if c.unknownFields(v, field, substrateFields) {
		return nil, false
	}

	carbonsVal := v.LookupPath(cue.ParsePath("carbons"))
	if !carbonsVal.Exists() {
		c.fail(&CompileError{Code: CodeMissingField, Field: field + ".carbons", Message: "carbons is required", Pos: v.Pos()})
		return nil, false
	}
	carbons, err := carbonsVal.Int64()
	if err != nil {
		c.fail(invalidType(field+".carbons", "an integer", carbonsVal))
		return nil, false
	}
	if carbons <= 0 {
		c.fail(&CompileError{Code: CodeInvalidValue, Field: field + ".carbons", Message: fmt.Sprintf("must be positive, got %d", carbons), Pos: carbonsVal.Pos()})
		return nil, false
	}

	s := &Substrate{Name: name, Carbons: int(carbons), Unlabelled: true}
	if ulVal := v.LookupPath(cue.ParsePath("unlabelled")); ulVal.Exists() {
		b, err := ulVal.Bool()
		if err != nil {
			if c.fail(invalidType(field+".unlabelled", "a boolean", ulVal)) {
				return nil, false
			}
		}
		s.Unlabelled = b
	}

	seen := make(map[string]bool)
	if listVal := v.LookupPath(cue.ParsePath("tracers")); listVal.Exists() {
		iter, err := listVal.List()
		if err != nil {
			c.fail(invalidType(field+".tracers", "a list", listVal))
			return nil, false
		}
		for i := 0; iter.Next(); i++ {
			tfield := fmt.Sprintf("%s.tracers[%d]", field, i)
			t, ok := c.tracer(name, s.Carbons, tfield, iter.Value())
			if !ok {
				if c.mode == FailFast {
					return nil, false
				}
				continue
			}
			if seen[t.Labelling()] {
				if c.fail(&CompileError{Code: CodeDuplicateLabelling, Field: tfield + ".labelling", Message: fmt.Sprintf("labelling %s already exists for %s", t.Labelling(), name), Pos: iter.Value().Pos()}) {
					return nil, false
				}
				continue
			}
			seen[t.Labelling()] = true
			s.Tracers = append(s.Tracers, t)
		}
	}

	unlabelled := strings.Repeat(string(tracer.Unlabelled), s.Carbons)
	if s.Unlabelled && !seen[unlabelled] {
		t, err := tracer.NewFixed(name, unlabelled, nil)
		if err != nil {
			c.fail(fromTracerError(field, v.Pos(), err))
			return nil, false
		}
		s.Tracers = append([]*tracer.Tracer{t}, s.Tracers...)
	}

	if len(c.errs) > before {
		return nil, false
	}
	if len(s.Tracers) == 0 {
		c.fail(&CompileError{Code: CodeNoTracers, Field: field + ".tracers", Message: "at least one tracer is required when unlabelled is false", Pos: v.Pos()})
		return nil, false
	}
	return s, true
}

var tracerFields = map[string]bool{"labelling": true, "intervals": true, "lower": true, "upper": true, "price": true}

// CompileTracer compiles one tracer struct of a substrate with the given
// carbon count.
func CompileTracer(substrate string, carbons int, v cue.Value) (*tracer.Tracer, error) {
	c := &compiler{mode: FailFast}
	t, ok := c.tracer(substrate, carbons, "tracer", v)
	if !ok {
		return nil, c.errs[0]
	}
	return t, nil
}

func (c *compiler) tracer(substrate string, carbons int, field string, v cue.Value) (*tracer.Tracer, bool) {
	if c.unknownFields(v, field, tracerFields) {
		return nil, false
	}

	labVal := v.LookupPath(cue.ParsePath("labelling"))
	if !labVal.Exists() {
		c.fail(&CompileError{Code: CodeMissingField, Field: field + ".labelling", Message: "labelling is required", Pos: v.Pos()})
		return nil, false
	}
	labelling, err := labVal.String()
	if err != nil {
		c.fail(invalidType(field+".labelling", "a string", labVal))
		return nil, false
	}
	if len(labelling) != carbons {
		c.fail(&CompileError{
			Code:    CodeLabellingLength,
			Field:   field + ".labelling",
			Message: fmt.Sprintf("number of atoms for %s should be equal to %d, got %q", substrate, carbons, labelling),
			Pos:     labVal.Pos(),
		})
		return nil, false
	}

	intervals := tracer.DefaultIntervals
	if iv := v.LookupPath(cue.ParsePath("intervals")); iv.Exists() {
		n, err := iv.Int64()
		if err != nil {
			c.fail(invalidType(field+".intervals", "an integer", iv))
			return nil, false
		}
		intervals = int(n)
	}

	lower, ok := c.decimal(v, field, "lower", frac.One())
	if !ok {
		return nil, false
	}
	upper, ok := c.decimal(v, field, "upper", frac.One())
	if !ok {
		return nil, false
	}
	price, ok := c.decimal(v, field, "price", nil)
	if !ok {
		return nil, false
	}

	t, err := tracer.New(substrate, labelling, intervals, lower, upper, price)
	if err != nil {
		c.fail(fromTracerError(field, v.Pos(), err))
		return nil, false
	}
	return t, true
}

// decimal reads an optional number field exactly. CUE keeps number
// literals as decimals, so the JSON text is the literal itself.
func (c *compiler) decimal(v cue.Value, field, name string, def *apd.Decimal) (*apd.Decimal, bool) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return def, true
	}
	if k := fv.Kind(); k != cue.IntKind && k != cue.FloatKind && k != cue.NumberKind {
		c.fail(invalidType(field+"."+name, "a number", fv))
		return nil, false
	}
	raw, err := fv.MarshalJSON()
	if err != nil {
		c.fail(formatCUEError(field+"."+name, err))
		return nil, false
	}
	d, err := frac.Parse(string(raw))
	if err != nil {
		c.fail(&CompileError{Code: CodeInvalidValue, Field: field + "." + name, Message: err.Error(), Pos: fv.Pos()})
		return nil, false
	}
	return d, true
}

// unknownFields records an error for every label not in allowed. It reports
// whether compilation must stop.
func (c *compiler) unknownFields(v cue.Value, field string, allowed map[string]bool) bool {
	iter, err := v.Fields()
	if err != nil {
		return c.fail(invalidType(field, "a struct", v))
	}
	for iter.Next() {
		label := iter.Selector().Unquoted()
		if !allowed[label] {
			if c.fail(&CompileError{Code: CodeUnknownField, Field: field + "." + label, Message: "unknown field", Pos: iter.Value().Pos()}) {
				return true
			}
		}
	}
	return false
}

func invalidType(field, want string, v cue.Value) error {
	return &CompileError{
		Code:    CodeInvalidType,
		Field:   field,
		Message: fmt.Sprintf("must be %s, got %v", want, v.Kind()),
		Pos:     v.Pos(),
	}
}
