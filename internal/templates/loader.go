// internal/templates/loader.go

// Package templates decodes mapping-template documents into domain types.
// Documents are YAML (JSON being a YAML subset, both work) and describe the
// logical shape of a template: one entry per output field with kind-specific
// configuration. Decoding is strict about enum names so typos surface at
// load time, before any record is processed.
package templates

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

// templateDoc is the on-disk shape of a template.
type templateDoc struct {
	TemplateID string       `yaml:"template_id"`
	Name       string       `yaml:"name"`
	Mappings   []mappingDoc `yaml:"mappings"`
}

type mappingDoc struct {
	Target    string        `yaml:"target"`
	Position  int           `yaml:"position"`
	Kind      string        `yaml:"kind"`
	Constant  *string       `yaml:"constant"`
	Source    string        `yaml:"source"`
	Composite *compositeDoc `yaml:"composite"`
	Conds     []condDoc     `yaml:"conditions"`
	Default   *string       `yaml:"default"`
	Length    int           `yaml:"length"`
	PadSide   string        `yaml:"pad_side"`
	PadChar   string        `yaml:"pad_char"`
}

type compositeDoc struct {
	Operation string      `yaml:"operation"`
	Delimiter string      `yaml:"delimiter"`
	Sources   []sourceDoc `yaml:"sources"`
}

type sourceDoc struct {
	Field    string `yaml:"field"`
	Function string `yaml:"function"`
}

type condDoc struct {
	Predicate string `yaml:"predicate"`
	Then      string `yaml:"then"`
}

// Parse decodes a template document.
func Parse(data []byte) (*types.Template, error) {
	var doc templateDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}

	tmpl := &types.Template{
		TemplateID: types.TemplateID(doc.TemplateID),
		Name:       doc.Name,
		Mappings:   make([]types.FieldMapping, 0, len(doc.Mappings)),
	}

	for i, md := range doc.Mappings {
		m, err := convertMapping(md)
		if err != nil {
			return nil, fmt.Errorf("mapping %d (%s): %w", i, md.Target, err)
		}
		tmpl.Mappings = append(tmpl.Mappings, m)
	}

	return tmpl, nil
}

// LoadFile reads and decodes a template document from disk.
func LoadFile(path string) (*types.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return Parse(data)
}

func convertMapping(md mappingDoc) (types.FieldMapping, error) {
	kind, err := ParseKind(md.Kind)
	if err != nil {
		return types.FieldMapping{}, err
	}
	padSide, err := parsePadSide(md.PadSide)
	if err != nil {
		return types.FieldMapping{}, err
	}
	padChar, err := parsePadChar(md.PadChar)
	if err != nil {
		return types.FieldMapping{}, err
	}

	m := types.FieldMapping{
		TargetField:    md.Target,
		TargetPosition: md.Position,
		Kind:           kind,
		ConstantValue:  md.Constant,
		SourceField:    md.Source,
		DefaultValue:   md.Default,
		Length:         md.Length,
		PadSide:        padSide,
		PadChar:        padChar,
	}

	if md.Composite != nil {
		spec, err := convertComposite(*md.Composite)
		if err != nil {
			return types.FieldMapping{}, err
		}
		m.Composite = spec
	}

	for _, cd := range md.Conds {
		m.Conditions = append(m.Conditions, types.Condition{
			Predicate: cd.Predicate,
			Then:      cd.Then,
		})
	}

	return m, nil
}

func convertComposite(cd compositeDoc) (*types.CompositeSpec, error) {
	op, err := parseOperation(cd.Operation)
	if err != nil {
		return nil, err
	}
	spec := &types.CompositeSpec{
		Operation: op,
		Delimiter: cd.Delimiter,
		Sources:   make([]types.CompositeSource, 0, len(cd.Sources)),
	}
	for _, sd := range cd.Sources {
		fn, err := parseFunction(sd.Function)
		if err != nil {
			return nil, err
		}
		spec.Sources = append(spec.Sources, types.CompositeSource{
			Field:    sd.Field,
			Function: fn,
		})
	}
	return spec, nil
}

// ParseKind converts a document kind name to its enum value.
func ParseKind(s string) (types.MappingKind, error) {
	switch strings.ToLower(s) {
	case "constant":
		return types.KindConstant, nil
	case "source":
		return types.KindSource, nil
	case "composite":
		return types.KindComposite, nil
	case "conditional":
		return types.KindConditional, nil
	case "blank":
		return types.KindBlank, nil
	default:
		return types.KindUnspecified, fmt.Errorf("%w: %q", types.ErrUnknownKind, s)
	}
}

func parseOperation(s string) (types.AggregateOp, error) {
	switch strings.ToLower(s) {
	case "sum":
		return types.AggSum, nil
	case "avg", "average":
		return types.AggAvg, nil
	case "min":
		return types.AggMin, nil
	case "max":
		return types.AggMax, nil
	case "concat":
		return types.AggConcat, nil
	default:
		return types.AggUnspecified, fmt.Errorf("unknown composite operation %q", s)
	}
}

func parseFunction(s string) (types.SourceFunc, error) {
	switch strings.ToLower(s) {
	case "":
		return types.FuncNone, nil
	case "upper":
		return types.FuncUpper, nil
	case "lower":
		return types.FuncLower, nil
	case "trim":
		return types.FuncTrim, nil
	default:
		return types.FuncNone, fmt.Errorf("unknown source function %q", s)
	}
}

func parsePadSide(s string) (types.PadSide, error) {
	switch strings.ToLower(s) {
	case "", "right":
		return types.PadRight, nil
	case "left":
		return types.PadLeft, nil
	default:
		return types.PadRight, fmt.Errorf("unknown pad side %q", s)
	}
}

func parsePadChar(s string) (rune, error) {
	if s == "" {
		return 0, nil // engine defaults to space
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("pad_char must be a single character, got %q", s)
	}
	return r, nil
}
