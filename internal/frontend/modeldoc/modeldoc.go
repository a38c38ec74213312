// Package modeldoc reads declaration trees that were built ahead of time and
// stored as YAML or JSON documents.
package modeldoc

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/frontend"
)

// Document is one declaration of a model document. The root document is the
// file; its kind may be omitted.
type Document struct {
	Kind               string     `yaml:"kind"`
	Name               string     `yaml:"name"`
	Access             string     `yaml:"access"`
	ClassType          string     `yaml:"class_type"`
	FunctionType       string     `yaml:"function_type"`
	Flags              []string   `yaml:"flags"`
	Bases              []Base     `yaml:"bases"`
	TemplateParameters []string   `yaml:"template_parameters"`
	Type               string     `yaml:"type"`
	Default            *string    `yaml:"default"`
	Value              string     `yaml:"value"`
	Children           []Document `yaml:"children"`
}

// Base is one base class of a class document.
type Base struct {
	Name     string `yaml:"name"`
	Modifier string `yaml:"modifier"`
}

var kinds = map[string]codemodel.Kind{
	"file":                codemodel.KindFile,
	"namespace":           codemodel.KindNamespace,
	"class":               codemodel.KindClass,
	"enum":                codemodel.KindEnum,
	"enumerator":          codemodel.KindEnumerator,
	"function":            codemodel.KindFunction,
	"function_definition": codemodel.KindFunctionDefinition,
	"variable":            codemodel.KindVariable,
	"member":              codemodel.KindMember,
	"type_alias":          codemodel.KindTypeAlias,
	"argument":            codemodel.KindArgument,
	"template_parameter":  codemodel.KindTemplateParameter,
}

// Frontend reads model documents. Documents are picked by file extension,
// so they are always read from a file.
type Frontend struct{}

var _ frontend.Frontend = (*Frontend)(nil)

// New returns a model document front end.
func New() *Frontend {
	return &Frontend{}
}

// Preprocess returns the raw document.
func (f *Frontend) Preprocess(_ context.Context, req frontend.Request) ([]byte, error) {
	data, err := os.ReadFile(req.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "read model document %s", req.Source)
	}
	return data, nil
}

// MacroNames returns nothing; documents are not preprocessed.
func (f *Frontend) MacroNames(context.Context, frontend.Request) ([]string, error) {
	return nil, nil
}

// Parse decodes contents and builds the File item.
func (f *Frontend) Parse(_ context.Context, req frontend.Request, contents []byte) (*codemodel.Item, error) {
	var doc Document
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode model document %s", req.Source)
	}
	root, err := Build(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "build model from %s", req.Source)
	}
	return root, nil
}

// Build turns a decoded document into a declaration tree. Creation ids follow
// document order.
func Build(doc Document) (*codemodel.Item, error) {
	if doc.Kind != "" && doc.Kind != "file" {
		return nil, errors.Newf("root document must be a file, got %q", doc.Kind)
	}
	m := codemodel.New()
	root := m.Create(codemodel.KindFile, "", nil)
	if err := buildChildren(m, root, doc.Children); err != nil {
		return nil, err
	}
	return root, nil
}

func buildChildren(m *codemodel.Model, parent *codemodel.Item, docs []Document) error {
	for i, d := range docs {
		kind, ok := kinds[d.Kind]
		if !ok || kind == codemodel.KindFile {
			return errors.Newf("child %d of %q: unknown kind %q", i, parent.Name, d.Kind)
		}
		it, err := m.CreateIn(parent, kind, d.Name)
		if err != nil {
			return err
		}
		if err := fill(m, it, d); err != nil {
			return errors.Wrapf(err, "%s %q", d.Kind, d.Name)
		}
		if err := buildChildren(m, it, d.Children); err != nil {
			return err
		}
	}
	return nil
}

func fill(m *codemodel.Model, it *codemodel.Item, d Document) error {
	access, ok := codemodel.ParseAccessPolicy(d.Access)
	if !ok && d.Access != "" {
		return errors.Newf("unknown access %q", d.Access)
	}

	switch {
	case it.Class != nil:
		it.Class.Access = access
		if d.ClassType != "" {
			ct, ok := codemodel.ParseClassType(d.ClassType)
			if !ok {
				return errors.Newf("unknown class_type %q", d.ClassType)
			}
			it.Class.ClassType = ct
		}
		for _, b := range d.Bases {
			it.Class.BaseClasses = append(it.Class.BaseClasses, b.Name)
			it.Class.BaseModifiers = append(it.Class.BaseModifiers, b.Modifier)
		}
	case it.Enum != nil:
		it.Enum.Access = access
	case it.Enumerator != nil:
		it.Enumerator.Value = d.Value
	case it.TypeAlias != nil:
		it.TypeAlias.Type = codemodel.ParseType(d.Type)
	case it.Argument != nil:
		it.Argument.Type = codemodel.ParseType(d.Type)
		if d.Default != nil {
			it.Argument.DefaultValue = true
			it.Argument.DefaultValueExpression = *d.Default
		}
	}

	if it.Member != nil {
		it.Member.Access = access
		it.Member.Type = codemodel.ParseType(d.Type)
	}
	if it.Function != nil {
		ft, ok := codemodel.ParseFunctionType(d.FunctionType)
		if !ok {
			return errors.Newf("unknown function_type %q", d.FunctionType)
		}
		it.Function.FunctionType = ft
	}
	for _, flag := range d.Flags {
		if err := setFlag(it, flag); err != nil {
			return err
		}
	}
	for _, name := range d.TemplateParameters {
		if _, err := m.CreateIn(it, codemodel.KindTemplateParameter, name); err != nil {
			return err
		}
	}
	return nil
}

func setFlag(it *codemodel.Item, flag string) error {
	if it.Member != nil {
		switch flag {
		case "constant":
			it.Member.Constant = true
			return nil
		case "volatile":
			it.Member.Volatile = true
			return nil
		case "static":
			it.Member.Static = true
			return nil
		case "auto":
			it.Member.Auto = true
			return nil
		case "friend":
			it.Member.Friend = true
			return nil
		case "register":
			it.Member.Register = true
			return nil
		case "extern":
			it.Member.Extern = true
			return nil
		case "mutable":
			it.Member.Mutable = true
			return nil
		}
	}
	if it.Function != nil {
		switch flag {
		case "virtual":
			it.Function.Virtual = true
			return nil
		case "inline":
			it.Function.Inline = true
			return nil
		case "explicit":
			it.Function.Explicit = true
			return nil
		case "abstract":
			it.Function.Abstract = true
			return nil
		case "variadics":
			it.Function.Variadics = true
			return nil
		}
	}
	return errors.Newf("flag %q does not apply", flag)
}
