package codemodel

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Item is one declaration of a translation unit. The header fields are
// common to every kind; each facet pointer is non-nil exactly when Kind
// satisfies the facet, so a Function carries both Member and Function.
type Item struct {
	Kind          Kind
	Name          string
	QualifiedName []string
	Scope         []string
	CreationID    int

	Scoped     *ScopeFacet
	Member     *MemberFacet
	Function   *FunctionFacet
	Argument   *ArgumentFacet
	Class      *ClassFacet
	Enum       *EnumFacet
	Enumerator *EnumeratorFacet
	TypeAlias  *TypeAliasFacet
}

// ScopeFacet holds the declarations nested in a scope, in declaration order.
// Namespaces is only populated for namespaces and files.
type ScopeFacet struct {
	Namespaces  []*Item
	Classes     []*Item
	Enums       []*Item
	Functions   []*Item
	TypeAliases []*Item
	Variables   []*Item
}

// MemberFacet is shared by variables, data members and functions.
type MemberFacet struct {
	Constant bool
	Volatile bool
	Static   bool
	Auto     bool
	Friend   bool
	Register bool
	Extern   bool
	Mutable  bool

	Access             AccessPolicy
	Type               TypeInfo
	TemplateParameters []*Item
}

// FunctionFacet holds function specifiers and arguments.
type FunctionFacet struct {
	Virtual      bool
	Inline       bool
	Explicit     bool
	Abstract     bool
	Variadics    bool
	FunctionType FunctionType
	Arguments    []*Item
}

// ArgumentFacet describes one function parameter.
type ArgumentFacet struct {
	Type                   TypeInfo
	DefaultValue           bool
	DefaultValueExpression string
}

// ClassFacet describes a class, struct or union. BaseClasses and
// BaseModifiers pair positionally.
type ClassFacet struct {
	Access             AccessPolicy
	BaseClasses        []string
	BaseModifiers      []string
	ClassType          ClassType
	TemplateParameters []*Item
}

// EnumFacet holds the enumerators of an enum in declaration order.
type EnumFacet struct {
	Access      AccessPolicy
	Enumerators []*Item
}

// EnumeratorFacet holds the literal value text; empty means omitted.
type EnumeratorFacet struct {
	Value string
}

// TypeAliasFacet holds the target of a typedef or alias declaration.
type TypeAliasFacet struct {
	Type TypeInfo
}

// Add appends child to the collection of it that matches the child's kind.
func (it *Item) Add(child *Item) error {
	switch {
	case child.Kind.Is(KindArgument):
		if it.Function == nil {
			return errors.Newf("%s cannot hold argument %q", it.describe(), child.Name)
		}
		it.Function.Arguments = append(it.Function.Arguments, child)
		return nil
	case child.Kind.Is(KindEnumerator):
		if it.Enum == nil {
			return errors.Newf("%s cannot hold enumerator %q", it.describe(), child.Name)
		}
		it.Enum.Enumerators = append(it.Enum.Enumerators, child)
		return nil
	case child.Kind.Is(KindTemplateParameter):
		switch {
		case it.Class != nil:
			it.Class.TemplateParameters = append(it.Class.TemplateParameters, child)
		case it.Member != nil:
			it.Member.TemplateParameters = append(it.Member.TemplateParameters, child)
		default:
			return errors.Newf("%s cannot hold template parameter %q", it.describe(), child.Name)
		}
		return nil
	}

	if it.Scoped == nil {
		return errors.Newf("%s is not a scope, cannot hold %q", it.describe(), child.Name)
	}
	s := it.Scoped
	switch {
	case child.Kind.Is(KindNamespace):
		if !it.Kind.Is(KindNamespace) {
			return errors.Newf("%s cannot hold namespace %q", it.describe(), child.Name)
		}
		s.Namespaces = append(s.Namespaces, child)
	case child.Kind.Is(KindClass):
		s.Classes = append(s.Classes, child)
	case child.Kind.Is(KindEnum):
		s.Enums = append(s.Enums, child)
	case child.Kind.Is(KindFunction):
		s.Functions = append(s.Functions, child)
	case child.Kind.Is(KindTypeAlias):
		s.TypeAliases = append(s.TypeAliases, child)
	case child.Kind.Is(KindMember):
		s.Variables = append(s.Variables, child)
	default:
		return errors.Newf("%s cannot hold %q of kind %#x", it.describe(), child.Name, int(child.Kind))
	}
	return nil
}

// FindNamespace returns the first nested namespace called name.
func (it *Item) FindNamespace(name string) *Item {
	if it.Scoped == nil {
		return nil
	}
	return findByName(it.Scoped.Namespaces, name)
}

// FindClass returns the first nested class called name.
func (it *Item) FindClass(name string) *Item {
	if it.Scoped == nil {
		return nil
	}
	return findByName(it.Scoped.Classes, name)
}

// FindEnum returns the first nested enum called name.
func (it *Item) FindEnum(name string) *Item {
	if it.Scoped == nil {
		return nil
	}
	return findByName(it.Scoped.Enums, name)
}

// FindTypeAlias returns the first nested type alias called name.
func (it *Item) FindTypeAlias(name string) *Item {
	if it.Scoped == nil {
		return nil
	}
	return findByName(it.Scoped.TypeAliases, name)
}

func findByName(items []*Item, name string) *Item {
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	return nil
}

func (it *Item) describe() string {
	if len(it.QualifiedName) == 0 {
		return "item"
	}
	return strings.Join(it.QualifiedName, "::")
}
