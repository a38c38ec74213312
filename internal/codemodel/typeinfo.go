package codemodel

import (
	"slices"
	"strings"
)

// TypeInfo is a reference to a type: its qualified name plus the qualifiers
// and declarator shape it was used with. Two TypeInfos are equal iff every
// field matches. An rvalue reference sets both Reference and RValue.
type TypeInfo struct {
	QualifiedName   []string
	Constant        bool
	Volatile        bool
	Reference       bool
	RValue          bool
	FunctionPointer bool
	Indirections    int
	ArrayElements   []string
	Arguments       []TypeInfo
}

// String renders the type the way the binder model prints it, e.g.
// "std::string const*&" or "void (*)(int, char)".
func (t TypeInfo) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.QualifiedName, "::"))
	if t.Constant {
		b.WriteString(" const")
	}
	if t.Volatile {
		b.WriteString(" volatile")
	}
	if t.Indirections > 0 {
		b.WriteString(strings.Repeat("*", t.Indirections))
	}
	if t.Reference {
		b.WriteByte('&')
		if t.RValue {
			b.WriteByte('&')
		}
	}
	if t.FunctionPointer {
		b.WriteString(" (*)(")
		for i, arg := range t.Arguments {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte(')')
	}
	for _, elt := range t.ArrayElements {
		b.WriteByte('[')
		b.WriteString(elt)
		b.WriteByte(']')
	}
	return b.String()
}

// Equal reports whether t and o match field by field.
func (t TypeInfo) Equal(o TypeInfo) bool {
	return t.Constant == o.Constant &&
		t.Volatile == o.Volatile &&
		t.Reference == o.Reference &&
		t.RValue == o.RValue &&
		t.FunctionPointer == o.FunctionPointer &&
		t.Indirections == o.Indirections &&
		slices.Equal(t.QualifiedName, o.QualifiedName) &&
		slices.Equal(t.ArrayElements, o.ArrayElements) &&
		slices.EqualFunc(t.Arguments, o.Arguments, TypeInfo.Equal)
}

// WithQualifiedName returns a copy of t naming qualifiedName instead.
func (t TypeInfo) WithQualifiedName(qualifiedName []string) TypeInfo {
	t.QualifiedName = slices.Clone(qualifiedName)
	return t
}

// Combine applies the qualifiers of rhs on top of lhs. It is used when a
// typedef is replaced by its target: "typedef int *P; const P x" becomes an
// "int const*".
func Combine(lhs, rhs TypeInfo) TypeInfo {
	out := lhs
	out.QualifiedName = slices.Clone(lhs.QualifiedName)
	out.Constant = lhs.Constant || rhs.Constant
	out.Volatile = lhs.Volatile || rhs.Volatile
	out.Reference = lhs.Reference || rhs.Reference
	// reference collapsing: the result is an rvalue only if every reference is
	out.RValue = out.Reference &&
		(lhs.RValue || !lhs.Reference) &&
		(rhs.RValue || !rhs.Reference)
	out.Indirections = lhs.Indirections + rhs.Indirections
	out.ArrayElements = append(slices.Clone(lhs.ArrayElements), rhs.ArrayElements...)
	return out
}
