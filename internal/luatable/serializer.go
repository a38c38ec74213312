package luatable

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/resolver"
)

// Serializer renders a declaration tree as a Lua table literal. Types are
// passed through its Resolver before they are written.
type Serializer struct {
	resolver resolver.Resolver
}

// NewSerializer creates a serializer. A nil resolver writes types as they
// appear in the model.
func NewSerializer(r resolver.Resolver) *Serializer {
	if r == nil {
		r = resolver.Identity()
	}
	return &Serializer{resolver: r}
}

// traversal is where the walk currently is. Each call gets its own copy, so
// nothing has to be restored on the way out.
type traversal struct {
	chain      []*codemodel.Item
	context    []string
	indent     int
	enumValues map[*codemodel.Item]string
}

func (t traversal) descend() traversal {
	t.indent++
	return t
}

func (t traversal) enter(scope *codemodel.Item) traversal {
	t.chain = append(slices.Clip(t.chain), scope)
	t.context = append(slices.Clip(t.context), scope.Name)
	return t
}

// Serialize renders root and everything below it. The result has no
// trailing newline.
func (s *Serializer) Serialize(root *codemodel.Item) string {
	if root == nil {
		return ""
	}
	return s.visit(root, traversal{chain: []*codemodel.Item{root}})
}

func (s *Serializer) visit(it *codemodel.Item, outer traversal) string {
	tr := outer.descend()
	ind := tr.indent

	var b strings.Builder
	if tag := Tag(it.Kind); tag != "" {
		b.WriteString(AttrString(ind, "type", tag))
	}
	b.WriteString(AttrNumber(ind, "id", it.CreationID))
	b.WriteString(AttrString(ind, "name", it.Name))
	b.WriteString(AttrString(ind, "scope", strings.Join(it.Scope, "::")))
	b.WriteString(AttrString(ind, "context", strings.Join(tr.context, "::")))
	switch {
	case it.Kind.Is(codemodel.KindArgument):
	case it.Kind.Is(codemodel.KindEnumerator):
		full := strings.Join(tr.context, "::") + "::" + strings.Join(it.QualifiedName, "::")
		b.WriteString(AttrString(ind, "fullname", full))
	default:
		b.WriteString(AttrString(ind, "fullname", strings.Join(it.QualifiedName, "::")))
	}

	if it.Member != nil {
		s.writeMember(&b, it, tr)
	}
	if f := it.Function; f != nil {
		writeFunction(&b, f, ind)
	}
	if a := it.Argument; a != nil {
		s.writeType(&b, a.Type, tr)
		if a.DefaultValue {
			b.WriteString(AttrTrue(ind, "default"))
			b.WriteString(AttrString(ind, "defaultvalue", a.DefaultValueExpression))
		}
	}
	if c := it.Class; c != nil {
		writeClass(&b, it, c, ind)
	}
	if e := it.Enum; e != nil {
		b.WriteString(AttrString(ind, "access", e.Access.String()))
	}
	if e := it.Enumerator; e != nil {
		value := e.Value
		if v, ok := tr.enumValues[it]; ok {
			value = v
		}
		b.WriteString(AttrString(ind, "value", value))
	}
	if ta := it.TypeAlias; ta != nil {
		s.writeType(&b, ta.Type, tr)
	}

	s.writeChildren(&b, it, tr)

	pad := indentation(outer.indent)
	return pad + "{\n" + b.String() + pad + "}"
}

func (s *Serializer) writeChildren(b *strings.Builder, it *codemodel.Item, tr traversal) {
	visitAll := func(items []*codemodel.Item, tr traversal) {
		for _, child := range items {
			b.WriteString(s.visit(child, tr))
			b.WriteString(",\n")
		}
	}

	if it.Kind.Is(codemodel.KindNamespace) {
		visitAll(it.Scoped.Namespaces, tr)
	}
	if sc := it.Scoped; sc != nil {
		inner := tr
		if it.Name != "" {
			inner = tr.enter(it)
		}
		visitAll(sc.Classes, inner)
		visitAll(sc.Enums, inner)
		visitAll(sc.Functions, inner)
		visitAll(sc.TypeAliases, inner)
		visitAll(sc.Variables, inner)
	}
	if f := it.Function; f != nil {
		visitAll(f.Arguments, tr)
	}
	if e := it.Enum; e != nil {
		withValues := tr
		withValues.enumValues = EnumeratorValues(e.Enumerators)
		visitAll(e.Enumerators, withValues)
	}
}

func (s *Serializer) writeMember(b *strings.Builder, it *codemodel.Item, tr traversal) {
	m := it.Member
	ind := tr.indent
	flags := []struct {
		name string
		set  bool
	}{
		{"constant", m.Constant},
		{"volatile", m.Volatile},
		{"static", m.Static},
		{"auto", m.Auto},
		{"friend", m.Friend},
		{"register", m.Register},
		{"extern", m.Extern},
		{"mutable", m.Mutable},
	}
	for _, f := range flags {
		if f.set {
			b.WriteString(AttrTrue(ind, f.name))
		}
	}

	owner := it.QualifiedName
	if len(owner) > 0 {
		owner = owner[:len(owner)-1]
	}
	b.WriteString(AttrString(ind, "member_of", strings.Join(owner, "::")))
	if enclosing := tr.chain[len(tr.chain)-1]; enclosing.Class != nil {
		b.WriteString(AttrString(ind, "member_of_class", strings.Join(enclosing.QualifiedName, "::")))
	}
	b.WriteString(AttrString(ind, "access", m.Access.String()))

	s.writeType(b, m.Type, tr)
	if len(m.TemplateParameters) > 0 {
		b.WriteString(AttrObject(ind, "member_template_parameters", templateParameterList(m.TemplateParameters, ind)))
	}
}

func writeFunction(b *strings.Builder, f *codemodel.FunctionFacet, ind int) {
	if f.Virtual {
		b.WriteString(AttrTrue(ind, "virtual"))
	}
	if f.Inline {
		b.WriteString(AttrTrue(ind, "inline"))
	}
	if f.Explicit {
		b.WriteString(AttrTrue(ind, "explicit"))
	}
	if f.Abstract {
		b.WriteString(AttrTrue(ind, "abstract"))
	}
	if f.Variadics {
		b.WriteString(AttrTrue(ind, "variadics"))
	}
	switch f.FunctionType {
	case codemodel.Slot:
		b.WriteString(AttrTrue(ind, "slot"))
	case codemodel.Signal:
		b.WriteString(AttrTrue(ind, "signal"))
	}
}

func writeClass(b *strings.Builder, it *codemodel.Item, c *codemodel.ClassFacet, ind int) {
	b.WriteString(AttrString(ind, "access", c.Access.String()))
	if len(c.BaseClasses) > 0 {
		if len(c.BaseClasses) != len(c.BaseModifiers) {
			panic(errors.AssertionFailedf("class %s has %d bases but %d base modifiers",
				strings.Join(it.QualifiedName, "::"), len(c.BaseClasses), len(c.BaseModifiers)))
		}
		withAttributes := make([]string, len(c.BaseClasses))
		for i, base := range c.BaseClasses {
			withAttributes[i] = c.BaseModifiers[i] + " " + base
		}
		b.WriteString(AttrObject(ind, "bases", StringList(c.BaseClasses, ind)))
		b.WriteString(AttrObject(ind, "bases_with_attributes", StringList(withAttributes, ind)))
	}
	b.WriteString(AttrString(ind, "class_type", c.ClassType.String()))
	if len(c.TemplateParameters) > 0 {
		b.WriteString(AttrObject(ind, "member_template_parameters", templateParameterList(c.TemplateParameters, ind)))
	}
}

// writeType writes the attribute block of a type after resolving it
// against the current scope chain.
func (s *Serializer) writeType(b *strings.Builder, t codemodel.TypeInfo, tr traversal) {
	ind := tr.indent
	resolved := s.resolver.Resolve(t, tr.chain)

	b.WriteString(AttrString(ind, "type_name", spaceAngles(resolved.String())))
	b.WriteString(AttrString(ind, "type_base", spaceAngles(strings.Join(resolved.QualifiedName, "::"))))
	if resolved.Constant {
		b.WriteString(AttrTrue(ind, "type_constant"))
	}
	if resolved.Volatile {
		b.WriteString(AttrTrue(ind, "type_volatile"))
	}
	if resolved.Reference {
		b.WriteString(AttrTrue(ind, "type_reference"))
	}
	if resolved.Indirections > 0 {
		b.WriteString(AttrNumber(ind, "indirections", resolved.Indirections))
	}
	if len(resolved.ArrayElements) > 0 {
		b.WriteString(AttrObject(ind, "array", StringList(resolved.ArrayElements, ind)))
	}
	if resolved.FunctionPointer {
		b.WriteString(AttrTrue(ind, "function_pointer"))
	}
}

// EnumeratorValues returns the value written for each enumerator. An
// enumerator without a value gets the previous enumerator's value followed
// by "+1"; the first one starts from "0".
func EnumeratorValues(enumerators []*codemodel.Item) map[*codemodel.Item]string {
	values := make(map[*codemodel.Item]string, len(enumerators))
	last := "0"
	for _, e := range enumerators {
		value := ""
		if e.Enumerator != nil {
			value = e.Enumerator.Value
		}
		if value == "" {
			value = last + "+1"
		}
		values[e] = value
		last = value
	}
	return values
}

func templateParameterList(params []*codemodel.Item, ind int) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return StringList(names, ind)
}

func spaceAngles(s string) string {
	return strings.ReplaceAll(s, ">>", "> >")
}
