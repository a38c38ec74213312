package clang

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/logger"
)

// binder builds the declaration tree from a clang JSON AST.
type binder struct {
	model      *codemodel.Model
	contents   []byte
	system     systemRanges
	skipSystem bool
	skipped    int
}

func bind(root *node, contents []byte, skipSystem bool) (*codemodel.Item, error) {
	if root == nil || root.Kind != "TranslationUnitDecl" {
		return nil, errors.New("clang AST does not start with a translation unit")
	}
	b := &binder{
		model:      codemodel.New(),
		contents:   contents,
		skipSystem: skipSystem,
	}
	if skipSystem {
		b.system = scanLineMarkers(contents)
	}
	file := b.model.Create(codemodel.KindFile, "", nil)
	if err := b.bindDecls(file, root.Inner); err != nil {
		return nil, err
	}
	if b.skipped > 0 {
		logger.Logger.Debugw("skipped system header declarations",
			logger.FieldComponent, "clang",
			logger.FieldCount, b.skipped,
		)
	}
	return file, nil
}

func isRecord(kind string) bool {
	return kind == "CXXRecordDecl" || kind == "RecordDecl"
}

func isFunction(kind string) bool {
	switch kind {
	case "FunctionDecl", "CXXMethodDecl", "CXXConstructorDecl", "CXXDestructorDecl", "CXXConversionDecl":
		return true
	}
	return false
}

func isTemplateParameter(kind string) bool {
	switch kind {
	case "TemplateTypeParmDecl", "NonTypeTemplateParmDecl", "TemplateTemplateParmDecl":
		return true
	}
	return false
}

// bindDecls binds the declarations of one declaration context into parent.
// Inside a class, an access specifier annotated as a Qt signal or slot
// section changes the call mechanism of the methods that follow it.
func (b *binder) bindDecls(parent *codemodel.Item, decls []*node) error {
	functionType := codemodel.Normal
	for _, d := range decls {
		if d.IsImplicit || b.redeclaration(d) {
			continue
		}
		if parent.Kind.Is(codemodel.KindFile) && b.skipSystem && b.system.contains(d.beginOffset()) {
			b.skipped++
			continue
		}

		var err error
		switch {
		case d.Kind == "AccessSpecDecl":
			functionType = b.sectionFunctionType(d)
		case d.Kind == "NamespaceDecl":
			err = b.bindNamespace(parent, d)
		case d.Kind == "LinkageSpecDecl":
			err = b.bindDecls(parent, d.Inner)
		case isRecord(d.Kind):
			err = b.bindRecord(parent, d, nil)
		case d.Kind == "ClassTemplateDecl":
			err = b.bindClassTemplate(parent, d)
		case d.Kind == "FieldDecl":
			err = b.bindVariable(parent, d, codemodel.KindMember)
		case d.Kind == "VarDecl":
			err = b.bindVariable(parent, d, codemodel.KindVariable)
		case isFunction(d.Kind):
			err = b.bindFunction(parent, d, functionType, nil, false)
		case d.Kind == "FunctionTemplateDecl":
			err = b.bindFunctionTemplate(parent, d, functionType)
		case d.Kind == "FriendDecl":
			err = b.bindFriend(parent, d)
		case d.Kind == "EnumDecl":
			err = b.bindEnum(parent, d)
		case d.Kind == "TypedefDecl" || d.Kind == "TypeAliasDecl":
			err = b.bindTypeAlias(parent, d)
		case d.Kind == "TypeAliasTemplateDecl":
			for _, inner := range d.Inner {
				if inner.Kind == "TypeAliasDecl" {
					err = b.bindTypeAlias(parent, inner)
					break
				}
			}
		}
		if err != nil {
			return errors.Wrapf(err, "bind %s %q", d.Kind, d.Name)
		}
	}
	return nil
}

// redeclaration reports whether d repeats an earlier declaration. Reopened
// namespaces are merged and a class definition after a forward declaration
// is kept.
func (b *binder) redeclaration(d *node) bool {
	if d.PreviousDecl == "" || d.Kind == "NamespaceDecl" {
		return false
	}
	return !(isRecord(d.Kind) && d.CompleteDefinition)
}

func (b *binder) bindNamespace(parent *codemodel.Item, d *node) error {
	ns := parent.FindNamespace(d.Name)
	if ns == nil {
		var err error
		ns, err = b.model.CreateIn(parent, codemodel.KindNamespace, d.Name)
		if err != nil {
			return err
		}
	}
	return b.bindDecls(ns, d.Inner)
}

func (b *binder) bindRecord(parent *codemodel.Item, d *node, params []*node) error {
	if !d.CompleteDefinition {
		return nil
	}
	cls, err := b.model.CreateIn(parent, codemodel.KindClass, d.Name)
	if err != nil {
		return err
	}
	if ct, ok := codemodel.ParseClassType(d.TagUsed); ok {
		cls.Class.ClassType = ct
	}
	cls.Class.Access = accessPolicy(d.Access)
	for _, base := range d.Bases {
		name := ""
		if base.Type != nil {
			name = base.Type.QualType
		}
		modifier := base.Access
		if modifier == "" {
			modifier = "public"
		}
		if base.IsVirtual {
			modifier += " virtual"
		}
		cls.Class.BaseClasses = append(cls.Class.BaseClasses, name)
		cls.Class.BaseModifiers = append(cls.Class.BaseModifiers, modifier)
	}
	if err := b.bindTemplateParameters(cls, params); err != nil {
		return err
	}
	return b.bindDecls(cls, d.Inner)
}

func (b *binder) bindClassTemplate(parent *codemodel.Item, d *node) error {
	for _, inner := range d.Inner {
		if isRecord(inner.Kind) {
			return b.bindRecord(parent, inner, d.Inner)
		}
	}
	return nil
}

func (b *binder) bindTemplateParameters(owner *codemodel.Item, params []*node) error {
	for _, p := range params {
		if !isTemplateParameter(p.Kind) {
			continue
		}
		if _, err := b.model.CreateIn(owner, codemodel.KindTemplateParameter, p.Name); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) bindVariable(parent *codemodel.Item, d *node, kind codemodel.Kind) error {
	v, err := b.model.CreateIn(parent, kind, d.Name)
	if err != nil {
		return err
	}
	m := v.Member
	m.Type = codemodel.ParseType(d.typeString())
	m.Access = accessPolicy(d.Access)
	m.Constant = m.Type.Constant && m.Type.Indirections == 0 && !m.Type.Reference
	m.Volatile = m.Type.Volatile && m.Type.Indirections == 0 && !m.Type.Reference
	m.Mutable = d.Mutable
	m.Static = d.StorageClass == "static"
	m.Extern = d.StorageClass == "extern"
	m.Register = d.StorageClass == "register"
	return nil
}

func (b *binder) bindFunction(parent *codemodel.Item, d *node, ft codemodel.FunctionType, params []*node, friend bool) error {
	kind := codemodel.KindFunction
	if d.hasBody() {
		kind = codemodel.KindFunctionDefinition
	}
	fn, err := b.model.CreateIn(parent, kind, d.Name)
	if err != nil {
		return err
	}

	sig := codemodel.ParseSignature(d.typeString())
	m := fn.Member
	m.Type = sig.Return
	m.Constant = sig.Constant
	m.Volatile = sig.Volatile
	m.Access = accessPolicy(d.Access)
	m.Static = d.StorageClass == "static"
	m.Extern = d.StorageClass == "extern"
	m.Friend = friend

	f := fn.Function
	f.Virtual = d.Virtual
	f.Abstract = d.Pure
	f.Inline = d.Inline
	f.Variadics = d.Variadic || sig.Variadic
	f.Explicit = hasWord(b.specifiers(d), "explicit")
	if parent.Class != nil {
		f.FunctionType = ft
	}

	if err := b.bindTemplateParameters(fn, params); err != nil {
		return err
	}
	for _, p := range d.Inner {
		if p.Kind != "ParmVarDecl" {
			continue
		}
		arg, err := b.model.CreateIn(fn, codemodel.KindArgument, p.Name)
		if err != nil {
			return err
		}
		arg.Argument.Type = codemodel.ParseType(p.typeString())
		if p.Init != "" && len(p.Inner) > 0 {
			arg.Argument.DefaultValue = true
			arg.Argument.DefaultValueExpression = strings.TrimSpace(p.Inner[0].Range.text(b.contents))
		}
	}
	return nil
}

func (b *binder) bindFunctionTemplate(parent *codemodel.Item, d *node, ft codemodel.FunctionType) error {
	for _, inner := range d.Inner {
		if isFunction(inner.Kind) {
			return b.bindFunction(parent, inner, ft, d.Inner, false)
		}
	}
	return nil
}

func (b *binder) bindFriend(parent *codemodel.Item, d *node) error {
	for _, inner := range d.Inner {
		if isFunction(inner.Kind) {
			return b.bindFunction(parent, inner, codemodel.Normal, nil, true)
		}
	}
	return nil
}

func (b *binder) bindEnum(parent *codemodel.Item, d *node) error {
	e, err := b.model.CreateIn(parent, codemodel.KindEnum, d.Name)
	if err != nil {
		return err
	}
	e.Enum.Access = accessPolicy(d.Access)
	for _, c := range d.Inner {
		if c.Kind != "EnumConstantDecl" {
			continue
		}
		en, err := b.model.CreateIn(e, codemodel.KindEnumerator, c.Name)
		if err != nil {
			return err
		}
		if len(c.Inner) > 0 {
			en.Enumerator.Value = strings.TrimSpace(c.Inner[0].Range.text(b.contents))
		}
	}
	return nil
}

func (b *binder) bindTypeAlias(parent *codemodel.Item, d *node) error {
	alias, err := b.model.CreateIn(parent, codemodel.KindTypeAlias, d.Name)
	if err != nil {
		return err
	}
	alias.TypeAlias.Type = codemodel.ParseType(d.typeString())
	return nil
}

// specifiers returns the declaration text in front of the declared name.
func (b *binder) specifiers(d *node) string {
	if d.Range == nil || d.Range.Begin.Offset == nil || d.Loc == nil || d.Loc.Offset == nil {
		return ""
	}
	begin, end := *d.Range.Begin.Offset, *d.Loc.Offset
	if begin < 0 || end > len(b.contents) || begin >= end {
		return ""
	}
	return string(b.contents[begin:end])
}

func (b *binder) sectionFunctionType(d *node) codemodel.FunctionType {
	text := d.Range.text(b.contents)
	for _, inner := range d.Inner {
		text += " " + inner.Range.text(b.contents)
	}
	switch {
	case strings.Contains(text, "qt_signal"):
		return codemodel.Signal
	case strings.Contains(text, "qt_slot"):
		return codemodel.Slot
	default:
		return codemodel.Normal
	}
}

func accessPolicy(s string) codemodel.AccessPolicy {
	a, _ := codemodel.ParseAccessPolicy(s)
	return a
}

func hasWord(text, word string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		if field == word {
			return true
		}
	}
	return false
}
