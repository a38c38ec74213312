package resolver

import (
	"slices"

	"github.com/seitarof/cpptolua/internal/codemodel"
)

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&QualifyRule{},
		&TypedefRule{},
	}
}

// QualifyRule: a name declared in scope -> its fully qualified name.
type QualifyRule struct{}

func (r *QualifyRule) Name() string { return "qualify" }

func (r *QualifyRule) Try(t codemodel.TypeInfo, scope *codemodel.Item) (codemodel.TypeInfo, bool) {
	item := codemodel.FindItem(t.QualifiedName, scope)
	if item == nil || len(item.QualifiedName) <= 1 {
		return t, false
	}
	if slices.Equal(item.QualifiedName, t.QualifiedName) {
		return t, false
	}
	return t.WithQualifiedName(item.QualifiedName), true
}

// TypedefRule: a typedef or alias -> its target, keeping the qualifiers
// the alias was used with.
type TypedefRule struct{}

func (r *TypedefRule) Name() string { return "typedef" }

func (r *TypedefRule) Try(t codemodel.TypeInfo, scope *codemodel.Item) (codemodel.TypeInfo, bool) {
	item := codemodel.FindItem(t.QualifiedName, scope)
	if item == nil || item.TypeAlias == nil {
		return t, false
	}
	target := item.TypeAlias.Type
	if len(target.QualifiedName) == 0 {
		return t, false
	}
	return codemodel.Combine(target, t), true
}
