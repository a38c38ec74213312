package resolver

import (
	"slices"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/logger"
)

// maxSteps bounds the rewrites of one type against one scope and the number
// of full passes over a chain. Alias cycles stop here.
const maxSteps = 64

// Resolver rewrites type references toward their fully qualified form.
type Resolver interface {
	// Resolve runs every scope of chain, outermost first, to a fixpoint and
	// repeats whole passes until the string form of the type is stable.
	Resolve(t codemodel.TypeInfo, chain []*codemodel.Item) codemodel.TypeInfo
	// Simplify resolves the qualified name against scope one segment at a
	// time, so later segments are looked up under already resolved ones.
	Simplify(t codemodel.TypeInfo, scope *codemodel.Item) codemodel.TypeInfo
}

// Rule tries a single rewrite of a type against one scope.
type Rule interface {
	Name() string
	Try(t codemodel.TypeInfo, scope *codemodel.Item) (codemodel.TypeInfo, bool)
}

type resolverImpl struct {
	rules []Rule
}

// New builds a resolver with a rule chain. The first rule that applies
// performs the step.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) Resolve(t codemodel.TypeInfo, chain []*codemodel.Item) codemodel.TypeInfo {
	if len(t.QualifiedName) == 0 {
		return t
	}
	for range maxSteps {
		before := t.String()
		for _, scope := range chain {
			t = r.resolveIn(t, scope)
		}
		if t.String() == before {
			return t
		}
	}
	logger.Logger.Warnw("type resolution did not converge",
		logger.FieldComponent, "resolver",
		"type", t.String(),
	)
	return t
}

func (r *resolverImpl) Simplify(t codemodel.TypeInfo, scope *codemodel.Item) codemodel.TypeInfo {
	if len(t.QualifiedName) == 0 {
		return t
	}
	last := len(t.QualifiedName) - 1
	var partial []string
	for _, segment := range t.QualifiedName[:last] {
		partial = append(partial, segment)
		step := r.resolveIn(codemodel.TypeInfo{QualifiedName: partial}, scope)
		partial = slices.Clone(step.QualifiedName)
	}
	partial = append(partial, t.QualifiedName[last])
	return r.resolveIn(t.WithQualifiedName(partial), scope)
}

// resolveIn applies steps against scope until none applies.
func (r *resolverImpl) resolveIn(t codemodel.TypeInfo, scope *codemodel.Item) codemodel.TypeInfo {
	for range maxSteps {
		next, rule, ok := r.step(t, scope)
		if !ok || next.Equal(t) {
			return t
		}
		logger.Logger.Debugw("resolved type",
			logger.FieldComponent, "resolver",
			"from", t.String(),
			"to", next.String(),
			"rule", rule,
		)
		t = next
	}
	return t
}

func (r *resolverImpl) step(t codemodel.TypeInfo, scope *codemodel.Item) (codemodel.TypeInfo, string, bool) {
	if scope == nil || len(t.QualifiedName) == 0 {
		return t, "", false
	}
	for _, rule := range r.rules {
		if next, ok := rule.Try(t, scope); ok {
			return next, rule.Name(), true
		}
	}
	return t, "", false
}

type identity struct{}

// Identity returns a resolver that leaves every type unchanged. It is used
// when resolution is disabled.
func Identity() Resolver {
	return identity{}
}

func (identity) Resolve(t codemodel.TypeInfo, _ []*codemodel.Item) codemodel.TypeInfo {
	return t
}

func (identity) Simplify(t codemodel.TypeInfo, _ *codemodel.Item) codemodel.TypeInfo {
	return t
}
