package codemodel

import "slices"

// Model hands out items with monotonically increasing creation ids.
type Model struct {
	lastID int
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Create returns a new item of the given kind declared in scope, with the
// facets its kind satisfies allocated. An empty name leaves the qualified
// name equal to the scope.
func (m *Model) Create(kind Kind, name string, scope []string) *Item {
	m.lastID++
	it := &Item{
		Kind:          kind,
		Name:          name,
		Scope:         slices.Clone(scope),
		QualifiedName: slices.Clone(scope),
		CreationID:    m.lastID,
	}
	if name != "" {
		it.QualifiedName = append(it.QualifiedName, name)
	}

	if kind.Is(KindScope) {
		it.Scoped = &ScopeFacet{}
	}
	if kind.Is(KindMember) {
		it.Member = &MemberFacet{}
	}
	if kind.Is(KindFunction) {
		it.Function = &FunctionFacet{}
	}
	if kind.Is(KindArgument) {
		it.Argument = &ArgumentFacet{}
	}
	if kind.Is(KindClass) {
		it.Class = &ClassFacet{}
	}
	if kind.Is(KindEnum) {
		it.Enum = &EnumFacet{}
	}
	if kind.Is(KindEnumerator) {
		it.Enumerator = &EnumeratorFacet{}
	}
	if kind.Is(KindTypeAlias) {
		it.TypeAlias = &TypeAliasFacet{}
	}
	return it
}

// CreateIn creates an item declared inside parent and adds it to parent.
func (m *Model) CreateIn(parent *Item, kind Kind, name string) (*Item, error) {
	it := m.Create(kind, name, parent.QualifiedName)
	if err := parent.Add(it); err != nil {
		return nil, err
	}
	return it, nil
}
