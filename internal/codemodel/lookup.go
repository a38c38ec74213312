package codemodel

// FindItem looks qualifiedName up starting at scope, one segment at a time:
// a segment first descends into a namespace, then into a class; an enum or
// type alias only matches as the last segment. It returns nil when any
// segment is not found or qualifiedName is empty.
func FindItem(qualifiedName []string, scope *Item) *Item {
	if len(qualifiedName) == 0 || scope == nil {
		return nil
	}
	last := len(qualifiedName) - 1
	for i, name := range qualifiedName {
		if scope.Kind.Is(KindNamespace) {
			if ns := scope.FindNamespace(name); ns != nil {
				scope = ns
				continue
			}
		}
		if scope.Scoped == nil {
			return nil
		}
		if cls := scope.FindClass(name); cls != nil {
			scope = cls
			continue
		}
		if i != last {
			return nil
		}
		if e := scope.FindEnum(name); e != nil {
			return e
		}
		if alias := scope.FindTypeAlias(name); alias != nil {
			return alias
		}
		return nil
	}
	return scope
}
