package clang

// node is one entry of clang's JSON AST dump (-ast-dump=json). Only the
// fields the binder reads are modelled.
type node struct {
	ID           string    `json:"id,omitempty"`
	Kind         string    `json:"kind,omitempty"`
	Loc          *loc      `json:"loc,omitempty"`
	Range        *srcRange `json:"range,omitempty"`
	IsImplicit   bool      `json:"isImplicit,omitempty"`
	PreviousDecl string    `json:"previousDecl,omitempty"`
	Name         string    `json:"name,omitempty"`
	Type         *qualType `json:"type,omitempty"`

	Access             string     `json:"access,omitempty"`
	TagUsed            string     `json:"tagUsed,omitempty"`
	CompleteDefinition bool       `json:"completeDefinition,omitempty"`
	Bases              []baseSpec `json:"bases,omitempty"`

	StorageClass string `json:"storageClass,omitempty"`
	Mutable      bool   `json:"mutable,omitempty"`
	Inline       bool   `json:"inline,omitempty"`
	Virtual      bool   `json:"virtual,omitempty"`
	Pure         bool   `json:"pure,omitempty"`
	Variadic     bool   `json:"variadic,omitempty"`
	Init         string `json:"init,omitempty"`

	Inner []*node `json:"inner,omitempty"`
}

type qualType struct {
	QualType          string `json:"qualType"`
	DesugaredQualType string `json:"desugaredQualType,omitempty"`
}

type baseSpec struct {
	Access    string    `json:"access,omitempty"`
	IsVirtual bool      `json:"isVirtual,omitempty"`
	Type      *qualType `json:"type,omitempty"`
}

type srcRange struct {
	Begin loc `json:"begin"`
	End   loc `json:"end"`
}

// loc is a position in the parsed buffer. Offsets index the preprocessed
// text clang read from stdin.
type loc struct {
	Offset *int   `json:"offset,omitempty"`
	TokLen int    `json:"tokLen,omitempty"`
	Line   int    `json:"line,omitempty"`
	Col    int    `json:"col,omitempty"`
	File   string `json:"file,omitempty"`
}

func (n *node) typeString() string {
	if n.Type == nil {
		return ""
	}
	return n.Type.QualType
}

// beginOffset returns the first offset known for n, or -1.
func (n *node) beginOffset() int {
	if n.Range != nil && n.Range.Begin.Offset != nil {
		return *n.Range.Begin.Offset
	}
	if n.Loc != nil && n.Loc.Offset != nil {
		return *n.Loc.Offset
	}
	return -1
}

// text returns the source text r spans in contents, or "" when r does not
// carry usable offsets.
func (r *srcRange) text(contents []byte) string {
	if r == nil || r.Begin.Offset == nil || r.End.Offset == nil {
		return ""
	}
	begin, end := *r.Begin.Offset, *r.End.Offset+r.End.TokLen
	if begin < 0 || end > len(contents) || begin >= end {
		return ""
	}
	return string(contents[begin:end])
}

// hasBody reports whether a function node carries a definition.
func (n *node) hasBody() bool {
	for _, child := range n.Inner {
		switch child.Kind {
		case "CompoundStmt", "CXXTryStmt":
			return true
		}
	}
	return false
}
