package codemodel

// Kind is the declaration discriminant. The low byte holds capability bits
// that several kinds share (a File is a Namespace is a Scope); the high byte
// enumerates leaf kinds.
type Kind int

const (
	KindScope     Kind = 0x1
	KindNamespace Kind = 0x2 | KindScope
	KindMember    Kind = 0x4
	KindFunction  Kind = 0x8 | KindMember

	kindMask  Kind = 0xff
	firstKind      = 8

	KindArgument           Kind = 1 << firstKind
	KindClass              Kind = 2<<firstKind | KindScope
	KindEnum               Kind = 3 << firstKind
	KindEnumerator         Kind = 4 << firstKind
	KindFile               Kind = 5<<firstKind | KindNamespace
	KindFunctionDefinition Kind = 6<<firstKind | KindFunction
	KindTemplateParameter  Kind = 7 << firstKind
	KindTypeAlias          Kind = 8 << firstKind
	KindVariable           Kind = 9<<firstKind | KindMember
)

// Is reports whether k satisfies other: every capability bit of other is
// set in k and, when other names a leaf kind, k is that leaf kind.
func (k Kind) Is(other Kind) bool {
	if leaf := other &^ kindMask; leaf != 0 && k&^kindMask != leaf {
		return false
	}
	low := other & kindMask
	return k&low == low
}

// AccessPolicy is the C++ access level of a member, class or enum.
type AccessPolicy int

const (
	Public AccessPolicy = iota
	Protected
	Private
)

// String returns the C++ keyword for the access level.
func (a AccessPolicy) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return ""
	}
}

// ParseAccessPolicy maps a C++ access keyword to an AccessPolicy.
func ParseAccessPolicy(s string) (AccessPolicy, bool) {
	switch s {
	case "public":
		return Public, true
	case "protected":
		return Protected, true
	case "private":
		return Private, true
	default:
		return Public, false
	}
}

// ClassType is the class-key a class was declared with.
type ClassType int

const (
	ClassTypeClass ClassType = iota
	ClassTypeStruct
	ClassTypeUnion
)

// String returns the C++ class-key.
func (c ClassType) String() string {
	switch c {
	case ClassTypeClass:
		return "class"
	case ClassTypeStruct:
		return "struct"
	case ClassTypeUnion:
		return "union"
	default:
		return ""
	}
}

// ParseClassType maps a class-key to a ClassType.
func ParseClassType(s string) (ClassType, bool) {
	switch s {
	case "class":
		return ClassTypeClass, true
	case "struct":
		return ClassTypeStruct, true
	case "union":
		return ClassTypeUnion, true
	default:
		return ClassTypeClass, false
	}
}

// FunctionType is the call mechanism of a function.
type FunctionType int

const (
	Normal FunctionType = iota
	Signal
	Slot
)

// ParseFunctionType maps "normal", "signal" or "slot" to a FunctionType.
func ParseFunctionType(s string) (FunctionType, bool) {
	switch s {
	case "", "normal":
		return Normal, true
	case "signal":
		return Signal, true
	case "slot":
		return Slot, true
	default:
		return Normal, false
	}
}
