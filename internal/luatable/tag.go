package luatable

import "github.com/seitarof/cpptolua/internal/codemodel"

var tags = map[codemodel.Kind]string{
	codemodel.KindScope:              "Scope",
	codemodel.KindNamespace:          "Namespace",
	codemodel.KindMember:             "Member",
	codemodel.KindFunction:           "Function",
	codemodel.KindArgument:           "Argument",
	codemodel.KindClass:              "Class",
	codemodel.KindEnum:               "Enum",
	codemodel.KindEnumerator:         "Enumerator",
	codemodel.KindFile:               "File",
	codemodel.KindFunctionDefinition: "FunctionDefinition",
	codemodel.KindTemplateParameter:  "TemplateParameter",
	codemodel.KindTypeAlias:          "TypeAlias",
	codemodel.KindVariable:           "Variable",
}

// Tag returns the tag written as the `type` attribute for kind, or "" when
// kind is not one of the known kinds.
func Tag(kind codemodel.Kind) string {
	return tags[kind]
}
