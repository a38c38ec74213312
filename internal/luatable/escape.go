package luatable

import (
	"strconv"
	"strings"
)

var charEscaper = strings.NewReplacer(`"`, `\"`, `'`, `\'`)

// EscapeChars escapes double quotes and apostrophes with a backslash. No
// other character is touched.
func EscapeChars(s string) string {
	return charEscaper.Replace(s)
}

func indentation(indent int) string {
	return strings.Repeat("  ", indent)
}

// AttrString renders `name = "value",` with value escaped.
func AttrString(indent int, name, value string) string {
	return indentation(indent) + name + ` = "` + EscapeChars(value) + "\",\n"
}

// AttrObject renders `name = value,` with value written verbatim.
func AttrObject(indent int, name, value string) string {
	return indentation(indent) + name + " = " + value + ",\n"
}

// AttrNumber renders `name = n,`.
func AttrNumber(indent int, name string, n int) string {
	return indentation(indent) + name + " = " + strconv.Itoa(n) + ",\n"
}

// AttrTrue renders `name = true,`. False flags are never written.
func AttrTrue(indent int, name string) string {
	return indentation(indent) + name + " = true,\n"
}

// StringList renders a table of quoted strings, one per line one level
// deeper than indent, closed at indent. It returns "" for an empty list;
// callers then omit the attribute. Elements are written as given.
func StringList(list []string, indent int) string {
	if len(list) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("{\n")
	inner := indentation(indent + 1)
	for _, s := range list {
		b.WriteString(inner)
		b.WriteByte('"')
		b.WriteString(s)
		b.WriteString("\",\n")
	}
	b.WriteString(indentation(indent))
	b.WriteByte('}')
	return b.String()
}
