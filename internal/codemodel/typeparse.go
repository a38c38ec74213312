package codemodel

import "strings"

// Signature is a parsed function type such as "int (const char *, ...) const".
type Signature struct {
	Return    TypeInfo
	Arguments []TypeInfo
	Constant  bool
	Volatile  bool
	Variadic  bool
}

var pointerQualifiers = map[string]bool{
	"const":      true,
	"volatile":   true,
	"restrict":   true,
	"__restrict": true,
}

// ParseType parses a C++ type as compilers print it, for example
// "const char *", "std::vector<int> &", "unsigned int [4]", "int (&)[3]" or
// "int (*)(int, char)". Elaborated keywords are dropped and cv-qualifiers
// that apply to a pointer level rather than the pointee are ignored. The
// class of a pointer to member is dropped, so "int Foo::*" reads as "int *".
func ParseType(s string) TypeInfo {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeInfo{}
	}
	if t, ok := parseFunctionPointer(s); ok {
		return t
	}

	var t TypeInfo
	for strings.HasSuffix(s, "]") {
		open := matchBackward(s, len(s)-1, '[', ']')
		if open < 0 {
			break
		}
		dim := strings.TrimSpace(s[open+1 : len(s)-1])
		t.ArrayElements = append([]string{dim}, t.ArrayElements...)
		s = strings.TrimSpace(s[:open])
	}

	if strings.HasSuffix(s, ")") {
		if open := matchBackward(s, len(s)-1, '(', ')'); open >= 0 {
			if d, ok := abstractDeclarator(s[open+1 : len(s)-1]); ok {
				applyDeclarator(&t, d)
				s = strings.TrimSpace(s[:open])
			}
		}
	}

	if rest, ok := strings.CutSuffix(s, "&&"); ok {
		t.Reference = true
		t.RValue = true
		s = strings.TrimSpace(rest)
	} else if rest, ok := strings.CutSuffix(s, "&"); ok {
		t.Reference = true
		s = strings.TrimSpace(rest)
	}

	for {
		if rest, ok := strings.CutSuffix(s, "*"); ok {
			t.Indirections++
			s = strings.TrimSpace(rest)
			if rest, ok := cutMemberClass(s); ok {
				s = rest
			}
			continue
		}
		word, rest := lastWord(s)
		if pointerQualifiers[word] && strings.HasSuffix(rest, "*") {
			s = rest
			continue
		}
		break
	}

	var base []string
	for _, w := range fieldsTopLevel(s) {
		switch w {
		case "const":
			t.Constant = true
		case "volatile":
			t.Volatile = true
		case "struct", "class", "union", "enum", "typename":
		default:
			base = append(base, w)
		}
	}
	t.QualifiedName = SplitQualifiedName(strings.Join(base, " "))
	return t
}

// ParseSignature parses a function type as printed by compilers:
// "<return> (<params>)" optionally followed by cv/ref qualifiers, an
// exception specification or a trailing return type.
func ParseSignature(s string) Signature {
	var sig Signature
	s = strings.TrimSpace(s)

	var trailing string
	if idx := indexTopLevel(s, "->"); idx >= 0 {
		trailing = strings.TrimSpace(s[idx+2:])
		s = strings.TrimSpace(s[:idx])
	}

	for {
		if rest, ok := cutWord(s, "const"); ok {
			sig.Constant = true
			s = rest
			continue
		}
		if rest, ok := cutWord(s, "volatile"); ok {
			sig.Volatile = true
			s = rest
			continue
		}
		if rest, ok := cutWord(s, "noexcept"); ok {
			s = rest
			continue
		}
		if rest, ok := cutRefQualifier(s); ok {
			s = rest
			continue
		}
		if rest, ok := cutExceptionSpec(s); ok {
			s = rest
			continue
		}
		break
	}

	if !strings.HasSuffix(s, ")") {
		sig.Return = ParseType(s)
		return sig
	}
	open := matchBackward(s, len(s)-1, '(', ')')
	if open < 0 {
		sig.Return = ParseType(s)
		return sig
	}
	if trailing != "" {
		sig.Return = ParseType(trailing)
	} else {
		sig.Return = ParseType(s[:open])
	}
	for _, arg := range splitTopLevel(s[open+1:len(s)-1], ',') {
		arg = strings.TrimSpace(arg)
		switch arg {
		case "", "void":
		case "...":
			sig.Variadic = true
		default:
			sig.Arguments = append(sig.Arguments, ParseType(arg))
		}
	}
	return sig
}

// SplitQualifiedName splits "a::b<c::d>::e" into ["a", "b<c::d>", "e"].
// A leading global "::" is dropped.
func SplitQualifiedName(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parts []string
	start := 0
	scanTopLevel(s, func(i int) bool {
		if strings.HasPrefix(s[i:], "::") && i >= start {
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 2
		}
		return true
	})
	parts = append(parts, strings.TrimSpace(s[start:]))
	if len(parts) > 1 && parts[0] == "" {
		parts = parts[1:]
	}
	return parts
}

// parseFunctionPointer handles "R (*)(A...)", "R (**)(A...)", "R (*&)(A...)"
// and member function pointers "R (C::*)(A...) const".
func parseFunctionPointer(s string) (TypeInfo, bool) {
	open, closeIdx, argsClose := -1, -1, -1
	scanTopLevel(s, func(i int) bool {
		if s[i] != '(' {
			return true
		}
		c := matchForward(s, i, '(', ')')
		if c < 0 || c+1 >= len(s) || s[c+1] != '(' {
			return true
		}
		d, ok := abstractDeclarator(s[i+1 : c])
		if !ok || !strings.HasPrefix(d, "*") {
			return true
		}
		open, closeIdx = i, c
		argsClose = matchForward(s, c+1, '(', ')')
		return false
	})
	if open < 0 || argsClose < 0 || !functionQualifiers(s[argsClose+1:]) {
		return TypeInfo{}, false
	}

	t := ParseType(s[:open])
	t.FunctionPointer = true
	d, _ := abstractDeclarator(s[open+1 : closeIdx])
	if n := strings.Count(d, "*"); n > 1 {
		t.Indirections += n - 1
	}
	if strings.Contains(d, "&") {
		t.Reference = true
		t.RValue = strings.Contains(d, "&&")
	}
	for _, arg := range splitTopLevel(s[closeIdx+2:argsClose], ',') {
		arg = strings.TrimSpace(arg)
		if arg == "" || arg == "void" {
			continue
		}
		t.Arguments = append(t.Arguments, ParseType(arg))
	}
	return t, true
}

// abstractDeclarator reports whether s, the inside of a parenthesised
// declarator such as "&", "**", "*const" or "Foo::*", names no identifier.
// It returns s without the member pointer class.
func abstractDeclarator(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = strings.TrimSpace(s[i+2:])
		if !strings.HasPrefix(s, "*") {
			return "", false
		}
	}
	if !strings.ContainsAny(s, "*&") {
		return "", false
	}
	for _, w := range strings.Fields(strings.NewReplacer("*", " ", "&", " ").Replace(s)) {
		if !pointerQualifiers[w] {
			return "", false
		}
	}
	return s, true
}

func applyDeclarator(t *TypeInfo, d string) {
	t.Indirections += strings.Count(d, "*")
	if strings.Contains(d, "&") {
		t.Reference = true
		t.RValue = strings.Contains(d, "&&")
	}
}

// cutMemberClass removes the class of a pointer to data member, the "Foo::"
// left over from "int Foo::*".
func cutMemberClass(s string) (string, bool) {
	if !strings.HasSuffix(s, "::") {
		return s, false
	}
	fields := fieldsTopLevel(s)
	if len(fields) < 2 {
		return s, false
	}
	last := fields[len(fields)-1]
	return strings.TrimSpace(strings.TrimSuffix(s, last)), true
}

// functionQualifiers reports whether s only holds the cv, ref and exception
// qualifiers that may follow a function parameter list.
func functionQualifiers(s string) bool {
	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		switch {
		case strings.HasPrefix(s, "&"):
			s = strings.TrimLeft(s, "&")
		case strings.HasPrefix(s, "const"):
			s = s[len("const"):]
		case strings.HasPrefix(s, "volatile"):
			s = s[len("volatile"):]
		case strings.HasPrefix(s, "noexcept"):
			s = skipParens(s[len("noexcept"):])
		case strings.HasPrefix(s, "throw"):
			s = skipParens(s[len("throw"):])
		default:
			return false
		}
	}
	return true
}

// skipParens drops a leading parenthesised group from s.
func skipParens(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return s
	}
	if c := matchForward(s, 0, '(', ')'); c >= 0 {
		return s[c+1:]
	}
	return s
}

// scanTopLevel calls fn with every byte index of s that is not nested in
// <>, () or []; fn returning false stops the scan.
func scanTopLevel(s string, fn func(i int) bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		if depth == 0 && !fn(i) {
			return
		}
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>':
			if i > 0 && s[i-1] == '-' {
				continue
			}
			if depth > 0 {
				depth--
			}
		case ')', ']':
			if depth > 0 {
				depth--
			}
		}
	}
}

func indexTopLevel(s, sub string) int {
	found := -1
	scanTopLevel(s, func(i int) bool {
		if strings.HasPrefix(s[i:], sub) {
			found = i
			return false
		}
		return true
	})
	return found
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	scanTopLevel(s, func(i int) bool {
		if s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
		return true
	})
	return append(parts, s[start:])
}

func fieldsTopLevel(s string) []string {
	var fields []string
	for _, part := range splitTopLevel(s, ' ') {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

func matchForward(s string, open int, openCh, closeCh byte) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchBackward(s string, closeIdx int, openCh, closeCh byte) int {
	depth := 0
	for i := closeIdx; i >= 0; i-- {
		switch s[i] {
		case closeCh:
			depth++
		case openCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func lastWord(s string) (word, rest string) {
	idx := strings.LastIndexAny(s, " *&")
	if idx < 0 {
		return s, ""
	}
	return s[idx+1:], strings.TrimSpace(s[:idx+1])
}

func cutWord(s, word string) (string, bool) {
	rest, ok := strings.CutSuffix(s, word)
	if !ok || rest == "" {
		return s, false
	}
	if c := rest[len(rest)-1]; c != ' ' && c != ')' {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

func cutRefQualifier(s string) (string, bool) {
	for _, q := range []string{"&&", "&"} {
		if rest, ok := strings.CutSuffix(s, q); ok {
			rest = strings.TrimSpace(rest)
			if strings.HasSuffix(rest, ")") ||
				strings.HasSuffix(rest, "const") ||
				strings.HasSuffix(rest, "volatile") {
				return rest, true
			}
		}
	}
	return s, false
}

func cutExceptionSpec(s string) (string, bool) {
	if !strings.HasSuffix(s, ")") {
		return s, false
	}
	open := matchBackward(s, len(s)-1, '(', ')')
	if open < 0 {
		return s, false
	}
	head := strings.TrimSpace(s[:open])
	for _, kw := range []string{"noexcept", "throw"} {
		if rest, ok := cutWord(head, kw); ok && strings.HasSuffix(rest, ")") {
			return rest, true
		}
	}
	return s, false
}
