package resolver

import (
	"slices"
	"testing"

	"github.com/seitarof/cpptolua/internal/codemodel"
)

type fixture struct {
	file   *codemodel.Item
	std    *codemodel.Item
	str    *codemodel.Item
	app    *codemodel.Item
	widget *codemodel.Item
}

// newFixture builds:
//
//	namespace std { class string { typedef unsigned long size_type; }; typedef string text; }
//	namespace app { class Widget { enum State {}; }; typedef Widget *Handle; typedef Loop1 Loop2; typedef Loop2 Loop1; }
func newFixture(t *testing.T) fixture {
	t.Helper()
	m := codemodel.New()
	f := fixture{file: m.Create(codemodel.KindFile, "", nil)}

	create := func(parent *codemodel.Item, kind codemodel.Kind, name string) *codemodel.Item {
		t.Helper()
		it, err := m.CreateIn(parent, kind, name)
		if err != nil {
			t.Fatalf("CreateIn(%s): %v", name, err)
		}
		return it
	}

	f.std = create(f.file, codemodel.KindNamespace, "std")
	f.str = create(f.std, codemodel.KindClass, "string")
	create(f.str, codemodel.KindTypeAlias, "size_type").TypeAlias.Type = codemodel.ParseType("unsigned long")
	create(f.std, codemodel.KindTypeAlias, "text").TypeAlias.Type = codemodel.ParseType("string")

	f.app = create(f.file, codemodel.KindNamespace, "app")
	f.widget = create(f.app, codemodel.KindClass, "Widget")
	create(f.widget, codemodel.KindEnum, "State")
	create(f.app, codemodel.KindTypeAlias, "Handle").TypeAlias.Type = codemodel.ParseType("Widget *")
	create(f.app, codemodel.KindTypeAlias, "Loop1").TypeAlias.Type = codemodel.ParseType("Loop2")
	create(f.app, codemodel.KindTypeAlias, "Loop2").TypeAlias.Type = codemodel.ParseType("Loop1")
	return f
}

func TestResolve_QualifiesMemberOfScope(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	got := r.Resolve(codemodel.ParseType("const string &"), []*codemodel.Item{f.file, f.std})
	if got.String() != "std::string const&" {
		t.Fatalf("unexpected type: %s", got)
	}
}

func TestResolve_ExpandsTypedefs(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	tests := []struct {
		in    string
		chain []*codemodel.Item
		want  string
	}{
		{"size_type", []*codemodel.Item{f.file, f.std, f.str}, "unsigned long"},
		{"const Handle *", []*codemodel.Item{f.file, f.app}, "app::Widget const**"},
		{"text", []*codemodel.Item{f.file, f.std}, "std::string"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := r.Resolve(codemodel.ParseType(tt.in), tt.chain)
			if got.String() != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve_NestedEnumThroughClass(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	got := r.Resolve(codemodel.ParseType("Widget::State"), []*codemodel.Item{f.file, f.app})
	want := []string{"app", "Widget", "State"}
	if !slices.Equal(got.QualifiedName, want) {
		t.Fatalf("expected %v, got %v", want, got.QualifiedName)
	}
}

func TestResolve_UnresolvableLeftAsIs(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	in := codemodel.ParseType("QString *")
	if got := r.Resolve(in, []*codemodel.Item{f.file, f.app}); !in.Equal(got) {
		t.Fatalf("expected %q unchanged, got %q", in, got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)
	chains := [][]*codemodel.Item{
		{f.file},
		{f.file, f.std},
		{f.file, f.std, f.str},
		{f.file, f.app, f.widget},
	}
	types := []string{
		"int", "string", "const string &", "size_type", "std::string::size_type",
		"Handle", "Widget::State", "text [4]", "int (*)(string)", "string (&)[2]",
	}
	for _, chain := range chains {
		for _, s := range types {
			once := r.Resolve(codemodel.ParseType(s), chain)
			twice := r.Resolve(once, chain)
			if !once.Equal(twice) {
				t.Errorf("%q: %q then %q", s, once, twice)
			}
		}
	}
}

func TestResolve_ZeroSegments(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	in := codemodel.TypeInfo{Constant: true, Indirections: 1}
	if got := r.Resolve(in, []*codemodel.Item{f.file}); !in.Equal(got) {
		t.Fatalf("expected unchanged type, got %#v", got)
	}
}

func TestResolve_AliasCycleTerminates(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	got := r.Resolve(codemodel.ParseType("Loop1"), []*codemodel.Item{f.file, f.app})
	if !slices.Contains([]string{"Loop1", "Loop2", "app::Loop1", "app::Loop2"}, got.String()) {
		t.Fatalf("unexpected type: %s", got)
	}
}

func TestIdentity(t *testing.T) {
	f := newFixture(t)
	r := Identity()

	for _, s := range []string{"string", "size_type", "Handle", "const text &"} {
		in := codemodel.ParseType(s)
		if got := r.Resolve(in, []*codemodel.Item{f.file, f.std, f.app}); !in.Equal(got) {
			t.Errorf("Resolve(%q) = %q", s, got)
		}
		if got := r.Simplify(in, f.file); !in.Equal(got) {
			t.Errorf("Simplify(%q) = %q", s, got)
		}
	}
}

func TestSimplify_SegmentBySegment(t *testing.T) {
	f := newFixture(t)
	r := New(DefaultRules()...)

	tests := []struct {
		in    string
		scope *codemodel.Item
		want  string
	}{
		{"string::size_type", f.std, "std::string::size_type"},
		{"size_type", f.str, "std::string::size_type"},
		{"Widget::State", f.app, "app::Widget::State"},
	}
	for _, tt := range tests {
		if got := r.Simplify(codemodel.ParseType(tt.in), tt.scope); got.String() != tt.want {
			t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := r.Simplify(codemodel.TypeInfo{}, f.app); len(got.QualifiedName) != 0 {
		t.Fatalf("expected empty name, got %v", got.QualifiedName)
	}
}

func TestRules_Names(t *testing.T) {
	names := make([]string, 0, 2)
	for _, rule := range DefaultRules() {
		names = append(names, rule.Name())
	}
	if !slices.Equal(names, []string{"qualify", "typedef"}) {
		t.Fatalf("unexpected rule names: %v", names)
	}
}
