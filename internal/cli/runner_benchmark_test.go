package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seitarof/cpptolua/internal/frontend/modeldoc"
	"github.com/seitarof/cpptolua/internal/luatable"
	"github.com/seitarof/cpptolua/internal/output"
	"github.com/seitarof/cpptolua/internal/resolver"
)

func BenchmarkRunnerRun_ModelDocument(b *testing.B) {
	dir := b.TempDir()
	input := filepath.Join(dir, "bench.yaml")
	if err := os.WriteFile(input, []byte(benchmarkDocument(16, 16)), 0o644); err != nil {
		b.Fatal(err)
	}

	w := output.NewFileWriter(nil)
	runner := NewRunner(
		&mockFrontend{},
		modeldoc.New(),
		luatable.New(luatable.NewSerializer(resolver.New(resolver.DefaultRules()...)), w),
		w,
	)
	cfg := &Config{Source: input, Output: filepath.Join(dir, "bench.lua")}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := runner.Run(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDocument(classCount, memberCount int) string {
	var sb strings.Builder
	sb.WriteString("children:\n  - kind: namespace\n    name: bench\n    children:\n")
	sb.WriteString("      - {kind: type_alias, name: Handle, type: \"Type0 *\"}\n")
	for i := 0; i < classCount; i++ {
		fmt.Fprintf(&sb, "      - kind: class\n        name: Type%d\n        children:\n", i)
		for j := 0; j < memberCount; j++ {
			fmt.Fprintf(&sb, "          - {kind: member, name: field%d, type: \"const Handle &\"}\n", j)
		}
	}
	return sb.String()
}
