package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rebasic/internal/token"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.bas")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeProducesStream(t *testing.T) {
	path := writeSource(t, "Dim x As Integer\n")

	res, err := Tokenize(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %d", res.Bag.Len())
	}
	if len(res.Tokens) == 0 {
		t.Fatal("no tokens")
	}
	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != token.EOF {
		t.Fatalf("stream does not end with EOF: %v", last.Kind)
	}
	if res.Tokens[0].Kind != token.KwDim {
		t.Fatalf("first token = %v, want KwDim", res.Tokens[0].Kind)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "absent.bas"), 100); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseBuildsProgram(t *testing.T) {
	path := writeSource(t, "Sub Foo()\nEnd Sub\n")

	res, err := Parse(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Program == nil {
		t.Fatal("nil program")
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %d", res.Bag.Len())
	}
	if len(res.Program.Children) != 1 {
		t.Fatalf("got %d top-level decls, want 1", len(res.Program.Children))
	}
}

func TestParseRecoversPastBrokenDecl(t *testing.T) {
	path := writeSource(t, "Sub ()\nEnd Sub\nSub Bar()\nEnd Sub\n")

	res, err := Parse(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected diagnostics for broken declaration")
	}
	if res.Program == nil {
		t.Fatal("recovery should still give a tree")
	}
}

func TestCheckReportsExplicit(t *testing.T) {
	path := writeSource(t, "Option Explicit\nDim x As Integer\n")

	res, err := Check(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Explicit {
		t.Fatal("Option Explicit not detected")
	}
}

func TestCompileEmitsTarget(t *testing.T) {
	path := writeSource(t, "Dim x As Integer\nSub Foo()\n  x = 1\nEnd Sub\n")

	res, err := Compile(context.Background(), path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Artifact == nil {
		t.Fatal("nil artifact")
	}
	code := res.Artifact.TargetCode()
	if !strings.Contains(code, "function Foo()") {
		t.Fatalf("target missing procedure:\n%s", code)
	}
	if !strings.Contains(code, "let x;") {
		t.Fatalf("target missing declaration:\n%s", code)
	}
}

func TestCompileSkipsBackendOnSyntaxErrors(t *testing.T) {
	path := writeSource(t, "Sub ()\nEnd Sub\n")

	res, err := Compile(context.Background(), path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Artifact != nil {
		t.Fatal("artifact produced from a broken tree")
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected syntax diagnostics")
	}
}
