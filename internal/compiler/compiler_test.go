package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebasic/internal/ast"
	"rebasic/internal/astdiff"
	"rebasic/internal/diag"
	"rebasic/internal/impact"
	"rebasic/internal/lexer"
	"rebasic/internal/parser"
	"rebasic/internal/source"
	"rebasic/internal/transpile"
)

type parsed struct {
	fs      *source.FileSet
	file    *source.File
	program *ast.Node
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.bas", []byte(input)))
	bag := diag.NewBag(50)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	result := parser.ParseFile(fs, lx, ast.NewBuilder(), parser.Options{
		Recover:  true,
		Reporter: reporter,
	})
	require.False(t, bag.HasErrors(), "parse errors: %v", bag.Items())
	return parsed{fs: fs, file: file, program: result.Program}
}

func fullRequest(p parsed) Request {
	return Request{FileSet: p.fs, File: p.file, Program: p.program}
}

// incrementalRequest гонит настоящий конвейер: diff старого и нового
// дерева, анализ затронутых областей, запрос со сплайсом.
func incrementalRequest(prev *Artifact, oldP, newP parsed) Request {
	diffs := astdiff.Compare(oldP.program, newP.program)
	areas := impact.Analyze(diffs, oldP.program, newP.program)
	return Request{
		FileSet:     newP.fs,
		File:        newP.file,
		Program:     newP.program,
		Areas:       areas,
		Prev:        prev,
		Incremental: true,
	}
}

func TestFullCompileSectionsPerDecl(t *testing.T) {
	p := parseSource(t, `Dim x As Integer

Sub Foo()
    x = 1
End Sub

Function Bar() As Long
    Bar = 2
End Function
`)
	c := New(transpile.NewReference())
	art, err := c.Compile(context.Background(), fullRequest(p))
	require.NoError(t, err)

	assert.True(t, art.FullBuild)
	require.Len(t, art.Sections, 3)
	assert.Equal(t, []string{"x", "Foo", "Bar"}, art.Recompiled)

	code := art.TargetCode()
	assert.Contains(t, code, "let x;")
	assert.Contains(t, code, "function Foo() {")
	assert.Contains(t, code, "function Bar() {")
}

func TestSectionLookupCaseInsensitive(t *testing.T) {
	p := parseSource(t, "Sub Foo()\nEnd Sub\n")
	c := New(transpile.NewReference())
	art, err := c.Compile(context.Background(), fullRequest(p))
	require.NoError(t, err)

	i, ok := art.Section("FOO")
	require.True(t, ok)
	assert.Equal(t, "Foo", art.Sections[i].Name)
	assert.Equal(t, "procedure", art.Sections[i].Kind)
}

func TestByteIdenticalSourceHitsCache(t *testing.T) {
	src := "Sub Foo()\nEnd Sub\n"
	c := New(transpile.NewReference())

	first, err := c.Compile(context.Background(), fullRequest(parseSource(t, src)))
	require.NoError(t, err)
	second, err := c.Compile(context.Background(), fullRequest(parseSource(t, src)))
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestIncrementalAddVariableKeepsProcedure(t *testing.T) {
	oldP := parseSource(t, `Sub Foo()
    Dim a As Integer
    a = 1
End Sub
`)
	newP := parseSource(t, `Sub Foo()
    Dim a As Integer
    a = 1
End Sub
Dim y As Integer
`)
	c := New(transpile.NewReference())
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)

	art, err := c.Compile(context.Background(), incrementalRequest(prev, oldP, newP))
	require.NoError(t, err)

	assert.False(t, art.FullBuild)
	assert.Equal(t, []string{"y"}, art.Recompiled, "Foo must not be reprocessed")

	fi, ok := art.Section("Foo")
	require.True(t, ok)
	pi, _ := prev.Section("Foo")
	assert.Equal(t, prev.Sections[pi].Target, art.Sections[fi].Target)
	assert.Contains(t, art.TargetCode(), "let y;")
}

func TestIncrementalEditShiftsUntouchedMap(t *testing.T) {
	oldP := parseSource(t, `Sub Foo()
    Dim a As Integer
End Sub
Sub Bar()
    Beep
End Sub
`)
	newP := parseSource(t, `Sub Foo()
    Dim a As Integer
    a = 1
End Sub
Sub Bar()
    Beep
End Sub
`)
	c := New(transpile.NewReference())
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)

	art, err := c.Compile(context.Background(), incrementalRequest(prev, oldP, newP))
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo"}, art.Recompiled, "Bar must be carried over")

	bi, ok := art.Section("Bar")
	require.True(t, ok)
	sec := art.Sections[bi]
	assert.Equal(t, 5, sec.SourceFirst, "Bar moved down one line")
	require.NotEmpty(t, sec.Map)
	assert.Equal(t, 5, sec.Map[0].SourceLine)

	pi, _ := prev.Section("Bar")
	assert.Equal(t, prev.Sections[pi].Target, sec.Target)
}

func TestIncrementalBodyEditRecompilesOnlyOwner(t *testing.T) {
	oldP := parseSource(t, `Sub Foo()
    Dim a As Integer
    a = 1
End Sub
Sub Bar()
End Sub
`)
	newP := parseSource(t, `Sub Foo()
    Dim a As Integer
    a = 2
End Sub
Sub Bar()
End Sub
`)
	c := New(transpile.NewReference())
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)

	art, err := c.Compile(context.Background(), incrementalRequest(prev, oldP, newP))
	require.NoError(t, err)

	assert.False(t, art.FullBuild)
	assert.Equal(t, []string{"Foo"}, art.Recompiled)
	assert.Contains(t, art.TargetCode(), `vb.eval("2")`)
}

func TestIncrementalRemovedProcedureDropsSection(t *testing.T) {
	oldP := parseSource(t, "Sub Foo()\nEnd Sub\nSub Bar()\nEnd Sub\n")
	newP := parseSource(t, "Sub Foo()\nEnd Sub\n")

	c := New(transpile.NewReference())
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)

	art, err := c.Compile(context.Background(), incrementalRequest(prev, oldP, newP))
	require.NoError(t, err)

	_, ok := art.Section("Bar")
	assert.False(t, ok)
	assert.NotContains(t, art.TargetCode(), "function Bar")
}

func TestPropertyEditSplicesWithoutRecompile(t *testing.T) {
	oldP := parseSource(t, `Begin VB.Form Form1
    Caption = "Old"
End
`)
	newP := parseSource(t, `Begin VB.Form Form1
    Caption = "New"
End
`)
	c := New(transpile.NewReference())
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)

	req := incrementalRequest(prev, oldP, newP)
	require.NotEmpty(t, req.Areas)
	for _, a := range req.Areas {
		require.False(t, a.Recompile, "property edits must not force recompilation")
	}

	art, err := c.Compile(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, art.FullBuild)
	assert.Empty(t, art.Recompiled)
	// форма переносится из прошлого артефакта как есть
	assert.Contains(t, art.TargetCode(), "Old")
	assert.NotContains(t, art.TargetCode(), "New")
}

// flakyBackend проваливает секцию по имени заданное число раз, дальше
// делегирует эталонному бэкенду.
type flakyBackend struct {
	ref      *transpile.Reference
	failName string
	failures int
}

func (f *flakyBackend) Compile(ctx context.Context, unit transpile.Unit) (transpile.Output, error) {
	if f.failures > 0 && strings.EqualFold(unit.Name, f.failName) {
		f.failures--
		return transpile.Output{Errors: []string{"induced failure"}}, nil
	}
	return f.ref.Compile(ctx, unit)
}

func TestSpliceFailureFallsBackToFullCompile(t *testing.T) {
	oldP := parseSource(t, "Sub Foo()\nEnd Sub\n")
	newP := parseSource(t, "Sub Foo()\n    Beep\nEnd Sub\n")

	fb := &flakyBackend{ref: transpile.NewReference(), failName: "Foo"}
	c := New(fb)
	prev, err := c.Compile(context.Background(), fullRequest(oldP))
	require.NoError(t, err)
	fb.failures = 1

	art, err := c.Compile(context.Background(), incrementalRequest(prev, oldP, newP))
	require.NoError(t, err)

	assert.True(t, art.FullBuild, "failed splice falls back to a full build")
	assert.Contains(t, art.TargetCode(), "function Foo")
}

func TestBackendErrorOnFullCompileSurfaces(t *testing.T) {
	p := parseSource(t, "Sub Foo()\nEnd Sub\n")
	fb := &flakyBackend{ref: transpile.NewReference(), failName: "Foo", failures: 2}

	_, err := New(fb).Compile(context.Background(), fullRequest(p))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "induced failure")
}

func TestEmptyModuleCompiles(t *testing.T) {
	p := parseSource(t, "")
	art, err := New(transpile.NewReference()).Compile(context.Background(), fullRequest(p))
	require.NoError(t, err)
	assert.Empty(t, art.Sections)
	assert.Empty(t, art.TargetCode())
}

func TestCancelledContextAborts(t *testing.T) {
	p := parseSource(t, "Sub Foo()\nEnd Sub\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(transpile.NewReference()).Compile(ctx, fullRequest(p))
	require.Error(t, err)
}
