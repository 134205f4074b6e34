package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebasic/internal/ast"
	"rebasic/internal/astdiff"
	"rebasic/internal/diag"
	"rebasic/internal/lexer"
	"rebasic/internal/parser"
	"rebasic/internal/source"
)

func parseTree(t *testing.T, input string) *ast.Node {
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
	return result.Program
}

func analyze(t *testing.T, oldSrc, newSrc string) []Area {
	t.Helper()
	oldTree := parseTree(t, oldSrc)
	newTree := parseTree(t, newSrc)
	return Analyze(astdiff.Compare(oldTree, newTree), oldTree, newTree)
}

func TestAddedVariableSingleArea(t *testing.T) {
	areas := analyze(t,
		"Sub Foo()\nEnd Sub\n",
		"Sub Foo()\nEnd Sub\nDim y As Integer\n")

	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaVariable, a.Kind)
	assert.Equal(t, "y", a.Name)
	assert.True(t, a.Recompile)
	assert.True(t, a.PreserveState)
	assert.False(t, a.Rerender)
}

func TestModifiedProcedurePreservesState(t *testing.T) {
	areas := analyze(t,
		"Sub Foo()\n    x = 1\nEnd Sub\n",
		"Sub Foo()\n    x = 2\nEnd Sub\n")

	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaProcedure, a.Kind)
	assert.Equal(t, "Foo", a.Name)
	assert.True(t, a.Recompile)
	assert.True(t, a.PreserveState, "modified procedure keeps its state")
}

func TestAddedProcedureNoStateToPreserve(t *testing.T) {
	areas := analyze(t,
		"Sub Foo()\nEnd Sub\n",
		"Sub Foo()\nEnd Sub\nSub Bar()\nEnd Sub\n")

	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaProcedure, a.Kind)
	assert.Equal(t, "Bar", a.Name)
	assert.True(t, a.Recompile)
	assert.False(t, a.PreserveState, "brand new procedure has no state")
}

func TestRemovedProcedureNoStateToPreserve(t *testing.T) {
	areas := analyze(t,
		"Sub Foo()\nEnd Sub\nSub Bar()\nEnd Sub\n",
		"Sub Foo()\nEnd Sub\n")

	require.Len(t, areas, 1)
	assert.False(t, areas[0].PreserveState)
}

func TestBarePropertyAssignOnlyRerenders(t *testing.T) {
	oldSrc := `VERSION 5.00
Begin VB.Form Form1
   Caption = "Old"
End
`
	newSrc := `VERSION 5.00
Begin VB.Form Form1
   Caption = "New"
End
`
	areas := analyze(t, oldSrc, newSrc)
	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaProperty, a.Kind)
	assert.Equal(t, "Caption", a.Name)
	assert.True(t, a.Rerender)
	assert.False(t, a.Recompile)
	assert.False(t, a.PreserveState)
}

func TestAddedControlFullFlags(t *testing.T) {
	oldSrc := `VERSION 5.00
Begin VB.Form Form1
End
`
	newSrc := `VERSION 5.00
Begin VB.Form Form1
   Begin VB.CommandButton Command1
      Caption = "Go"
   End
End
`
	areas := analyze(t, oldSrc, newSrc)
	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaControl, a.Kind)
	assert.Equal(t, "Command1", a.Name)
	assert.True(t, a.Recompile)
	assert.True(t, a.Rerender)
	assert.True(t, a.PreserveState)
}

func TestControlPropertyEditStopsAtProperty(t *testing.T) {
	oldSrc := `VERSION 5.00
Begin VB.Form Form1
   Begin VB.CommandButton Command1
      Caption = "Go"
   End
End
`
	newSrc := `VERSION 5.00
Begin VB.Form Form1
   Begin VB.CommandButton Command1
      Caption = "Stop"
   End
End
`
	areas := analyze(t, oldSrc, newSrc)
	require.Len(t, areas, 1)
	a := areas[0]
	assert.Equal(t, AreaProperty, a.Kind)
	assert.Equal(t, "Caption", a.Name)
	assert.True(t, a.Rerender)
	assert.False(t, a.Recompile, "value edit must not recompile the control")
	assert.False(t, a.PreserveState)
}

func TestMergeORsFlags(t *testing.T) {
	areas := Analyze([]astdiff.Diff{}, nil, nil)
	assert.Empty(t, areas)

	// две области с одним ключом сливаются, флаги — OR
	a := Area{Kind: AreaVariable, Name: "Counter", Scope: "module", Recompile: true}
	b := Area{Kind: AreaVariable, Name: "counter", Scope: "module", PreserveState: true}
	assert.Equal(t, a.Key(), b.Key(), "case-insensitive merge key")
}

func TestDeepEditsMergeIntoOneProcedure(t *testing.T) {
	areas := analyze(t,
		"Sub Foo()\n    x = 1\n    y = 1\nEnd Sub\n",
		"Sub Foo()\n    x = 2\n    y = 2\nEnd Sub\n")

	require.Len(t, areas, 1, "two statement edits in one body collapse to one area")
	assert.Equal(t, AreaProcedure, areas[0].Kind)
}

func TestUnrelatedEditsYieldSeparateAreas(t *testing.T) {
	areas := analyze(t,
		"Dim a As Long\nSub Foo()\n    x = 1\nEnd Sub\n",
		"Dim a As String\nSub Foo()\n    x = 2\nEnd Sub\n")

	require.Len(t, areas, 2)
	kinds := map[AreaKind]bool{}
	for _, a := range areas {
		kinds[a.Kind] = true
	}
	assert.True(t, kinds[AreaVariable])
	assert.True(t, kinds[AreaProcedure])
}
