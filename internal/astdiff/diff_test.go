package astdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebasic/internal/ast"
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

func TestSelfDiffIsEmpty(t *testing.T) {
	tree := parseTree(t, `Dim x As Integer
Sub Foo()
    x = 1
End Sub
`)
	assert.Empty(t, Compare(tree, tree))
}

func TestIdenticalSourcesDiffEmpty(t *testing.T) {
	src := `Dim x As Integer
Sub Foo()
    If x > 0 Then
        x = x - 1
    End If
End Sub
`
	// два независимых разбора: ID узлов различаются, хеши — нет
	assert.Empty(t, Compare(parseTree(t, src), parseTree(t, src)))
}

func TestTrailingAddition(t *testing.T) {
	oldTree := parseTree(t, "Sub Foo()\nEnd Sub\n")
	newTree := parseTree(t, "Sub Foo()\nEnd Sub\nDim y As Integer\n")

	diffs := Compare(oldTree, newTree)
	require.Len(t, diffs, 2) // корень modified + добавленный узел
	assert.Equal(t, Modified, diffs[0].Kind)
	assert.Empty(t, diffs[0].Path)

	assert.Equal(t, Added, diffs[1].Kind)
	require.NotNil(t, diffs[1].New)
	assert.Equal(t, ast.NodeVarDecl, diffs[1].New.Kind)
	assert.Equal(t, "y", diffs[1].New.Name)
	assert.Nil(t, diffs[1].Old)
}

func TestTrailingRemoval(t *testing.T) {
	oldTree := parseTree(t, "Dim a As Long\nDim b As Long\n")
	newTree := parseTree(t, "Dim a As Long\n")

	diffs := Compare(oldTree, newTree)
	require.Len(t, diffs, 2)
	assert.Equal(t, Removed, diffs[1].Kind)
	assert.Equal(t, "b", diffs[1].Old.Name)
	assert.Nil(t, diffs[1].New)
}

func TestModifiedBodyRecursesToLeaf(t *testing.T) {
	oldTree := parseTree(t, "Sub Foo()\n    x = 1\nEnd Sub\n")
	newTree := parseTree(t, "Sub Foo()\n    x = 2\nEnd Sub\n")

	diffs := Compare(oldTree, newTree)
	require.NotEmpty(t, diffs)
	// последний дифф — самый глубокий: сам литерал
	leaf := diffs[len(diffs)-1]
	assert.Equal(t, Modified, leaf.Kind)
	assert.Equal(t, "1", leaf.Old.Text)
	assert.Equal(t, "2", leaf.New.Text)
}

func TestUntouchedSiblingNotReported(t *testing.T) {
	oldTree := parseTree(t, "Sub Foo()\nEnd Sub\nSub Bar()\n    y = 1\nEnd Sub\n")
	newTree := parseTree(t, "Sub Foo()\nEnd Sub\nSub Bar()\n    y = 2\nEnd Sub\n")

	for _, d := range Compare(oldTree, newTree) {
		if n := d.Node(); n != nil && n.Kind == ast.NodeSubDecl {
			assert.NotEqual(t, "Foo", n.Name, "untouched Foo must be hash-skipped")
		}
	}
}

func TestReorderIsRemoveAddPair(t *testing.T) {
	oldTree := parseTree(t, "Dim a As Long\nDim b As String\n")
	newTree := parseTree(t, "Dim b As String\nDim a As Long\n")

	diffs := Compare(oldTree, newTree)
	var kinds []DiffKind
	for _, d := range diffs {
		if len(d.Path) == 1 {
			kinds = append(kinds, d.Kind)
		}
	}
	// позиционное сравнение: обе позиции modified, не move
	assert.Equal(t, []DiffKind{Modified, Modified}, kinds)
}

func TestWhitespaceShiftIsInvisible(t *testing.T) {
	oldTree := parseTree(t, "Sub Foo()\n    x = 1\nEnd Sub\n")
	newTree := parseTree(t, "\n\nSub Foo()\n    x = 1\nEnd Sub\n")
	assert.Empty(t, Compare(oldTree, newTree))
}

func TestPathLocatesNode(t *testing.T) {
	oldTree := parseTree(t, "Sub Foo()\n    x = 1\nEnd Sub\n")
	newTree := parseTree(t, "Sub Foo()\n    x = 1\n    x = 2\nEnd Sub\n")

	for _, d := range Compare(oldTree, newTree) {
		if d.Kind != Added {
			continue
		}
		assert.Same(t, d.New, ast.ChildAtPath(newTree, d.Path))
	}
}

func TestNilTrees(t *testing.T) {
	tree := parseTree(t, "Dim x\n")
	assert.Empty(t, Compare(nil, nil))

	added := Compare(nil, tree)
	require.Len(t, added, 1)
	assert.Equal(t, Added, added[0].Kind)

	removed := Compare(tree, nil)
	require.Len(t, removed, 1)
	assert.Equal(t, Removed, removed[0].Kind)
}
