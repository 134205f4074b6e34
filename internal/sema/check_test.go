package sema

import (
	"strings"
	"testing"

	"rebasic/internal/ast"
	"rebasic/internal/diag"
	"rebasic/internal/lexer"
	"rebasic/internal/parser"
	"rebasic/internal/source"
)

func checkSource(t *testing.T, input string) *diag.Bag {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.bas", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	result := parser.ParseFile(fs, lx, ast.NewBuilder(), parser.Options{
		Recover:  true,
		Reporter: reporter,
	})
	if bag.HasErrors() {
		t.Fatalf("parse errors before sema: %s", bagSummary(bag))
	}

	semaBag := diag.NewBag(100)
	Check(result.Program, Options{Reporter: &diag.BagReporter{Bag: semaBag}})
	return semaBag
}

func bagSummary(bag *diag.Bag) string {
	items := bag.Items()
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = "[" + d.Code.ID() + "] " + d.Message
	}
	return strings.Join(lines, "; ")
}

func wantCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected diagnostic %s, got: %s", code.ID(), bagSummary(bag))
}

func wantNoCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			t.Fatalf("unexpected diagnostic %s: %s", code.ID(), d.Message)
		}
	}
}

func TestDuplicateInSameScope(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Dim x As Integer
Dim x As Long
`)
	wantCode(t, bag, diag.SemaDuplicateSymbol)
}

func TestSameNameInDisjointScopes(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim n As Integer
    n = 1
End Sub
Sub B()
    Dim n As String
    n = "ok"
End Sub
`)
	wantNoCode(t, bag, diag.SemaDuplicateSymbol)
	wantNoCode(t, bag, diag.SemaTypeMismatch)
}

func TestLocalShadowsModuleLevel(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Dim n As Integer
Sub A()
    Dim n As String
    n = "shadowed"
End Sub
`)
	wantNoCode(t, bag, diag.SemaDuplicateSymbol)
	wantNoCode(t, bag, diag.SemaTypeMismatch)
}

func TestWideningIsAllowed(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim i As Integer
    Dim d As Double
    i = 42
    d = i
End Sub
`)
	wantNoCode(t, bag, diag.SemaTypeMismatch)
}

func TestNarrowingIsMismatch(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim i As Integer
    i = "text"
End Sub
`)
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestVariantAcceptsAnything(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim v
    v = "text"
    v = 3.14
End Sub
`)
	wantNoCode(t, bag, diag.SemaTypeMismatch)
}

func TestUndeclaredWithOptionExplicit(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    y = 1
End Sub
`)
	wantCode(t, bag, diag.SemaUnresolvedSymbol)
}

func TestImplicitWithoutOptionExplicit(t *testing.T) {
	bag := checkSource(t, `Sub A()
    y = 1
End Sub
`)
	wantNoCode(t, bag, diag.SemaUnresolvedSymbol)
	wantCode(t, bag, diag.SemaNoOptionExplicit)
}

func TestOptionExplicitSilencesWarning(t *testing.T) {
	bag := checkSource(t, "Option Explicit\n")
	wantNoCode(t, bag, diag.SemaNoOptionExplicit)
}

func TestUnreachableAfterExit(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim n As Integer
    Exit Sub
    n = 1
End Sub
`)
	wantCode(t, bag, diag.SemaUnreachableCode)
}

func TestExitInsideIfIsNotUnreachable(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A(ByVal flag As Boolean)
    Dim n As Integer
    If flag Then
        Exit Sub
    End If
    n = 1
End Sub
`)
	wantNoCode(t, bag, diag.SemaUnreachableCode)
}

func TestMissingReturnWarning(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Function F(ByVal flag As Boolean) As Integer
    If flag Then
        F = 1
    End If
End Function
`)
	wantCode(t, bag, diag.SemaMissingReturn)
	// warning, не ошибка
	if bag.HasErrors() {
		t.Fatalf("missing return must be a warning: %s", bagSummary(bag))
	}
}

func TestAllPathsAssignNoWarning(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Function F(ByVal flag As Boolean) As Integer
    If flag Then
        F = 1
    Else
        F = 2
    End If
End Function
`)
	wantNoCode(t, bag, diag.SemaMissingReturn)
}

func TestReturnTypeMismatch(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Function F() As Integer
    F = "nope"
End Function
`)
	wantCode(t, bag, diag.SemaReturnMismatch)
}

func TestAssignToConst(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Const LIMIT As Long = 10
Sub A()
    LIMIT = 20
End Sub
`)
	wantCode(t, bag, diag.SemaAssignToConst)
}

func TestTypeSuffixGivesType(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim s$
    s = 12
End Sub
`)
	wantCode(t, bag, diag.SemaTypeMismatch)
}

func TestControlNamesVisibleInHandlers(t *testing.T) {
	bag := checkSource(t, `VERSION 5.00
Begin VB.Form Form1
   Caption = "Demo"
   Begin VB.CommandButton Command1
      Caption = "Go"
   End
End
Option Explicit
Sub Command1_Click()
    Command1.Caption = "Clicked"
End Sub
`)
	wantNoCode(t, bag, diag.SemaUnresolvedSymbol)
}

func TestPropertyGetLetPairIsLegal(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Dim mValue As Long
Property Get Value() As Long
    Value = mValue
End Property
Property Let Value(ByVal v As Long)
    mValue = v
End Property
`)
	wantNoCode(t, bag, diag.SemaDuplicateSymbol)
}

func TestNewIntrinsicTypeRejected(t *testing.T) {
	bag := checkSource(t, `Option Explicit
Sub A()
    Dim o As New Integer
    Set o = Nothing
End Sub
`)
	wantCode(t, bag, diag.SemaUnknownType)
}
