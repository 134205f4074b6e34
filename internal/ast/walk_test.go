package ast

import (
	"testing"
)

func TestWalkOrderAndDepth(t *testing.T) {
	b := NewBuilder()
	root := b.NewNamed(NodeProgram, sp(0, 50), "Module1")
	proc := buildProc(b, "Foo", "x")
	v := b.NewNamed(NodeVarDecl, sp(40, 50), "counter")
	root.Add(proc, v)

	var kinds []NodeKind
	var depths []int
	Walk(root, func(n *Node, depth int) bool {
		kinds = append(kinds, n.Kind)
		depths = append(depths, depth)
		return true
	})

	wantKinds := []NodeKind{
		NodeProgram,
		NodeSubDecl, NodeParamList, NodeBody, NodeAssign, NodeIdent, NodeIntLit,
		NodeVarDecl,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(wantKinds))
	}
	for i, k := range wantKinds {
		if kinds[i] != k {
			t.Fatalf("visit %d: got %v, want %v", i, kinds[i], k)
		}
	}
	if depths[0] != 0 || depths[1] != 1 || depths[5] != 4 {
		t.Fatalf("unexpected depths: %v", depths)
	}
}

func TestWalkPrune(t *testing.T) {
	b := NewBuilder()
	root := b.New(NodeProgram, sp(0, 50))
	root.Add(buildProc(b, "Foo", "x"), buildProc(b, "Bar", "y"))

	var visited int
	Walk(root, func(n *Node, _ int) bool {
		visited++
		return n.Kind != NodeSubDecl
	})
	// корень плюс два нераскрытых Sub
	if visited != 3 {
		t.Fatalf("visited = %d, want 3", visited)
	}
}

func TestChildAtPath(t *testing.T) {
	b := NewBuilder()
	root := b.New(NodeProgram, sp(0, 50))
	proc := buildProc(b, "Foo", "x", "y")
	root.Add(proc)

	got := ChildAtPath(root, []int{0, 1, 1, 0})
	if got == nil || got.Kind != NodeIdent || got.Name != "y" {
		t.Fatalf("path resolved to %v", got)
	}
	if ChildAtPath(root, nil) != root {
		t.Fatal("empty path should return root")
	}
	if ChildAtPath(root, []int{5}) != nil {
		t.Fatal("out-of-range path should return nil")
	}
	if ChildAtPath(nil, []int{0}) != nil {
		t.Fatal("nil root should return nil")
	}
}

func TestCount(t *testing.T) {
	b := NewBuilder()
	root := b.New(NodeProgram, sp(0, 50))
	root.Add(buildProc(b, "Foo", "x"))
	if got := Count(root); got != 7 {
		t.Fatalf("Count = %d, want 7", got)
	}
	if Count(nil) != 0 {
		t.Fatal("Count(nil) should be 0")
	}
}

func TestNodeHelpers(t *testing.T) {
	b := NewBuilder()
	proc := buildProc(b, "Foo", "x")
	if proc.Body() == nil || proc.Body().Kind != NodeBody {
		t.Fatal("Body() did not find block child")
	}
	if proc.Child(-1) != nil || proc.Child(10) != nil {
		t.Fatal("Child out of range must be nil")
	}
	if proc.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", proc.NumChildren())
	}

	var nilNode *Node
	if nilNode.MetaValue("x") != "" {
		t.Fatal("nil MetaValue should be empty")
	}
	if nilNode.String() != "<nil>" {
		t.Fatal("nil String mismatch")
	}

	n := b.NewNamed(NodeVarDecl, sp(0, 1), "a")
	n.Add(nil, b.New(NodeTypeRef, sp(2, 9)))
	if n.NumChildren() != 1 {
		t.Fatal("Add must skip nil children")
	}
}

func TestKindPredicates(t *testing.T) {
	if !NodeVarDecl.IsDecl() || !NodeFormDecl.IsDecl() {
		t.Fatal("decl predicate")
	}
	if NodeAssign.IsDecl() {
		t.Fatal("assign is not a decl")
	}
	if !NodeFunctionDecl.IsProc() || NodeVarDecl.IsProc() {
		t.Fatal("proc predicate")
	}
	if !NodeIf.IsStmt() || NodeIdent.IsStmt() {
		t.Fatal("stmt predicate")
	}
	if !NodeBinary.IsExpr() || !NodeNothingLit.IsExpr() || NodeBody.IsExpr() {
		t.Fatal("expr predicate")
	}
	if !NodeStringLit.IsLit() || NodeIdent.IsLit() {
		t.Fatal("lit predicate")
	}
	if NodeProgram.String() != "Program" || NodeKind(200).String() != "NodeKind(?)" {
		t.Fatal("kind String mismatch")
	}
}
