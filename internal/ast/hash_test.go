package ast

import (
	"testing"

	"rebasic/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func buildProc(b *Builder, name string, bodyNames ...string) *Node {
	proc := b.NewNamed(NodeSubDecl, sp(0, 100), name)
	params := b.New(NodeParamList, sp(4, 6))
	body := b.New(NodeBody, sp(10, 90))
	for i, n := range bodyNames {
		off := uint32(10 + i*10)
		stmt := b.New(NodeAssign, sp(off, off+8))
		lhs := b.NewNamed(NodeIdent, sp(off, off+1), n)
		rhs := b.NewText(NodeIntLit, sp(off+4, off+5), "1")
		stmt.Add(lhs, rhs)
		body.Add(stmt)
	}
	proc.Add(params, body)
	return proc
}

func TestSealIdenticalTreesEqualHashes(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x", "y")
	b := buildProc(NewBuilder(), "Foo", "x", "y")

	ha := Seal(a)
	hb := Seal(b)
	if ha == 0 || hb == 0 {
		t.Fatalf("seal returned zero hash: %d %d", ha, hb)
	}
	if ha != hb {
		t.Fatalf("identical trees hash differently: %#x vs %#x", ha, hb)
	}
}

func TestSealIgnoresSpanAndID(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x")
	ha := Seal(a)

	b := buildProc(NewBuilder(), "Foo", "x")
	Walk(b, func(n *Node, _ int) bool {
		n.Span = source.Span{File: 7, Start: n.Span.Start + 1000, End: n.Span.End + 1000}
		n.ID += 500
		return true
	})
	hb := Seal(b)

	if ha != hb {
		t.Fatalf("span/id shift changed hash: %#x vs %#x", ha, hb)
	}
}

func TestSealDetectsRename(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x")
	b := buildProc(NewBuilder(), "Bar", "x")
	if Seal(a) == Seal(b) {
		t.Fatal("rename did not change hash")
	}
}

func TestSealDetectsDeepChange(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x", "y")
	b := buildProc(NewBuilder(), "Foo", "x", "z")
	ha := Seal(a)
	hb := Seal(b)
	if ha == hb {
		t.Fatal("leaf rename did not propagate to root hash")
	}
}

func TestSealChildOrderMatters(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x", "y")
	b := buildProc(NewBuilder(), "Foo", "y", "x")
	if Seal(a) == Seal(b) {
		t.Fatal("reordered statements hash identically")
	}
}

func TestSealMetaParticipates(t *testing.T) {
	mk := func(vis string) *Node {
		b := NewBuilder()
		n := b.NewNamed(NodeVarDecl, sp(0, 10), "counter")
		n.SetMeta("visibility", vis)
		return n
	}
	if Seal(mk("public")) == Seal(mk("private")) {
		t.Fatal("meta change did not change hash")
	}
	if Seal(mk("public")) != Seal(mk("public")) {
		t.Fatal("equal meta hashed differently")
	}
}

func TestSealMetaOrderIndependent(t *testing.T) {
	b1 := NewBuilder()
	a := b1.NewNamed(NodeParam, sp(0, 5), "n")
	a.SetMeta("byval", "1")
	a.SetMeta("optional", "1")

	b2 := NewBuilder()
	b := b2.NewNamed(NodeParam, sp(0, 5), "n")
	b.SetMeta("optional", "1")
	b.SetMeta("byval", "1")

	if Seal(a) != Seal(b) {
		t.Fatal("meta insertion order leaked into hash")
	}
}

func TestSealEmptyVsMissingText(t *testing.T) {
	b := NewBuilder()
	named := b.NewNamed(NodeIdent, sp(0, 1), "a")
	textOnly := b.NewText(NodeIdent, sp(0, 1), "a")
	if Seal(named) == Seal(textOnly) {
		t.Fatal("name and text fields are conflated in hash")
	}
}

func TestSealIdempotent(t *testing.T) {
	a := buildProc(NewBuilder(), "Foo", "x", "y")
	first := Seal(a)
	second := Seal(a)
	if first != second {
		t.Fatalf("re-seal changed hash: %#x then %#x", first, second)
	}
}

func TestBuilderIDsMonotonic(t *testing.T) {
	b := NewBuilder()
	prev := b.New(NodeProgram, sp(0, 0)).ID
	if prev == NoNodeID {
		t.Fatal("first node got NoNodeID")
	}
	for i := 0; i < 100; i++ {
		n := b.New(NodeIdent, sp(0, 0))
		if n.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", n.ID, prev)
		}
		prev = n.ID
	}
	if b.Issued() != 101 {
		t.Fatalf("issued = %d, want 101", b.Issued())
	}
}
