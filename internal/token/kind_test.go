package token_test

import (
	"testing"

	"rebasic/internal/source"
	"rebasic/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.HexLit, token.OctLit,
		token.FloatLit, token.StringLit, token.DateLit,
		token.KwTrue, token.KwFalse, token.KwNothing,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwDim, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Backslash,
		token.Caret, token.Amp, token.Eq, token.NotEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.LParen, token.RParen, token.Comma, token.Dot,
		token.Colon, token.Semicolon, token.Hash, token.Bang,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct or op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwMod, token.IntLit, token.Newline}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct or op", k)
		}
	}
}

func TestIsKeywordRanges(t *testing.T) {
	kws := []token.Kind{
		token.KwDim, token.KwSub, token.KwNot, token.KwVariant, token.KwAttribute,
	}
	for _, k := range kws {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	if tok(token.Ident).IsKeyword() || tok(token.IntLit).IsKeyword() {
		t.Fatal("non-keyword kinds classified as keyword")
	}

	types := []token.Kind{token.KwInteger, token.KwLong, token.KwVariant}
	for _, k := range types {
		if !tok(k).IsTypeKeyword() {
			t.Fatalf("%v should be a type keyword", k)
		}
	}
	if tok(token.KwDim).IsTypeKeyword() {
		t.Fatal("KwDim must not be a type keyword")
	}
}

func TestKindLevelPredicates(t *testing.T) {
	// Предикаты доступны и на голом Kind: парсер классифицирует
	// токены через tok.Kind, не строя Token.
	if !token.KwInteger.IsTypeKeyword() || token.KwDim.IsTypeKeyword() {
		t.Fatal("Kind.IsTypeKeyword misclassifies")
	}
	for _, k := range []token.Kind{token.Whitespace, token.Comment, token.LineCont} {
		if !k.IsTrivia() {
			t.Fatalf("%v should be trivia", k)
		}
	}
	if token.Newline.IsTrivia() {
		t.Fatal("Newline terminates statements, must not be trivia")
	}
}

func TestEndsStatement(t *testing.T) {
	for _, k := range []token.Kind{token.Newline, token.Colon, token.EOF} {
		if !tok(k).EndsStatement() {
			t.Fatalf("%v should end a statement", k)
		}
	}
	if tok(token.Semicolon).EndsStatement() {
		t.Fatal("Semicolon must not end a statement")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.Invalid:    "Invalid",
		token.EOF:        "EOF",
		token.KwDim:      "KwDim",
		token.IntLit:     "IntLit",
		token.HexLit:     "HexLit",
		token.OctLit:     "OctLit",
		token.TypeSuffix: "TypeSuffix",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind.String() = %q, want %q", got, want)
		}
	}
}

func TestSuffixType(t *testing.T) {
	cases := map[byte]string{
		'%': "Integer",
		'&': "Long",
		'!': "Single",
		'#': "Double",
		'@': "Currency",
		'$': "String",
	}
	for ch, want := range cases {
		got, ok := token.SuffixType(ch)
		if !ok || got != want {
			t.Fatalf("SuffixType(%q) = %q/%v, want %q", ch, got, ok, want)
		}
		if !token.IsSuffixChar(ch) {
			t.Fatalf("IsSuffixChar(%q) = false", ch)
		}
	}
	if token.IsSuffixChar('x') {
		t.Fatal("IsSuffixChar('x') = true")
	}
}
