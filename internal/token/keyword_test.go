package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"dim":        KwDim,
		"Dim":        KwDim,
		"DIM":        KwDim,
		"sub":        KwSub,
		"Function":   KwFunction,
		"end":        KwEnd,
		"ELSEIF":     KwElseIf,
		"paramarray": KwParamArray,
		"Integer":    KwInteger,
		"variant":    KwVariant,
		"not":        KwNot,
		"Mod":        KwMod,
		"true":       KwTrue,
		"Nothing":    KwNothing,
		"attribute":  KwAttribute,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Заведомо НЕ ключевые слова
	notKw := []string{
		"Dimmer", "Subroutine", "endif", // endif пишется как End If
		"Foo", "x", "MsgBox", "Form_Load",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
