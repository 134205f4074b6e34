package token

import (
	"rebasic/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, string, date, boolean,
// or Nothing literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, HexLit, OctLit, FloatLit, StringLit, DateLit,
		KwTrue, KwFalse, KwNothing:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Backslash, Caret, Amp,
		Eq, NotEq, Lt, LtEq, Gt, GtEq,
		LParen, RParen, Comma, Dot, Colon, Semicolon, Hash, Bang:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwDim && t.Kind <= KwAttribute
}

// IsTypeKeyword reports whether the kind names a built-in type.
func (k Kind) IsTypeKeyword() bool {
	return k >= KwInteger && k <= KwVariant
}

// IsTypeKeyword reports whether the token names a built-in type.
func (t Token) IsTypeKeyword() bool { return t.Kind.IsTypeKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTrivia reports whether the kind carries no statement content.
// Newline не считается: он завершает оператор и значим для парсера.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Comment, LineCont:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token carries no statement content.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// EndsStatement reports whether the token terminates a statement.
func (t Token) EndsStatement() bool {
	switch t.Kind {
	case Newline, Colon, EOF:
		return true
	default:
		return false
	}
}
