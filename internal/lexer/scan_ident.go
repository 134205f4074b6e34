package lexer

import (
	"strings"

	"rebasic/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует слово и проверяет через LookupKeyword.
// Ключевые слова регистронезависимые. Token.Text — ровно исходный срез.
// Rem превращает остаток строки в комментарий.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: ""}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
		for {
			b := lx.cursor.Peek()
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if tok, bad := lx.checkOverlong(start); bad {
		return tok
	}
	text := string(lx.file.Content[sp.Start:sp.End])

	// Rem — комментарий до конца строки, граница токена уже соблюдена
	if strings.EqualFold(text, "rem") {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		if tok, bad := lx.checkOverlong(start); bad {
			return tok
		}
		return token.Token{Kind: token.Comment, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}

	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
