package lexer

import (
	"rebasic/internal/diag"
	"rebasic/internal/token"
)

// scanString сканирует "..." с удвоением кавычки как единственным
// экранированием: "He said ""Hi""" — один литерал. Перевод строки или EOF
// внутри литерала — жёсткая ошибка, частичный токен не выдаём.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			// "": удвоенная кавычка остаётся внутри литерала
			if lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			sp := lx.cursor.SpanFrom(start)
			if tok, bad := lx.checkOverlong(start); bad {
				return tok
			}
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}
	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Unquote возвращает содержимое строкового литерала с развёрнутым
// удвоением кавычек. Вход обязан быть валидным StringLit.Text.
func Unquote(text string) string {
	if len(text) < 2 {
		return ""
	}
	inner := text[1 : len(text)-1]
	out := make([]byte, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		out = append(out, inner[i])
		if inner[i] == '"' && i+1 < len(inner) && inner[i+1] == '"' {
			i++
		}
	}
	return string(out)
}
