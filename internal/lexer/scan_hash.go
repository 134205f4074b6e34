package lexer

import (
	"strings"

	"rebasic/internal/token"
)

// Директивы условной компиляции, различимые сразу после '#'.
var directiveWords = [...]string{"if", "elseif", "else", "end", "const"}

// scanHash разрешает три роли '#':
//   - #If/#ElseIf/#Else/#End/#Const в начале логической строки → Preproc
//     токен до конца строки;
//   - #...# на одной строке → DateLit;
//   - иначе одиночный Hash, курсор откатывается ровно на байт за '#',
//     чтобы неудачная попытка даты не сместила последующие позиции.
func (lx *Lexer) scanHash() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'

	if lx.atLineStart && lx.peekDirectiveWord() {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if tok, bad := lx.checkOverlong(start); bad {
			return tok
		}
		return token.Token{Kind: token.Preproc, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// попытка date literal: ищем закрывающий '#' до конца строки
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
		if b == '#' {
			sp := lx.cursor.SpanFrom(start)
			if tok, bad := lx.checkOverlong(start); bad {
				return tok
			}
			return token.Token{Kind: token.DateLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	// не закрылся: это не дата
	lx.cursor.Reset(start)
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Hash, Span: sp, Text: "#"}
}

// peekDirectiveWord проверяет, стоит ли за '#' директивное слово.
func (lx *Lexer) peekDirectiveWord() bool {
	var word []byte
	for n := uint32(0); n < 8; n++ {
		b := lx.cursor.PeekAt(n)
		if !isIdentContinueByte(b) {
			break
		}
		word = append(word, b)
	}
	if len(word) == 0 {
		return false
	}
	got := strings.ToLower(string(word))
	for _, w := range directiveWords {
		if got == w {
			return true
		}
	}
	return false
}
