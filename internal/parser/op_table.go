package parser

import (
	"rebasic/internal/token"
)

// Таблица приоритетов бинарных операторов, от Imp к умножению.
// Чем больше число, тем выше приоритет. Все бинарные операторы
// левоассоциативны; Not — префикс на своём уровне, унарный минус и
// возведение в степень живут выше таблицы (см. expr.go).
const (
	precImp    = 1  // Imp
	precEqv    = 2  // Eqv
	precXor    = 3  // Xor
	precOr     = 4  // Or
	precAnd    = 5  // And
	precNot    = 6  // Not (префикс)
	precCmp    = 7  // = <> < <= > >= Like Is
	precConcat = 8  // &
	precAdd    = 9  // + -
	precMod    = 10 // Mod
	precIntDiv = 11 // \
	precMul    = 12 // * /
)

// binaryPrec возвращает приоритет бинарного оператора или 0.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.KwImp:
		return precImp
	case token.KwEqv:
		return precEqv
	case token.KwXor:
		return precXor
	case token.KwOr:
		return precOr
	case token.KwAnd:
		return precAnd
	case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.KwLike, token.KwIs:
		return precCmp
	case token.Amp:
		return precConcat
	case token.Plus, token.Minus:
		return precAdd
	case token.KwMod:
		return precMod
	case token.Backslash:
		return precIntDiv
	case token.Star, token.Slash:
		return precMul
	default:
		return 0
	}
}
