package token

import "strings"

var keywords = map[string]Kind{
	"dim":        KwDim,
	"const":      KwConst,
	"public":     KwPublic,
	"private":    KwPrivate,
	"friend":     KwFriend,
	"static":     KwStatic,
	"sub":        KwSub,
	"function":   KwFunction,
	"property":   KwProperty,
	"get":        KwGet,
	"let":        KwLet,
	"set":        KwSet,
	"end":        KwEnd,
	"exit":       KwExit,
	"as":         KwAs,
	"option":     KwOption,
	"explicit":   KwExplicit,
	"call":       KwCall,
	"byval":      KwByVal,
	"byref":      KwByRef,
	"optional":   KwOptional,
	"paramarray": KwParamArray,
	"new":        KwNew,
	"if":         KwIf,
	"then":       KwThen,
	"else":       KwElse,
	"elseif":     KwElseIf,
	"select":     KwSelect,
	"case":       KwCase,
	"for":        KwFor,
	"each":       KwEach,
	"in":         KwIn,
	"to":         KwTo,
	"step":       KwStep,
	"next":       KwNext,
	"while":      KwWhile,
	"wend":       KwWend,
	"do":         KwDo,
	"loop":       KwLoop,
	"until":      KwUntil,
	"and":        KwAnd,
	"or":         KwOr,
	"not":        KwNot,
	"xor":        KwXor,
	"eqv":        KwEqv,
	"imp":        KwImp,
	"mod":        KwMod,
	"like":       KwLike,
	"is":         KwIs,
	"true":       KwTrue,
	"false":      KwFalse,
	"nothing":    KwNothing,
	"integer":    KwInteger,
	"long":       KwLong,
	"single":     KwSingle,
	"double":     KwDouble,
	"string":     KwString,
	"boolean":    KwBoolean,
	"byte":       KwByte,
	"currency":   KwCurrency,
	"date":       KwDate,
	"object":     KwObject,
	"variant":    KwVariant,
	"begin":      KwBegin,
	"version":    KwVersion,
	"attribute":  KwAttribute,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистронезависимые: Dim, DIM и dim - одно и то же.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(ident)]
	return k, ok
}
