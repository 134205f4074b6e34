package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadDate            Code = 1004
	LexTokenTooLong       Code = 1005
	LexSourceTooLarge     Code = 1006
	LexTooManyTokens      Code = 1007

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectExpression   Code = 2003
	SynExpectType         Code = 2004
	SynExpectStatementEnd Code = 2005
	SynExpectThen         Code = 2006
	SynExpectEq           Code = 2007
	SynUnclosedParen      Code = 2008
	SynUnterminatedBlock  Code = 2009
	SynMismatchedEnd      Code = 2010
	SynVariadicMustBeLast Code = 2011
	SynBadParam           Code = 2012
	SynBadCaseItem        Code = 2013
	SynUnexpectedTopLevel Code = 2014
	SynBadFormHeader      Code = 2015
	SynExpectLiteral      Code = 2016
	SynBadLoopHeader      Code = 2017

	// Семантические
	SemaInfo             Code = 3000
	SemaDuplicateSymbol  Code = 3001
	SemaUnresolvedSymbol Code = 3002
	SemaTypeMismatch     Code = 3003
	SemaReturnMismatch   Code = 3004
	SemaMissingReturn    Code = 3005
	SemaUnreachableCode  Code = 3006
	SemaNoOptionExplicit Code = 3007
	SemaUnknownType      Code = 3008
	SemaAssignToConst    Code = 3009

	// Компиляция и транспиляция
	CmpInfo           Code = 4000
	CmpBackendFailed  Code = 4001
	CmpEmptyModule    Code = 4002
	CmpSectionMissing Code = 4003
	CmpFullRebuild    Code = 4004

	// Применение патча и состояние
	AppInfo               Code = 5000
	AppActivateFailed     Code = 5001
	AppStateCaptureFailed Code = 5002
	AppStateRestoreFailed Code = 5003

	// Цикл горячей перезагрузки
	RldInfo      Code = 6000
	RldDisabled  Code = 6001
	RldCancelled Code = 6002
	RldTimeout   Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexInfo:               "lexer info",
	LexUnknownChar:        "unknown character",
	LexUnterminatedString: "unterminated string literal",
	LexBadNumber:          "malformed numeric literal",
	LexBadDate:            "malformed date literal",
	LexTokenTooLong:       "token exceeds maximum length",
	LexSourceTooLarge:     "source exceeds maximum size",
	LexTooManyTokens:      "token stream exceeds maximum count",

	SynInfo:               "parser info",
	SynUnexpectedToken:    "unexpected token",
	SynExpectIdentifier:   "expected identifier",
	SynExpectExpression:   "expected expression",
	SynExpectType:         "expected type name",
	SynExpectStatementEnd: "expected end of statement",
	SynExpectThen:         "expected 'Then'",
	SynExpectEq:           "expected '='",
	SynUnclosedParen:      "unclosed parenthesis",
	SynUnterminatedBlock:  "unterminated block",
	SynMismatchedEnd:      "mismatched block terminator",
	SynVariadicMustBeLast: "ParamArray must be the last parameter",
	SynBadParam:           "malformed parameter",
	SynBadCaseItem:        "malformed Case clause",
	SynUnexpectedTopLevel: "unexpected construct at module level",
	SynBadFormHeader:      "malformed form header",
	SynExpectLiteral:      "expected literal value",
	SynBadLoopHeader:      "malformed loop header",

	SemaInfo:             "semantic info",
	SemaDuplicateSymbol:  "duplicate declaration",
	SemaUnresolvedSymbol: "undeclared name",
	SemaTypeMismatch:     "type mismatch",
	SemaReturnMismatch:   "return value type mismatch",
	SemaMissingReturn:    "function may exit without a return value",
	SemaUnreachableCode:  "unreachable code",
	SemaNoOptionExplicit: "module has no Option Explicit",
	SemaUnknownType:      "unknown type name",
	SemaAssignToConst:    "assignment to constant",

	CmpInfo:           "compiler info",
	CmpBackendFailed:  "backend compilation failed",
	CmpEmptyModule:    "module has no compilable content",
	CmpSectionMissing: "artifact section not found",
	CmpFullRebuild:    "incremental splice fell back to full rebuild",

	AppInfo:               "apply info",
	AppActivateFailed:     "activation of compiled output failed",
	AppStateCaptureFailed: "state capture failed",
	AppStateRestoreFailed: "state restore failed",

	RldInfo:      "reload info",
	RldDisabled:  "hot reload is disabled",
	RldCancelled: "reload cycle cancelled",
	RldTimeout:   "reload cycle exceeded its deadline",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CMP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("APP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RLD%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
