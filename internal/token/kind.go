package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwDim represents the 'Dim' keyword.
	KwDim // Dim
	// KwConst represents the 'Const' keyword.
	KwConst // Const
	// KwPublic represents the 'Public' keyword.
	KwPublic // Public
	// KwPrivate represents the 'Private' keyword.
	KwPrivate // Private
	// KwFriend represents the 'Friend' keyword.
	KwFriend // Friend
	// KwStatic represents the 'Static' keyword.
	KwStatic // Static
	// KwSub represents the 'Sub' keyword.
	KwSub // Sub
	// KwFunction represents the 'Function' keyword.
	KwFunction // Function
	// KwProperty represents the 'Property' keyword.
	KwProperty // Property
	// KwGet represents the 'Get' keyword.
	KwGet // Get
	// KwLet represents the 'Let' keyword.
	KwLet // Let
	// KwSet represents the 'Set' keyword.
	KwSet // Set
	// KwEnd represents the 'End' keyword.
	KwEnd // End
	// KwExit represents the 'Exit' keyword.
	KwExit // Exit
	// KwAs represents the 'As' keyword.
	KwAs // As
	// KwOption represents the 'Option' keyword.
	KwOption // Option
	// KwExplicit represents the 'Explicit' keyword.
	KwExplicit // Explicit
	// KwCall represents the 'Call' keyword.
	KwCall // Call
	// KwByVal represents the 'ByVal' keyword.
	KwByVal // ByVal
	// KwByRef represents the 'ByRef' keyword.
	KwByRef // ByRef
	// KwOptional represents the 'Optional' keyword.
	KwOptional // Optional
	// KwParamArray represents the 'ParamArray' keyword.
	KwParamArray // ParamArray
	// KwNew represents the 'New' keyword.
	KwNew // New

	// KwIf represents the 'If' keyword.
	KwIf // If
	// KwThen represents the 'Then' keyword.
	KwThen // Then
	// KwElse represents the 'Else' keyword.
	KwElse // Else
	// KwElseIf represents the 'ElseIf' keyword.
	KwElseIf // ElseIf
	// KwSelect represents the 'Select' keyword.
	KwSelect // Select
	// KwCase represents the 'Case' keyword.
	KwCase // Case
	// KwFor represents the 'For' keyword.
	KwFor // For
	// KwEach represents the 'Each' keyword.
	KwEach // Each
	// KwIn represents the 'In' keyword.
	KwIn // In
	// KwTo represents the 'To' keyword.
	KwTo // To
	// KwStep represents the 'Step' keyword.
	KwStep // Step
	// KwNext represents the 'Next' keyword.
	KwNext // Next
	// KwWhile represents the 'While' keyword.
	KwWhile // While
	// KwWend represents the 'Wend' keyword.
	KwWend // Wend
	// KwDo represents the 'Do' keyword.
	KwDo // Do
	// KwLoop represents the 'Loop' keyword.
	KwLoop // Loop
	// KwUntil represents the 'Until' keyword.
	KwUntil // Until

	// KwAnd represents the 'And' operator keyword.
	KwAnd // And
	// KwOr represents the 'Or' operator keyword.
	KwOr // Or
	// KwNot represents the 'Not' operator keyword.
	KwNot // Not
	// KwXor represents the 'Xor' operator keyword.
	KwXor // Xor
	// KwEqv represents the 'Eqv' operator keyword.
	KwEqv // Eqv
	// KwImp represents the 'Imp' operator keyword.
	KwImp // Imp
	// KwMod represents the 'Mod' operator keyword.
	KwMod // Mod
	// KwLike represents the 'Like' operator keyword.
	KwLike // Like
	// KwIs represents the 'Is' operator keyword.
	KwIs // Is

	// KwTrue represents the 'True' literal keyword.
	KwTrue // True
	// KwFalse represents the 'False' literal keyword.
	KwFalse // False
	// KwNothing represents the 'Nothing' literal keyword.
	KwNothing // Nothing

	// KwInteger represents the 'Integer' type keyword.
	KwInteger // Integer
	// KwLong represents the 'Long' type keyword.
	KwLong // Long
	// KwSingle represents the 'Single' type keyword.
	KwSingle // Single
	// KwDouble represents the 'Double' type keyword.
	KwDouble // Double
	// KwString represents the 'String' type keyword.
	KwString // String
	// KwBoolean represents the 'Boolean' type keyword.
	KwBoolean // Boolean
	// KwByte represents the 'Byte' type keyword.
	KwByte // Byte
	// KwCurrency represents the 'Currency' type keyword.
	KwCurrency // Currency
	// KwDate represents the 'Date' type keyword.
	KwDate // Date
	// KwObject represents the 'Object' type keyword.
	KwObject // Object
	// KwVariant represents the 'Variant' type keyword.
	KwVariant // Variant

	// KwBegin represents the 'Begin' keyword of form layout blocks.
	KwBegin // Begin
	// KwVersion represents the 'VERSION' header keyword of form files.
	KwVersion // VERSION
	// KwAttribute represents the 'Attribute' keyword of module metadata lines.
	KwAttribute // Attribute

	// IntLit represents a decimal integer literal.
	IntLit
	// HexLit represents an &H hex literal, trailing '&' included.
	HexLit
	// OctLit represents an &O octal literal, trailing '&' included.
	OctLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// DateLit represents a #...# date literal.
	DateLit

	// Plus represents '+'.
	Plus
	// Minus represents '-'.
	Minus
	// Star represents '*'.
	Star
	// Slash represents '/'.
	Slash
	// Backslash represents the integer division operator '\'.
	Backslash
	// Caret represents the exponentiation operator '^'.
	Caret
	// Amp represents the string concatenation operator '&'.
	Amp
	// Eq represents '=' (assignment and equality share one token).
	Eq
	// NotEq represents '<>'.
	NotEq
	// Lt represents '<'.
	Lt
	// LtEq represents '<='.
	LtEq
	// Gt represents '>'.
	Gt
	// GtEq represents '>='.
	GtEq
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// Comma represents ','.
	Comma
	// Dot represents '.'.
	Dot
	// Colon represents the statement separator ':'.
	Colon
	// Semicolon represents ';' (Print argument separator).
	Semicolon
	// Hash represents a bare '#' that opened no date literal.
	Hash
	// Bang represents the dictionary access operator '!'.
	Bang

	// Newline represents a statement-terminating line break.
	Newline
	// Whitespace represents a run of spaces and tabs.
	Whitespace
	// Comment represents a ' or Rem comment to end of line.
	Comment
	// LineCont represents the '_' line continuation sequence.
	LineCont
	// Preproc represents a #If/#Else/#ElseIf/#End/#Const directive line.
	Preproc
	// TypeSuffix represents a type suffix character after a name or number.
	TypeSuffix

	kindCount
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	KwDim:        "KwDim",
	KwConst:      "KwConst",
	KwPublic:     "KwPublic",
	KwPrivate:    "KwPrivate",
	KwFriend:     "KwFriend",
	KwStatic:     "KwStatic",
	KwSub:        "KwSub",
	KwFunction:   "KwFunction",
	KwProperty:   "KwProperty",
	KwGet:        "KwGet",
	KwLet:        "KwLet",
	KwSet:        "KwSet",
	KwEnd:        "KwEnd",
	KwExit:       "KwExit",
	KwAs:         "KwAs",
	KwOption:     "KwOption",
	KwExplicit:   "KwExplicit",
	KwCall:       "KwCall",
	KwByVal:      "KwByVal",
	KwByRef:      "KwByRef",
	KwOptional:   "KwOptional",
	KwParamArray: "KwParamArray",
	KwNew:        "KwNew",
	KwIf:         "KwIf",
	KwThen:       "KwThen",
	KwElse:       "KwElse",
	KwElseIf:     "KwElseIf",
	KwSelect:     "KwSelect",
	KwCase:       "KwCase",
	KwFor:        "KwFor",
	KwEach:       "KwEach",
	KwIn:         "KwIn",
	KwTo:         "KwTo",
	KwStep:       "KwStep",
	KwNext:       "KwNext",
	KwWhile:      "KwWhile",
	KwWend:       "KwWend",
	KwDo:         "KwDo",
	KwLoop:       "KwLoop",
	KwUntil:      "KwUntil",
	KwAnd:        "KwAnd",
	KwOr:         "KwOr",
	KwNot:        "KwNot",
	KwXor:        "KwXor",
	KwEqv:        "KwEqv",
	KwImp:        "KwImp",
	KwMod:        "KwMod",
	KwLike:       "KwLike",
	KwIs:         "KwIs",
	KwTrue:       "KwTrue",
	KwFalse:      "KwFalse",
	KwNothing:    "KwNothing",
	KwInteger:    "KwInteger",
	KwLong:       "KwLong",
	KwSingle:     "KwSingle",
	KwDouble:     "KwDouble",
	KwString:     "KwString",
	KwBoolean:    "KwBoolean",
	KwByte:       "KwByte",
	KwCurrency:   "KwCurrency",
	KwDate:       "KwDate",
	KwObject:     "KwObject",
	KwVariant:    "KwVariant",
	KwBegin:      "KwBegin",
	KwVersion:    "KwVersion",
	KwAttribute:  "KwAttribute",
	IntLit:       "IntLit",
	HexLit:       "HexLit",
	OctLit:       "OctLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",
	DateLit:      "DateLit",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Backslash:    "Backslash",
	Caret:        "Caret",
	Amp:          "Amp",
	Eq:           "Eq",
	NotEq:        "NotEq",
	Lt:           "Lt",
	LtEq:         "LtEq",
	Gt:           "Gt",
	GtEq:         "GtEq",
	LParen:       "LParen",
	RParen:       "RParen",
	Comma:        "Comma",
	Dot:          "Dot",
	Colon:        "Colon",
	Semicolon:    "Semicolon",
	Hash:         "Hash",
	Bang:         "Bang",
	Newline:      "Newline",
	Whitespace:   "Whitespace",
	Comment:      "Comment",
	LineCont:     "LineCont",
	Preproc:      "Preproc",
	TypeSuffix:   "TypeSuffix",
}

// String returns the constant name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(?)"
	}
	return kindNames[k]
}
