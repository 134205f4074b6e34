package ast

// NodeKind различает виды узлов универсального дерева.
type NodeKind uint8

const (
	// NodeInvalid — нулевое значение, валидный узел его не использует.
	NodeInvalid NodeKind = iota

	// NodeProgram — корень модуля: Name = имя модуля.
	NodeProgram
	// NodeVersion — строка VERSION в заголовке формы: Text = номер.
	NodeVersion
	// NodeAttribute — Attribute VB_Name = "...": Name = имя атрибута.
	NodeAttribute
	// NodeOption — Option Explicit и прочие: Name = слово опции.
	NodeOption
	// NodePreproc — непрозрачная #-директива: Text = строка целиком.
	NodePreproc
	// NodeBad — остаток после ошибки разбора, хранит только Span.
	NodeBad

	// NodeVarDecl — одна переменная (Dim с несколькими именами
	// разворачивается в отдельные узлы): Name = имя.
	NodeVarDecl
	// NodeConstDecl — константа: Name = имя, последний ребёнок = значение.
	NodeConstDecl
	// NodeSubDecl — процедура Sub: дети = [ParamList, Body].
	NodeSubDecl
	// NodeFunctionDecl — Function: дети = [ParamList, TypeRef?, Body].
	NodeFunctionDecl
	// NodePropertyDecl — Property Get/Let/Set: Meta["accessor"].
	NodePropertyDecl
	// NodeParamList — список параметров процедуры.
	NodeParamList
	// NodeParam — параметр: Meta byref/optional/paramarray.
	NodeParam
	// NodeTypeRef — ссылка на тип после As: Name = имя типа.
	NodeTypeRef
	// NodeBody — блок операторов.
	NodeBody

	// NodeFormDecl — Begin VB.Form: Name = имя формы, Meta["class"].
	NodeFormDecl
	// NodeControlDecl — вложенный Begin для контрола.
	NodeControlDecl
	// NodePropertyAssign — свойство в теле формы: Caption = "...".
	NodePropertyAssign

	// NodeAssign — присваивание: дети = [lhs, rhs].
	NodeAssign
	// NodeCallStmt — вызов-оператор: дети = [callee, args...].
	NodeCallStmt
	// NodeIf — дети = [cond, Body, ElseIf..., Else?].
	NodeIf
	// NodeElseIf — дети = [cond, Body].
	NodeElseIf
	// NodeElse — дети = [Body].
	NodeElse
	// NodeSelect — дети = [selector, Case..., CaseElse?].
	NodeSelect
	// NodeCase — дети = [items..., Body].
	NodeCase
	// NodeCaseElse — дети = [Body].
	NodeCaseElse
	// NodeCaseRange — элемент lo To hi: дети = [lo, hi].
	NodeCaseRange
	// NodeCaseIs — элемент Is <op> expr: Text = оператор.
	NodeCaseIs
	// NodeFor — дети = [start, end, step?, Body], Name = переменная цикла.
	NodeFor
	// NodeForEach — дети = [collection, Body], Name = переменная цикла.
	NodeForEach
	// NodeWhile — While ... Wend: дети = [cond, Body].
	NodeWhile
	// NodeDoLoop — Meta["test"] = while|until|none, Meta["pos"] = pre|post.
	NodeDoLoop
	// NodeExit — Exit Sub/Function/Property/For/Do: Text = что покидаем.
	NodeExit

	// NodeBinary — бинарная операция: Text = оператор в нижнем регистре.
	NodeBinary
	// NodeUnary — унарная операция: Text = оператор.
	NodeUnary
	// NodeParen — скобки вокруг выражения, значимы для ByVal-семантики.
	NodeParen
	// NodeCall — вызов или индексирование в выражении: дети = [callee, args...].
	NodeCall
	// NodeMember — доступ через точку или !: Name = член, ребёнок = приёмник.
	NodeMember
	// NodeNew — New ClassName: Name = имя класса.
	NodeNew
	// NodeIdent — ссылка на имя: Name = идентификатор.
	NodeIdent

	// NodeIntLit — целочисленный литерал, включая &H/&O: Text = исходный текст.
	NodeIntLit
	// NodeFloatLit — вещественный литерал.
	NodeFloatLit
	// NodeStringLit — строковый литерал, Text без кавычек и с развёрнутыми "".
	NodeStringLit
	// NodeDateLit — литерал даты #...#.
	NodeDateLit
	// NodeBoolLit — True/False: Text = true|false.
	NodeBoolLit
	// NodeNothingLit — Nothing.
	NodeNothingLit

	nodeKindCount
)

var nodeKindNames = [...]string{
	NodeInvalid:        "Invalid",
	NodeProgram:        "Program",
	NodeVersion:        "Version",
	NodeAttribute:      "Attribute",
	NodeOption:         "Option",
	NodePreproc:        "Preproc",
	NodeBad:            "Bad",
	NodeVarDecl:        "VarDecl",
	NodeConstDecl:      "ConstDecl",
	NodeSubDecl:        "SubDecl",
	NodeFunctionDecl:   "FunctionDecl",
	NodePropertyDecl:   "PropertyDecl",
	NodeParamList:      "ParamList",
	NodeParam:          "Param",
	NodeTypeRef:        "TypeRef",
	NodeBody:           "Body",
	NodeFormDecl:       "FormDecl",
	NodeControlDecl:    "ControlDecl",
	NodePropertyAssign: "PropertyAssign",
	NodeAssign:         "Assign",
	NodeCallStmt:       "CallStmt",
	NodeIf:             "If",
	NodeElseIf:         "ElseIf",
	NodeElse:           "Else",
	NodeSelect:         "Select",
	NodeCase:           "Case",
	NodeCaseElse:       "CaseElse",
	NodeCaseRange:      "CaseRange",
	NodeCaseIs:         "CaseIs",
	NodeFor:            "For",
	NodeForEach:        "ForEach",
	NodeWhile:          "While",
	NodeDoLoop:         "DoLoop",
	NodeExit:           "Exit",
	NodeBinary:         "Binary",
	NodeUnary:          "Unary",
	NodeParen:          "Paren",
	NodeCall:           "Call",
	NodeMember:         "Member",
	NodeNew:            "New",
	NodeIdent:          "Ident",
	NodeIntLit:         "IntLit",
	NodeFloatLit:       "FloatLit",
	NodeStringLit:      "StringLit",
	NodeDateLit:        "DateLit",
	NodeBoolLit:        "BoolLit",
	NodeNothingLit:     "NothingLit",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// IsDecl — объявление, попадающее в таблицу символов модуля.
func (k NodeKind) IsDecl() bool {
	switch k {
	case NodeVarDecl, NodeConstDecl, NodeSubDecl, NodeFunctionDecl,
		NodePropertyDecl, NodeFormDecl, NodeControlDecl:
		return true
	}
	return false
}

// IsProc — процедурное объявление с телом.
func (k NodeKind) IsProc() bool {
	return k == NodeSubDecl || k == NodeFunctionDecl || k == NodePropertyDecl
}

// IsStmt — оператор внутри Body.
func (k NodeKind) IsStmt() bool {
	switch k {
	case NodeAssign, NodeCallStmt, NodeIf, NodeSelect, NodeFor, NodeForEach,
		NodeWhile, NodeDoLoop, NodeExit, NodeVarDecl, NodeConstDecl, NodeBad:
		return true
	}
	return false
}

// IsExpr — узел выражения.
func (k NodeKind) IsExpr() bool {
	switch k {
	case NodeBinary, NodeUnary, NodeParen, NodeCall, NodeMember, NodeNew,
		NodeIdent, NodeIntLit, NodeFloatLit, NodeStringLit, NodeDateLit,
		NodeBoolLit, NodeNothingLit:
		return true
	}
	return false
}

// IsLit — литеральный узел.
func (k NodeKind) IsLit() bool {
	switch k {
	case NodeIntLit, NodeFloatLit, NodeStringLit, NodeDateLit,
		NodeBoolLit, NodeNothingLit:
		return true
	}
	return false
}
