package sema

import "strings"

// VType — встроенный тип VB6 в решётке расширений. Пользовательские
// классы и ссылки на объекты сводятся к TyObject: без подключённых
// библиотек типов их внутренность проверить нельзя.
type VType uint8

const (
	TyUnknown VType = iota
	TyByte
	TyInteger
	TyLong
	TySingle
	TyDouble
	TyCurrency
	TyString
	TyBoolean
	TyDate
	TyObject
	TyVariant
)

var vtypeNames = [...]string{
	TyUnknown:  "Unknown",
	TyByte:     "Byte",
	TyInteger:  "Integer",
	TyLong:     "Long",
	TySingle:   "Single",
	TyDouble:   "Double",
	TyCurrency: "Currency",
	TyString:   "String",
	TyBoolean:  "Boolean",
	TyDate:     "Date",
	TyObject:   "Object",
	TyVariant:  "Variant",
}

func (t VType) String() string {
	if int(t) < len(vtypeNames) {
		return vtypeNames[t]
	}
	return "VType(?)"
}

// numericRank — позиция в решётке расширений. 0 = не числовой.
func (t VType) numericRank() int {
	switch t {
	case TyByte:
		return 1
	case TyInteger:
		return 2
	case TyLong:
		return 3
	case TyCurrency:
		return 4
	case TySingle:
		return 5
	case TyDouble:
		return 6
	default:
		return 0
	}
}

func (t VType) IsNumeric() bool { return t.numericRank() > 0 }

// typeFromName сопоставляет имя типа после As встроенному типу.
// Неизвестные и точечные имена считаются объектными.
func typeFromName(name string) VType {
	switch strings.ToLower(name) {
	case "byte":
		return TyByte
	case "integer":
		return TyInteger
	case "long":
		return TyLong
	case "single":
		return TySingle
	case "double":
		return TyDouble
	case "currency":
		return TyCurrency
	case "string":
		return TyString
	case "boolean":
		return TyBoolean
	case "date":
		return TyDate
	case "variant":
		return TyVariant
	case "object":
		return TyObject
	default:
		return TyObject
	}
}

// builtinScalarName — имя встроенного скалярного типа, который нельзя
// инстанцировать через New.
func builtinScalarName(name string) bool {
	switch strings.ToLower(name) {
	case "byte", "integer", "long", "single", "double", "currency",
		"string", "boolean", "date", "variant":
		return true
	}
	return false
}

// typeFromSuffix — тип по символу-суффиксу: x% = Integer, s$ = String.
func typeFromSuffix(suffix string) VType {
	switch suffix {
	case "%":
		return TyInteger
	case "&":
		return TyLong
	case "!":
		return TySingle
	case "#":
		return TyDouble
	case "@":
		return TyCurrency
	case "$":
		return TyString
	default:
		return TyVariant
	}
}

// assignable — можно ли значение типа from присвоить приёмнику типа to.
// Разрешено: точное совпадение, расширение по числовой решётке, Variant
// в обе стороны, Unknown (не смогли вывести — молчим).
func assignable(from, to VType) bool {
	if from == TyUnknown || to == TyUnknown {
		return true
	}
	if from == to || to == TyVariant || from == TyVariant {
		return true
	}
	if fr, tr := from.numericRank(), to.numericRank(); fr > 0 && tr > 0 {
		return fr <= tr
	}
	return false
}

// widen — общий тип двух операндов арифметики.
func widen(a, b VType) VType {
	if a == TyVariant || b == TyVariant {
		return TyVariant
	}
	if a.numericRank() >= b.numericRank() {
		return a
	}
	return b
}
