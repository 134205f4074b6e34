package transpile

import "context"

// Unit — вход бэкенда: целый файл или фрагмент-секция.
type Unit struct {
	// Name — имя секции ("" для целого файла). В цель не попадает,
	// нужно для привязки ошибок.
	Name string
	// Source — исходный текст фрагмента.
	Source string
	// FirstLine — номер первой строки фрагмента в исходном файле,
	// 1-based; карта источника отдаёт абсолютные номера.
	FirstLine int
}

// MapEntry — одна строка цели и породившая её строка источника.
type MapEntry struct {
	TargetLine int `json:"target"`
	SourceLine int `json:"source"`
}

// Output — результат компиляции юнита.
type Output struct {
	TargetCode string
	SourceMap  []MapEntry
	// Errors — ошибки уровня исходника. Непустой список — провал
	// компиляции, даже если err == nil.
	Errors []string
}

func (o Output) OK() bool { return len(o.Errors) == 0 }

// Backend — внешний генератор кода. Ядро само целевой текст не
// порождает никогда: весь вывод приходит отсюда.
type Backend interface {
	Compile(ctx context.Context, unit Unit) (Output, error)
}
