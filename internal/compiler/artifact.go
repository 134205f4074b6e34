package compiler

import (
	"strings"

	"rebasic/internal/transpile"
)

// Section — один именованный отрезок артефакта: верхнеуровневая
// декларация, скомпилированная независимо. Карта источника артефакта
// складывается из карт секций.
type Section struct {
	// Name — имя декларации; ключ сплайсинга.
	Name string
	// Kind — procedure/variable/form/preamble, для диагностики.
	Kind string
	// SourceFirst..SourceLast — строки исходника, 1-based включительно.
	SourceFirst int
	SourceLast  int
	// Target — целевой текст секции, со своим завершающим переводом строки.
	Target string
	// Map — карта источника секции в абсолютных номерах строк исходника.
	Map []transpile.MapEntry
}

// Artifact — скомпилированный результат: склейка секций в порядке
// исходника. После сборки не мутирует: кэш выдаёт его нескольким
// циклам без копий.
type Artifact struct {
	// Hash — содержимое исходника, собравшего артефакт.
	Hash [32]byte
	// Sections в порядке исходника.
	Sections []Section
	// FullBuild — артефакт собран полной компиляцией, не сплайсом.
	FullBuild bool
	// Recompiled — имена секций, пересобранных в этом артефакте.
	Recompiled []string
}

// TargetCode — полный целевой текст.
func (a *Artifact) TargetCode() string {
	var sb strings.Builder
	for _, s := range a.Sections {
		sb.WriteString(s.Target)
	}
	return sb.String()
}

// SourceMap — сквозная карта: целевые строки нумеруются по склейке.
func (a *Artifact) SourceMap() []transpile.MapEntry {
	var out []transpile.MapEntry
	base := 0
	for _, s := range a.Sections {
		for _, m := range s.Map {
			out = append(out, transpile.MapEntry{
				TargetLine: base + m.TargetLine,
				SourceLine: m.SourceLine,
			})
		}
		base += strings.Count(s.Target, "\n")
	}
	return out
}

// Section ищет секцию по имени (без учёта регистра).
func (a *Artifact) Section(name string) (int, bool) {
	for i := range a.Sections {
		if strings.EqualFold(a.Sections[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}
