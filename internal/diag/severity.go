package diag

// Severity — важность диагностики. Порядок значим: Bag.HasErrors и
// сортировка сравнивают уровни числом.
type Severity uint8

const (
	// SevInfo — заметка, на исход сборки не влияет.
	SevInfo Severity = iota
	// SevWarning — подозрительное место; цикл перезагрузки продолжается.
	SevWarning
	// SevError — цикл прерывается, артефакт не применяется.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
