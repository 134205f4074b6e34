package hotreload

import "time"

// Config управляет поведением конвейера перезагрузки. Нулевое
// значение непригодно, отправная точка — DefaultConfig.
type Config struct {
	// Enabled — выключенный движок отклоняет любые перезагрузки.
	Enabled bool
	// Debounce — окно слияния шквала правок: конвейер стартует по
	// последнему снимку, промежуточные выбрасываются.
	Debounce time.Duration
	// PreserveState — снимать и возвращать состояние живых объектов.
	PreserveState bool
	// Incremental — сплайсить секции; false = всегда полная сборка.
	Incremental bool
	// MaxHistory — ёмкость кольца патчей, старейший вытесняется.
	MaxHistory int
	// ErrorRecovery — парсер восстанавливается после синтаксической
	// ошибки и отдаёт дерево с диагностикой вместо обрыва цикла.
	ErrorRecovery bool
	// Verbose поднимает подробность журнала движка.
	Verbose bool
	// CycleTimeout — потолок одного цикла; 0 = без потолка. Выход за
	// потолок — обычный сбой с откатом.
	CycleTimeout time.Duration
	// MaxDiagnostics — ёмкость сумки диагностик одного цикла.
	MaxDiagnostics int
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Debounce:       300 * time.Millisecond,
		PreserveState:  true,
		Incremental:    true,
		MaxHistory:     50,
		ErrorRecovery:  true,
		MaxDiagnostics: 100,
	}
}
