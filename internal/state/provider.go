package state

import (
	"fmt"
	"sync"
)

// Record — мутабельные свойства одного живого объекта времени
// выполнения: значения полей формы, свойств контрола, глобальной
// переменной.
type Record map[string]any

// ExecContext — точка исполнения на момент снимка: какая процедура
// шла, на какой строке, с какими локалами.
type ExecContext struct {
	Procedure string         `msgpack:"procedure"`
	Line      int            `msgpack:"line"`
	Locals    map[string]any `msgpack:"locals"`
}

// Provider — контракт хоста: ядро снимает и возвращает состояние
// только через него и ничего не знает о конкретном UI-тулките.
type Provider interface {
	// ListLiveIDs — идентификаторы живых объектов, чьё состояние
	// стоит переживания перезагрузки.
	ListLiveIDs() []string
	GetState(id string) (Record, error)
	ApplyState(id string, rec Record) error
	// GlobalProperties — значения глобальных переменных модуля.
	GlobalProperties() (Record, error)
	// CaptureExecutionContext может вернуть (nil, nil): хост не
	// обязан уметь снимать точку исполнения.
	CaptureExecutionContext() (*ExecContext, error)
}

// MemProvider — эталонная реализация Provider в памяти. Живёт в
// тестах и в CLI-прогонах без настоящего хоста.
type MemProvider struct {
	mu      sync.Mutex
	objects map[string]Record
	globals Record
	exec    *ExecContext
}

func NewMemProvider() *MemProvider {
	return &MemProvider{
		objects: make(map[string]Record),
		globals: make(Record),
	}
}

func (m *MemProvider) ListLiveIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.objects))
	for id := range m.objects {
		ids = append(ids, id)
	}
	return ids
}

func (m *MemProvider) GetState(id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.objects[id]
	if !ok {
		return nil, fmt.Errorf("state: unknown object %q", id)
	}
	return rec, nil
}

func (m *MemProvider) ApplyState(id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		return fmt.Errorf("state: unknown object %q", id)
	}
	m.objects[id] = rec
	return nil
}

func (m *MemProvider) GlobalProperties() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globals, nil
}

func (m *MemProvider) CaptureExecutionContext() (*ExecContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exec, nil
}

// SetObject регистрирует живой объект (или замещает его состояние).
func (m *MemProvider) SetObject(id string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = rec
}

// RemoveObject убирает объект: так имитируется удалённый контрол.
func (m *MemProvider) RemoveObject(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, id)
}

func (m *MemProvider) Object(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.objects[id]
	return rec, ok
}

func (m *MemProvider) SetGlobal(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[name] = value
}

func (m *MemProvider) SetExecContext(ec *ExecContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exec = ec
}
