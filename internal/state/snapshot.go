package state

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot — состояние программы на момент перед применением патча.
// После Capture не мутирует: и снятие, и возврат идут через глубокие
// копии, так что работающая программа не может исказить снимок задним
// числом.
type Snapshot struct {
	ByID    map[string]Record
	Globals Record
	Exec    *ExecContext
	TakenAt time.Time
}

// Capture снимает состояние всех живых объектов провайдера. Сбой на
// любом объекте роняет весь снимок: половинчатое состояние хуже его
// отсутствия.
func Capture(p Provider) (*Snapshot, error) {
	snap := &Snapshot{
		ByID:    make(map[string]Record),
		TakenAt: time.Now(),
	}
	for _, id := range p.ListLiveIDs() {
		rec, err := p.GetState(id)
		if err != nil {
			return nil, fmt.Errorf("capture %q: %w", id, err)
		}
		clone, err := cloneRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("capture %q: %w", id, err)
		}
		snap.ByID[id] = clone
	}

	globals, err := p.GlobalProperties()
	if err != nil {
		return nil, fmt.Errorf("capture globals: %w", err)
	}
	if snap.Globals, err = cloneRecord(globals); err != nil {
		return nil, fmt.Errorf("capture globals: %w", err)
	}

	ec, err := p.CaptureExecutionContext()
	if err != nil {
		return nil, fmt.Errorf("capture execution context: %w", err)
	}
	if ec != nil {
		if snap.Exec, err = cloneExec(ec); err != nil {
			return nil, fmt.Errorf("capture execution context: %w", err)
		}
	}
	return snap, nil
}

// Restore возвращает снимок живым объектам. Объекты, исчезнувшие из
// программы после правки, пропускаются молча; сбой применения на
// живом объекте — ошибка.
func Restore(p Provider, snap *Snapshot) error {
	if snap == nil {
		return nil
	}
	live := make(map[string]bool)
	for _, id := range p.ListLiveIDs() {
		live[id] = true
	}
	for id, rec := range snap.ByID {
		if !live[id] {
			continue
		}
		clone, err := cloneRecord(rec)
		if err != nil {
			return fmt.Errorf("restore %q: %w", id, err)
		}
		if err := p.ApplyState(id, clone); err != nil {
			return fmt.Errorf("restore %q: %w", id, err)
		}
	}
	return nil
}

// cloneRecord — глубокая копия через msgpack-раундтрип. Универсальный
// reflect-обход по значениям any вышел бы своим, худшим, сериализатором.
func cloneRecord(rec Record) (Record, error) {
	if rec == nil {
		return Record{}, nil
	}
	raw, err := msgpack.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := msgpack.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}

func cloneExec(ec *ExecContext) (*ExecContext, error) {
	raw, err := msgpack.Marshal(ec)
	if err != nil {
		return nil, err
	}
	out := &ExecContext{}
	if err := msgpack.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
