package hotreload

import "sync"

// EventKind — фиксированный набор событий жизненного цикла. Таблица
// подписок ключуется перечислением, а не строками: опечатка в имени
// события не компилируется.
type EventKind uint8

const (
	BeforeReload EventKind = iota
	AfterReload
	ReloadError
	Rollback
	StatePreserved
	CompilationComplete
	eventKindCount
)

func (k EventKind) String() string {
	switch k {
	case BeforeReload:
		return "before-reload"
	case AfterReload:
		return "after-reload"
	case ReloadError:
		return "error"
	case Rollback:
		return "rollback"
	case StatePreserved:
		return "state-preserved"
	case CompilationComplete:
		return "compilation-complete"
	}
	return "unknown"
}

// Event — типизированная нагрузка: заполнены только поля, осмысленные
// для данного Kind (Patch у AfterReload, Err у ReloadError/Rollback).
type Event struct {
	Kind    EventKind
	Patch   *Patch
	Err     error
	Metrics Metrics
}

// Handler зовётся синхронно из конвейера; долгую работу подписчик
// уносит к себе.
type Handler func(Event)

// Subscription — талон отписки.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn Handler
}

type eventTable struct {
	mu     sync.Mutex
	nextID Subscription
	subs   [eventKindCount][]subscriber
}

func newEventTable() *eventTable { return &eventTable{} }

func (t *eventTable) subscribe(kind EventKind, fn Handler) Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.subs[kind] = append(t.subs[kind], subscriber{id: t.nextID, fn: fn})
	return t.nextID
}

func (t *eventTable) unsubscribe(id Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for kind := range t.subs {
		list := t.subs[kind]
		for i := range list {
			if list[i].id == id {
				t.subs[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

func (t *eventTable) emit(ev Event) {
	t.mu.Lock()
	list := append([]subscriber(nil), t.subs[ev.Kind]...)
	t.mu.Unlock()
	for _, s := range list {
		s.fn(ev)
	}
}
