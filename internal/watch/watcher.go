package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler получает свежее содержимое файла после слияния шквала
// событий редактора. Зовётся из одной горутины.
type Handler func(path string, content []byte)

type Options struct {
	// Debounce — окно слияния событий ФС; редакторы пишут файл
	// сериями (truncate, write, rename).
	Debounce time.Duration
	Log      *slog.Logger
}

// Watcher следит за одним исходным файлом через его каталог:
// rename-replace, которым сохраняет большинство редакторов, убивает
// подписку на сам файл, подписка на каталог переживает его.
type Watcher struct {
	path     string
	base     string
	fsw      *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	log      *slog.Logger

	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	running bool
}

func New(path string, handler Handler, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		fsw:      fsw,
		handler:  handler,
		debounce: opts.Debounce,
		log:      opts.Log,
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if err := w.fsw.Close(); err != nil {
			w.log.Debug("watcher close", "err", err)
		}
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	fire := func() {
		timer = nil
		timerC = nil
		content, err := os.ReadFile(w.path)
		if err != nil {
			// файл мог исчезнуть на середине rename-replace; следующее
			// событие принесёт его обратно
			w.log.Warn("read after change failed", "path", w.path, "err", err)
			return
		}
		w.handler(w.path, content)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			fire()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}
