package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rebasic/internal/hotreload"
	"rebasic/internal/state"
	"rebasic/internal/ui"
	"rebasic/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [file.bas]",
	Short: "Watch a BASIC source file and hot-reload edits",
	Long: `Watch runs the live reload loop: every save is parsed, diffed against
the running program and spliced in without losing state. Without an
argument the file comes from [package].main in rebasic.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("no-tui", false, "plain log output instead of the status panel")
	watchCmd.Flags().Bool("no-state", false, "do not preserve object state across reloads")
	watchCmd.Flags().Bool("full", false, "always recompile everything, never splice")
	watchCmd.Flags().Bool("verbose", false, "verbose reload logging")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, cfg, err := watchTarget(cmd, args)
	if err != nil {
		return err
	}

	noTUI, _ := cmd.Flags().GetBool("no-tui")
	plain := noTUI || !isTerminal(os.Stdout)

	logOut := io.Writer(os.Stderr)
	if !plain {
		// Панель владеет терминалом, журнал движка туда не пишем.
		logOut = io.Discard
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	provider := state.NewMemProvider()
	engine := hotreload.New(cfg, provider,
		hotreload.WithLogger(log),
		hotreload.WithPath(filepath.Base(path)),
	)
	defer engine.Close()

	events := make(chan ui.Msg, 64)
	subs := subscribeUI(engine, events)
	defer func() {
		for _, s := range subs {
			engine.Unsubscribe(s)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Первичная сборка даёт базу для дальнейших сплайсов. Ошибка не
	// фатальна: цикл слежения продолжит пробовать каждое сохранение.
	if src, err := os.ReadFile(path); err == nil {
		if _, err := engine.Reload(ctx, src); err != nil {
			log.Warn("initial build failed", "err", err)
		}
	} else {
		log.Warn("cannot read source", "path", path, "err", err)
	}

	watcher, err := watch.New(path, func(_ string, content []byte) {
		engine.Trigger(content)
	}, watch.Options{Log: log})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	if plain {
		return plainLoop(ctx, events, cmd.OutOrStdout())
	}

	g, ctx := errgroup.WithContext(ctx)
	prog := tea.NewProgram(ui.NewWatchModel(path, events))
	g.Go(func() error {
		_, err := prog.Run()
		stop()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		prog.Quit()
		return nil
	})
	return g.Wait()
}

// watchTarget определяет файл и конфигурацию: манифест проекта, затем
// флаги командной строки поверх.
func watchTarget(cmd *cobra.Command, args []string) (string, hotreload.Config, error) {
	cfg := hotreload.DefaultConfig()

	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return "", cfg, err
	}
	if found {
		cfg = applyReloadConfig(cfg, manifest.Config.Reload)
	}

	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case found && strings.TrimSpace(manifest.Config.Package.Main) != "":
		path = filepath.Join(manifest.Root, filepath.FromSlash(manifest.Config.Package.Main))
	default:
		return "", cfg, fmt.Errorf("no source file: pass one or set [package].main in rebasic.toml")
	}
	if _, err := os.Stat(path); err != nil {
		return "", cfg, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	if noState, _ := cmd.Flags().GetBool("no-state"); noState {
		cfg.PreserveState = false
	}
	if full, _ := cmd.Flags().GetBool("full"); full {
		cfg.Incremental = false
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	if maxDiag, err := maxDiagnostics(cmd); err == nil && maxDiag > 0 {
		cfg.MaxDiagnostics = maxDiag
	}
	return path, cfg, nil
}

// subscribeUI переливает события движка в канал панели. Отправка
// неблокирующая: переполненный канал роняет событие, а не конвейер.
func subscribeUI(engine *hotreload.Engine, events chan<- ui.Msg) []hotreload.Subscription {
	send := func(msg ui.Msg) {
		select {
		case events <- msg:
		default:
		}
	}
	phase := func(name string) hotreload.Handler {
		return func(ev hotreload.Event) {
			send(ui.Msg{
				Phase:      name,
				Commits:    ev.Metrics.Commits,
				Rollbacks:  ev.Metrics.Rollbacks,
				AvgLatency: ev.Metrics.AvgLatency,
			})
		}
	}
	return []hotreload.Subscription{
		engine.Subscribe(hotreload.BeforeReload, phase("reloading")),
		engine.Subscribe(hotreload.StatePreserved, phase("preserving state")),
		engine.Subscribe(hotreload.CompilationComplete, phase("applying")),
		engine.Subscribe(hotreload.AfterReload, func(ev hotreload.Event) {
			cycle := &ui.CycleStatus{Committed: true}
			if ev.Patch != nil {
				cycle.PatchID = ev.Patch.ID
				cycle.Latency = ev.Patch.Latency
				cycle.Time = ev.Patch.Time
				if ev.Patch.Artifact != nil {
					cycle.FullBuild = ev.Patch.Artifact.FullBuild
					cycle.Recompiled = ev.Patch.Artifact.Recompiled
				}
			}
			send(ui.Msg{
				Phase:      "idle",
				Cycle:      cycle,
				Commits:    ev.Metrics.Commits,
				Rollbacks:  ev.Metrics.Rollbacks,
				AvgLatency: ev.Metrics.AvgLatency,
			})
		}),
		engine.Subscribe(hotreload.ReloadError, func(ev hotreload.Event) {
			send(ui.Msg{
				Phase:      "idle",
				Cycle:      &ui.CycleStatus{Err: ev.Err, Time: time.Now()},
				Commits:    ev.Metrics.Commits,
				Rollbacks:  ev.Metrics.Rollbacks,
				AvgLatency: ev.Metrics.AvgLatency,
			})
		}),
	}
}

// plainLoop — режим без панели: по строке на цикл.
func plainLoop(ctx context.Context, events <-chan ui.Msg, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-events:
			if msg.Cycle == nil {
				continue
			}
			c := msg.Cycle
			switch {
			case c.Err != nil:
				fmt.Fprintf(out, "rollback: %v\n", c.Err)
			case c.FullBuild:
				fmt.Fprintf(out, "patch #%d full build %s\n", c.PatchID, c.Latency)
			default:
				fmt.Fprintf(out, "patch #%d spliced %s %s\n",
					c.PatchID, strings.Join(c.Recompiled, ", "), c.Latency)
			}
		}
	}
}
