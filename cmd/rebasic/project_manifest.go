package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"rebasic/internal/hotreload"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Reload  reloadConfig  `toml:"reload"`
}

type packageConfig struct {
	Name string `toml:"name"`
	Main string `toml:"main"`
}

// reloadConfig — секция [reload]: указательные поля отличают
// «не задано» от нулевого значения.
type reloadConfig struct {
	DebounceMS     *int  `toml:"debounce_ms"`
	PreserveState  *bool `toml:"preserve_state"`
	Incremental    *bool `toml:"incremental"`
	MaxHistory     *int  `toml:"max_history"`
	ErrorRecovery  *bool `toml:"error_recovery"`
	CycleTimeoutMS *int  `toml:"cycle_timeout_ms"`
	MaxDiagnostics *int  `toml:"max_diagnostics"`
}

// findRebasicToml ищет rebasic.toml от startDir вверх до корня.
func findRebasicToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "rebasic.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findRebasicToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// applyReloadConfig накладывает заданные в манифесте поля [reload]
// поверх конфигурации по умолчанию.
func applyReloadConfig(base hotreload.Config, rc reloadConfig) hotreload.Config {
	if rc.DebounceMS != nil {
		base.Debounce = time.Duration(*rc.DebounceMS) * time.Millisecond
	}
	if rc.PreserveState != nil {
		base.PreserveState = *rc.PreserveState
	}
	if rc.Incremental != nil {
		base.Incremental = *rc.Incremental
	}
	if rc.MaxHistory != nil {
		base.MaxHistory = *rc.MaxHistory
	}
	if rc.ErrorRecovery != nil {
		base.ErrorRecovery = *rc.ErrorRecovery
	}
	if rc.CycleTimeoutMS != nil {
		base.CycleTimeout = time.Duration(*rc.CycleTimeoutMS) * time.Millisecond
	}
	if rc.MaxDiagnostics != nil {
		base.MaxDiagnostics = *rc.MaxDiagnostics
	}
	return base
}
