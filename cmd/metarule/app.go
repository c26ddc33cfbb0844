// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/metarule/internal/config"
	"github.com/invowk/metarule/internal/resolve"
	"github.com/invowk/metarule/pkg/project"
	"github.com/invowk/metarule/pkg/rules"
)

const projectFileHint = "metarule.cue"

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives the App and reaches
	// configuration, project and resolver through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		now    func() time.Time
		flags  globalFlags
		// colorScheme is the glamour style used for catalog issues; it
		// follows ui.color_scheme once configuration is loaded.
		colorScheme string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		Now    func() time.Time
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	globalFlags struct {
		projectDir string
		configPath string
		verbose    bool
		format     string
	}

	// session is everything one command invocation resolves with.
	session struct {
		cfg        *config.Config
		configPath string
		project    *project.Project
		setup      *project.Setup
		engine     *rules.Engine
		resolver   *resolve.Resolver
		logger     *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &App{
		Config:      deps.Config,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		now:         deps.Now,
		flags:       globalFlags{projectDir: "."},
		colorScheme: "dark",
	}
}

// loadConfig loads the user configuration honoring --config and adopts its
// color scheme for issue rendering.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, "", err
	}
	a.colorScheme = string(cfg.UI.ColorScheme)
	return cfg, path, nil
}

// newLogger returns the diagnostic logger: debug level when verbose,
// warnings only otherwise.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := log.WarnLevel
	if a.flags.verbose || cfg.UI.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "metarule",
		Level:  level,
	})
}

// openSession loads configuration and the project file and wires the
// repository chain, rule engine and resolver.
func (a *App) openSession(ctx context.Context) (*session, error) {
	cfg, cfgPath, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := a.newLogger(cfg)
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	p, err := project.Load(a.flags.projectDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded project", "path", p.Path, "repositories", len(p.Repositories))

	setup, err := project.Build(p, project.BuildOptions{
		DefaultRules: cfg.Resolution.DefaultRules,
		CacheSize:    cfg.Resolution.CacheSize,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	engine := rules.NewEngine(setup.Registry,
		rules.WithParallelism(cfg.Resolution.Parallelism),
		rules.WithLogger(logger),
	)
	resolver := resolve.New(setup.Chain, engine,
		resolve.WithParallelism(cfg.Resolution.Parallelism),
		resolve.WithLogger(logger),
	)

	return &session{
		cfg:        cfg,
		configPath: cfgPath,
		project:    p,
		setup:      setup,
		engine:     engine,
		resolver:   resolver,
		logger:     logger,
	}, nil
}
