package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/logging"
	"github.com/reviewdeck/reviewdeck/internal/ops"
	"github.com/reviewdeck/reviewdeck/internal/prefs"
	"github.com/reviewdeck/reviewdeck/internal/state"
	"github.com/reviewdeck/reviewdeck/internal/ui"
)

// Options configure reviewdeck.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses prefs.DefaultPath()
	APIBase    string // overrides api_base when set
	LogLevel   string // overrides log_level when set
}

// Env is the wired set of components shared by the TUI and the headless
// commands.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Log       *logging.Logger
	Client    *backend.Client
	Roster    *state.Roster
	Detail    *state.Detail
	Ops       *ops.Controller
}

// Bootstrap loads configuration, opens the log file, and builds the client,
// stores, and operation controller. Callers must Close the returned Env.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err = cfg.Apply(config.Overrides{APIBase: opts.APIBase, LogLevel: opts.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}

	logger, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := backend.NewClient(cfg.APIBase, logger.WithPrefix("backend"))
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("init backend client: %w", err)
	}

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("using default preferences", "path", prefsPath, "err", err)
	}

	roster := state.NewRoster(client, logger.WithPrefix("roster"))
	detail := state.NewDetail(client, logger.WithPrefix("detail"))
	controller := ops.New(client, roster, detail, logger.WithPrefix("ops"))

	logger.Info("reviewdeck starting", "api_base", cfg.APIBase, "config", cfg.Path, "log_level", cfg.LogLevel)

	return &Env{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Log:       logger,
		Client:    client,
		Roster:    roster,
		Detail:    detail,
		Ops:       controller,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.Log == nil {
		return nil
	}
	return e.Log.Close()
}

// Run boots the reviewdeck TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if interval := env.Config.RosterRefresh(); interval > 0 {
		StartPoller(ctx, env.Roster, interval, env.Log.WithPrefix("poller"))
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Ops:        env.Ops,
		Roster:     env.Roster,
		Detail:     env.Detail,
		Logger:     env.Log.WithPrefix("ui"),
		ThemeName:  env.Prefs.Theme,
		PrefsPath:  env.PrefsPath,
		TopicWords: env.Config.TopicWords,
		APIBase:    env.Config.APIBase,
		RestoreApp: env.Prefs.LastApp,
	})
}
