package application

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/keyprops/internal/config"
	"github.com/eugenenazirov/keyprops/internal/properties"
	"github.com/eugenenazirov/keyprops/internal/signing"
)

// Reasons reported when a plan carries no signing profile.
const (
	SkipDebugBuild   = "debug build"
	SkipNoProperties = "no signing properties"
)

// Plan describes how the build toolchain should sign the requested variant.
type Plan struct {
	BuildType      signing.BuildType
	PropertiesFile string
	FilePresent    bool
	Profile        *signing.Profile
	// StoreFile is Profile.StoreFile resolved against the project root.
	StoreFile       string
	StoreFileExists bool
	SkipReason      string
}

// Signed reports whether the plan applies a signing profile.
func (p Plan) Signed() bool {
	return p.Profile != nil
}

// App encapsulates the configuration and logger used to resolve signing plans.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	load   func(path string) (properties.Set, error)
}

// Option configures App behaviour.
type Option func(*App)

// WithLoader overrides the properties loader, primarily for tests.
func WithLoader(load func(path string) (properties.Set, error)) Option {
	return func(a *App) {
		a.load = load
	}
}

// New initializes the application from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg.PropertiesFile == "" {
		return nil, errors.New("properties file is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		load:   properties.Load,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// LoadProperties reads the configured properties file once. A missing file is
// reported as an empty set.
func (a *App) LoadProperties() (properties.Set, error) {
	path := a.cfg.PropertiesPath()
	set, err := a.load(path)
	if err != nil {
		a.logger.Error("failed to load signing properties", zap.String("path", path), zap.Error(err))
		return properties.Set{}, fmt.Errorf("load signing properties: %w", err)
	}

	a.logger.Debug("signing properties loaded",
		zap.String("path", path),
		zap.Bool("present", set.Present()),
		zap.Int("keys", set.Len()),
	)
	return set, nil
}

// Plan loads the properties file and decides whether the configured build
// variant is signed. Debug builds never require credentials. A release build
// with no properties is left unsigned unless signing is required; a release
// build with partial credentials fails with signing.ErrMissingCredential.
func (a *App) Plan() (Plan, error) {
	set, err := a.LoadProperties()
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		BuildType:      a.cfg.BuildType,
		PropertiesFile: a.cfg.PropertiesPath(),
		FilePresent:    set.Present(),
	}

	if !a.cfg.BuildType.RequiresSigning() {
		plan.SkipReason = SkipDebugBuild
		a.logger.Info("signing skipped", zap.String("build_type", string(plan.BuildType)), zap.String("reason", plan.SkipReason))
		return plan, nil
	}

	if set.IsEmpty() && !a.cfg.RequireSigning {
		plan.SkipReason = SkipNoProperties
		a.logger.Warn("release build left unsigned",
			zap.String("path", plan.PropertiesFile),
			zap.Bool("present", plan.FilePresent),
			zap.String("reason", plan.SkipReason),
		)
		return plan, nil
	}

	profile, err := signing.BuildProfile(set)
	if err != nil {
		var missing *signing.MissingCredentialError
		if errors.As(err, &missing) {
			a.logger.Error("incomplete signing credentials",
				zap.String("path", plan.PropertiesFile),
				zap.String("key", missing.Key),
			)
		}
		return plan, fmt.Errorf("build signing profile: %w", err)
	}

	plan.Profile = &profile
	plan.StoreFile = profile.ResolveStoreFile(a.cfg.ProjectRoot)
	if _, statErr := os.Stat(plan.StoreFile); statErr == nil {
		plan.StoreFileExists = true
	} else {
		a.logger.Warn("keystore not found", zap.String("store_file", plan.StoreFile))
	}

	a.logger.Info("release signing configured",
		zap.String("key_alias", profile.KeyAlias),
		zap.String("store_file", plan.StoreFile),
	)
	return plan, nil
}
