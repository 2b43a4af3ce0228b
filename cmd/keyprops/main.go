package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/keyprops/internal/application"
	"github.com/eugenenazirov/keyprops/internal/config"
	"github.com/eugenenazirov/keyprops/internal/logging"
	"github.com/eugenenazirov/keyprops/internal/properties"
	"github.com/eugenenazirov/keyprops/internal/signing"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var newLogger = logging.New

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("keyprops", "Resolves release-signing credentials from an optional key.properties file")
	kingpinApp.UsageWriter(stderr)
	kingpinApp.ErrorWriter(stderr)

	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	projectRoot := kingpinApp.Flag("project-root", "Directory the properties file is resolved against").String()
	propertiesFile := kingpinApp.Flag("file", "Properties file name or path").Short('f').String()
	buildType := kingpinApp.Flag("build-type", "Build variant to configure (debug or release)").String()
	var requireSigningSet bool
	requireSigning := kingpinApp.Flag("require-signing", "Fail release builds that have no signing properties").IsSetByUser(&requireSigningSet).Bool()
	format := kingpinApp.Flag("format", "Output format (yaml or properties)").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	planCmd := kingpinApp.Command("plan", "Print the signing plan for the build variant").Default()
	showCmd := kingpinApp.Command("show", "Print the loaded properties with secrets masked")
	checkCmd := kingpinApp.Command("check", "Exit non-zero unless a release signing profile can be built")

	command, err := kingpinApp.Parse(args)
	if err != nil {
		kingpinApp.Errorf("%s, try --help", err)
		return exitUsage
	}

	overrides := &config.CLIOverrides{
		ConfigFile:     *configFile,
		ProjectRoot:    projectRoot,
		PropertiesFile: propertiesFile,
		BuildType:      buildType,
		Format:         format,
		LogLevel:       logLevel,
	}
	if requireSigningSet {
		overrides.RequireSigning = requireSigning
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "keyprops: failed to load configuration: %v\n", err)
		return exitFail
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "keyprops: failed to initialize logger: %v\n", err)
		return exitFail
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return exitFail
	}

	switch command {
	case planCmd.FullCommand():
		return runPlan(app, stdout, stderr)
	case showCmd.FullCommand():
		return runShow(app, stdout, stderr)
	case checkCmd.FullCommand():
		return runCheck(app, stdout, stderr)
	}
	return exitUsage
}

func runPlan(app *application.App, stdout, stderr io.Writer) int {
	plan, err := app.Plan()
	if err != nil {
		reportError(stderr, err)
		return exitFail
	}
	if err := writePlan(stdout, app.Config().Format, plan); err != nil {
		reportError(stderr, err)
		return exitFail
	}
	return exitOK
}

func runShow(app *application.App, stdout, stderr io.Writer) int {
	set, err := app.LoadProperties()
	if err != nil {
		reportError(stderr, err)
		return exitFail
	}
	if err := writeProperties(stdout, app.Config().Format, set); err != nil {
		reportError(stderr, err)
		return exitFail
	}
	return exitOK
}

func runCheck(app *application.App, stdout, stderr io.Writer) int {
	set, err := app.LoadProperties()
	if err != nil {
		reportError(stderr, err)
		return exitFail
	}
	profile, err := signing.BuildProfile(set)
	if err != nil {
		reportError(stderr, err)
		return exitFail
	}
	fmt.Fprintf(stdout, "ok: %s\n", profile)
	return exitOK
}

func reportError(w io.Writer, err error) {
	var perr *properties.ParseError
	var missing *signing.MissingCredentialError
	switch {
	case errors.As(err, &perr):
		fmt.Fprintf(w, "keyprops: %s line %d is not a key=value pair\n", perr.Path, perr.Line)
	case errors.As(err, &missing):
		fmt.Fprintf(w, "keyprops: release signing requires %q in the properties file\n", missing.Key)
	default:
		fmt.Fprintf(w, "keyprops: %v\n", err)
	}
}
