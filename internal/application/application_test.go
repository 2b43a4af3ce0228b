package application

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/keyprops/internal/config"
	"github.com/eugenenazirov/keyprops/internal/properties"
	"github.com/eugenenazirov/keyprops/internal/signing"
)

const completeProperties = "keyAlias=upload\nkeyPassword=kp\nstoreFile=upload.jks\nstorePassword=sp\n"

func baseTestConfig(root string, buildType signing.BuildType) config.Config {
	return config.Config{
		ProjectRoot:    root,
		PropertiesFile: "key.properties",
		BuildType:      buildType,
		Format:         config.FormatYAML,
		LogLevel:       zapcore.DebugLevel,
	}
}

func writeProperties(t *testing.T, root, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "key.properties"), []byte(body), 0o600); err != nil {
		t.Fatalf("write properties: %v", err)
	}
}

func TestNewRejectsEmptyPropertiesFile(t *testing.T) {
	cfg := baseTestConfig(t.TempDir(), signing.Release)
	cfg.PropertiesFile = ""

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing properties file setting")
	}
}

func TestNewDefaultsToNopLogger(t *testing.T) {
	app, err := New(baseTestConfig(t.TempDir(), signing.Debug), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if app.logger == nil {
		t.Fatalf("expected a logger to be set")
	}
	if app.Config().BuildType != signing.Debug {
		t.Fatalf("Config accessor did not return underlying configuration")
	}
}

func TestPlanReleaseWithCompleteProperties(t *testing.T) {
	root := t.TempDir()
	writeProperties(t, root, completeProperties)
	if err := os.WriteFile(filepath.Join(root, "upload.jks"), []byte("keystore"), 0o600); err != nil {
		t.Fatalf("write keystore: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	app, err := New(baseTestConfig(root, signing.Release), zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	plan, err := app.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if !plan.Signed() || plan.SkipReason != "" {
		t.Fatalf("expected signed plan, got %+v", plan)
	}
	want := signing.Profile{KeyAlias: "upload", KeyPassword: "kp", StoreFile: "upload.jks", StorePassword: "sp"}
	if *plan.Profile != want {
		t.Fatalf("expected profile %#v, got %#v", want, *plan.Profile)
	}
	if plan.StoreFile != filepath.Join(root, "upload.jks") || !plan.StoreFileExists {
		t.Fatalf("unexpected store file resolution: %s exists=%v", plan.StoreFile, plan.StoreFileExists)
	}
	if !plan.FilePresent {
		t.Fatalf("expected properties file to be reported present")
	}

	if logs.FilterMessage("release signing configured").Len() != 1 {
		t.Fatalf("expected release signing log entry, got %v", logs.All())
	}
	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			if f.String == "kp" || f.String == "sp" {
				t.Fatalf("password leaked into log entry %q", entry.Message)
			}
		}
	}
}

func TestPlanWarnsWhenKeystoreMissing(t *testing.T) {
	root := t.TempDir()
	writeProperties(t, root, completeProperties)

	core, logs := observer.New(zapcore.WarnLevel)
	app, err := New(baseTestConfig(root, signing.Release), zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	plan, err := app.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if plan.StoreFileExists {
		t.Fatalf("expected keystore to be reported missing")
	}
	if logs.FilterMessage("keystore not found").Len() != 1 {
		t.Fatalf("expected keystore warning")
	}
}

func TestPlanReleaseWithoutFileIsUnsigned(t *testing.T) {
	app, err := New(baseTestConfig(t.TempDir(), signing.Release), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	plan, err := app.Plan()
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if plan.Signed() || plan.SkipReason != SkipNoProperties || plan.FilePresent {
		t.Fatalf("expected unsigned plan without file, got %+v", plan)
	}
}

func TestPlanReleaseWithoutFileRequiredFails(t *testing.T) {
	cfg := baseTestConfig(t.TempDir(), signing.Release)
	cfg.RequireSigning = true

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = app.Plan()
	var missing *signing.MissingCredentialError
	if !errors.As(err, &missing) || missing.Key != signing.KeyAlias {
		t.Fatalf("expected missing keyAlias, got %v", err)
	}
}

func TestPlanReleaseWithPartialPropertiesFails(t *testing.T) {
	root := t.TempDir()
	writeProperties(t, root, "keyAlias=foo\n")

	core, logs := observer.New(zapcore.ErrorLevel)
	app, err := New(baseTestConfig(root, signing.Release), zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = app.Plan()
	if !errors.Is(err, signing.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if !strings.Contains(err.Error(), signing.KeyPassword) {
		t.Fatalf("expected error to name keyPassword, got %v", err)
	}

	entries := logs.FilterMessage("incomplete signing credentials").All()
	if len(entries) != 1 || entries[0].ContextMap()["key"] != signing.KeyPassword {
		t.Fatalf("expected log entry naming keyPassword, got %v", logs.All())
	}
}

func TestPlanDebugNeverRequiresCredentials(t *testing.T) {
	root := t.TempDir()
	writeProperties(t, root, "keyAlias=foo\n")

	cfg := baseTestConfig(root, signing.Debug)
	cfg.RequireSigning = true

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	plan, err := app.Plan()
	if err != nil {
		t.Fatalf("Plan returned error for debug build: %v", err)
	}
	if plan.Signed() || plan.SkipReason != SkipDebugBuild {
		t.Fatalf("expected unsigned debug plan, got %+v", plan)
	}
}

func TestPlanSurfacesParseErrors(t *testing.T) {
	root := t.TempDir()
	writeProperties(t, root, "keyAlias=foo\nthis line is broken\n")

	app, err := New(baseTestConfig(root, signing.Debug), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = app.Plan()
	var perr *properties.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("expected parse error on line 2, got %v", err)
	}
}

func TestLoadPropertiesCallsLoaderOnce(t *testing.T) {
	calls := 0
	var gotPath string
	loader := func(path string) (properties.Set, error) {
		calls++
		gotPath = path
		return properties.Empty(), nil
	}

	cfg := baseTestConfig("/project/android", signing.Release)
	app, err := New(cfg, zaptest.NewLogger(t), WithLoader(loader))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := app.Plan(); err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one load, got %d", calls)
	}
	if gotPath != filepath.Join("/project/android", "key.properties") {
		t.Fatalf("unexpected path %s", gotPath)
	}
}
