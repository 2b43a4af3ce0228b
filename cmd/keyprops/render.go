package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/keyprops/internal/application"
	"github.com/eugenenazirov/keyprops/internal/config"
	"github.com/eugenenazirov/keyprops/internal/properties"
	"github.com/eugenenazirov/keyprops/internal/signing"
)

type planView struct {
	BuildType       string       `yaml:"build_type"`
	PropertiesFile  string       `yaml:"properties_file"`
	FilePresent     bool         `yaml:"file_present"`
	Signed          bool         `yaml:"signed"`
	SkipReason      string       `yaml:"skip_reason,omitempty"`
	Signing         *signingView `yaml:"signing,omitempty"`
	StoreFileExists bool         `yaml:"store_file_exists,omitempty"`
}

type signingView struct {
	KeyAlias      string `yaml:"key_alias"`
	KeyPassword   string `yaml:"key_password"`
	StoreFile     string `yaml:"store_file"`
	StorePassword string `yaml:"store_password"`
}

func newPlanView(plan application.Plan) planView {
	view := planView{
		BuildType:       string(plan.BuildType),
		PropertiesFile:  plan.PropertiesFile,
		FilePresent:     plan.FilePresent,
		Signed:          plan.Signed(),
		SkipReason:      plan.SkipReason,
		StoreFileExists: plan.StoreFileExists,
	}
	if plan.Profile != nil {
		r := plan.Profile.Redacted()
		view.Signing = &signingView{
			KeyAlias:      r.KeyAlias,
			KeyPassword:   r.KeyPassword,
			StoreFile:     plan.StoreFile,
			StorePassword: r.StorePassword,
		}
	}
	return view
}

func writePlan(w io.Writer, format string, plan application.Plan) error {
	view := newPlanView(plan)
	if format == config.FormatYAML {
		return writeYAML(w, view)
	}

	lines := [][2]string{
		{"buildType", view.BuildType},
		{"propertiesFile", view.PropertiesFile},
		{"filePresent", fmt.Sprint(view.FilePresent)},
		{"signed", fmt.Sprint(view.Signed)},
	}
	if view.SkipReason != "" {
		lines = append(lines, [2]string{"skipReason", view.SkipReason})
	}
	if view.Signing != nil {
		lines = append(lines,
			[2]string{signing.KeyAlias, view.Signing.KeyAlias},
			[2]string{signing.KeyPassword, view.Signing.KeyPassword},
			[2]string{signing.StoreFile, view.Signing.StoreFile},
			[2]string{signing.StorePassword, view.Signing.StorePassword},
			[2]string{"storeFileExists", fmt.Sprint(view.StoreFileExists)},
		)
	}
	for _, kv := range lines {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1]); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
	}
	return nil
}

func writeProperties(w io.Writer, format string, set properties.Set) error {
	masked := make(map[string]string, set.Len())
	for _, key := range set.Keys() {
		v, _ := set.Get(key)
		masked[key] = signing.MaskValue(key, v)
	}

	if format == config.FormatYAML {
		return writeYAML(w, masked)
	}
	for _, key := range set.Keys() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, masked[key]); err != nil {
			return fmt.Errorf("write properties: %w", err)
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}
