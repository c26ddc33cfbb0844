// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/metarule/internal/config"
	"github.com/invowk/metarule/internal/resolve"
	"github.com/invowk/metarule/pkg/component"
)

type (
	resolutionView struct {
		Configuration string       `json:"configuration" yaml:"configuration" toml:"configuration"`
		Modules       []moduleView `json:"modules" yaml:"modules" toml:"modules"`
		Evicted       []string     `json:"evicted,omitempty" yaml:"evicted,omitempty" toml:"evicted,omitempty"`
		Files         []string     `json:"files" yaml:"files" toml:"files"`
	}

	moduleView struct {
		Module       string            `json:"module" yaml:"module" toml:"module"`
		Version      string            `json:"version" yaml:"version" toml:"version"`
		Repository   string            `json:"repository" yaml:"repository" toml:"repository"`
		Variant      string            `json:"variant" yaml:"variant" toml:"variant"`
		Attributes   map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
		Files        []string          `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
		Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	}

	classpathView struct {
		Configuration string   `json:"configuration" yaml:"configuration" toml:"configuration"`
		Files         []string `json:"files" yaml:"files" toml:"files"`
	}

	variantsView struct {
		Module     string        `json:"module" yaml:"module" toml:"module"`
		Repository string        `json:"repository" yaml:"repository" toml:"repository"`
		Legacy     bool          `json:"legacy" yaml:"legacy" toml:"legacy"`
		Variants   []variantView `json:"variants" yaml:"variants" toml:"variants"`
	}

	variantView struct {
		Name         string            `json:"name" yaml:"name" toml:"name"`
		Base         string            `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
		Attributes   map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
		Files        []string          `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
		Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	}

	rulesView struct {
		Rules []string `json:"rules" yaml:"rules" toml:"rules"`
	}
)

// outputFormat returns --output when set, else output.format from cfg.
func (a *App) outputFormat(cfg *config.Config) (config.OutputFormat, error) {
	format := cfg.Output.Format
	if a.flags.format != "" {
		format = config.OutputFormat(a.flags.format)
	}
	if valid, errs := format.IsValid(); !valid {
		return "", errs[0]
	}
	return format, nil
}

// encode writes v in a structured format. Text output is rendered by each
// command and never reaches encode.
func encode(w io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("%w: %q has no structured encoding", config.ErrInvalidOutputFormat, format)
	}
}

func newResolutionView(res *resolve.Result) resolutionView {
	view := resolutionView{
		Configuration: res.Request.Name,
		Modules:       make([]moduleView, 0, len(res.Modules)),
		Files:         res.Files(),
	}
	for _, m := range res.Modules {
		view.Modules = append(view.Modules, moduleView{
			Module:       m.ID.Module(),
			Version:      m.ID.Version,
			Repository:   m.Repository,
			Variant:      m.Variant.Name,
			Attributes:   attributesOf(m.Variant),
			Files:        m.Variant.Files,
			Dependencies: dependencyStrings(m.Variant.Dependencies),
		})
	}
	for _, id := range res.Evicted {
		view.Evicted = append(view.Evicted, id.String())
	}
	return view
}

func newVariantView(v component.Variant) variantView {
	return variantView{
		Name:         v.Name,
		Base:         v.Base,
		Attributes:   attributesOf(v),
		Files:        v.Files,
		Dependencies: dependencyStrings(v.Dependencies),
	}
}

func attributesOf(v component.Variant) map[string]string {
	if v.Attributes.IsEmpty() {
		return nil
	}
	return v.Attributes.Map()
}

func dependencyStrings(deps []component.Dependency) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Target.String())
	}
	return out
}
