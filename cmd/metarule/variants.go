// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/invowk/metarule/internal/config"
	"github.com/invowk/metarule/pkg/component"
)

func newVariantsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "variants <group:name:version>",
		Short: "Show the variants metadata rules derive for a module",
		Long: `Load one module from the project's repositories, run the configured
metadata rules on it and show the variants they registered, with their
attributes, files and dependencies.

A module no rule derived variants for is shown with the legacy variants
built from its Ivy configurations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.report(runVariants(cmd.Context(), app, args[0]))
		},
	}
}

func runVariants(ctx context.Context, app *App, coords string) error {
	id, err := component.ParseModuleID(coords)
	if err != nil {
		return err
	}
	s, err := app.openSession(ctx)
	if err != nil {
		return err
	}
	format, err := app.outputFormat(s.cfg)
	if err != nil {
		return err
	}

	m, err := s.setup.Chain.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.ApplyOne(ctx, m); err != nil {
		return err
	}

	view := variantsView{Module: id.String(), Repository: m.Repository()}
	variants := m.Variants()
	if len(variants) == 0 {
		view.Legacy = true
		variants = legacyVariants(m)
	}
	for _, v := range variants {
		view.Variants = append(view.Variants, newVariantView(v))
	}

	if format != config.OutputText {
		return encode(app.stdout, format, view)
	}

	root := tree.Root(TitleStyle.Render(view.Module) + " " + SubtitleStyle.Render("("+view.Repository+")")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(SubtitleStyle)
	for _, v := range view.Variants {
		root.Child(variantTree(v))
	}
	fmt.Fprintln(app.stdout, root.String())
	if view.Legacy {
		fmt.Fprintln(app.stdout, WarningStyle.Render("no rule derived variants; showing legacy configurations"))
	}
	return nil
}

// legacyVariants lists the variant of every Ivy configuration, or the
// single legacy variant of a module without an Ivy descriptor.
func legacyVariants(m *component.Metadata) []component.Variant {
	desc, ok := m.Descriptor(component.KindIvy)
	if !ok {
		return []component.Variant{m.LegacyVariant("")}
	}
	ivy := desc.(*component.IvyDescriptor)
	out := make([]component.Variant, 0, len(ivy.Configurations))
	for _, c := range ivy.Configurations {
		out = append(out, m.LegacyVariant(c.Name))
	}
	return out
}

func variantTree(v variantView) *tree.Tree {
	label := CmdStyle.Render(v.Name)
	if v.Base != "" {
		label += " " + SubtitleStyle.Render("from "+v.Base)
	}
	node := tree.Root(label)

	if len(v.Attributes) > 0 {
		attrs := tree.Root("attributes")
		for _, k := range slices.Sorted(maps.Keys(v.Attributes)) {
			attrs.Child(k + " = " + v.Attributes[k])
		}
		node.Child(attrs)
	}
	if len(v.Files) > 0 {
		node.Child(tree.Root("files").Child(stringsAsAny(v.Files)...))
	}
	if len(v.Dependencies) > 0 {
		node.Child(tree.Root("dependencies").Child(stringsAsAny(v.Dependencies)...))
	} else {
		node.Child(SubtitleStyle.Render("no dependencies"))
	}
	return node
}

func stringsAsAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
