package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/internal/persona"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

func newPersonaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Manage personas",
	}
	cmd.AddCommand(newPersonaCreateCommand())
	cmd.AddCommand(newPersonaUpdateCommand())
	cmd.AddCommand(newPersonaListCommand())
	cmd.AddCommand(newPersonaShowCommand())
	cmd.AddCommand(newPersonaDeleteCommand())
	cmd.AddCommand(newPersonaImportCommand())
	cmd.AddCommand(newPersonaExportCommand())
	return cmd
}

// personaFlags holds the attribute flags shared by create and update.
type personaFlags struct {
	id, name, niche, targetAudience, localization, tone, industry  string
	experienceLevel, contentThemes, engagementStyle, brandKeywords string
	postingFrequency, description                                  string
}

func (f *personaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "Unique persona identifier")
	cmd.Flags().StringVar(&f.name, "name", "", "Persona name")
	cmd.Flags().StringVar(&f.niche, "niche", "", "Persona niche/expertise area")
	cmd.Flags().StringVar(&f.targetAudience, "target-audience", "", "Target audience description")
	cmd.Flags().StringVar(&f.localization, "localization", persona.DefaultLocalization, "Language and regional localization for posts")
	cmd.Flags().StringVar(&f.tone, "tone", persona.DefaultTone, "Tone of voice")
	cmd.Flags().StringVar(&f.industry, "industry", "", "Industry/sector")
	cmd.Flags().StringVar(&f.experienceLevel, "experience-level", persona.DefaultExperienceLevel, "Experience level")
	cmd.Flags().StringVar(&f.contentThemes, "content-themes", "", "Content themes (comma-separated)")
	cmd.Flags().StringVar(&f.engagementStyle, "engagement-style", persona.DefaultEngagementStyle, "Engagement style")
	cmd.Flags().StringVar(&f.brandKeywords, "brand-keywords", "", "Personal brand keywords (comma-separated)")
	cmd.Flags().StringVar(&f.postingFrequency, "posting-frequency", persona.DefaultPostingFrequency, "Posting frequency")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
}

// apply copies every flag that was set (or all of them when all is true) onto p.
func (f *personaFlags) apply(cmd *cobra.Command, p *models.Persona, all bool) {
	set := func(name string, dst *string, v string) {
		if all || cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("name", &p.Name, f.name)
	set("niche", &p.Niche, f.niche)
	set("target-audience", &p.TargetAudience, f.targetAudience)
	set("localization", &p.Localization, f.localization)
	set("tone", &p.Tone, f.tone)
	set("industry", &p.Industry, f.industry)
	set("experience-level", &p.ExperienceLevel, f.experienceLevel)
	set("engagement-style", &p.EngagementStyle, f.engagementStyle)
	set("posting-frequency", &p.PostingFrequency, f.postingFrequency)
	set("description", &p.Description, f.description)
	if all || cmd.Flags().Changed("content-themes") {
		p.ContentThemes = splitList(f.contentThemes)
	}
	if all || cmd.Flags().Changed("brand-keywords") {
		p.PersonalBrandKeywords = splitList(f.brandKeywords)
	}
}

// splitList splits a comma-separated flag value, trimming each item and
// dropping empty ones.
func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func newPersonaCreateCommand() *cobra.Command {
	var f personaFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new persona",
		Example: `  linkodin persona create --id tech-ceo --name "Tech CEO" \
    --niche "Technology Leadership" --target-audience "Tech professionals, entrepreneurs" \
    --industry Technology --content-themes "leadership,innovation" \
    --brand-keywords "innovation,leadership"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := models.Persona{ID: f.id}
			f.apply(cmd, &p, true)
			created, err := models.NewPersona(p)
			if err != nil {
				return err
			}

			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			if err := app.Personas.Create(cmd.Context(), created); err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), created)
			}
			success(cmd.OutOrStdout(), "Persona '%s' created successfully!", created.Name)
			return nil
		},
	}
	f.register(cmd)
	for _, name := range []string{"id", "name", "niche", "target-audience", "industry", "content-themes", "brand-keywords"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newPersonaUpdateCommand() *cobra.Command {
	var f personaFlags
	cmd := &cobra.Command{
		Use:     "update <persona-id>",
		Short:   "Update attributes of an existing persona",
		Args:    cobra.ExactArgs(1),
		Example: `  linkodin persona update tech-ceo --tone casual --posting-frequency daily`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			existing, err := app.Personas.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if existing == nil {
				return &interactor.NotFoundError{Kind: "persona", ID: args[0]}
			}
			f.apply(cmd, existing, false)
			updated, err := models.NewPersona(*existing)
			if err != nil {
				return err
			}
			if err := app.Personas.Update(cmd.Context(), updated); err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), updated)
			}
			success(cmd.OutOrStdout(), "Persona '%s' updated successfully!", updated.ID)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().MarkHidden("id")
	return cmd
}

func newPersonaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			personas, err := app.Personas.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), personas)
			}
			printPersonaList(cmd.OutOrStdout(), personas)
			return nil
		},
	}
}

func newPersonaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <persona-id>",
		Short:   "Show persona details",
		Args:    cobra.ExactArgs(1),
		Example: `  linkodin persona show tech-ceo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			p, err := app.Personas.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return &interactor.NotFoundError{Kind: "persona", ID: args[0]}
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), p)
			}
			printPersona(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

var errNotConfirmed = errors.New("delete cancelled")

func newPersonaDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <persona-id>",
		Short: "Delete a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Are you sure you want to delete persona '%s'?", id))
				if err != nil {
					return err
				}
				if !ok {
					return errNotConfirmed
				}
			}

			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			deleted, err := app.Personas.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return &interactor.NotFoundError{Kind: "persona", ID: id}
			}
			success(cmd.OutOrStdout(), "Persona '%s' deleted successfully!", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question. Without a terminal there is nobody to ask,
// so it refuses instead of guessing.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if !stdinIsTerminal() {
		return false, errors.New("stdin is not a terminal; pass --yes to confirm")
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newPersonaImportCommand() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import <file|directory>",
		Short: "Import personas from YAML definitions",
		Args:  cobra.ExactArgs(1),
		Example: `  linkodin persona import personas/tech-ceo.yaml
  linkodin persona import personas/ --overwrite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			personas, err := persona.Load(args[0])
			if err != nil {
				return err
			}

			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			out := cmd.OutOrStdout()
			imported := 0
			for _, p := range personas {
				err := app.Personas.Create(cmd.Context(), p)
				var dup *interactor.DuplicateError
				switch {
				case err == nil:
				case errors.As(err, &dup) && overwrite:
					if err := app.Personas.Update(cmd.Context(), p); err != nil {
						return err
					}
				case errors.As(err, &dup):
					fmt.Fprintf(out, "[-] Skipped '%s': already exists (use --overwrite)\n", p.ID)
					continue
				default:
					return err
				}
				imported++
				fmt.Fprintf(out, "  - %s: %s\n", p.ID, p.Name)
			}
			success(out, "Imported %d of %d personas", imported, len(personas))
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace personas that already exist")
	return cmd
}

func newPersonaExportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "export <persona-id>",
		Short:   "Export a persona as a YAML definition",
		Args:    cobra.ExactArgs(1),
		Example: `  linkodin persona export tech-ceo --file tech-ceo.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			p, err := app.Personas.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return &interactor.NotFoundError{Kind: "persona", ID: args[0]}
			}

			if file == "" {
				return persona.Export(cmd.OutOrStdout(), p)
			}
			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", file, err)
			}
			if err := persona.Export(f, p); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			success(cmd.OutOrStdout(), "Persona '%s' exported to %s", p.ID, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")
	return cmd
}
