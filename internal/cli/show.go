package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cascade"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	missingStyle = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newShowCommand(a *app) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show environment configuration status",
		Long: `Show the resolved environment, every candidate file of both cascades
with its existence, and selected values of the merged document.
Values whose key names a password, secret, key or token are hidden.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cascade.ReportOptions{
				ConfigDir: a.configDir,
				BasePath:  a.basePath,
				Config:    a.settings.ConfigOptions(),
				Resolver:  a.settings.Resolver(),
				Keys:      keys,
			}
			renderReport(cmd.OutOrStdout(), cascade.Inspect(opts))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keys, "key", nil, "Document path to show (repeatable; default: mode and db/connection/default/*)")
	return cmd
}

func renderReport(w io.Writer, r *cascade.Report) {
	fmt.Fprintln(w, titleStyle.Render("Environment Configuration Status"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s\n\n", sectionStyle.Render("Current Environment:"), valueStyle.Render(r.EnvironmentLabel()))

	fmt.Fprintln(w, sectionStyle.Render("Config files loaded (in order):"))
	renderCandidates(w, r.ConfigFiles)
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Configuration values:"))
	if r.ConfigErr != nil && r.EnvironmentErr == nil {
		fmt.Fprintf(w, "  %s\n", errorStyle.Render("Error reading config: "+r.ConfigErr.Error()))
	}
	width := 0
	for _, k := range r.Keys {
		width = max(width, lipgloss.Width(k.Path))
	}
	for _, k := range r.Keys {
		value := missingStyle.Render("not set")
		if k.Found {
			value = valueStyle.Render(k.Value)
		}
		fmt.Fprintf(w, "  %s%s  %s\n", k.Path, strings.Repeat(" ", width-lipgloss.Width(k.Path)), value)
	}

	if r.BasePath == "" {
		return
	}
	fmt.Fprintln(w)
	env := r.DotEnvEnvironment
	if env == "" {
		env = "unset"
	}
	fmt.Fprintf(w, "%s %s\n", sectionStyle.Render("Dotenv Environment:"), valueStyle.Render(env))
	fmt.Fprintln(w, sectionStyle.Render("Dotenv files (in order):"))
	renderCandidates(w, r.DotEnvFiles)
}

func renderCandidates(w io.Writer, files []cascade.Candidate) {
	for i, c := range files {
		status := missingStyle.Render("not found")
		if c.Exists {
			status = valueStyle.Render("exists")
		}
		fmt.Fprintf(w, "  %d. %s (%s) - %s\n", i+1, c.Name(), c.Role.Description(), status)
	}
}
