package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cascade"
)

func newDumpCommand(a *app) *cobra.Command {
	var (
		formatName string
		env        string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged structured configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cascade.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if format == cascade.FormatDotEnv {
				return fmt.Errorf("%w: dump writes yaml, toml or json; use the env command for dotenv output", cascade.ErrUnknownFormat)
			}

			loader, err := a.builder().BuildConfig()
			if err != nil {
				return err
			}

			var doc cascade.Document
			if env != "" {
				doc, err = loader.LoadEnvironment(a.configDir, env)
			} else {
				doc, err = loader.Load(a.configDir)
			}
			if err != nil {
				return err
			}

			data, err := doc.Marshal(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "yaml", "Output format: yaml, toml or json")
	cmd.Flags().StringVar(&env, "env", "", "Environment to load instead of the .environment file")
	return cmd
}
