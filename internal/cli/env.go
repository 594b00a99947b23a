package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newEnvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the merged .env namespace in dotenv syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.builder().BuildDotEnv()
			if err != nil {
				return err
			}

			res := loader.Load(a.basePath)
			if res.Err != nil {
				return res.Err
			}
			if len(res.Values) == 0 {
				return nil
			}

			content, err := godotenv.Marshal(res.Values)
			if err != nil {
				return fmt.Errorf("failed to marshal env namespace: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		},
	}
}
