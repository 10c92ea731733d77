package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/logging"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage cloud store credentials",
}

var credsSetCmd = &cobra.Command{
	Use:   "set <client-id> <client-secret>",
	Short: "Save cloud store credentials",
	Long: `Save the credential pair used by the cloudstore backend. Saving
overwrites any previously stored pair.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		store := config.NewStore(cfgFile)
		if err := store.SaveCredentials(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved")
		return nil
	},
}

var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved credential source",
	Long: `Show where cloudstore credentials currently resolve from. The secret
itself is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		store := config.NewStore(cfgFile)
		creds, ok := store.Credentials()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No credentials configured")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Client ID: %s\n", creds.ClientID)
		return nil
	},
}

func init() {
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsShowCmd)
}
