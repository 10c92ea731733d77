package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/logging"
	core "github.com/tovald/linkdrop/internal/providers"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change persisted settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		store := config.NewStore(cfgFile)
		cfg := store.Config()
		fmt.Fprintf(cmd.OutOrStdout(), "provider:   %s\n", store.Provider())
		fmt.Fprintf(cmd.OutOrStdout(), "auto-copy:  %t\n", cfg.AutoCopy)
		fmt.Fprintf(cmd.OutOrStdout(), "auto-start: %t\n", cfg.AutoStart)
		return nil
	},
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider <anonhost|cloudstore>",
	Short: "Select the upload backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		id, err := core.ParseID(args[0])
		if err != nil {
			return err
		}

		store := config.NewStore(cfgFile)
		if err := store.SetProvider(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Provider set to %s\n", id)
		return nil
	},
}

var settingsAutoCopyCmd = &cobra.Command{
	Use:   "autocopy <true|false>",
	Short: "Toggle copying the URL to the clipboard on success",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		enabled, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("invalid value %q: want true or false", args[0])
		}

		store := config.NewStore(cfgFile)
		got, err := store.SetAutoCopy(enabled)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Auto-copy set to %t\n", got)
		return nil
	},
}

var settingsAutoStartCmd = &cobra.Command{
	Use:   "autostart <true|false>",
	Short: "Toggle launching at login",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"), os.Stderr)

		enabled, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("invalid value %q: want true or false", args[0])
		}

		store := config.NewStore(cfgFile)
		got, err := store.SetAutoStart(enabled)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Auto-start set to %t\n", got)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsAutoCopyCmd)
	settingsCmd.AddCommand(settingsAutoStartCmd)
}
