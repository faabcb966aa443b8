package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func flagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Manage feature flags that gate audit sections",
	}
	cmd.AddCommand(flagsListCmd(), flagsSetCmd(), flagsClearCmd())
	return cmd
}

func flagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List feature flags and where each value comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			flags, err := app.flags.List(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%-20s %-8s %s\n", "FLAG", "ENABLED", "SOURCE")
			for _, flag := range flags {
				fmt.Printf("%-20s %-8t %s\n", flag.Name, flag.Enabled, flag.Source)
			}
			return nil
		},
	}
}

func flagsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <true|false>",
		Short: "Persist a feature flag value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", args[1])
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.flags.Set(cmd.Context(), args[0], enabled); err != nil {
				return err
			}
			fmt.Printf("Flag %s set to %t\n", args[0], enabled)
			return nil
		},
	}
}

func flagsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>",
		Short: "Remove a persisted flag, restoring env/default resolution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.flags.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Flag %s cleared\n", args[0])
			return nil
		},
	}
}
