package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/common"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("specto %s\n", common.GetFullVersion())
		},
	}
}
