package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartmint/chartmint/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of chartmint",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s\n", buildinfo.Get())
		},
	}

	return cmd
}
