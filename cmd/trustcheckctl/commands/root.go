package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the trustcheckctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trustcheckctl",
		Short:         "Operator tooling for the trustcheck verification backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVerifyCmd())
	root.AddCommand(newClassifyCmd())

	return root
}
