package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// newClassifyCmd prints how a query would be classified and normalized,
// without calling any provider.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>",
		Short: "Show the artifact kind and normalized value for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := model.NewIdentifier(args[0], valueobject.ArtifactKind{})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kind:  %s\nvalue: %s\n", ident.Kind.String(), ident.Value)
			if ident.Kind.Equal(valueobject.KindURL) || ident.Kind.Equal(valueobject.KindDomain) {
				fmt.Fprintf(cmd.OutOrStdout(), "registrable_domain: %s\n", ident.RegistrableDomain())
			}
			return nil
		},
	}
}
