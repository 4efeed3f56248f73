package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/spf13/cobra"
)

func NewProfilesCmd(output io.Writer) *cobra.Command {
	var profileFile string
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List named date ranges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := config.NewProfileRegistry(profileFile)
			if err != nil {
				return err
			}
			names, err := registry.GetProfiles()
			if err != nil {
				return err
			}
			for _, name := range names {
				r, err := registry.GetRange(name)
				if err != nil {
					_, _ = fmt.Fprintf(output, "%s\tinvalid: %v\n", name, err)
					continue
				}
				_, _ = fmt.Fprintf(output, "%s\t%s\t%s\n", name,
					r.Start.Format(domain.DateLayout), r.End.Format(domain.DateLayout))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFile, "profile-file", "", "Path to an INI file with named ranges")
	_ = cmd.MarkFlagRequired("profile-file")

	return cmd
}
