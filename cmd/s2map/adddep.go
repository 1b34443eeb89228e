package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twinfer/s2map-plugin/pkg/s2map"
)

func newAddDepCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "adddep <map-dir> <dependency>...",
		Short: "Append dependencies to a map's header and documentinfo",
		Long: `Append dependency URIs to the binary documentheader and the
documentinfo XML sidecar, keeping the two lists in sync. Entries already
present are skipped.

  s2map adddep MyMap.sc2map 'bnet:Swarm Story (Campaign)/0.0/999'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, deps := args[0], args[1:]

			pkg, err := s2map.OpenMapPackage(dir)
			if err != nil {
				return err
			}

			if dryRun {
				header, err := pkg.ReadHeader()
				if err != nil {
					return err
				}
				added := header.AddDependencies(deps...)
				fmt.Fprintf(cmd.OutOrStdout(),
					"dry run: would add %d dependencies, final list:\n", added)
				for _, dep := range header.Dependencies {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", dep)
				}
				return nil
			}

			if err := pkg.AddDependencies(deps...); err != nil {
				return err
			}
			header, err := pkg.ReadHeader()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "map now has %d dependencies\n", len(header.Dependencies))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing files")
	return cmd
}
