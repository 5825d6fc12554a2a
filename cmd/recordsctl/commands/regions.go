package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/region"
	regionrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/region/repo"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Manage region reference data",
}

var regionsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Insert or update regions from a YAML file",
	Long: `Insert or update regions from a YAML file. Rows are matched by code;
a "-" file name reads standard input.

Example file:
  regions:
    - code: "01"
      name: Ilocos Region
    - code: "02"
      name: Cagayan Valley`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := region.NewService(regionrepo.NewRegionRepo(db), logger)
		return importRegions(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.AddCommand(regionsImportCmd)
}

func importRegions(ctx context.Context, svc *region.Service, stdin io.Reader, out io.Writer, path string) error {
	src := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}
	n, err := svc.Import(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d regions\n", n)
	return nil
}
