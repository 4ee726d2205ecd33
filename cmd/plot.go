package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JackIHill/CerebellumProject/internal/combos"
	"github.com/JackIHill/CerebellumProject/internal/dataset"
	"github.com/JackIHill/CerebellumProject/internal/figstore"
	"github.com/JackIHill/CerebellumProject/internal/render"
	"github.com/spf13/cobra"
)

var (
	plotColumns []string
	plotLogged  bool
	plotSave    bool
	plotOut     string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render scatter plots for pairwise variable combinations",
	Long: `Renders one scatter plot per unordered pair of the selected columns,
colored by taxon. Columns are given by index or by name; invalid columns are
skipped with a note, and if fewer than 2 remain the configured default
combination is plotted instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		table, err := dataset.Load(c.CSVPath)
		if err != nil {
			return err
		}

		def := indexRefs(c.DefaultColumns)
		requested, err := parseColumnRefs(plotColumns)
		if err != nil {
			return err
		}
		usedDefaultRequest := len(requested) == 0
		if usedDefaultRequest {
			requested = def
		}

		res, err := combos.Select(requested, table, def)
		if err != nil {
			return err
		}
		reportSelection(res, usedDefaultRequest)

		png, err := render.Figure(table, res.Pairs, c.Colors, plotLogged)
		if err != nil {
			return err
		}

		category := figstore.Simple
		if plotLogged {
			category = figstore.Logged
		}
		isDefault := usedDefaultRequest || res.UsedDefault

		if plotSave {
			store := figstore.NewStore(c.OutputDir)
			plan, err := store.Save(category, res.Pairs, isDefault, png)
			if err != nil {
				return err
			}
			debugf("figure %s sequence %d\n", plan.FigureID, plan.Sequence)
			fmt.Printf("✓ Saved %s to %s\n", plan.FileName, store.Dir(category))
			return nil
		}

		out := plotOut
		if out == "" {
			out = "plots.png"
		}
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return fmt.Errorf("write figure: %w", err)
		}
		fmt.Printf("✓ Wrote figure to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringSliceVarP(&plotColumns, "columns", "c", nil, "columns to combine, by index or name (repeatable)")
	plotCmd.Flags().BoolVar(&plotLogged, "logged", false, "log-scale both axes")
	plotCmd.Flags().BoolVar(&plotSave, "save", false, "save under a versioned name with a manifest entry")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output path when not using --save (default plots.png)")
}

// parseColumnRefs turns raw --columns values into refs: integers address by
// position, anything else by name.
func parseColumnRefs(raw []string) ([]combos.ColumnRef, error) {
	refs := make([]combos.ColumnRef, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("empty value in --columns")
		}
		if i, err := strconv.Atoi(v); err == nil {
			refs = append(refs, combos.Index(i))
		} else {
			refs = append(refs, combos.Name(v))
		}
	}
	return refs, nil
}

func indexRefs(indices []int) []combos.ColumnRef {
	refs := make([]combos.ColumnRef, 0, len(indices))
	for _, i := range indices {
		refs = append(refs, combos.Index(i))
	}
	return refs
}

// reportSelection explains dropped columns and default substitution without
// failing the plot.
func reportSelection(res combos.Result, usedDefaultRequest bool) {
	if res.UsedDefault {
		fmt.Fprintln(os.Stderr, "⚠ Warning: no valid combinations could be made from the requested columns; the default combination was plotted instead. Pass at least 2 columns holding numeric values:")
		for _, rej := range res.Rejected {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", rej.Ref, rej.Reason)
		}
		return
	}
	if len(res.Rejected) > 0 && !usedDefaultRequest {
		fmt.Fprintln(os.Stderr, "⚠ Warning: some requested columns were skipped; combinations were made from the remaining ones:")
		for _, rej := range res.Rejected {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", rej.Ref, rej.Reason)
		}
	}
}
