package cmd

import (
	"fmt"
	"os"

	"github.com/JackIHill/CerebellumProject/internal/combos"
	"github.com/JackIHill/CerebellumProject/internal/dataset"
	"github.com/JackIHill/CerebellumProject/internal/figstore"
	"github.com/JackIHill/CerebellumProject/internal/render"
	"github.com/spf13/cobra"
)

var (
	regSave bool
	regOut  string
)

var regressionCmd = &cobra.Command{
	Use:   "regression",
	Short: "Render the volume-against-volume plot with a least-squares fit line",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		table, err := dataset.Load(c.CSVPath)
		if err != nil {
			return err
		}

		png, err := render.Regression(table, c.Colors)
		if err != nil {
			return err
		}

		if regSave {
			pairs := []combos.Pair{{X: "Cerebrum Volume", Y: "Cerebellum Volume"}}
			store := figstore.NewStore(c.OutputDir)
			plan, err := store.Save(figstore.Simple, pairs, false, png)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Saved %s to %s\n", plan.FileName, store.Dir(figstore.Simple))
			return nil
		}

		out := regOut
		if out == "" {
			out = "regression.png"
		}
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return fmt.Errorf("write figure: %w", err)
		}
		fmt.Printf("✓ Wrote figure to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regressionCmd)
	regressionCmd.Flags().BoolVar(&regSave, "save", false, "save under a versioned name with a manifest entry")
	regressionCmd.Flags().StringVarP(&regOut, "out", "o", "", "output path when not using --save (default regression.png)")
}
