package cmd

import (
	"errors"
	"fmt"

	"github.com/JackIHill/CerebellumProject/internal/figstore"
	"github.com/spf13/cobra"
)

var cleanLogged bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete a save folder and its manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		category := figstore.Simple
		if cleanLogged {
			category = figstore.Logged
		}
		store := figstore.NewStore(c.OutputDir)
		if err := store.Clean(category); err != nil {
			if errors.Is(err, figstore.ErrNoSaveFolder) {
				// Nothing to delete is not a failure.
				fmt.Printf("No '%s' folder exists under %s, so nothing was deleted.\n", category.Dir(), c.OutputDir)
				return nil
			}
			return err
		}
		fmt.Printf("✓ Deleted %s\n", store.Dir(category))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanLogged, "logged", false, "delete the log-plot folder instead of the simple-plot folder")
}
