package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/JackIHill/CerebellumProject/internal/config"
	"github.com/JackIHill/CerebellumProject/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cbplot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		fmt.Printf("csv_path: %s\n", c.CSVPath)
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		cols := make([]string, len(c.DefaultColumns))
		for i, n := range c.DefaultColumns {
			cols[i] = strconv.Itoa(n)
		}
		fmt.Printf("default_columns: [%s]\n", strings.Join(cols, ", "))
		fmt.Println("colors:")
		for _, taxon := range []string{"Hominidae", "Hylobatidae", "Cercopithecidae", "Platyrrhini"} {
			if hex, ok := c.Colors[taxon]; ok {
				fmt.Printf("  %s: %s\n", taxon, hex)
			}
		}
		for taxon, hex := range c.Colors {
			switch taxon {
			case "Hominidae", "Hylobatidae", "Cercopithecidae", "Platyrrhini":
			default:
				fmt.Printf("  %s: %s\n", taxon, hex)
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Keys: csv_path, output_dir, default_columns (comma-separated indices),
color.<Taxon> (hex color, e.g. color.Hominidae '#7f48b5').`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		switch {
		case key == "csv_path":
			c.CSVPath = val
		case key == "output_dir":
			c.OutputDir = val
		case key == "default_columns":
			parts := strings.Split(val, ",")
			cols := make([]int, 0, len(parts))
			for _, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return fmt.Errorf("invalid column index in default_columns: %q", p)
				}
				cols = append(cols, n)
			}
			if len(cols) < 2 {
				return fmt.Errorf("default_columns needs at least 2 indices")
			}
			c.DefaultColumns = cols
		case strings.HasPrefix(key, "color."):
			taxon := strings.TrimPrefix(key, "color.")
			if taxon == "" {
				return fmt.Errorf("color key needs a taxon, e.g. color.Hominidae")
			}
			if _, err := render.ParseHexColor(val); err != nil {
				return err
			}
			if c.Colors == nil {
				c.Colors = cfgpkg.DefaultColors()
			}
			c.Colors[taxon] = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
