package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// dirsCmd represents the dirs command.
var dirsCmd = newDirsCmd()

func newDirsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirs",
		Short: "Show the resolved allowed directories",
		Long: `Show the allowed directories as the server would resolve them, with
symlinks followed and relative segments removed. Useful to verify a config
file or flag set before starting the server.`,
		Args: cobra.NoArgs,
		RunE: dirsAction,
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(dirsCmd)
}

func dirsAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(cfg.AllowedDirs) == 0 {
		cmd.Println("No allowed directories configured")
		return nil
	}

	roots, err := resolveRoots(cfg.AllowedDirs)
	if err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Directory", "Exists"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, root := range roots {
		exists := "no"
		if fsAdapter.IsDir(root) {
			exists = "yes"
		}

		table.Append([]string{string(root), exists})
	}

	table.Render()
	cmd.Printf("%s", tableBuffer.String())

	return nil
}
