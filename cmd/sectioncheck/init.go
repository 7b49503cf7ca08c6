package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/config"
)

//go:embed templates/sectioncheck.yaml
var configTemplate embed.FS

// configFileName is the default project file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sectioncheck project file",
		Long: `Initialize creates a new .sectioncheck project file in the current directory.

The generated file includes:
- The default standard and optional sections
- Commented examples of per-path overrides
- Ignore patterns for pages that are never validated

Examples:
  # Create .sectioncheck in current directory
  sectioncheck init

  # Create the project file at a specific path
  sectioncheck init -o site/.sectioncheck

  # Force overwrite existing file
  sectioncheck init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the project file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing project file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("project file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/sectioncheck.yaml")
	if err != nil {
		return fmt.Errorf("failed to read project file template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created project file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - The content standard used for your pages")
	fmt.Fprintln(out, "  - Optional sections per directory")
	fmt.Fprintln(out, "  - Pages to ignore")

	return nil
}
