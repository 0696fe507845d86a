package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/mediagrid/internal/manifest"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest_path>",
		Short: "Validate a mediagrid manifest and check referenced files exist",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(manifestPath)
	if info, err := os.Stat(manifestPath); err == nil && info.IsDir() {
		baseDir = manifestPath
	}
	problems := manifest.Validate(m, baseDir)

	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d messages, %d variants, all files present\n",
			m.Stats.TotalMessages, m.Stats.TotalVariants)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "    • %s\n", p)
	}
	return fmt.Errorf("validation failed with %d errors", len(problems))
}
