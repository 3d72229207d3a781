package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"folder2pdf/internal/processor"
	"folder2pdf/internal/tui"
	"folder2pdf/pkg/imgutil"
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "List the files convert would include, in output order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := processor.Discover(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, tui.RenderNotification(tui.LevelWarn, "Warning", "No convertible files found in the folder."))
			return nil
		}

		counts := map[processor.Category]int{}
		for _, entry := range entries {
			counts[entry.Category]++
			fmt.Fprintf(w, "%s %s%s\n",
				scanCategoryStyle.Render(fmt.Sprintf("%-6s", entry.Category)),
				scanFileStyle.Render(entry.RelPath),
				scanDimStyle.Render(imageNote(entry)),
			)
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, tui.RenderSummary([]tui.SummaryRow{
			{Label: "Images", Value: fmt.Sprintf("%d", counts[processor.CategoryImage])},
			{Label: "Text files", Value: fmt.Sprintf("%d", counts[processor.CategoryText])},
			{Label: "Office documents", Value: fmt.Sprintf("%d", counts[processor.CategoryOffice])},
			{Label: "Total", Value: fmt.Sprintf("%d", len(entries))},
		}))
		return nil
	},
}

// imageNote reports the detected format of an image, flagging files whose
// content will not decode as any supported format.
func imageNote(entry processor.FileEntry) string {
	if entry.Category != processor.CategoryImage {
		return ""
	}
	kind, err := imgutil.SniffFile(entry.Path)
	if err != nil || kind == imgutil.KindUnknown {
		return " (unrecognized, will be skipped)"
	}
	return fmt.Sprintf(" (%s)", kind)
}

var (
	scanFileStyle     = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(scanCmd)
}
