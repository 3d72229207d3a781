package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"folder2pdf/internal/processor"
	"folder2pdf/internal/tui"
)

var errCancelled = errors.New("cancelled")

var convertCmd = &cobra.Command{
	Use:   "convert [flags] [folder]",
	Short: "Merge every supported file in a folder into a single PDF",
	Long: `convert walks the folder, keeps images (jpg, jpeg, png, bmp, gif, tiff, webp),
text and code files (txt, md, csv, json, xml, log, py, js, html, css, java, cpp, c, h)
and office documents (docx, doc, pptx, ppt, xlsx, xls), sorts them by path and
renders them into one A4 PDF. Files that cannot be rendered are skipped.

Without a folder argument the folder and destination are asked for interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useTUI := viper.GetBool("tui") && isatty.IsTerminal(os.Stdout.Fd())

		folder, dest, err := resolveJob(args, useTUI)
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Conversion cancelled.")
			return nil
		}
		if err != nil {
			return err
		}

		logger, closeLog, err := newLogger(useTUI)
		if err != nil {
			return err
		}
		defer closeLog()

		summary, runErr := runJob(cmd.OutOrStdout(), folder, dest, processor.Options{
			Verify: viper.GetBool("verify"),
			Logger: logger,
		}, useTUI)

		if path := viper.GetString("report"); path != "" {
			if err := processor.WriteReport(path, summary); err != nil {
				return err
			}
		}

		printOutcome(cmd.OutOrStdout(), summary)
		return runErr
	},
}

func resolveJob(args []string, useTUI bool) (string, string, error) {
	if len(args) == 0 {
		if !useTUI {
			return "", "", fmt.Errorf("a folder argument is required when not running interactively")
		}
		program := tea.NewProgram(tui.NewPrompt())
		final, err := program.Run()
		if err != nil {
			return "", "", err
		}
		folder, dest, ok := final.(tui.PromptModel).Selection()
		if !ok {
			return "", "", errCancelled
		}
		return folder, dest, nil
	}

	folder, err := tui.ValidateFolder(args[0])
	if err != nil {
		return "", "", err
	}
	dest := viper.GetString("output")
	if dest == "" {
		dest = tui.DefaultDestination(folder)
	}
	return folder, tui.EnsurePDFExt(dest), nil
}

// runJob runs the conversion on a worker goroutine while the foreground
// goroutine renders its status updates.
func runJob(w io.Writer, folder, dest string, opts processor.Options, useTUI bool) (processor.Summary, error) {
	updates := make(chan processor.Status, 64)

	var (
		g       errgroup.Group
		summary processor.Summary
		runErr  error
	)

	g.Go(func() error {
		if !useTUI {
			printStatus(w, updates)
			return nil
		}
		_, err := tea.NewProgram(tui.NewModel(updates)).Run()
		for range updates {
		}
		return err
	})

	g.Go(func() error {
		defer close(updates)
		summary, runErr = processor.Run(folder, dest, opts, updates)
		return nil
	})

	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return summary, runErr
}

func printStatus(w io.Writer, updates <-chan processor.Status) {
	for st := range updates {
		fmt.Fprintf(w, "[%s] %s\n", st.State, st.Message)
	}
}

func printOutcome(w io.Writer, summary processor.Summary) {
	switch summary.State {
	case processor.StateDone:
		rows := []tui.SummaryRow{
			{Label: "Files found", Value: fmt.Sprintf("%d", summary.Found)},
			{Label: "Files rendered", Value: fmt.Sprintf("%d", summary.Rendered())},
			{Label: "Files skipped", Value: fmt.Sprintf("%d", summary.Skipped)},
			{Label: "Pages written", Value: fmt.Sprintf("%d", summary.Pages)},
		}
		fmt.Fprintln(w, tui.RenderSummary(rows))
		for _, res := range summary.SkippedResults() {
			fmt.Fprintf(w, "  skipped %s: %s\n", res.Entry.RelPath, res.Reason)
		}
		fmt.Fprintln(w, tui.RenderNotification(tui.LevelInfo, "Success", "PDF created:\n"+summary.Output))
	case processor.StateNoFiles:
		fmt.Fprintln(w, tui.RenderNotification(tui.LevelWarn, "Warning", "No convertible files found in the folder."))
	case processor.StateFailed:
		msg := "Conversion failed."
		if summary.Err != nil {
			msg = fmt.Sprintf("Error while creating the PDF:\n%v", summary.Err)
		}
		fmt.Fprintln(w, tui.RenderNotification(tui.LevelError, "Error", msg))
	}
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "destination PDF (default: <folder>.pdf beside the folder)")
	convertCmd.Flags().Bool("tui", true, "show interactive progress when attached to a terminal")
	convertCmd.Flags().Bool("verify", true, "validate the written PDF and count its pages")
	convertCmd.Flags().String("report", "", "write a YAML job report to this file")

	for _, name := range []string{"output", "tui", "verify", "report"} {
		_ = viper.BindPFlag(name, convertCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(convertCmd)
}
