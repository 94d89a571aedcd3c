package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/notpeelz/osc52/pkg/osc52"
	"github.com/notpeelz/osc52/pkg/terminal"
)

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Print the clipboard contents",
	Long: `Ask the terminal for the clipboard contents and print them to stdout.
A newline is appended unless --no-newline is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		noNewline, _ := cmd.Flags().GetBool("no-newline")
		noNewline = noNewline || GetConfig().Paste.NoNewline

		var data []byte
		err := withClipboard(cmd.Context(), GetConfig(), GetConfig().Timeout, func(ctx context.Context, _ *terminal.Session, c *osc52.Clipboard) error {
			var err error
			data, err = c.Read(ctx)
			return err
		})
		if err != nil {
			return err
		}

		// The terminal is back in its original mode here
		return writePaste(cmd.OutOrStdout(), data, !noNewline)
	},
}

func writePaste(w io.Writer, data []byte, newline bool) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if newline {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pasteCmd)

	pasteCmd.Flags().BoolP("no-newline", "n", false, "do not append a newline")
}
