package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/notpeelz/osc52/pkg/osc52"
	"github.com/notpeelz/osc52/pkg/terminal"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClipboard(cmd.Context(), GetConfig(), GetConfig().Timeout, func(ctx context.Context, _ *terminal.Session, c *osc52.Clipboard) error {
			return c.Clear(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
