package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notpeelz/osc52/pkg/osc52"
	"github.com/notpeelz/osc52/pkg/terminal"
)

var (
	errInteractiveStdin = errors.New("no text given and stdin is a terminal")
	errClearWithText    = errors.New("--clear does not take TEXT arguments")
)

var copyCmd = &cobra.Command{
	Use:   "copy [TEXT...]",
	Short: "Copy text or stdin to the clipboard",
	Long: `Copy the given text to the clipboard. Multiple arguments are joined with
single spaces. Without arguments the content is read from stdin.

The MIME type only decides whether --trim-newline applies. Arguments are
typed text/plain; stdin is sniffed unless --type is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearFlag, _ := cmd.Flags().GetBool("clear")
		if clearFlag {
			if len(args) > 0 {
				return errClearWithText
			}
			return withClipboard(cmd.Context(), GetConfig(), GetConfig().Timeout, func(ctx context.Context, _ *terminal.Session, c *osc52.Clipboard) error {
				return c.Clear(ctx)
			})
		}

		mimeType, _ := cmd.Flags().GetString("type")
		trim, _ := cmd.Flags().GetBool("trim-newline")
		trim = trim || GetConfig().Copy.TrimNewline

		if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
			return errInteractiveStdin
		}

		data, mimeType, err := preparePayload(args, cmd.InOrStdin(), mimeType, trim)
		if err != nil {
			return err
		}

		log.Debug().Str("mime_type", mimeType).Int("bytes", len(data)).Msg("Copying to clipboard")

		return withClipboard(cmd.Context(), GetConfig(), GetConfig().Timeout, func(ctx context.Context, _ *terminal.Session, c *osc52.Clipboard) error {
			return c.Write(ctx, data)
		})
	},
}

// preparePayload collects the payload and drops its trailing newline when trim
// is set and the content is textual.
func preparePayload(args []string, stdin io.Reader, mimeType string, trim bool) ([]byte, string, error) {
	data, mimeType, err := copyPayload(args, stdin, mimeType)
	if err != nil {
		return nil, "", err
	}
	if trim && isText(mimeType) {
		data = trimNewline(data)
	}
	return data, mimeType, nil
}

// copyPayload returns the bytes to copy and their MIME type. An explicit
// mimeType is kept as is.
func copyPayload(args []string, stdin io.Reader, mimeType string) ([]byte, string, error) {
	if len(args) > 0 {
		if mimeType == "" {
			mimeType = "text/plain"
		}
		return []byte(strings.Join(args, " ")), mimeType, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if mimeType == "" && len(data) > 0 {
		mimeType = sniffType(data)
	}
	return data, mimeType, nil
}

func sniffType(data []byte) string {
	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(mediaType)
}

// isText reports whether mimeType names textual content.
func isText(mimeType string) bool {
	switch mimeType {
	case "TEXT", "STRING", "UTF8_STRING":
		return true
	}
	if strings.HasPrefix(mimeType, "text/") || strings.Contains(mimeType, "json") {
		return true
	}
	for _, suffix := range []string{"script", "xml", "yaml", "csv", "ini"} {
		if strings.HasSuffix(mimeType, suffix) {
			return true
		}
	}
	return false
}

// trimNewline drops a single trailing line feed.
func trimNewline(data []byte) []byte {
	if bytes.HasSuffix(data, []byte("\n")) {
		return data[:len(data)-1]
	}
	return data
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().StringP("type", "t", "", "override the inferred MIME type of the content")
	copyCmd.Flags().BoolP("trim-newline", "n", false, "trim the trailing newline before copying (text types only)")
	copyCmd.Flags().BoolP("clear", "c", false, "clear the clipboard instead of copying")

	copyCmd.MarkFlagsMutuallyExclusive("clear", "type")
	copyCmd.MarkFlagsMutuallyExclusive("clear", "trim-newline")
}
