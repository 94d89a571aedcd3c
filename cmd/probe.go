package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/notpeelz/osc52/pkg/osc52"
	"github.com/notpeelz/osc52/pkg/output"
	"github.com/notpeelz/osc52/pkg/terminal"
)

const noAnswerHint = "the terminal may not implement DECRQM; raise probe_timeout if it is slow to answer"

// ProbeReport describes what the terminal answered to a DECRQM query.
type ProbeReport struct {
	Device    string `json:"device" yaml:"device"`
	Mode      int    `json:"mode" yaml:"mode"`
	Answered  bool   `json:"answered" yaml:"answered"`
	Status    string `json:"status" yaml:"status"`
	Supported bool   `json:"supported" yaml:"supported"`
}

func (r ProbeReport) WriteText(w io.Writer) error {
	if !r.Answered {
		_, err := fmt.Fprintf(w, "%s: no answer to mode %d query\n", r.Device, r.Mode)
		return err
	}
	verdict := "unsupported"
	if r.Supported {
		verdict = "supported"
	}
	_, err := fmt.Fprintf(w, "%s: mode %d %s (%s)\n", r.Device, r.Mode, r.Status, verdict)
	return err
}

// newProbeReport builds the report for a QueryMode result. A deadline without
// an answer is reported, not returned.
func newProbeReport(device string, mode int, status osc52.ModeStatus, err error) (ProbeReport, error) {
	report := ProbeReport{Device: device, Mode: mode}
	switch {
	case err == nil:
		report.Answered = true
		report.Status = status.String()
		report.Supported = status.Supported()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, osc52.ErrNoResponse):
		report.Status = osc52.ModeNotRecognized.String()
	default:
		return report, err
	}
	return report, nil
}

// writeProbeHint explains a silent terminal on w. Structured output stays
// machine-readable, so only text output gets the hint.
func writeProbeHint(w io.Writer, f *output.Formatter, r ProbeReport) {
	if f.IsText() && !r.Answered {
		fmt.Fprintln(w, noAnswerHint)
	}
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the terminal supports the extended clipboard protocol",
	Long: `Send a DECRQM query for private mode 5522 and report the answer.
Terminals that do not implement DECRQM stay silent; the query gives up after
probe_timeout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}

		var report ProbeReport
		err = withClipboard(cmd.Context(), GetConfig(), GetConfig().ProbeTimeout, func(ctx context.Context, s *terminal.Session, c *osc52.Clipboard) error {
			status, err := c.QueryMode(ctx, osc52.ModeOSC5522)
			report, err = newProbeReport(s.Path(), osc52.ModeOSC5522, status, err)
			return err
		})
		if err != nil {
			return err
		}

		log.Debug().Bool("answered", report.Answered).Str("status", report.Status).Msg("Mode probe finished")

		formatter := output.New(format)
		formatter.SetWriter(cmd.OutOrStdout())
		if err := formatter.Output(report); err != nil {
			return err
		}

		writeProbeHint(cmd.ErrOrStderr(), formatter, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)

	output.AddFormatFlag(probeCmd)
}
