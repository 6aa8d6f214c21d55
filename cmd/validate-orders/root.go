package main

import (
	"fmt"

	"github.com/Gunvolt24/orders_api/pkg/validate"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		inputPath string
		formatStr string
	)

	cmd := &cobra.Command{
		Use:   "validate-orders",
		Short: "Validate order batches offline",
		Long: "Validate order batches with the same rules as POST /api/orders.\n" +
			"JSON input is one batch (array or single object); JSONL input is one batch per line.\n" +
			"Valid batches are written to stdout as canonical JSON, the summary goes to stderr.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := validate.InputFormat(formatStr)
			switch format {
			case validate.FormatAuto, validate.FormatJSON, validate.FormatJSONL:
			default:
				return fmt.Errorf("unsupported format: %s", formatStr)
			}

			var (
				summary string
				err     error
			)
			orderValidator := validate.NewOrderValidator()

			// stdin: формат auto трактуется как jsonl
			if inputPath == "" {
				summary, err = validate.ValidateReader(cmd.Context(), orderValidator, cmd.InOrStdin(), format, cmd.OutOrStdout())
			} else {
				summary, err = validate.ValidateFile(cmd.Context(), orderValidator, inputPath, format, cmd.OutOrStdout())
			}
			if err != nil {
				return fmt.Errorf("%w (%s)", err, summary)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "validation ok (%s)\n", summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "in", "", "path to input (.json or .jsonl); stdin when empty")
	cmd.Flags().StringVar(&formatStr, "format", string(validate.FormatAuto), "input format: auto|json|jsonl")
	return cmd
}
