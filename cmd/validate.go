package cmd

import (
	"fmt"
	"io"
	"os"
	"xmlstore/xmldoc"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check XML files for well-formedness",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args)
		},
	}
}

func runValidate(out io.Writer, files []string) error {
	failed := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if err := xmldoc.Validate(string(data)); err != nil {
			failed++
			fmt.Fprintf(out, "%s: invalid: %s\n", file, err)
			continue
		}
		fmt.Fprintf(out, "%s: valid\n", file)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) are not well-formed XML", failed, len(files))
	}
	return nil
}
