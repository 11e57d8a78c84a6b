package main

import (
	"io"

	"github.com/itsatony/go-domparts"
	"github.com/spf13/cobra"
)

// stripConfig holds parsed strip command configuration
type stripConfig struct {
	inputPath  string
	outputPath string
}

func stripCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cfg := &stripConfig{}
	cmd := &cobra.Command{
		Use:   CmdNameStrip,
		Short: HelpStripShort,
		Long:  HelpStripLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cfg, stdin, stdout)
		},
	}
	cmd.Flags().StringVarP(&cfg.inputPath, FlagInput, FlagInputShort, FlagDefaultInput, HelpFlagInput)
	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, HelpFlagOutput)
	return cmd
}

func runStrip(cfg *stripConfig, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		return err
	}
	out, err := domparts.StripMarkers(string(data))
	if err != nil {
		return fail(ExitCodeTemplateError, ErrMsgStripFailed, err)
	}
	return writeOutput(cfg.outputPath, []byte(out+FmtNewline), stdout)
}
