package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-domparts"
	"github.com/spf13/cobra"
)

// inspectConfig holds parsed inspect command configuration
type inspectConfig struct {
	inputPath string
	format    string
}

// regionOutput represents one region in JSON output
type regionOutput struct {
	Marker      string `json:"marker"`
	Scope       bool   `json:"scope"`
	Index       int    `json:"index"`
	Depth       int    `json:"depth"`
	Nodes       int    `json:"nodes"`
	Closed      bool   `json:"closed"`
	PreRendered bool   `json:"pre_rendered"`
}

func inspectCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cfg := &inspectConfig{}
	cmd := &cobra.Command{
		Use:   CmdNameInspect,
		Short: HelpInspectShort,
		Long:  HelpInspectLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cfg, stdin, stdout)
		},
	}
	cmd.Flags().StringVarP(&cfg.inputPath, FlagInput, FlagInputShort, FlagDefaultInput, HelpFlagInput)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormat)
	return cmd
}

func runInspect(cfg *inspectConfig, stdin io.Reader, stdout io.Writer) error {
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return fail(ExitCodeUsageError, ErrMsgInvalidFormat, fmt.Errorf("%q", cfg.format))
	}
	data, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		return err
	}
	regions, err := domparts.InspectRegions(string(data))
	if err != nil {
		return fail(ExitCodeTemplateError, ErrMsgInspectFailed, err)
	}

	if cfg.format == OutputFormatJSON {
		return outputRegionsJSON(regions, stdout)
	}
	return outputRegionsText(regions, stdout)
}

func outputRegionsText(regions []domparts.Region, stdout io.Writer) error {
	if len(regions) == 0 {
		fmt.Fprintln(stdout, InspectTextEmpty)
		return nil
	}
	for _, r := range regions {
		indent := strings.Repeat("  ", max(r.Depth-1, 0))
		fmt.Fprintf(stdout, indent+InspectTextRegion+FmtNewline,
			r.Marker, r.Index, r.Depth, r.Nodes, r.Closed, r.PreRendered)
	}
	return nil
}

func outputRegionsJSON(regions []domparts.Region, stdout io.Writer) error {
	out := make([]regionOutput, len(regions))
	for i, r := range regions {
		out[i] = regionOutput{
			Marker:      r.Marker,
			Scope:       r.Scope,
			Index:       r.Index,
			Depth:       r.Depth,
			Nodes:       r.Nodes,
			Closed:      r.Closed,
			PreRendered: r.PreRendered,
		}
	}
	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fail(ExitCodeError, ErrMsgJSONMarshalFailed, err)
	}
	fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}
