package main

import (
	"io"

	"github.com/itsatony/go-domparts"
	"github.com/itsatony/go-domparts/internal"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	valuesPath   string
	outputPath   string
	client       bool
	strip        bool
}

func renderCmd(g *globalFlags, stdin io.Reader, stdout io.Writer) *cobra.Command {
	cfg := &renderConfig{}
	cmd := &cobra.Command{
		Use:   CmdNameRender,
		Short: HelpRenderShort,
		Long:  HelpRenderLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(g, cfg, stdin, stdout)
		},
	}
	cmd.Flags().StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)
	cmd.Flags().StringVarP(&cfg.valuesPath, FlagValues, FlagValuesShort, "", HelpFlagValues)
	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, HelpFlagOutput)
	cmd.Flags().BoolVar(&cfg.client, FlagClient, false, HelpFlagClient)
	cmd.Flags().BoolVar(&cfg.strip, FlagStrip, false, HelpFlagStrip)
	return cmd
}

func runRender(g *globalFlags, cfg *renderConfig, stdin io.Reader, stdout io.Writer) error {
	engine, err := newEngine(g)
	if err != nil {
		return err
	}
	tmpl, names, err := loadTemplate(cfg.templatePath, stdin)
	if err != nil {
		return err
	}
	values, err := loadValues(cfg.valuesPath, names, stdin)
	if err != nil {
		return err
	}

	result := domparts.HTML(tmpl, values...)
	var out string
	if cfg.client {
		out, err = renderClient(engine, result)
	} else {
		out, err = engine.ToString(result)
	}
	if err != nil {
		return fail(ExitCodeTemplateError, ErrMsgRenderFailed, err)
	}

	if cfg.strip {
		out, err = domparts.StripMarkers(out)
		if err != nil {
			return fail(ExitCodeTemplateError, ErrMsgStripFailed, err)
		}
	}
	return writeOutput(cfg.outputPath, []byte(out+FmtNewline), stdout)
}

// renderClient mounts result into a detached body and returns its markup.
func renderClient(engine *domparts.Engine, result *domparts.Result) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: atom.Body.String(), DataAtom: atom.Body}
	if err := engine.Render(result, body); err != nil {
		return "", err
	}
	return internal.InnerHTML(body)
}
