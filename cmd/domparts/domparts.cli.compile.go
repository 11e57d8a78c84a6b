package main

import (
	"io"

	"github.com/itsatony/go-domparts/internal"
	"github.com/spf13/cobra"
)

// compileConfig holds parsed compile command configuration
type compileConfig struct {
	templatePath string
	outputPath   string
	ssr          bool
}

func compileCmd(g *globalFlags, stdin io.Reader, stdout io.Writer) *cobra.Command {
	cfg := &compileConfig{}
	cmd := &cobra.Command{
		Use:   CmdNameCompile,
		Short: HelpCompileShort,
		Long:  HelpCompileLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(g, cfg, stdin, stdout)
		},
	}
	cmd.Flags().StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)
	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, HelpFlagOutput)
	cmd.Flags().BoolVar(&cfg.ssr, FlagSSR, false, HelpFlagSSR)
	return cmd
}

func runCompile(g *globalFlags, cfg *compileConfig, stdin io.Reader, stdout io.Writer) error {
	engine, err := newEngine(g)
	if err != nil {
		return err
	}
	tmpl, _, err := loadTemplate(cfg.templatePath, stdin)
	if err != nil {
		return err
	}

	compiled, err := internal.NewCompiler(engine.Logger()).Compile(tmpl.Strings(), cfg.ssr)
	if err != nil {
		return fail(ExitCodeTemplateError, ErrMsgCompileFailed, err)
	}
	return writeOutput(cfg.outputPath, []byte(compiled.HTML+FmtNewline), stdout)
}
