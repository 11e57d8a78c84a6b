package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/safehtml/uncheckedconversions"
	"github.com/itsatony/go-domparts"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fail(ExitCodeInputError, ErrMsgReadStdinFailed, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fail(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}
	return data, nil
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	var err error
	if path == FlagDefaultOutput {
		_, err = stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, FilePermissions)
	}
	if err != nil {
		return fail(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// parseSource splits a template source on its ${name} placeholders and
// returns the static segments with the placeholder names in order.
func parseSource(src string) ([]string, []string, error) {
	var segments, names []string
	for {
		open := strings.Index(src, PlaceholderOpen)
		if open < 0 {
			segments = append(segments, src)
			return segments, names, nil
		}
		rest := src[open+len(PlaceholderOpen):]
		end := strings.Index(rest, PlaceholderClose)
		if end < 0 {
			return nil, nil, errors.New(ErrMsgUnclosedName)
		}
		name := strings.TrimSpace(rest[:end])
		if name == "" {
			return nil, nil, errors.New(ErrMsgEmptyName)
		}
		segments = append(segments, src[:open])
		names = append(names, name)
		src = rest[end+len(PlaceholderClose):]
	}
}

// loadTemplate reads a template source and builds its Template.
func loadTemplate(path string, stdin io.Reader) (*domparts.Template, []string, error) {
	if path == "" {
		return nil, nil, fail(ExitCodeUsageError, ErrMsgMissingTemplate, nil)
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, nil, err
	}
	segments, names, err := parseSource(string(data))
	if err != nil {
		return nil, nil, fail(ExitCodeTemplateError, ErrMsgCompileFailed, err)
	}
	return domparts.NewTemplate(segments...), names, nil
}

// loadValues reads a YAML mapping and orders its entries by names.
// Missing names bind nil.
func loadValues(path string, names []string, stdin io.Reader) ([]any, error) {
	values := make([]any, len(names))
	if path == "" {
		return values, nil
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fail(ExitCodeInputError, ErrMsgInvalidValues, err)
	}
	for i, name := range names {
		values[i] = bindValue(m[name])
	}
	return values, nil
}

// bindValue turns decoded YAML into values the engine renders.
func bindValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if markup, ok := t[ValueKeyHTML].(string); ok && len(t) == 1 {
			return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(markup)
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = bindValue(item)
		}
		return out
	default:
		return v
	}
}

// newEngine creates an engine from the optional configuration file.
func newEngine(g *globalFlags) (*domparts.Engine, error) {
	var opts []domparts.Option
	if g.config != "" {
		cfg, err := domparts.LoadConfig(g.config)
		if err != nil {
			return nil, fail(ExitCodeInputError, ErrMsgLoadConfigFailed, err)
		}
		opts, err = cfg.Options()
		if err != nil {
			return nil, fail(ExitCodeInputError, ErrMsgLoadConfigFailed, err)
		}
	}
	engine, err := domparts.New(opts...)
	if err != nil {
		return nil, fail(ExitCodeError, ErrMsgCreateEngineFailed, err)
	}
	return engine, nil
}
