package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-xtralite"
)

// stringList collects a repeatable string flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ListSeparator)
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadData decodes a JSON or YAML object from an inline string or a file.
// No data yields an empty map.
func loadData(inline, filePath string) (map[string]any, error) {
	var raw []byte

	switch {
	case inline != "" && filePath != "":
		return nil, errors.New(ErrMsgDataBothSources)
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		raw = data
	case inline != "":
		raw = []byte(inline)
	default:
		return make(map[string]any), nil
	}

	result := make(map[string]any)
	if err := json.Unmarshal(raw, &result); err == nil {
		return result, nil
	}
	result = make(map[string]any)
	if err := yaml.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// engineSettings are the flags shared by commands that build an engine
type engineSettings struct {
	grammarPath     string
	tags            stringList
	open            string
	close           string
	caseInsensitive bool
}

// newEngine builds an engine from an optional grammar file, then applies
// flag overrides and registers the extra tag markups.
func newEngine(s engineSettings) (*xtralite.Engine, error) {
	grammar := &xtralite.Grammar{}
	if s.grammarPath != "" {
		g, err := xtralite.LoadGrammarFile(s.grammarPath)
		if err != nil {
			return nil, err
		}
		grammar = g
	}

	var opts []xtralite.Option
	if s.open != "" || s.close != "" {
		opts = append(opts, xtralite.WithDelimiters(s.open, s.close))
	}
	if s.caseInsensitive {
		opts = append(opts, xtralite.WithCaseInsensitive())
	}

	engine, err := xtralite.NewFromGrammar(grammar, opts...)
	if err != nil {
		return nil, err
	}
	for _, markup := range s.tags {
		if err := engine.RegisterTag(markup); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// parseStyle validates a render style flag value
func parseStyle(name string) (xtralite.RenderStyle, error) {
	style, ok := xtralite.ParseRenderStyle(name)
	if !ok {
		return style, errors.New(ErrMsgInvalidStyle)
	}
	return style, nil
}

// validFormat reports whether format names a supported output format
func validFormat(format string) bool {
	return format == OutputFormatText || format == OutputFormatJSON
}
