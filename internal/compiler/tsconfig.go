package compiler

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rohanorton/tsickle-loader/internal/errors"
)

// tsconfigFile is the subset of the project configuration this loader needs.
// Everything under compilerOptions stays opaque.
type tsconfigFile struct {
	CompilerOptions map[string]any `json:"compilerOptions"`
}

// ParseTSConfig reads a tsconfig-style configuration file and returns its
// compiler options. The format allows // and /* */ comments and trailing
// commas are not tolerated, matching the strictness of the underlying reader.
func ParseTSConfig(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("reading %s", path), path, err)
	}

	var cfg tsconfigFile
	if err := json.Unmarshal(stripJSONComments(data), &cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("parsing %s", path), path, err)
	}

	if cfg.CompilerOptions == nil {
		cfg.CompilerOptions = map[string]any{}
	}
	return Options(cfg.CompilerOptions), nil
}

// stripJSONComments blanks out // and /* */ comments outside string literals
// so the document can be fed to a strict JSON decoder. Comment bytes are
// replaced with spaces to keep positions stable for decoder error offsets.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	const (
		code = iota
		inString
		lineComment
		blockComment
	)

	state := code
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = inString
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = lineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = blockComment
				out[i] = ' '
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				state = code
			}
		case lineComment:
			if c == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case blockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = code
			} else if c != '\n' {
				out[i] = ' '
			}
		}
	}

	return out
}
