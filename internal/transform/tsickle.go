package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/output"
)

// DefaultTsickleCommand is the bridge binary invoked when none is configured.
const DefaultTsickleCommand = "tsickle-bridge"

// tsickleRequest is the JSON document written to the bridge's stdin.
type tsickleRequest struct {
	Root    string            `json:"root"`
	Files   []string          `json:"files"`
	Skip    []string          `json:"skip"`
	Modules map[string]string `json:"modules"`
	Options tsickleOptions    `json:"options"`
}

type tsickleOptions struct {
	CompilerOptions     compiler.Options `json:"compilerOptions"`
	TransformDecorators bool             `json:"transformDecorators"`
	TransformTypes      bool             `json:"transformTypesToClosure"`
	ES5Mode             bool             `json:"es5Mode"`
	GoogModule          bool             `json:"googmodule"`
}

// tsickleResponse is the JSON document read from the bridge's stdout. Entry
// order in Order matches the order the transform emitted files in.
type tsickleResponse struct {
	Order    []string          `json:"order"`
	Code     map[string]string `json:"code"`
	Externs  map[string]string `json:"externs"`
	Warnings []string          `json:"warnings"`
	Error    string            `json:"error,omitempty"`
}

// TsickleService runs the transform in an external bridge process, JSON over
// stdio. The bridge owns the real tsickle pass; this side only shapes the
// request from the policy and folds the response into an Output.
type TsickleService struct {
	// Command is the bridge executable; DefaultTsickleCommand when empty.
	Command string

	// Args are prepended to the invocation before stdin is written.
	Args []string
}

var _ Service = (*TsickleService)(nil)

// NewTsickleService returns a service invoking command (or the default when
// command is empty).
func NewTsickleService(command string, args ...string) *TsickleService {
	return &TsickleService{Command: command, Args: args}
}

// Transform shells out to the bridge for one whole-program pass.
func (s *TsickleService) Transform(ctx context.Context, prog *compiler.Program, pol Policy) (*Output, error) {
	req := tsickleRequest{
		Root:    prog.Root,
		Files:   prog.Files,
		Modules: map[string]string{},
		Options: tsickleOptions{
			CompilerOptions:     prog.Options,
			TransformDecorators: pol.TransformDecorators,
			TransformTypes:      pol.TransformTypes,
			ES5Mode:             pol.ES5Mode,
			GoogModule:          pol.GoogModule,
		},
	}
	for _, f := range prog.Files {
		if pol.ShouldSkip != nil && pol.ShouldSkip(f) {
			req.Skip = append(req.Skip, f)
			continue
		}
		if pol.ModuleName != nil {
			req.Modules[f] = pol.ModuleName(f)
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding bridge request: %w", err)
	}

	command := s.Command
	if command == "" {
		command = DefaultTsickleCommand
	}

	cmd := exec.CommandContext(ctx, command, s.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	output.Debug("invoking transform bridge", "command", command, "files", len(prog.Files))

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("transform bridge %s: %w: %s", command, err, stderr.String())
	}

	var resp tsickleResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decoding bridge response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("transform bridge %s: %s", command, resp.Error)
	}

	for _, w := range resp.Warnings {
		if pol.Warn != nil {
			pol.Warn(w)
		}
	}

	out := NewOutput()
	for _, path := range resp.Order {
		if code, ok := resp.Code[path]; ok {
			out.AddCode(path, code)
		}
	}
	// Entries the bridge left out of Order still land in the map, after the
	// ordered ones.
	for path, code := range resp.Code {
		if _, ok := out.Code(path); !ok {
			out.AddCode(path, code)
		}
	}
	for path, extern := range resp.Externs {
		out.ExternsByPath[path] = extern
	}

	return out, nil
}
