package version

import (
	"bytes"
	"os/exec"
	"regexp"
)

// bridgeVersionRegex matches bridge version output like "tsickle-bridge v4.9.3".
var bridgeVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// BridgeInfo contains tsickle bridge binary version information.
type BridgeInfo struct {
	// Version is the bridge's TypeScript compiler version.
	Version string `json:"version"`

	// Path is the path to the bridge binary.
	Path string `json:"path"`

	// Compatible indicates if version matches the embedded compiler.
	Compatible bool `json:"compatible"`

	// Found indicates if the bridge binary was found.
	Found bool `json:"found"`

	// Message provides additional information about compatibility.
	Message string `json:"message,omitempty"`
}

// DetectBridge finds and checks the tsickle bridge installation. A missing
// bridge is not an error: the in-process service runs without one.
func DetectBridge(command string) BridgeInfo {
	path, err := exec.LookPath(command)
	if err != nil {
		return BridgeInfo{
			Found:      false,
			Compatible: false,
			Message:    command + " not found in PATH",
		}
	}

	ver, err := bridgeVersion(path)
	if err != nil {
		return BridgeInfo{
			Path:    path,
			Found:   true,
			Message: "failed to get bridge version: " + err.Error(),
		}
	}

	compatible := TSVersionCompatible(EmbeddedTSVersion, ver)
	msg := "compatible"
	if !compatible {
		msg = "incompatible with embedded compiler " + EmbeddedTSVersion
	}

	return BridgeInfo{
		Version:    ver,
		Path:       path,
		Found:      true,
		Compatible: compatible,
		Message:    msg,
	}
}

func bridgeVersion(path string) (string, error) {
	cmd := exec.Command(path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", err
	}

	match := bridgeVersionRegex.FindString(out.String())
	if match == "" {
		return "", errNoVersion
	}
	return match, nil
}

type noVersionError struct{}

func (noVersionError) Error() string { return "no version string in output" }

var errNoVersion = noVersionError{}

// String returns a human-readable bridge info string.
func (b BridgeInfo) String() string {
	if !b.Found {
		return "  Bridge: not found"
	}
	compat := "compatible"
	if !b.Compatible {
		compat = b.Message
	}
	return "  Bridge: " + b.Version + " (" + compat + ") at " + b.Path
}
