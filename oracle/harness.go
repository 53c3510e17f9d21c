// Package oracle drives two implementations of the same stdin/stdout filter
// and compares their output byte for byte. It exists to check the Go codec
// binaries against an independent reference implementation across the
// process boundary, so no in-process state can leak between the two.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Harness pairs a binary under test with a reference binary.
type Harness struct {
	// Bin is the path of the binary under test.
	Bin string
	// RefBin is the path of the reference implementation.
	RefBin string
}

// Result holds both outputs for one input.
type Result struct {
	Input  []byte
	Got    []byte
	Want   []byte
	GotErr error
	RefErr error
}

// Match reports whether both runs agreed: same success/failure disposition
// and, on success, identical stdout.
func (r *Result) Match() bool {
	if (r.GotErr != nil) != (r.RefErr != nil) {
		return false
	}
	if r.GotErr != nil {
		return true
	}
	return bytes.Equal(r.Got, r.Want)
}

func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "input: %q\n", r.Input)
	fmt.Fprintf(&sb, "got:   %q (err=%v)\n", r.Got, r.GotErr)
	fmt.Fprintf(&sb, "want:  %q (err=%v)", r.Want, r.RefErr)
	return sb.String()
}

// Compare feeds input to both binaries and collects the outputs.
func (h *Harness) Compare(ctx context.Context, input []byte) (*Result, error) {
	got, gotErr := run(ctx, h.Bin, input)
	want, refErr := run(ctx, h.RefBin, input)
	return &Result{Input: input, Got: got, Want: want, GotErr: gotErr, RefErr: refErr}, nil
}

// Check runs Compare and turns a divergence into an error.
func (h *Harness) Check(ctx context.Context, input []byte) error {
	res, err := h.Compare(ctx, input)
	if err != nil {
		return err
	}
	if !res.Match() {
		return fmt.Errorf("oracle divergence:\n%s", res)
	}
	return nil
}

func run(ctx context.Context, bin string, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w (stderr: %s)", bin, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
