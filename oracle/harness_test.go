package oracle

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMatch(t *testing.T) {
	ok := &Result{Got: []byte("x\n"), Want: []byte("x\n")}
	assert.True(t, ok.Match())

	diverged := &Result{Got: []byte("x\n"), Want: []byte("y\n")}
	assert.False(t, diverged.Match())

	bothFailed := &Result{GotErr: os.ErrInvalid, RefErr: os.ErrInvalid}
	assert.True(t, bothFailed.Match())

	oneFailed := &Result{GotErr: os.ErrInvalid}
	assert.False(t, oneFailed.Match())
}

func TestHarnessAgainstSelf(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	h := &Harness{Bin: cat, RefBin: cat}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, h.Check(ctx, []byte("4449444c00017f\n")))
}

// TestAgainstReference exercises the two filter binaries against an external
// reference implementation. It only runs when both paths are provided:
//
//	CANDID_ORACLE_BIN=./candid-encode CANDID_ORACLE_REF_BIN=/path/to/ref go test ./oracle
func TestAgainstReference(t *testing.T) {
	bin := os.Getenv("CANDID_ORACLE_BIN")
	ref := os.Getenv("CANDID_ORACLE_REF_BIN")
	if bin == "" || ref == "" {
		t.Skip("CANDID_ORACLE_BIN and CANDID_ORACLE_REF_BIN not set")
	}
	h := &Harness{Bin: bin, RefBin: ref}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inputs := []string{
		`("hello", 42)`,
		`(true, false)`,
		`(null)`,
		`(3.5, -7)`,
		`("escaped \"text\" with \\ in it")`,
	}
	for _, in := range inputs {
		assert.NoError(t, h.Check(ctx, []byte(in)), "input %s", in)
	}
}
