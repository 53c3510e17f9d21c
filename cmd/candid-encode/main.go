// candid-encode reads a Candid textual value or argument tuple from stdin
// and writes the hex-encoded DIDL message to stdout.
//
//	echo '("hello", 42)' | candid-encode
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	candid "github.com/lucid-icp/candid-go"
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "" // diagnostics stay deterministic for scripting
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		zapcore.ErrorLevel,
	)
	return zap.New(core)
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("reading stdin", zap.Error(err))
		os.Exit(1)
	}
	values, err := candid.ParseArgs(string(input))
	if err != nil {
		logger.Error("parsing candid text", zap.Error(err))
		os.Exit(1)
	}
	encoded, err := candid.EncodeArgs(values...)
	if err != nil {
		logger.Error("encoding", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(encoded))
}
