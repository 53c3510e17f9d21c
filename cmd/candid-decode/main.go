// candid-decode reads a hex-encoded DIDL message from stdin and writes the
// Candid textual form of its arguments to stdout.
//
//	echo 4449444c0002717c0568656c6c6f2a | candid-decode
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	candid "github.com/lucid-icp/candid-go"
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
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
	text := strings.TrimSpace(string(input))
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	data, err := hex.DecodeString(text)
	if err != nil {
		logger.Error("decoding hex", zap.Error(err))
		os.Exit(1)
	}
	msg, err := candid.DecodeMessage(data)
	if err != nil {
		logger.Error("decoding message", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(candid.PrintArgs(msg.Values))
}
