package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/fetcher/internal/fetch"
)

// The fetcher is a one-shot process: it assembles the current HyperEVM
// token listing and prints it as a JSON array on stdout. The server
// runs it as a subprocess and parses that output, so stdout carries
// nothing but the payload; all diagnostics go to stderr.
func main() {
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := fetch.NewClient(logger)
	tokens := client.Quotes(ctx)
	logger.Info("Token listing assembled", zap.Int("count", len(tokens)))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tokens); err != nil {
		logger.Error("Failed to write token listing", zap.Error(err))
		os.Exit(1)
	}
}
