package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

// ScriptSource runs an external fetch command and decodes its stdout.
// The command contract: a JSON array of quote objects on stdout,
// diagnostics on stderr, and an empty array when it has nothing.
type ScriptSource struct {
	command string
	args    []string
	timeout time.Duration
	logger  *zap.Logger
}

func NewScript(command string, args []string, timeout time.Duration, logger *zap.Logger) *ScriptSource {
	return &ScriptSource{
		command: command,
		args:    args,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *ScriptSource) Fetch(ctx context.Context) ([]models.TokenQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, s.args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("quote fetch command: %w", err)
	}

	var external []models.ExternalQuote
	if err := json.Unmarshal(out, &external); err != nil {
		return nil, fmt.Errorf("decode quote fetch output: %w", err)
	}

	quotes := make([]models.TokenQuote, 0, len(external))
	for _, q := range external {
		if q.Symbol == "" {
			continue
		}
		price, err := decimal.NewFromString(q.Price)
		if err != nil {
			s.logger.Warn("Skipping quote with bad price",
				zap.String("symbol", q.Symbol), zap.String("price", q.Price))
			continue
		}
		change, err := strconv.ParseFloat(q.Change24h, 64)
		if err != nil {
			change = 0
		}
		quotes = append(quotes, models.TokenQuote{
			Symbol:    q.Symbol,
			Price:     price.StringFixed(8),
			Change24h: fmt.Sprintf("%+.2f", change),
			Volume:    models.FormatVolume(q.Volume24h),
		})
	}
	return quotes, nil
}
