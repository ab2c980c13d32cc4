package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogProvider is the default channel: it writes the message to the log
// instead of sending it anywhere. Keeps local and CI environments free of
// real SMS traffic.
type LogProvider struct {
	log zerolog.Logger
}

func NewLogProvider(log zerolog.Logger) *LogProvider {
	return &LogProvider{log: log}
}

func (p *LogProvider) Code() string {
	return "log"
}

func (p *LogProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	p.log.Info().Msgf("[MOCK SMS] → %s: %s", recipient, message)
	return "", nil
}

var _ Provider = (*LogProvider)(nil)
