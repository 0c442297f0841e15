package host

import (
	"reflectup/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// LogNotifier surfaces progress and notices on the structured log. It stands
// in for the host chrome when running outside a real host.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Progress(percent int) {
	log.Info().Int("percent", percent).Msg("enlargement progress")
}

func (n *LogNotifier) NotifyProcessingError(kind domain.ErrorKind, message string) {
	log.Warn().Str("kind", string(kind)).Msg(message)
}

func (n *LogNotifier) NotifyAcceptanceError(message string) {
	log.Warn().Msg(message)
}
