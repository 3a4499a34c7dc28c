package worker

import (
	"context"

	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/models"
)

// Sender delivers one drip message to a lead. It is the worker's only
// pluggable effect — the real transport (SMTP, SMS, etc.) lives outside this
// package; the worker treats it as an opaque action that either succeeds or
// fails.
type Sender interface {
	SendMessage(ctx context.Context, lead *models.Lead, messageNumber int) error
}

// LogSender is the canonical Sender: it records the send as a structured log
// line instead of talking to a real transport.
type LogSender struct {
	logger *common.Logger
}

// NewLogSender builds a LogSender.
func NewLogSender(logger *common.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendMessage(_ context.Context, lead *models.Lead, messageNumber int) error {
	s.logger.Info().
		Str("leadId", lead.ID).
		Str("email", lead.Email).
		Int("messageNumber", messageNumber).
		Int("maxMessages", lead.MaxMessages).
		Msg("drip message sent")
	return nil
}
