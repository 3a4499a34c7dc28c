package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/storage"
)

// processEntry runs one queue entry through the exactly-once state-advance
// algorithm. Archiving only happens after the outcome is durable (or
// determined to need no durable change), so a crash between send and
// archive produces a redelivery the counter suppresses rather than a lost
// or double-delivered message.
func (w *Worker) processEntry(ctx context.Context, queueName string, entry interfaces.ReadEntry) {
	payload := entry.Payload

	lead, err := w.store.Get(ctx, payload.LeadID)
	if err != nil {
		if errors.Is(err, storage.ErrLeadNotFound) {
			// Orphaned: the lead was removed by an operator. Nothing to advance.
			w.archive(ctx, queueName, entry.MsgID)
			return
		}
		w.logger.Warn().Str("leadId", payload.LeadID).Err(err).Msg("load lead failed, leaving entry for redelivery")
		return
	}

	c := lead.MessageCount
	m := payload.MessageNumber

	switch {
	case c == m-1:
		w.sendAndAdvance(ctx, queueName, entry, lead, c, m)
	case c >= m:
		// Redelivery after a prior successful advance, or a duplicate enqueue.
		w.archive(ctx, queueName, entry.MsgID)
	default:
		// c < m-1: a later message arrived before its predecessor. The
		// worker never synthesizes the missing tail; whatever originally
		// scheduled it will redeliver it.
		w.archive(ctx, queueName, entry.MsgID)
	}
}

func (w *Worker) sendAndAdvance(ctx context.Context, queueName string, entry interfaces.ReadEntry, lead *models.Lead, c, m int) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	if err := w.sender.SendMessage(ctx, lead, m); err != nil {
		w.logger.Warn().Str("leadId", lead.ID).Int("messageNumber", m).Err(err).Msg("send failed, leaving entry for redelivery")
		return
	}

	advanced, _, err := w.store.AdvanceIfCurrent(ctx, lead.ID, c, time.Now())
	if err != nil {
		w.logger.Warn().Str("leadId", lead.ID).Err(err).Msg("advance failed, leaving entry for redelivery")
		return
	}
	if !advanced {
		// Another worker already advanced this lead past c: the effect
		// fired at least once, which is the accepted transport guarantee.
		w.logger.Debug().Str("leadId", lead.ID).Int("messageNumber", m).Msg("advance lost race, archiving anyway")
	}

	w.archive(ctx, queueName, entry.MsgID)
}

func (w *Worker) archive(ctx context.Context, queueName, msgID string) {
	if err := w.queue.Archive(ctx, queueName, msgID); err != nil {
		w.logger.Warn().Str("queue", queueName).Str("msgId", msgID).Err(err).Msg("archive failed")
	}
}
