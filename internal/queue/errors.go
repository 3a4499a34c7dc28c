// Package queue holds the sentinel errors shared by every interfaces.Queue
// implementation (SQS-backed and in-memory alike).
package queue

import "errors"

// ErrTransient marks a queue operation that failed for a reason the caller
// should retry rather than treat as permanent — a throttled API call, a
// network blip, SQS's 60s queue-recreate cooldown after a Drop.
var ErrTransient = errors.New("queue: transient error")
