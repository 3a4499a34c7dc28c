package sqsqueue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/hyperdrip/hyperdrip/internal/models"
)

func marshalEntry(entry *models.QueueEntry) (string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal queue entry: %w", err)
	}
	return string(data), nil
}

func unmarshalEntry(body string) (models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := json.Unmarshal([]byte(body), &entry); err != nil {
		return models.QueueEntry{}, fmt.Errorf("unmarshal queue entry: %w", err)
	}
	return entry, nil
}

func receiveCount(attrs map[string]string) int {
	v, ok := attrs[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func sentTime(attrs map[string]string, fallback time.Time) time.Time {
	v, ok := attrs[string(types.MessageSystemAttributeNameSentTimestamp)]
	if !ok {
		return fallback
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return time.UnixMilli(ms)
}
