package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MessageVersion is the current wire version. Consumers reject anything
// else so a stale worker never misreads a newer payload.
const MessageVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	JobID      string `json:"jobId"`
	UserID     string `json:"userId"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewMessage builds a versioned message for a queued tailor job.
func NewMessage(jobID, userID, requestID string, now time.Time) Message {
	return Message{
		JobID:      jobID,
		UserID:     userID,
		RequestID:  requestID,
		EnqueuedAt: now.UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// Validate rejects messages a worker cannot safely act on.
func (m Message) Validate() error {
	if m.JobID == "" {
		return errors.New("queue message missing jobId")
	}
	if m.Version != MessageVersion {
		return fmt.Errorf("unsupported queue message version %d", m.Version)
	}
	return nil
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses and validates a JSON payload.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}
