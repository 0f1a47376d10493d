package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// StatusHistoryEntry is an append-only audit row written once per status
// transition.
type StatusHistoryEntry struct {
	ID        int64          `db:"id" json:"id"`
	OrderID   string         `db:"order_id" json:"order_id"`
	Status    string         `db:"status" json:"status"`
	Message   types.JSONText `db:"message" json:"message"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type statusMessage struct {
	Note string `json:"note"`
}

// NewStatusHistoryEntry builds the history row for a transition to status.
// An empty note is replaced with "Status updated to {status}".
func NewStatusHistoryEntry(orderID, status, note string) (*StatusHistoryEntry, error) {
	if note == "" {
		note = fmt.Sprintf("Status updated to %s", status)
	}

	msg, err := json.Marshal(statusMessage{Note: note})

	if err != nil {
		return nil, err
	}

	return &StatusHistoryEntry{
		OrderID:   orderID,
		Status:    status,
		Message:   types.JSONText(msg),
		CreatedAt: GetCurrentTime(),
	}, nil
}

// Note extracts message.note, or "" when the message is absent, not an
// object, or has no string note.
func (e *StatusHistoryEntry) Note() string {
	if len(e.Message) == 0 {
		return ""
	}

	var msg map[string]interface{}

	if err := json.Unmarshal(e.Message, &msg); err != nil {
		return ""
	}

	note, _ := msg["note"].(string)
	return note
}
