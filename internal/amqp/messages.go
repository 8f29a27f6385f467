package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseRecordedMessage tells the backup worker that a new expense row
// exists. It carries only the ID; the worker fetches the full record from
// SQLite before appending it to the backup sheet.
type ExpenseRecordedMessage struct {
	ID         int64     `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewExpenseRecordedMessage(id int64) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		ID:         id,
		RecordedAt: time.Now(),
	}
}

func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
