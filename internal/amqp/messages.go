package amqp

import (
	"encoding/json"
	"time"
)

// Entry change actions carried on the mirror queue.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// EntryChangeMessage announces that a ledger row changed. It carries only
// the table, id and action; the worker fetches the current row from the
// database before mirroring it.
type EntryChangeMessage struct {
	Table     string    `json:"tabela"`
	ID        int64     `json:"id"`
	Action    string    `json:"acao"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryChangeMessage(table string, id int64, action string) *EntryChangeMessage {
	return &EntryChangeMessage{
		Table:     table,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *EntryChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryChangeMessageFromJSON(data []byte) (*EntryChangeMessage, error) {
	var msg EntryChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
