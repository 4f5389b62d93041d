package models

import (
	"encoding/json"
	"strings"
	"time"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is a row change pushed over a realtime channel.
// New is set for INSERT and UPDATE, Old for DELETE (and UPDATE when known).
type ChangeEvent struct {
	Type            EventType       `json:"type"`
	Table           string          `json:"table"`
	New             json.RawMessage `json:"new,omitempty"`
	Old             json.RawMessage `json:"old,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewChangeEvent marshals the rows of a change. Pass nil for an absent row.
func NewChangeEvent(typ EventType, table string, newRow, oldRow any) (ChangeEvent, error) {
	ev := ChangeEvent{Type: typ, Table: table, CommitTimestamp: time.Now().UTC()}
	if newRow != nil {
		b, err := json.Marshal(newRow)
		if err != nil {
			return ChangeEvent{}, err
		}
		ev.New = b
	}
	if oldRow != nil {
		b, err := json.Marshal(oldRow)
		if err != nil {
			return ChangeEvent{}, err
		}
		ev.Old = b
	}
	return ev, nil
}

// DecodeNew unmarshals the New row into v.
func (e ChangeEvent) DecodeNew(v any) error {
	return json.Unmarshal(e.New, v)
}

// DecodeOld unmarshals the Old row into v.
func (e ChangeEvent) DecodeOld(v any) error {
	return json.Unmarshal(e.Old, v)
}

// Topic describes a realtime subscription: a table, the event types of
// interest (all when empty) and an optional row filter such as "list_id=eq.42".
type Topic struct {
	Table  string
	Events []EventType
	Filter string
}

// ChannelPrefix prefixes every realtime channel name.
const ChannelPrefix = "rt"

// Key is the channel name of the topic: "rt:<table>" or "rt:<table>:<filter>".
func (t Topic) Key() string {
	return ChannelKey(t.Table, t.Filter)
}

// Accepts reports whether the topic wants events of the type.
func (t Topic) Accepts(typ EventType) bool {
	if len(t.Events) == 0 {
		return true
	}
	for _, e := range t.Events {
		if e == typ {
			return true
		}
	}
	return false
}

// ChannelKey builds a channel name from a table and optional filter.
func ChannelKey(table, filter string) string {
	parts := []string{ChannelPrefix, table}
	if filter != "" {
		parts = append(parts, filter)
	}
	return strings.Join(parts, ":")
}
