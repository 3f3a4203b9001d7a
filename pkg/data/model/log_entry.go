package model

import (
	"encoding/json"
)

const (
	SeverityInfo  = "INFO"
	SeverityError = "ERROR"
)

type LogEntry struct {
	Topic     string `json:"topic,omitempty"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
}

// Bytes marshals the entry for publishing, defaulting the severity to INFO.
func (e *LogEntry) Bytes() ([]byte, error) {
	if len(e.Severity) == 0 {
		e.Severity = SeverityInfo
	}
	return json.Marshal(e)
}

func (e *LogEntry) String() string {
	bytes, err := e.Bytes()
	if err != nil {
		return e.Message
	}
	return string(bytes)
}
