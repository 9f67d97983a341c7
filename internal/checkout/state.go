package checkout

import (
	"encoding/json"
	"time"
)

// StepError is one failure recorded on a checkout session. The jsonb column
// keeps every failure the session ever saw, not just the last one.
type StepError struct {
	Step    string    `json:"step"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// CompensationRecord marks one compensation attempt during rollback.
type CompensationRecord struct {
	Step     string    `json:"step"`
	Action   string    `json:"action"`
	Executed bool      `json:"executed"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

func appendStepError(raw json.RawMessage, entry StepError) json.RawMessage {
	var entries []StepError
	if len(raw) > 0 {
		// A corrupt column should not block failure handling; start over.
		_ = json.Unmarshal(raw, &entries)
	}
	entries = append(entries, entry)
	encoded, err := json.Marshal(entries)
	if err != nil {
		return raw
	}
	return encoded
}

func encodeCompensations(records []CompensationRecord) json.RawMessage {
	encoded, err := json.Marshal(records)
	if err != nil {
		return nil
	}
	return encoded
}

// DecodeCompensations reads the compensation audit trail off a session row.
func DecodeCompensations(raw json.RawMessage) []CompensationRecord {
	if len(raw) == 0 {
		return nil
	}
	var records []CompensationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}

// DecodeStepErrors reads the failure history off a session row.
func DecodeStepErrors(raw json.RawMessage) []StepError {
	if len(raw) == 0 {
		return nil
	}
	var entries []StepError
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}
