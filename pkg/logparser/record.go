// Package logparser converts loosely-structured log text into canonical records.
package logparser

import (
	"time"
)

// EventType classifies a business event extracted from a pipe-delimited payload.
type EventType string

const (
	EventAuth         EventType = "AUTH_EVENT"
	EventAccountQuery EventType = "ACCOUNT_QUERY"
	EventCardStatus   EventType = "CARD_STATUS"
	EventTransaction  EventType = "TRANSACTION"
	EventError        EventType = "ERROR"
	EventOther        EventType = "OTHER_EVENT"
)

// LevelUnknown is assigned when no level could be determined for a line.
const LevelUnknown = "UNKNOWN"

// EventFields holds the known business-event fields for a record plus an
// overflow map for keys outside the fixed layouts.
type EventFields struct {
	// Identity keys
	AccountNo string `json:"accountNo,omitempty" yaml:"accountNo,omitempty"`
	CardNo    string `json:"cardNo,omitempty" yaml:"cardNo,omitempty"`
	UniqueID  string `json:"uniqueId,omitempty" yaml:"uniqueId,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`

	// Event detail keys
	TxType      string `json:"txType,omitempty" yaml:"txType,omitempty"`
	RemoteAddr  string `json:"remoteAddr,omitempty" yaml:"remoteAddr,omitempty"`
	Action      string `json:"action,omitempty" yaml:"action,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	Response    string `json:"response,omitempty" yaml:"response,omitempty"`
	OfsResponse string `json:"ofsResponse,omitempty" yaml:"ofsResponse,omitempty"`
	Thread      string `json:"thread,omitempty" yaml:"thread,omitempty"`
	Timestamp   string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Parts holds the raw payload fields of an unrecognized discriminator,
	// in original order.
	Parts []string `json:"parts,omitempty" yaml:"parts,omitempty"`

	// Extra holds any additional keys outside the fixed layouts
	// (custom OTHER_EVENT fields, unmapped CSV columns, diagnostics).
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsZero reports whether no field has been set.
func (f *EventFields) IsZero() bool {
	return f.AccountNo == "" && f.CardNo == "" && f.UniqueID == "" &&
		f.Username == "" && f.TxType == "" && f.RemoteAddr == "" &&
		f.Action == "" && f.Status == "" && f.Response == "" &&
		f.OfsResponse == "" && f.Thread == "" && f.Timestamp == "" &&
		len(f.Parts) == 0 && len(f.Extra) == 0
}

// Set assigns a value to the named canonical key, falling back to the
// overflow map for unrecognized keys. Empty values are ignored so that
// missing positional payload fields leave the record untouched.
func (f *EventFields) Set(key, value string) {
	if value == "" {
		return
	}
	switch key {
	case "accountNo":
		f.AccountNo = value
	case "cardNo":
		f.CardNo = value
	case "uniqueId":
		f.UniqueID = value
	case "username":
		f.Username = value
	case "txType":
		f.TxType = value
	case "remoteAddr":
		f.RemoteAddr = value
	case "action":
		f.Action = value
	case "status":
		f.Status = value
	case "response":
		f.Response = value
	case "ofsResponse":
		f.OfsResponse = value
	case "thread":
		f.Thread = value
	case "timestamp":
		f.Timestamp = value
	default:
		if f.Extra == nil {
			f.Extra = make(map[string]string)
		}
		f.Extra[key] = value
	}
}

// Get returns the value for the named canonical key, or the overflow map
// entry for unrecognized keys.
func (f *EventFields) Get(key string) string {
	switch key {
	case "accountNo":
		return f.AccountNo
	case "cardNo":
		return f.CardNo
	case "uniqueId":
		return f.UniqueID
	case "username":
		return f.Username
	case "txType":
		return f.TxType
	case "remoteAddr":
		return f.RemoteAddr
	case "action":
		return f.Action
	case "status":
		return f.Status
	case "response":
		return f.Response
	case "ofsResponse":
		return f.OfsResponse
	case "thread":
		return f.Thread
	case "timestamp":
		return f.Timestamp
	default:
		return f.Extra[key]
	}
}

// StringValues returns every non-empty string value held by the fields,
// including overflow entries and raw parts. Used by free-text search.
func (f *EventFields) StringValues() []string {
	vals := make([]string, 0, 12+len(f.Parts)+len(f.Extra))
	for _, v := range []string{
		f.AccountNo, f.CardNo, f.UniqueID, f.Username, f.TxType,
		f.RemoteAddr, f.Action, f.Status, f.Response, f.OfsResponse,
		f.Thread, f.Timestamp,
	} {
		if v != "" {
			vals = append(vals, v)
		}
	}
	vals = append(vals, f.Parts...)
	for _, v := range f.Extra {
		vals = append(vals, v)
	}
	return vals
}

// LogRecord is the canonical unit produced by the parser.
type LogRecord struct {
	// Timestamp is the canonicalized absolute time. Never zero after
	// finalization; defaults to ingestion time when unparseable.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Level is the upper-cased severity category, or "UNKNOWN".
	Level string `json:"level" yaml:"level"`

	// Message is the free-text body. Empty string allowed.
	Message string `json:"message" yaml:"message"`

	// Source is the originating logger/class/thread identifier, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// StackTrace is the newline-joined continuation lines, if any.
	StackTrace string `json:"stackTrace,omitempty" yaml:"stackTrace,omitempty"`

	// EventType is set when the line matched a business-event dialect.
	EventType EventType `json:"eventType,omitempty" yaml:"eventType,omitempty"`

	// AdditionalInfo carries the business-event fields and any extra keys.
	AdditionalInfo *EventFields `json:"additionalInfo,omitempty" yaml:"additionalInfo,omitempty"`
}

// Info returns the record's AdditionalInfo, allocating it on first use.
// Only valid while the record is being built; finalized records are not
// mutated.
func (r *LogRecord) Info() *EventFields {
	if r.AdditionalInfo == nil {
		r.AdditionalInfo = &EventFields{}
	}
	return r.AdditionalInfo
}
