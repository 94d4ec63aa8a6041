package logparser

import (
	"fmt"
	"regexp"
	"strings"
)

// ipShapePattern recognizes IPv4-shaped tokens in variable payload tails.
var ipShapePattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)

// KnownEventTypes lists the discriminators with a fixed positional layout.
var KnownEventTypes = []EventType{
	EventAuth, EventAccountQuery, EventCardStatus,
	EventTransaction, EventError, EventOther,
}

// payloadResult is the outcome of extracting a pipe-delimited payload.
type payloadResult struct {
	eventType EventType
	message   string
	fields    *EventFields
	// rawTimestamp is the payload's own timestamp field, used by the
	// generic fallback dialect to back-fill the record timestamp.
	rawTimestamp string
}

// field returns parts[i] or "" when the payload is shorter than the layout.
// Extractors must tolerate truncated payloads without failing.
func field(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

// extractPayload splits a pipe-delimited payload and applies the positional
// layout selected by its first field (the discriminator). Unrecognized
// discriminators keep every field as an ordered parts list.
func extractPayload(payload string) payloadResult {
	parts := strings.Split(payload, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch EventType(parts[0]) {
	case EventAuth:
		return extractAuthEvent(parts)
	case EventAccountQuery:
		return extractAccountQuery(parts)
	case EventCardStatus:
		return extractCardStatus(parts)
	case EventTransaction:
		return extractTransaction(parts)
	case EventError:
		return extractErrorEvent(parts)
	case EventOther:
		return extractOtherEvent(parts)
	default:
		f := &EventFields{Parts: parts}
		return payloadResult{
			eventType: "",
			message:   payload,
			fields:    f,
		}
	}
}

func extractAuthEvent(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("timestamp", field(parts, 1))
	f.Set("username", field(parts, 2))
	f.Set("remoteAddr", field(parts, 3))
	f.Set("action", field(parts, 4))
	f.Set("response", field(parts, 5))
	f.Set("ofsResponse", field(parts, 6))
	return payloadResult{
		eventType:    EventAuth,
		message:      fmt.Sprintf("Authentication %s for %s from %s", f.Action, f.Username, f.RemoteAddr),
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

func extractAccountQuery(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("accountNo", field(parts, 1))
	f.Set("timestamp", field(parts, 2))
	f.Set("remoteAddr", field(parts, 3))
	f.Set("status", field(parts, 4))
	f.Set("response", field(parts, 5))
	f.Set("ofsResponse", field(parts, 6))
	return payloadResult{
		eventType:    EventAccountQuery,
		message:      fmt.Sprintf("Account query for %s: %s", f.AccountNo, f.Status),
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

func extractCardStatus(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("cardNo", field(parts, 1))
	f.Set("timestamp", field(parts, 2))
	f.Set("remoteAddr", field(parts, 3))
	f.Set("action", field(parts, 4))
	f.Set("status", field(parts, 5))
	f.Set("response", field(parts, 6))
	f.Set("ofsResponse", field(parts, 7))
	return payloadResult{
		eventType:    EventCardStatus,
		message:      fmt.Sprintf("Card %s %s for %s: %s", f.Action, f.Status, f.CardNo, f.Response),
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

func extractTransaction(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("uniqueId", field(parts, 1))
	f.Set("txType", field(parts, 2))
	f.Set("timestamp", field(parts, 3))
	f.Set("status", field(parts, 4))
	if len(parts) > 5 {
		scanTrailingFields(f, parts[5:])
	}
	return payloadResult{
		eventType:    EventTransaction,
		message:      fmt.Sprintf("Transaction %s (%s): %s", f.UniqueID, f.TxType, f.Status),
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

func extractErrorEvent(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("uniqueId", field(parts, 1))
	f.Set("timestamp", field(parts, 2))
	f.Set("eventType", field(parts, 3))
	f.Set("status", field(parts, 4))
	msg := field(parts, 5)
	f.Set("response", field(parts, 6))
	f.Set("ofsResponse", field(parts, 7))
	if len(parts) > 8 {
		scanTrailingFields(f, parts[8:])
	}
	if msg == "" {
		msg = fmt.Sprintf("Error event %s: %s", f.UniqueID, f.Status)
	}
	return payloadResult{
		eventType:    EventError,
		message:      msg,
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

func extractOtherEvent(parts []string) payloadResult {
	f := &EventFields{}
	f.Set("timestamp", field(parts, 1))
	f.Set("remoteAddr", field(parts, 2))

	// Trailing pair is response/ofsResponse; anything between the fixed
	// prefix and that pair is a custom field.
	var rest []string
	if len(parts) > 3 {
		rest = parts[3:]
	}
	switch {
	case len(rest) >= 2:
		f.Set("response", rest[len(rest)-2])
		f.Set("ofsResponse", rest[len(rest)-1])
		rest = rest[:len(rest)-2]
	case len(rest) == 1:
		f.Set("response", rest[0])
		rest = nil
	}
	for i, v := range rest {
		f.Set(fmt.Sprintf("field%d", i+1), v)
	}

	return payloadResult{
		eventType:    EventOther,
		message:      fmt.Sprintf("Business event from %s: %s", f.RemoteAddr, f.Response),
		fields:       f,
		rawTimestamp: f.Timestamp,
	}
}

// scanTrailingFields resolves the variable tail of TRANSACTION and ERROR
// payloads. Fields are identified by prefix or shape rather than position,
// scanned left to right with first match winning per field. A bare token
// that matches nothing fills response if still empty; this is deliberately
// best-effort for reordered or missing fields.
func scanTrailingFields(f *EventFields, tail []string) {
	for _, tok := range tail {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
		case strings.HasPrefix(tok, "response="):
			if f.Response == "" {
				f.Response = strings.TrimPrefix(tok, "response=")
			}
		case strings.HasPrefix(tok, "ofsResponse="):
			if f.OfsResponse == "" {
				f.OfsResponse = strings.TrimPrefix(tok, "ofsResponse=")
			}
		case ipShapePattern.MatchString(tok):
			if f.RemoteAddr == "" {
				f.RemoteAddr = tok
			}
		default:
			if f.Response == "" {
				f.Response = tok
			}
		}
	}
}
