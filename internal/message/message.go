package message

import (
	"strings"

	"github.com/gyaneshwarpardhi/scandal/internal/graph"
)

// Message is the canonical input model: one parsed mail file.
type Message struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	Subject    string      `json:"subject"`
	From       string      `json:"from"`
	Recipients []Recipient `json:"recipients"`
}

// Recipient is one address taken from a recipient header ("To", "Cc", ...).
type Recipient struct {
	Header  string `json:"header"`
	Address string `json:"address"`
}

// Deliveries expands the message into one sender → recipient observation per
// recipient, in header order. A message without a sender yields nothing.
func (m *Message) Deliveries() []Delivery {
	if m.From == "" {
		return nil
	}
	out := make([]Delivery, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		if r.Address == "" {
			continue
		}
		out = append(out, Delivery{Msg: m, Header: r.Header, Recipient: r.Address})
	}
	return out
}

// Delivery is a candidate edge together with the message it came from.
// It implements filter.Context so config expressions can select edges.
type Delivery struct {
	Msg       *Message
	Header    string
	Recipient string
}

// Pair drops everything but the two endpoints.
func (d Delivery) Pair() graph.Pair {
	return graph.Pair{Sender: d.Msg.From, Recipient: d.Recipient}
}

// Resolve looks up a dotted field path:
//
//	sender, recipient, header
//	message.id, message.path, message.subject
func (d Delivery) Resolve(path []string) (interface{}, bool) {
	if len(path) == 0 {
		return nil, false
	}
	switch strings.ToLower(path[0]) {
	case "sender", "from":
		return d.Msg.From, len(path) == 1
	case "recipient", "to":
		return d.Recipient, len(path) == 1
	case "header":
		return d.Header, len(path) == 1
	case "message":
		if len(path) != 2 {
			return nil, false
		}
		switch strings.ToLower(path[1]) {
		case "id":
			return d.Msg.ID, true
		case "path":
			return d.Msg.Path, true
		case "subject":
			return d.Msg.Subject, true
		}
	}
	return nil, false
}
