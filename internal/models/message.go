// Package models defines the data structures exchanged with the Ops Agent service
// and held in a chat session.
package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Label returns the display label used in transcripts.
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Agent"
}

// Message represents a single turn in a conversation.
//
// A pending message has no structured data and may carry a StatusText.
// A settled message has Pending=false, no StatusText, and final Content.
type Message struct {
	ID             string         `json:"id"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Pending        bool           `json:"pending,omitempty"`
	StatusText     string         `json:"status_text,omitempty"`
	Orders         []Order        `json:"orders,omitempty"`
	OrderSummaries []OrderSummary `json:"order_summaries,omitempty"`
	Sentiment      *Sentiment     `json:"sentiment,omitempty"`
}

// HasStructuredData reports whether the message carries orders, summaries or sentiment.
func (m Message) HasStructuredData() bool {
	return len(m.Orders) > 0 || len(m.OrderSummaries) > 0 || m.Sentiment != nil
}

// HasContent reports whether the message has anything worth exporting.
func (m Message) HasContent() bool {
	return m.Content != "" || m.HasStructuredData()
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Orders != nil {
		out.Orders = make([]Order, len(m.Orders))
		for i, o := range m.Orders {
			out.Orders[i] = o.Clone()
		}
	}
	if m.OrderSummaries != nil {
		out.OrderSummaries = make([]OrderSummary, len(m.OrderSummaries))
		copy(out.OrderSummaries, m.OrderSummaries)
	}
	if m.Sentiment != nil {
		s := m.Sentiment.Clone()
		out.Sentiment = &s
	}
	return out
}
