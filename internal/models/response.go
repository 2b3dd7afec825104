package models

// ChatRequest is the body sent to the agent for one user turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// AgentResponse is the structured answer produced by the agent.
// Optional fields are nil when the service omits them or sends null.
type AgentResponse struct {
	Message        string         `json:"message"`
	Orders         []Order        `json:"orders,omitempty"`
	OrderSummaries []OrderSummary `json:"order_summaries,omitempty"`
	Sentiment      *Sentiment     `json:"sentiment,omitempty"`
}

// Normalize cleans up values the rest of the client relies on.
// It is applied once when the payload crosses the transport boundary.
func (r *AgentResponse) Normalize() {
	for i := range r.Orders {
		if t := r.Orders[i].IncludedTonnage; t != nil && *t < 0 {
			r.Orders[i].IncludedTonnage = nil
		}
	}
	if s := r.Sentiment; s != nil {
		s.MessageCount = max(s.MessageCount, 0)
		s.Positive = max(s.Positive, 0)
		s.Neutral = max(s.Neutral, 0)
		s.Negative = max(s.Negative, 0)
		if s.FlaggedMessages == nil {
			s.FlaggedMessages = []string{}
		}
	}
}

// ChatResponseEnvelope wraps the agent response on the complete event.
// RequestID and Model are only used for logging.
type ChatResponseEnvelope struct {
	Data      AgentResponse `json:"data"`
	RequestID string        `json:"request_id"`
	Model     string        `json:"model"`
}
