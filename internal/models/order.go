package models

// Order is a rental order as reported by the agent.
type Order struct {
	Code            string   `json:"code"`
	Status          string   `json:"status"`
	Customer        string   `json:"customer"`
	ProductName     string   `json:"product_name"`
	IncludedTonnage *float64 `json:"included_tonnage"` // nil when the service reports null
	AccessDetails   string   `json:"access_details"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
}

// Clone returns a copy that does not share the tonnage pointer.
func (o Order) Clone() Order {
	if o.IncludedTonnage != nil {
		t := *o.IncludedTonnage
		o.IncludedTonnage = &t
	}
	return o
}

// HasTonnage reports whether the order carries a positive included tonnage.
func (o Order) HasTonnage() bool {
	return o.IncludedTonnage != nil && *o.IncludedTonnage > 0
}

// OrderSummary is the reduced projection of an order used in list answers.
type OrderSummary struct {
	Code          string `json:"code"`
	Status        string `json:"status"`
	Customer      string `json:"customer"`
	ProductName   string `json:"product_name"`
	AccessDetails string `json:"access_details"`
}

// Sentiment is the sentiment analysis of the messages exchanged on an order.
type Sentiment struct {
	OrderCode        string   `json:"order_code"`
	OverallSentiment string   `json:"overall_sentiment"`
	MessageCount     int      `json:"message_count"`
	Positive         int      `json:"positive"`
	Neutral          int      `json:"neutral"`
	Negative         int      `json:"negative"`
	FlaggedMessages  []string `json:"flagged_messages"`
}

// Clone returns a copy that does not share the flagged message slice.
func (s Sentiment) Clone() Sentiment {
	if s.FlaggedMessages != nil {
		flagged := make([]string, len(s.FlaggedMessages))
		copy(flagged, s.FlaggedMessages)
		s.FlaggedMessages = flagged
	}
	return s
}

// AttachedTo reports whether the sentiment belongs to one of the given orders.
// Matching is exact on the order code.
func (s Sentiment) AttachedTo(orders []Order) bool {
	for _, o := range orders {
		if o.Code == s.OrderCode {
			return true
		}
	}
	return false
}
