// Package transcript renders conversation messages as labelled blocks and
// serializes them to plain text.
//
// The block builders here are the single source of truth for which fields of
// an order, summary or sentiment are shown and in what order. Both the text
// transcript and the terminal renderer consume them.
package transcript

import (
	"strconv"

	"github.com/raphaelgruber/opschat/internal/models"
)

// Labels used by every block.
const (
	LabelOrder     = "Order"
	LabelStatus    = "Status"
	LabelCustomer  = "Customer"
	LabelProduct   = "Product"
	LabelDates     = "Dates"
	LabelTonnage   = "Tonnage"
	LabelAccess    = "Access"
	LabelSentiment = "Sentiment"
	LabelFlagged   = "Flagged"
)

// BlockKind identifies which entity a block was built from.
type BlockKind string

const (
	KindOrder     BlockKind = "order"
	KindSummary   BlockKind = "summary"
	KindSentiment BlockKind = "sentiment"
)

// Row is one labelled line of a block.
type Row struct {
	Label string
	Value string
}

// Block is the rendered form of one order, summary or standalone sentiment.
// Flagged holds verbatim flagged messages shown after the rows.
type Block struct {
	Kind    BlockKind
	Rows    []Row
	Flagged []string
}

func (b *Block) add(label, value string) {
	b.Rows = append(b.Rows, Row{Label: label, Value: value})
}

func (b *Block) addIf(label, value string) {
	if value != "" {
		b.add(label, value)
	}
}

func (b *Block) addSentiment(s *models.Sentiment) {
	b.add(LabelSentiment, s.OverallSentiment)
	if len(s.FlaggedMessages) > 0 {
		b.Flagged = append([]string(nil), s.FlaggedMessages...)
	}
}

// OrderBlock builds the block for an order. When attached is non-nil its
// sentiment and flagged messages are rendered inline.
func OrderBlock(o models.Order, attached *models.Sentiment) Block {
	b := Block{Kind: KindOrder}
	b.add(LabelOrder, o.Code)
	b.addIf(LabelStatus, o.Status)
	b.addIf(LabelCustomer, o.Customer)
	b.addIf(LabelProduct, o.ProductName)
	b.addIf(LabelDates, FormatDates(o.StartDate, o.EndDate))
	if o.HasTonnage() {
		b.add(LabelTonnage, FormatTonnage(*o.IncludedTonnage))
	}
	b.addIf(LabelAccess, o.AccessDetails)
	if attached != nil {
		b.addSentiment(attached)
	}
	return b
}

// SummaryBlock builds the block for an order summary. Summaries never carry sentiment.
func SummaryBlock(s models.OrderSummary) Block {
	b := Block{Kind: KindSummary}
	b.add(LabelOrder, s.Code)
	b.addIf(LabelStatus, s.Status)
	b.addIf(LabelCustomer, s.Customer)
	b.addIf(LabelProduct, s.ProductName)
	b.addIf(LabelAccess, s.AccessDetails)
	return b
}

// SentimentBlock builds a standalone sentiment block keyed by the sentiment's
// own order code.
func SentimentBlock(s models.Sentiment) Block {
	b := Block{Kind: KindSentiment}
	b.add(LabelOrder, s.OrderCode)
	b.addSentiment(&s)
	return b
}

// MessageBlocks returns the structured blocks of a message: orders first
// (with the sentiment inlined into the order it is attached to), then
// summaries, then the sentiment on its own if no order claimed it.
func MessageBlocks(m models.Message) []Block {
	var blocks []Block
	for _, o := range m.Orders {
		var attached *models.Sentiment
		if m.Sentiment != nil && m.Sentiment.OrderCode == o.Code {
			attached = m.Sentiment
		}
		blocks = append(blocks, OrderBlock(o, attached))
	}
	for _, s := range m.OrderSummaries {
		blocks = append(blocks, SummaryBlock(s))
	}
	if m.Sentiment != nil && !m.Sentiment.AttachedTo(m.Orders) {
		blocks = append(blocks, SentimentBlock(*m.Sentiment))
	}
	return blocks
}

// FormatDates renders a date range as "start – end". A missing side is
// rendered as "from start" or "until end"; no dates render as "".
func FormatDates(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " – " + end
	case start != "":
		return "from " + start
	case end != "":
		return "until " + end
	default:
		return ""
	}
}

// FormatTonnage renders a tonnage value without trailing zeros, e.g. "5 tons".
func FormatTonnage(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + " tons"
}
