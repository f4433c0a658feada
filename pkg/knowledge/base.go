// Package knowledge is the fixed tender fact base behind the simulated assistant.
package knowledge

import (
	"strings"

	"bidwizer-be/internal/entity"
)

type Topic string

const (
	TopicBudget       Topic = "budget"
	TopicDeadline     Topic = "deadline"
	TopicRequirements Topic = "requirements"
	TopicTimeline     Topic = "timeline"
	TopicFallback     Topic = "fallback"
)

// ScopePlaceholder is replaced by the scope phrase when an answer is rendered.
const ScopePlaceholder = "{scope}"

// Matching order is significant: the first topic with a keyword contained in the
// question wins.
var rules = []struct {
	topic    Topic
	keywords []string
}{
	{TopicBudget, []string{"budget", "cost"}},
	{TopicDeadline, []string{"deadline", "when"}},
	{TopicRequirements, []string{"requirement", "qualification"}},
	{TopicTimeline, []string{"timeline", "duration"}},
}

var answers = map[Topic]string{
	TopicBudget: `Based on {scope}, the estimated contract value is **USD 2,500,000** (excluding VAT).

Budget breakdown:
- Civil works: USD 1,650,000
- Drainage and culverts: USD 520,000
- Traffic management: USD 180,000
- Contingency (6%): USD 150,000

Payment is milestone-based with a 10% retention released after the defects liability period.`,

	TopicDeadline: `According to {scope}, the key dates are:

- Clarification questions close: **1 December 2026**
- Bid submission deadline: **15 December 2026, 17:00**
- Bid opening: 16 December 2026, 10:00

Late submissions will not be accepted.`,

	TopicRequirements: `The main requirements stated in {scope} are:

1. Valid company registration and tax clearance certificate
2. Minimum 5 years of experience in comparable road works
3. At least 2 completed projects above USD 1,000,000 in the last 5 years
4. Bid security of 2% of the bid price
5. ISO 9001 certified quality management system

Joint ventures must nominate a lead partner meeting at least 60% of the experience criteria.`,

	TopicTimeline: `The project timeline described in {scope}:

- Mobilisation: 4 weeks after contract award
- Construction period: 14 months
- Defects liability period: 12 months after practical completion

Progress reports are due monthly.`,

	TopicFallback: `I reviewed {scope} but could not find a specific answer to that question.

Try asking about the **budget**, **deadline**, **requirements** or **timeline** of this tender.`,
}

var page = func(n int) *int { return &n }

// The cited documents belong to the demo tender T-1001 and are returned whichever
// workspace asked.
var citations = map[Topic][]entity.Citation{
	TopicBudget: {
		{DocId: "doc-4", DocName: "Bill of Quantities.xlsx", Snippet: "Total estimated contract value: USD 2,500,000 excluding VAT."},
		{DocId: "doc-1", DocName: "Tender Notice.pdf", Page: page(2), Snippet: "Payments shall be made against certified milestones with 10% retention."},
	},
	TopicRequirements: {
		{DocId: "doc-5", DocName: "Eligibility Criteria.pdf", Page: page(3), Snippet: "Bidders shall demonstrate a minimum of five (5) years of experience in comparable works."},
		{DocId: "doc-2", DocName: "Technical Specifications.pdf", Page: page(12), Snippet: "The contractor shall operate an ISO 9001 certified quality management system."},
	},
}

// Lookup returns the single topic a question resolves to.
func Lookup(question string) Topic {
	q := strings.ToLower(question)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.topic
			}
		}
	}
	return TopicFallback
}

// Answer is the canned template for topic, still containing ScopePlaceholder.
func Answer(topic Topic) string {
	if a, ok := answers[topic]; ok {
		return a
	}
	return answers[TopicFallback]
}

// Citations are only defined for budget and requirements; every other topic has none.
func Citations(topic Topic) []entity.Citation {
	src := citations[topic]
	if len(src) == 0 {
		return []entity.Citation{}
	}
	out := make([]entity.Citation, len(src))
	for i, c := range src {
		if c.Page != nil {
			c.Page = page(*c.Page)
		}
		out[i] = c
	}
	return out
}
