// Package catalog is the fixed mock data set of publishers and tenders shown by the site.
package catalog

import (
	"sort"
	"strings"
	"time"

	"bidwizer-be/internal/entity"
	"bidwizer-be/pkg/apperr"
)

var publishers = []entity.Publisher{
	{Id: "1", Name: "Ministry of Public Works", Sector: "Infrastructure", Location: "Capital Region"},
	{Id: "2", Name: "National Health Authority", Sector: "Healthcare", Location: "Capital Region"},
	{Id: "3", Name: "City Water Utility", Sector: "Utilities", Location: "Northern District"},
	{Id: "4", Name: "Department of Education", Sector: "Education", Location: "Central District"},
	{Id: "5", Name: "Metro Transit Corporation", Sector: "Transport", Location: "Capital Region"},
	{Id: "6", Name: "State Energy Board", Sector: "Energy", Location: "Eastern District"},
	{Id: "7", Name: "Digital Government Agency", Sector: "Information Technology", Location: "Capital Region"},
	{Id: "8", Name: "Coastal Port Authority", Sector: "Logistics", Location: "Southern District"},
}

var tenders = []entity.Tender{
	{
		Id:          "T-1001",
		Title:       "Highway 12 Resurfacing and Drainage Works",
		PublisherId: "1",
		Category:    "Construction",
		Budget:      2500000,
		Currency:    "USD",
		Deadline:    time.Date(2026, time.December, 15, 17, 0, 0, 0, time.UTC),
		Documents: []entity.Document{
			{Id: "doc-1", Name: "Tender Notice.pdf", Folder: "", Pages: 4},
			{Id: "doc-2", Name: "Technical Specifications.pdf", Folder: "Technical", Pages: 86},
			{Id: "doc-3", Name: "Drainage Drawings.pdf", Folder: "Technical/Drawings", Pages: 24},
			{Id: "doc-4", Name: "Bill of Quantities.xlsx", Folder: "Commercial", Pages: 12},
			{Id: "doc-5", Name: "Eligibility Criteria.pdf", Folder: "Commercial", Pages: 9},
		},
	},
	{
		Id:          "T-1002",
		Title:       "Regional Hospital Medical Equipment Supply",
		PublisherId: "2",
		Category:    "Medical Supplies",
		Budget:      1200000,
		Currency:    "USD",
		Deadline:    time.Date(2026, time.November, 30, 12, 0, 0, 0, time.UTC),
		Documents: []entity.Document{
			{Id: "doc-21", Name: "Invitation to Bid.pdf", Folder: "", Pages: 3},
			{Id: "doc-22", Name: "Equipment Schedule.pdf", Folder: "Technical", Pages: 40},
			{Id: "doc-23", Name: "Price Schedule.xlsx", Folder: "Commercial", Pages: 6},
		},
	},
	{
		Id:          "T-1003",
		Title:       "Citizen Services Portal Modernisation",
		PublisherId: "7",
		Category:    "IT Services",
		Budget:      850000,
		Currency:    "USD",
		Deadline:    time.Date(2027, time.January, 20, 17, 0, 0, 0, time.UTC),
		Documents: []entity.Document{
			{Id: "doc-31", Name: "Request for Proposal.pdf", Folder: "", Pages: 28},
			{Id: "doc-32", Name: "Solution Architecture.pdf", Folder: "Technical", Pages: 19},
			{Id: "doc-33", Name: "Service Levels.pdf", Folder: "Technical", Pages: 7},
		},
	},
	{
		Id:          "T-1004",
		Title:       "Water Treatment Plant Pump Replacement",
		PublisherId: "3",
		Category:    "Construction",
		Budget:      640000,
		Currency:    "USD",
		Deadline:    time.Date(2026, time.December, 5, 17, 0, 0, 0, time.UTC),
		Documents: []entity.Document{
			{Id: "doc-41", Name: "Scope of Works.pdf", Folder: "", Pages: 15},
			{Id: "doc-42", Name: "Pump Datasheets.pdf", Folder: "Technical", Pages: 32},
		},
	},
}

func FindPublisher(id string) (entity.Publisher, error) {
	for _, p := range publishers {
		if p.Id == id {
			return p, nil
		}
	}
	return entity.Publisher{}, apperr.NotFound("publisher", id)
}

func FindTender(id string) (entity.Tender, error) {
	for _, t := range tenders {
		if t.Id == id {
			return cloneTender(t), nil
		}
	}
	return entity.Tender{}, apperr.NotFound("tender", id)
}

func Publishers() []entity.Publisher {
	return append([]entity.Publisher(nil), publishers...)
}

type TenderFilter struct {
	Keyword     string
	Category    string
	PublisherId string
}

// ListTenders returns matching tenders ordered by closest deadline first.
func ListTenders(f TenderFilter) []entity.Tender {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))

	var out []entity.Tender
	for _, t := range tenders {
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.PublisherId != "" && t.PublisherId != f.PublisherId {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(t.Title), keyword) {
			continue
		}
		out = append(out, cloneTender(t))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out
}

func cloneTender(t entity.Tender) entity.Tender {
	t.Documents = append([]entity.Document(nil), t.Documents...)
	return t
}
