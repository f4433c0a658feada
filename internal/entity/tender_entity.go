package entity

import "time"

type Publisher struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Location string `json:"location"`
}

type Tender struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	PublisherId string     `json:"publisher_id"`
	Category    string     `json:"category"`
	Budget      float64    `json:"budget"`
	Currency    string     `json:"currency"`
	Deadline    time.Time  `json:"deadline"`
	Documents   []Document `json:"documents"`
}

// Document is one file of a tender's workspace tree. Folder is a slash-separated path, "" for root.
type Document struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`
	Pages  int    `json:"pages"`
}

func (t Tender) FindDocument(docId string) (Document, bool) {
	for _, d := range t.Documents {
		if d.Id == docId {
			return d, true
		}
	}
	return Document{}, false
}

// HasFolder reports whether folder, or any folder beneath it, holds a document.
func (t Tender) HasFolder(folder string) bool {
	if folder == "" {
		return false
	}
	for _, d := range t.Documents {
		if d.Folder == folder || len(d.Folder) > len(folder) && d.Folder[:len(folder)+1] == folder+"/" {
			return true
		}
	}
	return false
}
