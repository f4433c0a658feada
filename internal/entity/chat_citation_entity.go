package entity

type Citation struct {
	DocId   string `json:"doc_id"`
	DocName string `json:"doc_name"`
	Page    *int   `json:"page,omitempty"`
	Snippet string `json:"snippet"`
}
