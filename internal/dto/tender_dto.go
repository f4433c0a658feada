package dto

type TenderListQuery struct {
	Keyword     string `query:"q"`
	Category    string `query:"category"`
	PublisherId string `query:"publisher_id"`
}
