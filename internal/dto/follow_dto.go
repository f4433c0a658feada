package dto

type FollowStatusResponse struct {
	Followed []string `json:"followed"`
	Limit    int      `json:"limit"`
}

type ToggleFollowResponse struct {
	PublisherId string   `json:"publisher_id"`
	Following   bool     `json:"following"`
	Followed    []string `json:"followed"`
	Limit       int      `json:"limit"`
}
