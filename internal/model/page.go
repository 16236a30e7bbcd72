package model

// FetchedPage is a page retrieved by one of the scrapers.
type FetchedPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	HTML       string `json:"html"`
	StatusCode int    `json:"status_code"`
}
