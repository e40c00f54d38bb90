package model

// BrowserTrack is the JSON shape the front end consumes for one track.
type BrowserTrack struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	IndexURL string `json:"index_url,omitempty"`
}

// BrowserConfig is returned from /config.json and embedded into the viewer
// page. URLs are in the escaped /file/ form.
type BrowserConfig struct {
	ReferenceURL      string         `json:"reference_url,omitempty"`
	ReferenceIndexURL string         `json:"reference_index_url,omitempty"`
	Tracks            []BrowserTrack `json:"tracks"`
	Pages             []Page         `json:"pages"`
}
