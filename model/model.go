package model

// Track is one alignment (or annotation) file exposed to the viewer.
type Track struct {
	// Path is the absolute, cleaned path to the data file.
	Path string
	// HasIndex means an index sibling (e.g. .bai) sits next to the file.
	HasIndex bool
	// Name is the display name shown in the browser.
	Name string
}

// Page is one screenful of loci for the viewer.
type Page struct {
	Num  int      `json:"num"`
	Loci []string `json:"loci"`
}

// TrackMetadata is what the metadata table knows about a file, keyed by the
// file's basename.
type TrackMetadata struct {
	Sample      string
	Library     string
	Description string
}
