package locus

import (
	"strings"

	"github.com/jsphweid/genomedex/constants"
	"github.com/jsphweid/genomedex/model"
)

// Paginate splits loci into 1-based pages of at most perPage entries. Blank
// entries are dropped. perPage <= 0 falls back to the default page size.
func Paginate(loci []string, perPage int) []model.Page {
	if perPage <= 0 {
		perPage = constants.DefaultLociPerPage
	}

	var cleaned []string
	for _, l := range loci {
		l = strings.TrimSpace(l)
		if l != "" {
			cleaned = append(cleaned, l)
		}
	}

	var pages []model.Page
	for start := 0; start < len(cleaned); start += perPage {
		end := start + perPage
		if end > len(cleaned) {
			end = len(cleaned)
		}
		pages = append(pages, model.Page{
			Num:  len(pages) + 1,
			Loci: cleaned[start:end],
		})
	}
	return pages
}
