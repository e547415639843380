package s2

import "strings"

// Paper is a Semantic Scholar paper record with the fields the resolver
// consumes. Candidates from search are never persisted.
type Paper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Year          int            `json:"year"`
	ExternalIDs   ExternalIDs    `json:"externalIds"`
	OpenAccessPDF *OpenAccessPDF `json:"openAccessPdf"`
	Authors       []Author       `json:"authors"`
}

// ExternalIDs holds a paper's identifiers in other systems.
type ExternalIDs struct {
	DOI           string `json:"DOI"`
	ArXiv         string `json:"ArXiv"`
	PubMed        string `json:"PubMed"`
	PubMedCentral string `json:"PubMedCentral"`
	CorpusID      int64  `json:"CorpusId"`
}

// OpenAccessPDF is the API's reported open-access location, if any.
type OpenAccessPDF struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Author is a paper author as reported by the API.
type Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Surname returns the last whitespace-separated token of the author's name.
// Multi-part surnames split incorrectly; the resolver's fuzzy gate absorbs
// most of that noise.
func (a Author) Surname() string {
	fields := strings.Fields(a.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// OpenAccessURL returns the reported open-access PDF URL or "".
func (p Paper) OpenAccessURL() string {
	if p.OpenAccessPDF == nil {
		return ""
	}
	return p.OpenAccessPDF.URL
}

// DOI returns the paper's DOI or "".
func (p Paper) DOI() string {
	return p.ExternalIDs.DOI
}
