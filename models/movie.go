package models

// MovieDetails is the enrichment payload for a single title, as resolved by
// the metadata provider. Poster is a full image URL; Runtime is a display
// string ("112 Min").
type MovieDetails struct {
	Title       string   `json:"title"`
	Poster      *string  `json:"poster"`
	Description *string  `json:"description"`
	Runtime     *string  `json:"runtime"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
}

// Info converts the details into the per-screening info bundle.
func (m *MovieDetails) Info() *MovieInfo {
	info := EmptyMovieInfo()
	if m == nil {
		return info
	}
	info.Description = m.Description
	info.Runtime = m.Runtime
	if len(m.Genres) > 0 {
		info.Genres = append(info.Genres[:0], m.Genres...)
	}
	if len(m.Cast) > 0 {
		info.Cast = append(info.Cast[:0], m.Cast...)
	}
	return info
}
