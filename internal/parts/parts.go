// Package parts holds the replacement-part records produced by a search.
package parts

// Part is one suggested replacement part for a vehicle.
type Part struct {
	Name         string
	Description  string
	AveragePrice float64
}

// Numbered is the wire form of a Part. IDs are assigned per response batch
// and must not be used as stable identifiers.
type Numbered struct {
	ID           int     `json:"id"`
	Name         string  `json:"nome"`
	Description  string  `json:"descricao"`
	AveragePrice float64 `json:"preco_medio"`
}

// Number attaches sequential 1-based ids to ps.
func Number(ps []Part) []Numbered {
	out := make([]Numbered, 0, len(ps))
	for i, p := range ps {
		out = append(out, Numbered{
			ID:           i + 1,
			Name:         p.Name,
			Description:  p.Description,
			AveragePrice: p.AveragePrice,
		})
	}
	return out
}

// Clone returns a copy of ps that shares no backing array with it.
func Clone(ps []Part) []Part {
	if ps == nil {
		return nil
	}
	out := make([]Part, len(ps))
	copy(out, ps)
	return out
}
