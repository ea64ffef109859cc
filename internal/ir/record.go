package ir

// Row is one labelled input of a configuration: a substrate, its
// labelling pattern, the fraction of the substrate it supplies and its
// cost. Value and Price are decimal strings; Price is empty when the
// tracer has no price.
type Row struct {
	Specie     string `json:"specie"`
	Isotopomer string `json:"isotopomer"`
	Value      string `json:"value"`
	Price      string `json:"price,omitempty"`
}

// Configuration is one candidate label input: a combination of mixtures,
// one per substrate, flattened into rows. Index is the 1-based position of
// the combination in the generated set.
type Configuration struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Rows  []Row  `json:"rows"`
}

// Object returns the canonical form of the row.
func (r Row) Object() Object {
	obj := Object{
		"specie":     String(r.Specie),
		"isotopomer": String(r.Isotopomer),
		"value":      String(r.Value),
	}
	if r.Price != "" {
		obj["price"] = String(r.Price)
	}
	return obj
}

// Object returns the canonical form of the configuration content. ID and
// Index are positional and left out, so equal row sets compare equal.
func (c Configuration) Object() Object {
	rows := make(Array, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = r.Object()
	}
	return Object{"rows": rows}
}
