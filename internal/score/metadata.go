package score

// ConfigInfo is the auxiliary data of one configuration. A nil field is
// unknown; criteria that need it fail with ErrCodeMissingMetadata.
type ConfigInfo struct {
	LabeledInputs    *int
	TotalPrice       *float64
	IdentifiedFluxes *int
}

// Metadata maps configuration ids to their ConfigInfo.
type Metadata map[string]ConfigInfo

// Merge returns a new Metadata holding every entry of m and other. For a
// configuration present in both, known fields of other win.
func (m Metadata) Merge(other Metadata) Metadata {
	out := make(Metadata, len(m)+len(other))
	for id, info := range m {
		out[id] = info
	}
	for id, info := range other {
		cur := out[id]
		if info.LabeledInputs != nil {
			cur.LabeledInputs = info.LabeledInputs
		}
		if info.TotalPrice != nil {
			cur.TotalPrice = info.TotalPrice
		}
		if info.IdentifiedFluxes != nil {
			cur.IdentifiedFluxes = info.IdentifiedFluxes
		}
		out[id] = cur
	}
	return out
}

// Int returns a pointer to n, for building ConfigInfo literals.
func Int(n int) *int { return &n }

// Float returns a pointer to f, for building ConfigInfo literals.
func Float(f float64) *float64 { return &f }
