package linp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/ir"
	"github.com/roach88/isodesign/internal/mixture"
	"github.com/roach88/isodesign/internal/score"
)

// Key identifies a tracer within a design.
type Key struct {
	Specie     string
	Isotopomer string
}

// PriceBook maps tracers to their unit price. Tracers without a price are
// absent.
type PriceBook map[Key]*apd.Decimal

// PricesFromGroups collects the prices of every priced tracer of groups.
func PricesFromGroups(groups []mixture.Group) PriceBook {
	book := make(PriceBook)
	for _, g := range groups {
		for _, t := range g.Tracers {
			if t.HasPrice() {
				book[Key{Specie: g.Substrate, Isotopomer: t.Labelling()}] = t.Price()
			}
		}
	}
	return book
}

// Info is the scoring metadata of one configuration.
type Info struct {
	// LabeledInputs counts rows whose pattern has at least one labelled carbon.
	LabeledInputs int

	// TotalPrice sums the prices of the priced rows. Unpriced rows count
	// as 0.
	TotalPrice *apd.Decimal

	// Priced is true when every row has a price.
	Priced bool
}

// Plan is the full configuration set built from a combination set.
type Plan struct {
	configs []ir.Configuration
	infos   []Info
}

// Build creates one configuration per combination of result, in
// combination order.
func Build(result *mixture.Result, prices PriceBook) (*Plan, error) {
	names := result.Names()
	patterns := result.Patterns()
	total := result.Len()
	width := len(strconv.Itoa(total))

	plan := &Plan{
		configs: make([]ir.Configuration, 0, total),
		infos:   make([]Info, 0, total),
	}

	for i, combination := range result.Combinations() {
		if len(combination) != len(names) {
			return nil, fmt.Errorf("combination %d has %d values for %d tracers", i+1, len(combination), len(names))
		}

		cfg := ir.Configuration{
			ID:    FormatID(i+1, width),
			Index: i + 1,
		}
		info := Info{Priced: true}
		sum := frac.Zero()

		for j, value := range combination {
			if value.IsZero() {
				continue
			}
			row := ir.Row{
				Specie:     names[j],
				Isotopomer: patterns[j],
				Value:      frac.String(value),
			}
			if strings.ContainsRune(patterns[j], '1') {
				info.LabeledInputs++
			}

			unit, ok := prices[Key{Specie: names[j], Isotopomer: patterns[j]}]
			if ok {
				cost, err := frac.Mul(unit, value)
				if err != nil {
					return nil, fmt.Errorf("%s: price of %s[%s]: %w", cfg.ID, names[j], patterns[j], err)
				}
				row.Price = frac.String(cost)
				if sum, err = frac.Add(sum, cost); err != nil {
					return nil, fmt.Errorf("%s: total price: %w", cfg.ID, err)
				}
			} else {
				info.Priced = false
			}
			cfg.Rows = append(cfg.Rows, row)
		}

		info.TotalPrice = sum
		plan.configs = append(plan.configs, cfg)
		plan.infos = append(plan.infos, info)
	}
	return plan, nil
}

// FormatID returns the id of the index-th configuration out of a set whose
// size has width digits.
func FormatID(index, width int) string {
	return fmt.Sprintf("ID_%0*d", width, index)
}

// Len returns the number of configurations.
func (p *Plan) Len() int { return len(p.configs) }

// Configurations returns every configuration in index order.
func (p *Plan) Configurations() []ir.Configuration {
	out := make([]ir.Configuration, len(p.configs))
	copy(out, p.configs)
	return out
}

// Configuration returns the configuration with the given 1-based index.
func (p *Plan) Configuration(index int) (ir.Configuration, bool) {
	if index < 1 || index > len(p.configs) {
		return ir.Configuration{}, false
	}
	return p.configs[index-1], true
}

// Info returns the metadata of the configuration with the given 1-based
// index.
func (p *Plan) Info(index int) (Info, bool) {
	if index < 1 || index > len(p.infos) {
		return Info{}, false
	}
	return p.infos[index-1], true
}

// Metadata converts the metadata of every configuration for the scorer.
func (p *Plan) Metadata() (score.Metadata, error) {
	meta := make(score.Metadata, len(p.configs))
	for i, cfg := range p.configs {
		info := p.infos[i]
		price, err := frac.Float64(info.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.ID, err)
		}
		meta[cfg.ID] = score.ConfigInfo{
			LabeledInputs: score.Int(info.LabeledInputs),
			TotalPrice:    score.Float(price),
		}
	}
	return meta, nil
}
