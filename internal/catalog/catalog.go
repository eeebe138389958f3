package catalog

import (
	"errors"
	"fmt"

	"github.com/padasch/french-nfi-dashboard/internal/model"
	"github.com/padasch/french-nfi-dashboard/internal/resolver"
)

// Source lists the group values to enumerate.
type Source interface {
	Values(kind model.GroupKind) []string
}

// KindCoverage counts resolved figures for one group kind.
type KindCoverage struct {
	Kind            model.GroupKind `json:"kind"`
	Groups          int             `json:"groups"`
	Selections      int             `json:"selections"`
	Found           int             `json:"found"`
	NotFound        int             `json:"not_found"`
	CompanionsFound int             `json:"companions_found"`
	CompanionsTotal int             `json:"companions_total"`
	// Invalid counts selections the resolver refused, e.g. list entries
	// that cannot name an asset.
	Invalid int `json:"invalid"`
	// Missing holds up to maxMissing example paths of absent main figures.
	Missing []string `json:"missing,omitempty"`
}

// Coverage is the availability report over the whole asset catalog.
type Coverage struct {
	Kinds    []KindCoverage `json:"kinds"`
	Found    int            `json:"found"`
	NotFound int            `json:"not_found"`
	Invalid  int            `json:"invalid"`
}

const maxMissing = 5

// Build resolves every selection reachable from the lists and counts which
// figures exist. Invalid selections are counted, not fatal.
func Build(r *resolver.Resolver, src Source) (*Coverage, error) {
	cov := &Coverage{}
	for _, kind := range model.GroupKinds {
		kc := KindCoverage{Kind: kind, Groups: len(src.Values(kind))}
		for _, value := range src.Values(kind) {
			for _, metric := range model.Metrics {
				for _, m := range model.MapKinds {
					res, err := r.Resolve(model.Selection{
						GroupKind:  kind,
						GroupValue: value,
						Metric:     metric,
						MapKind:    m,
					})
					if errors.Is(err, model.ErrInvalidSelection) {
						kc.Invalid++
						continue
					}
					if err != nil {
						return nil, fmt.Errorf("resolving %s %q: %w", kind, value, err)
					}
					kc.Selections++
					if res.Primary.Found() {
						kc.Found++
					} else {
						kc.NotFound++
						if len(kc.Missing) < maxMissing {
							kc.Missing = append(kc.Missing, res.Primary.Path)
						}
					}
					for _, c := range res.Companions {
						kc.CompanionsTotal++
						if c.Found() {
							kc.CompanionsFound++
						}
					}
				}
			}
		}
		cov.Found += kc.Found
		cov.NotFound += kc.NotFound
		cov.Invalid += kc.Invalid
		cov.Kinds = append(cov.Kinds, kc)
	}
	return cov, nil
}

// Percent returns the share of main figures present, 0 when nothing was
// enumerated.
func (k KindCoverage) Percent() float64 {
	if k.Selections == 0 {
		return 0
	}
	return 100 * float64(k.Found) / float64(k.Selections)
}
