package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

// Membership reports whether a group value is offered for a kind.
type Membership interface {
	Contains(kind model.GroupKind, value string) bool
	KindsOf(value string) []model.GroupKind
}

// Resolver turns dashboard selections into asset paths and checks whether
// the assets exist. It holds no mutable state.
type Resolver struct {
	assets fs.FS
	lists  Membership
}

// New creates a Resolver over a read-only asset tree. lists may be nil, in
// which case group values are not checked against the startup lists.
func New(assets fs.FS, lists Membership) *Resolver {
	return &Resolver{assets: assets, lists: lists}
}

// Plan builds the paths of every figure of a selection without touching
// the asset store. The main figure comes first.
func (r *Resolver) Plan(sel model.Selection) ([]model.Asset, error) {
	if err := r.check(sel); err != nil {
		return nil, err
	}

	tmpl, ok := templates[templateKey{sel.GroupKind, sel.MapKind}]
	if !ok {
		return nil, fmt.Errorf("%w: no template for %s on %s maps", model.ErrInvalidSelection, sel.GroupKind, sel.MapKind)
	}

	var assets []model.Asset
	if model.IsAggregate(sel.GroupValue) {
		assets = append(assets, model.Asset{Facet: model.Facet{Type: model.FacetMain}, Path: aggregatePath(sel)})
		for _, other := range model.GroupKinds {
			if other == sel.GroupKind {
				continue
			}
			assets = append(assets, model.Asset{
				Facet: model.Facet{Type: model.FacetDimension, Secondary: other},
				Path:  dimensionFacetPath(sel, other),
			})
		}
	} else {
		assets = append(assets, model.Asset{Facet: model.Facet{Type: model.FacetMain}, Path: tmpl(sel)})
	}

	if sel.MapKind.RegionLike() {
		assets = append(assets, model.Asset{
			Facet: model.Facet{Type: model.FacetRegionMap, MapKind: sel.MapKind},
			Path:  regionMapPath(sel),
		})
	}
	return assets, nil
}

// Resolve plans the figures of a selection and checks each against the
// asset store. A missing asset is reported as StatusNotFound, not as an
// error; errors are returned only for invalid selections or unreadable
// stores.
func (r *Resolver) Resolve(sel model.Selection) (model.Resolution, error) {
	assets, err := r.Plan(sel)
	if err != nil {
		return model.Resolution{}, err
	}

	for i := range assets {
		status, err := r.stat(assets[i].Path)
		if err != nil {
			return model.Resolution{}, fmt.Errorf("checking %s: %w", assets[i].Path, err)
		}
		assets[i].Status = status
	}

	return model.Resolution{
		Selection:  sel,
		Primary:    assets[0],
		Companions: assets[1:],
		Caption:    Caption(sel),
	}, nil
}

// Caption is the text shown under the main figure.
func Caption(sel model.Selection) string {
	return fmt.Sprintf("%s for %s in %s", sel.Metric.Label(), sel.GroupValue, sel.MapKind.Label())
}

func (r *Resolver) check(sel model.Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	if err := model.CheckGroupValue(sel.GroupValue); err != nil {
		return err
	}
	if r.lists != nil && !r.lists.Contains(sel.GroupKind, sel.GroupValue) {
		if owners := r.lists.KindsOf(sel.GroupValue); len(owners) > 0 {
			labels := make([]string, len(owners))
			for i, k := range owners {
				labels[i] = k.Label()
			}
			return fmt.Errorf("%w: %q is not a %s (listed under %s)", model.ErrInvalidSelection,
				sel.GroupValue, sel.GroupKind.Label(), strings.Join(labels, ", "))
		}
		return fmt.Errorf("%w: %q is not a %s", model.ErrInvalidSelection, sel.GroupValue, sel.GroupKind.Label())
	}
	return nil
}

func (r *Resolver) stat(name string) (model.AssetStatus, error) {
	info, err := fs.Stat(r.assets, name)
	switch {
	case err == nil && !info.IsDir():
		return model.StatusFound, nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return model.StatusNotFound, nil
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrInvalid) {
			return model.StatusNotFound, nil
		}
		return "", err
	}
}
