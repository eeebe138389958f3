package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/padasch/french-nfi-dashboard/internal/model"
	"github.com/padasch/french-nfi-dashboard/internal/store"
)

const (
	defaultPreviewRows = 50
	maxPreviewRows     = 500
)

type pageSet map[model.Page]*template.Template

func loadPages() (pageSet, error) {
	files := map[model.Page]string{
		model.PageHome:           "templates/home.html",
		model.PageVisualizations: "templates/visualizations.html",
		model.PageDataset:        "templates/dataset.html",
	}
	pages := make(pageSet, len(files))
	for p, file := range files {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		pages[p] = t
	}
	return pages, nil
}

type navItem struct {
	Title  string
	Href   string
	Active bool
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type figure struct {
	Title       string
	URL         string
	DisplayPath string
	Found       bool
}

type pageData struct {
	Title string
	Nav   []navItem
	Error string

	// Visualizations
	Kinds      []option
	Groups     []option
	Metrics    []option
	Maps       []option
	FromKind   string
	Caption    string
	Main       *figure
	Companions []figure

	// Dataset
	Columns     []model.DatasetColumn
	Missing     []string
	Preview     *store.Page
	ImportedAt  string
	PrevOffset  int
	NextOffset  int
	HasPrev     bool
	HasNext     bool
	HasDataset  bool
	DownloadURL string
}

func newPageData(current model.Page) pageData {
	hrefs := map[model.Page]string{
		model.PageHome:           "/",
		model.PageVisualizations: "/visualizations",
		model.PageDataset:        "/dataset",
	}
	d := pageData{Title: current.Title()}
	for _, p := range model.Pages {
		d.Nav = append(d.Nav, navItem{Title: p.Title(), Href: hrefs[p], Active: p == current})
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, pages pageSet, p model.Page, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages[p].Execute(w, data); err != nil {
		s.Logger.Error("rendering page", "page", p, "error", err)
	}
}

func (s *Server) handleHome(pages pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, pages, model.PageHome, http.StatusOK, newPageData(model.PageHome))
	}
}

// viewStateFromQuery rebuilds the session state from the form. The hidden
// "from" field carries the kind the form was rendered with, so a kind
// change can be told apart from a bad group value.
func (s *Server) viewStateFromQuery(q url.Values) (model.ViewState, error) {
	v := model.ViewState{Page: model.PageVisualizations}

	kind := model.GroupSpecies
	if raw := q.Get("kind"); raw != "" {
		k, err := model.ParseGroupKind(raw)
		if err != nil {
			return v, err
		}
		kind = k
	}

	prev := kind
	if raw := q.Get("from"); raw != "" {
		if k, err := model.ParseGroupKind(raw); err == nil {
			prev = k
		}
	}
	v.GroupKind = prev
	v.GroupValue = q.Get("group")
	v = v.WithGroupKind(kind, s.Lists)

	metric := model.Metrics[0]
	if raw := q.Get("metric"); raw != "" {
		m, err := model.ParseMetric(raw)
		if err != nil {
			return v, err
		}
		metric = m
	}
	v = v.WithMetric(metric)

	mapKind := model.MapKinds[0]
	if raw := q.Get("map"); raw != "" {
		m, err := model.ParseMapKind(raw)
		if err != nil {
			return v, err
		}
		mapKind = m
	}
	return v.WithMapKind(mapKind), nil
}

func (s *Server) handleVisualizations(pages pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(model.PageVisualizations)

		v, err := s.viewStateFromQuery(r.URL.Query())
		if err == nil {
			var sel model.Selection
			if sel, err = v.Selection(); err == nil {
				var res model.Resolution
				if res, err = s.Resolver.Resolve(sel); err == nil {
					s.Metrics.ObserveResolution(res)
					data.Caption = res.Caption
					primary := s.figure(res.Caption, res.Primary)
					data.Main = &primary
					for _, c := range res.Companions {
						data.Companions = append(data.Companions, s.figure(facetTitle(sel, c.Facet), c))
					}
				}
			}
		}
		s.fillSelectors(&data, v)

		status := http.StatusOK
		if err != nil {
			if !errors.Is(err, model.ErrInvalidSelection) {
				s.Logger.Error("resolving selection", "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			s.Metrics.ObserveInvalid()
			data.Error = err.Error()
			status = http.StatusBadRequest
		}
		s.render(w, pages, model.PageVisualizations, status, data)
	}
}

func (s *Server) fillSelectors(d *pageData, v model.ViewState) {
	kind := v.GroupKind
	if !kind.Valid() {
		kind = model.GroupSpecies
	}
	d.FromKind = string(kind)
	for _, k := range model.GroupKinds {
		d.Kinds = append(d.Kinds, option{Value: string(k), Label: k.Label(), Selected: k == kind})
	}
	for _, g := range s.Lists.Values(kind) {
		d.Groups = append(d.Groups, option{Value: g, Label: g, Selected: g == v.GroupValue})
	}
	for _, m := range model.Metrics {
		d.Metrics = append(d.Metrics, option{Value: string(m), Label: m.Label(), Selected: m == v.Metric})
	}
	for _, m := range model.MapKinds {
		d.Maps = append(d.Maps, option{Value: string(m), Label: m.Label(), Selected: m == v.MapKind})
	}
}

func (s *Server) figure(title string, a model.Asset) figure {
	return figure{
		Title:       title,
		URL:         (&url.URL{Path: "/figs/" + a.Path}).String(),
		DisplayPath: path.Join(filepath.ToSlash(s.AssetsDir), a.Path),
		Found:       a.Found(),
	}
}

func facetTitle(sel model.Selection, f model.Facet) string {
	switch f.Type {
	case model.FacetDimension:
		return fmt.Sprintf("%s by %s", sel.GroupKind.Label(), f.Secondary.Label())
	case model.FacetRegionMap:
		return fmt.Sprintf("%s on %s map", sel.GroupValue, f.MapKind.Label())
	default:
		return sel.GroupValue
	}
}

func (s *Server) handleDataset(pages pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(model.PageDataset)
		data.Columns = model.DatasetColumns
		data.DownloadURL = "/dataset/download"

		limit := queryInt(r, "limit", defaultPreviewRows)
		if limit <= 0 || limit > maxPreviewRows {
			limit = defaultPreviewRows
		}
		offset := queryInt(r, "offset", 0)
		if offset < 0 {
			offset = 0
		}

		if s.Store != nil {
			page, err := s.Store.Preview(limit, offset)
			switch {
			case errors.Is(err, store.ErrNoDataset):
			case err != nil:
				s.Logger.Error("reading dataset preview", "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			default:
				data.HasDataset = true
				data.Preview = page
				data.HasPrev = offset > 0
				data.PrevOffset = max(offset-limit, 0)
				data.HasNext = offset+limit < page.Total
				data.NextOffset = offset + limit
				if missing, err := s.Store.MissingColumns(model.DatasetColumnNames()); err == nil {
					data.Missing = missing
				}
				if info, err := s.Store.LastImport(); err == nil {
					data.ImportedAt = info.ImportedAt.Format("2006-01-02 15:04 MST")
				} else if !errors.Is(err, store.ErrNoDataset) {
					s.Logger.Warn("reading import metadata", "error", err)
				}
				if s.Metrics != nil {
					s.Metrics.DatasetRows.Set(float64(page.Total))
				}
			}
		}
		s.render(w, pages, model.PageDataset, http.StatusOK, data)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !s.Limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "too many downloads, retry shortly", http.StatusTooManyRequests)
		return
	}
	if s.DatasetPath == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(s.DatasetPath); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(s.DatasetPath)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, s.DatasetPath)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
