package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/sirupsen/logrus"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.setError("read dir", err)
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !geom.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.setStatus("no supported files in current directory")
	}
}

// loadPath replaces the drawing with the features of p.
func (m *Model) loadPath(p string) {
	d, err := geom.LoadFile(p)
	if err != nil {
		m.setError("load", err)
		return
	}
	m.selPath = p
	if _, err := m.ctrl.ChangeMode(draw.ModeStatic, draw.ModeOptions{}); err != nil {
		m.setError("load", err)
		return
	}
	store := m.ctrl.Store()
	store.RemoveAllFeatures()
	if _, err := store.AddFeatures(draw.FromGeoJSON(d.Features)...); err != nil {
		m.setError("load", err)
		return
	}
	m.fitFeatures()

	pts, ls, polys := d.Counts()
	m.log.WithFields(logrus.Fields{"file": p, "points": pts, "lines": ls, "polygons": polys}).Info("loaded features")
	m.setStatus("loaded: " + filepath.Base(p) + fmt.Sprintf("  counts: pts=%d ls=%d poly=%d", pts, ls, polys))
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// pasteWKT adds the pasted geometries to the drawing.
func (m *Model) pasteWKT(text string) {
	d, err := geom.ParseWKTData(text)
	if err != nil {
		m.setError("wkt", err)
		return
	}
	if _, err := m.ctrl.Store().AddFeatures(draw.FromGeoJSON(d.Features)...); err != nil {
		m.setError("wkt", err)
		return
	}
	m.canvas.fit(d.Bound)
	pts, ls, polys := d.Counts()
	m.setStatus(fmt.Sprintf("added WKT  counts: pts=%d ls=%d poly=%d", pts, ls, polys))
}

// save writes the drawing, without handles, as GeoJSON.
func (m *Model) save() {
	fc := draw.ToGeoJSON(m.ctrl.Features())
	if err := geom.WriteGeoJSON(m.outPath, fc); err != nil {
		m.setError("save", err)
		return
	}
	m.log.WithFields(logrus.Fields{"file": m.outPath, "features": len(fc.Features)}).Info("saved drawing")
	m.setStatus(fmt.Sprintf("saved %d features to %s", len(fc.Features), filepath.Base(m.outPath)))
}
