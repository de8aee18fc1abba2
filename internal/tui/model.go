package tui

import (
	"io"
	"os"
	"path/filepath"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"geodraw/internal/draw"
)

// doubleClickWindow is the longest gap between two clicks on the same cell
// that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status    string
	statusErr bool

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string
	outPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// attributes table
	showAttrs bool
	tbl       table.Model
	attrIDs   []draw.ID

	canvas     *canvas
	ctrl       *draw.Controller
	log        logrus.FieldLogger
	now        func() time.Time
	pickRadius float64
	layerIDs   []string

	// the first window size makes the surface ready
	loaded bool

	ptr   pointer
	hover hover
}

// pointer tracks the left button between press and release.
type pointer struct {
	down    bool
	moved   bool
	panning bool
	// last position in micro-pixels and the press cell
	x, y         float64
	cellX, cellY int

	hasClick       bool
	lastClick      time.Time
	clickX, clickY int
}

type hover struct {
	inMap  bool
	lngLat orb.Point
	id     draw.ID
}

// Option customizes a Model.
type Option func(*Model)

// WithOutput sets the GeoJSON file written by the save key.
func WithOutput(path string) Option {
	return func(m *Model) { m.outPath = path }
}

// WithClock replaces time.Now for double-click detection.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New builds the terminal UI around a controller configured by cfg.
func New(cfg draw.Config, opts ...Option) (Model, error) {
	m := Model{
		helpVisible: true,
		status:      "geodraw ready",
		canvas:      newCanvas(),
		now:         time.Now,
		log:         cfg.Logger,
		pickRadius:  cfg.PickRadius,
		layerIDs:    cfg.LayerIDs,
	}
	if m.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		m.log = l
	}
	if m.pickRadius <= 0 {
		m.pickRadius = draw.DefaultPickRadius
	}
	m.cwd, _ = os.Getwd()
	m.outPath = filepath.Join(m.cwd, "drawing.geojson")
	for _, o := range opts {
		o(&m)
	}

	cfg.Logger = m.log
	ctrl, err := draw.New(m.canvas, m.canvas, cfg)
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl
	cv := m.canvas
	ctrl.Subscribe(func(ev draw.ChangeEvent) { cv.setFeatures(ev.Features) })
	cv.setFeatures(ctrl.Features())

	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one geometry per line. Press Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m, nil
}

// NewWithPath preloads a file's features at launch.
func NewWithPath(cfg draw.Config, path string, opts ...Option) (Model, error) {
	m, err := New(cfg, opts...)
	if err != nil {
		return Model{}, err
	}
	m.loadPath(path)
	return m, nil
}

// Controller exposes the drawing controller driven by the UI.
func (m Model) Controller() *draw.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd { return nil }

// fitFeatures centers the camera on every non-handle feature.
func (m *Model) fitFeatures() bool {
	var (
		b     orb.Bound
		found bool
	)
	for _, f := range m.ctrl.Features() {
		if f.IsHandle() || f.Geometry == nil {
			continue
		}
		if !found {
			b, found = f.Geometry.Bound(), true
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	if found {
		m.canvas.fit(b)
	}
	return found
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(what string, err error) {
	m.status, m.statusErr = what+": "+err.Error(), true
	m.log.WithError(err).Warn(what)
}
