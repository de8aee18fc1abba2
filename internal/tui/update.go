package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geodraw/internal/draw"
)

const (
	zoomStep = 1.2
	panStep  = 8 // micro-pixels
)

// modeKeys switches modes from the keyboard.
var modeKeys = map[string]string{
	"esc": draw.ModeStatic,
	"s":   draw.ModeSelect,
	"e":   draw.ModeEdit,
	"P":   draw.ModePoint,
	"L":   draw.ModeLine,
	"G":   draw.ModePolygon,
	"C":   draw.ModeCircle,
	"R":   draw.ModeRectangle,
}

// warmUpDoneMsg arrives one frame after EventLoad, once the warm-up
// features have been drawn.
type warmUpDoneMsg struct{}

func warmUpDone() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return warmUpDoneMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		r := m.mapRect()
		m.canvas.resize(r.w, r.h)
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, r.h-2)
		}
		if !m.loaded {
			m.loaded = true
			m.fitFeatures()
			m.canvas.emit(draw.EventLoad, 0, 0)
			if m.ctrl.WarmingUp() {
				return m, warmUpDone()
			}
		}
	case warmUpDoneMsg:
		m.ctrl.EndWarmUp()
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "up", "down", "k", "j", "pgup", "pgdown":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			case "enter":
				m.editAttrRow()
				return m, nil
			case "esc", "a":
				m.showAttrs = false
				return m, nil
			}
		}
		if name, ok := modeKeys[msg.String()]; ok {
			m.changeMode(name)
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "x", "delete":
			m.removeSelected()
		case "w":
			m.save()
		case "+", "=":
			mw, mh := m.canvas.microSize()
			m.canvas.zoomAt(mw/2, mh/2, zoomStep)
		case "-", "_":
			mw, mh := m.canvas.microSize()
			m.canvas.zoomAt(mw/2, mh/2, 1/zoomStep)
		case "f":
			if !m.fitFeatures() {
				m.setStatus("nothing to fit")
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			r := m.mapRect()
			m.canvas.resize(r.w, r.h)
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, r.h-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.setStatus("paste mode")
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = true
			m.refreshAttrs()
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.canvas.panBy(0, panStep)
		case "down":
			m.canvas.panBy(0, -panStep)
		case "left":
			m.canvas.panBy(panStep, 0)
		case "right":
			m.canvas.panBy(-panStep, 0)
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.setStatus("paste cancelled")
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.setStatus("paste: empty")
			return m, nil
		}
		m.pasteWKT(w)
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m *Model) changeMode(name string) {
	if _, err := m.ctrl.ChangeMode(name, draw.ModeOptions{}); err != nil {
		m.setError("mode", err)
		return
	}
	m.setStatus("mode: " + name)
}

// removeSelected deletes the selected features. Edit mode falls back to
// select since its feature is gone.
func (m *Model) removeSelected() {
	store := m.ctrl.Store()
	ids := store.SelectedIDs()
	if len(ids) == 0 {
		m.setStatus("nothing selected")
		return
	}
	if name, _ := m.ctrl.Mode(); name == draw.ModeEdit {
		if _, err := m.ctrl.ChangeMode(draw.ModeSelect, draw.ModeOptions{}); err != nil {
			m.setError("delete", err)
			return
		}
	}
	store.RemoveFeatures(ids...)
	m.setStatus(fmt.Sprintf("deleted %d feature(s)", len(ids)))
}

// editAttrRow opens the highlighted table row in edit mode.
func (m *Model) editAttrRow() {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.attrIDs) {
		return
	}
	id := m.attrIDs[i]
	m.showAttrs = false
	if _, err := m.ctrl.ChangeMode(draw.ModeEdit, draw.ModeOptions{SelectedID: id}); err != nil {
		m.setError("edit", err)
		return
	}
	m.setStatus("editing " + string(id))
}

// toMicro maps a terminal cell to the center of its micro-pixel block.
func (m Model) toMicro(cx, cy int) (x, y float64, inMap bool) {
	r := m.mapRect()
	x = float64(cx-r.x)*2 + 1
	y = float64(cy-r.y)*4 + 2
	return x, y, r.contains(cx, cy) && !m.pasteMode && !m.showAttrs
}

// handleMouse turns terminal mouse reports into surface events. A press and
// release on the same cell is a click; a second click on that cell within
// doubleClickWindow is a double click instead. Dragging with the button
// held pans the camera while pan gestures are enabled.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y, inMap := m.toMicro(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionPress && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		if !inMap {
			return
		}
		f := zoomStep
		if msg.Button == tea.MouseButtonWheelDown {
			f = 1 / zoomStep
		}
		m.canvas.zoomAt(x, y, f)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inMap {
			return
		}
		m.ptr.down, m.ptr.moved, m.ptr.panning = true, false, false
		m.ptr.x, m.ptr.y = x, y
		m.ptr.cellX, m.ptr.cellY = msg.X, msg.Y
		m.canvas.emit(draw.EventDown, x, y)

	case msg.Action == tea.MouseActionMotion:
		if m.ptr.down {
			if msg.X != m.ptr.cellX || msg.Y != m.ptr.cellY {
				m.ptr.moved = true
			}
			if m.ptr.moved && m.canvas.pan {
				if !m.ptr.panning {
					m.ptr.panning = true
					m.canvas.emit(draw.EventPanStart, x, y)
				}
				m.canvas.panBy(x-m.ptr.x, y-m.ptr.y)
				m.ptr.x, m.ptr.y = x, y
				m.canvas.emit(draw.EventPanning, x, y)
				break
			}
			m.ptr.x, m.ptr.y = x, y
		}
		if inMap {
			m.canvas.emit(draw.EventMove, x, y)
		}

	case msg.Action == tea.MouseActionRelease:
		if !m.ptr.down {
			return
		}
		m.ptr.down = false
		if m.ptr.panning {
			m.ptr.panning = false
			m.canvas.emit(draw.EventPanEnd, x, y)
		}
		m.canvas.emit(draw.EventUp, x, y)
		if !m.ptr.moved && inMap {
			m.click(x, y, msg.X, msg.Y)
		}
	}
	m.updateHover(x, y, inMap)
}

func (m *Model) click(x, y float64, cx, cy int) {
	now := m.now()
	if m.ptr.hasClick && cx == m.ptr.clickX && cy == m.ptr.clickY && now.Sub(m.ptr.lastClick) <= doubleClickWindow {
		m.ptr.hasClick = false
		m.canvas.emit(draw.EventDoubleClick, x, y)
		if m.canvas.dblZoom {
			m.canvas.zoomAt(x, y, 2)
		}
		return
	}
	m.ptr.hasClick = true
	m.ptr.lastClick = now
	m.ptr.clickX, m.ptr.clickY = cx, cy
	m.canvas.emit(draw.EventClick, x, y)
}

func (m *Model) updateHover(x, y float64, inMap bool) {
	m.hover.inMap = inMap
	m.hover.id = ""
	if !inMap {
		return
	}
	m.hover.lngLat = m.canvas.Unproject(x, y)
	if id, ok := m.canvas.Pick(x, y, m.pickRadius, m.layerIDs); ok {
		m.hover.id = id
	}
}
