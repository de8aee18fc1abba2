package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// mapRect is the map area in terminal cells. View and the mouse handling
// both derive their layout from it.
func (m Model) mapRect() rect {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	r := rect{y: headerHeight, h: contentHeight}
	if m.showSidebar {
		r.x = sidebarWidth + 1
		r.w = contentWidth - sidebarWidth - 1
	} else {
		r.w = contentWidth - 1
	}
	r.w = max(10, r.w)
	return r
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	r := m.mapRect()
	contentWidth := max(10, m.width)

	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, r.h-2)
	}

	name, _ := m.ctrl.Mode()
	header := titleStyle.Render(" geodraw ─ " + name + " ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(r.w, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(r.h-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(r.w, r.h, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(r.w)
		m.ta.SetHeight(min(r.h, 12))
		mapView = lipgloss.NewStyle().Width(r.w).Height(r.h).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(r.w).Height(r.h).Render(m.canvas.render(m.hover.id))
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	help := m.renderHelp()
	statusStyle := dimStyle
	if m.statusErr {
		statusStyle = errStyle
	}
	status := statusStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hover.inMap {
		cursor := m.ctrl.Cursor(m.hover.id != "")
		coords = dimStyle.Render(fmt.Sprintf("  [%s] lon=%.5f lat=%.5f  ", cursor, m.hover.lngLat[0], m.hover.lngLat[1]))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"esc static",
		"s select",
		"e edit",
		"P/L/G/C/R draw",
		"x delete",
		"w save",
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"Tab files",
		"p paste",
		"a attrs",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
