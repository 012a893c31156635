package components

import (
	"fmt"

	"github.com/allbin/servo-panel/internal/tui/styles"
)

// PortPicker cycles through the discovered serial ports
type PortPicker struct {
	ports    []string
	selected int
}

func NewPortPicker() *PortPicker {
	return &PortPicker{}
}

// SetPorts replaces the port list, keeping the current selection when it
// is still present and otherwise selecting the first port.
func (pp *PortPicker) SetPorts(ports []string) {
	current := pp.Selected()
	pp.ports = ports
	pp.selected = 0
	for i, p := range ports {
		if p == current {
			pp.selected = i
			return
		}
	}
}

// Select makes port the selection if it is in the list
func (pp *PortPicker) Select(port string) bool {
	for i, p := range pp.ports {
		if p == port {
			pp.selected = i
			return true
		}
	}
	return false
}

// Selected returns the selected port, or "" when none were found
func (pp *PortPicker) Selected() string {
	if len(pp.ports) == 0 {
		return ""
	}
	return pp.ports[pp.selected]
}

func (pp *PortPicker) Len() int {
	return len(pp.ports)
}

func (pp *PortPicker) Next() {
	if len(pp.ports) > 0 {
		pp.selected = (pp.selected + 1) % len(pp.ports)
	}
}

func (pp *PortPicker) Prev() {
	if len(pp.ports) > 0 {
		pp.selected = (pp.selected - 1 + len(pp.ports)) % len(pp.ports)
	}
}

func (pp *PortPicker) View() string {
	label := styles.LabelStyle.Render("Serial Port: ")
	if len(pp.ports) == 0 {
		return label + styles.ErrorStyle.Render("none found (r to refresh)")
	}
	return label + fmt.Sprintf("‹ %s › ", pp.Selected()) +
		styles.LabelStyle.Render(fmt.Sprintf("(%d/%d)", pp.selected+1, len(pp.ports)))
}
