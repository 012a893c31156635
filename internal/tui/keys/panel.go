package keys

import "github.com/charmbracelet/bubbles/key"

// PanelKeys are the bindings of the servo control panel
type PanelKeys struct {
	Quit        key.Binding
	Help        key.Binding
	NextChannel key.Binding
	Decrease    key.Binding
	Increase    key.Binding
	DecreaseBig key.Binding
	IncreaseBig key.Binding
	Send        key.Binding
	Connect     key.Binding
	PrevPort    key.Binding
	NextPort    key.Binding
	Refresh     key.Binding
}

func NewPanelKeys() PanelKeys {
	return PanelKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		NextChannel: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "up", "down", "k", "j"),
			key.WithHelp("tab", "switch servo"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "-1°"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "+1°"),
		),
		DecreaseBig: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("⇧←/H", "-10°"),
		),
		IncreaseBig: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("⇧→/L", "+10°"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "set servo"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect/disconnect"),
		),
		PrevPort: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous port"),
		),
		NextPort: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next port"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh ports"),
		),
	}
}

func (k PanelKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextChannel, k.Decrease, k.Increase, k.Send, k.Connect, k.Help, k.Quit}
}

func (k PanelKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextChannel, k.Decrease, k.Increase, k.DecreaseBig, k.IncreaseBig, k.Send},
		{k.Connect, k.PrevPort, k.NextPort, k.Refresh},
		{k.Help, k.Quit},
	}
}
