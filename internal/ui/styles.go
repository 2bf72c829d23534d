package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base       lipgloss.Style
	Status     lipgloss.Style
	Bar        lipgloss.Style
	Focused    lipgloss.Style
	Selected   lipgloss.Style
	Marker     lipgloss.Style
	Time       lipgloss.Style
	Meta       lipgloss.Style
	Level      map[string]lipgloss.Style
	Help       lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Bar = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.Focused = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
		s.Selected = lipgloss.NewStyle().Background(lipgloss.Color("237"))
		s.Marker = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
		s.Time = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Bar = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
		s.Focused = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
		s.Selected = lipgloss.NewStyle().Background(lipgloss.Color("254"))
		s.Marker = lipgloss.NewStyle().Foreground(lipgloss.Color("27")).Bold(true)
		s.Time = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.Level = map[string]lipgloss.Style{
		"TRACE": lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"FATAL": lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	}
	return s
}

func (s Styles) level(lvl string) string {
	if lvl == "" {
		return "     "
	}
	st, ok := s.Level[lvl]
	if !ok {
		st = s.Meta
	}
	return st.Render(padRight(lvl, 5))
}
