package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Group      key.Binding
	Sort       key.Binding
	Popularity key.Binding
	Rows       key.Binding
	LowerDown  key.Binding
	LowerUp    key.Binding
	UpperDown  key.Binding
	UpperUp    key.Binding
	RowRange   key.Binding
	Wider      key.Binding
	Narrower   key.Binding
	Search     key.Binding
	Detail     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Group, k.Sort, k.Detail, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Detail, k.Search},
		{k.Group, k.Sort, k.Wider, k.Narrower},
		{k.Popularity, k.LowerDown, k.LowerUp, k.UpperDown, k.UpperUp},
		{k.Rows, k.RowRange, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev bar"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next bar"),
	),
	Group: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "grouping"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "asc/desc"),
	),
	Popularity: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "popularity filter"),
	),
	Rows: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "row filter"),
	),
	LowerDown: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "min popularity -"),
	),
	LowerUp: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "min popularity +"),
	),
	UpperDown: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "max popularity -"),
	),
	UpperUp: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "max popularity +"),
	),
	RowRange: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "row range"),
	),
	Wider: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "wider bars"),
	),
	Narrower: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "narrower bars"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type detailKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Open   key.Binding
	Close  key.Binding
}

func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Open, k.Close}
}

func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var detailKeys = detailKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "expand"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "close"),
	),
}
