package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smartserve/internal/dish"
	"smartserve/internal/forecast"
	"smartserve/internal/fridge"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type view int

const (
	viewMenu view = iota
	viewFridge
	viewForecast
)

const (
	menuFridge   = "Pack the Fridge"
	menuForecast = "Forecast an Event"
	menuExit     = "Exit"
)

// Forecast form fields, in focus order
const (
	fieldEvent = iota
	fieldAudience
	fieldFootfall
	fieldDate
	fieldCount
)

// Model defines the application state
type Model struct {
	menu    list.Model
	current view

	// fridge game
	game      *fridge.Game
	cursorRow int
	cursorCol int
	choice    int

	// forecast form
	inputs      []textinput.Model
	focus       int
	spinner     spinner.Model
	ingredients table.Model
	result      *ForecastResult
	loading     bool
	error       string

	client *ApiClient
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel(client *ApiClient, opts fridge.Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: menuFridge, desc: "Fit the groceries into the fridge"},
		item{title: menuForecast, desc: "Predict food quantity and scale a dish"},
		item{title: menuExit, desc: "Exit the application"},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 40, 14)
	menu.Title = "SmartServe"
	if client.Local {
		menu.Title += " (local)"
	}

	placeholders := []string{"Corporate Lunch", "Professionals", "100", "2025-03-01"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 30
		inputs[i] = ti
	}
	inputs[fieldFootfall].CharLimit = 7
	inputs[fieldEvent].Focus()

	ingredients := table.New(
		table.WithColumns([]table.Column{
			{Title: "Ingredient", Width: 28},
			{Title: "Quantity", Width: 12},
			{Title: "Share", Width: 8},
		}),
		table.WithHeight(8),
	)

	return Model{
		menu:        menu,
		current:     viewMenu,
		game:        fridge.NewGame("cli", opts, nil),
		inputs:      inputs,
		spinner:     s,
		ingredients: ingredients,
		client:      client,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Custom message types for the tea.Model
type forecastMsg struct {
	result *ForecastResult
}

type errorMsg struct {
	err string
}

// requestForecast fetches a forecast in the background
func requestForecast(client *ApiClient, ev forecast.EventDetails) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := client.Forecast(ctx, ev)
		if err != nil {
			if errors.Is(err, forecast.ErrMissingFields) {
				return errorMsg{err: forecast.MsgMissingFields}
			}
			return errorMsg{err: fmt.Sprintf("Failed to get forecast. Error: %v", err)}
		}
		return forecastMsg{result: result}
	}
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.menu.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.current {
		case viewMenu:
			return m.updateMenu(msg)
		case viewFridge:
			return m.updateFridge(msg), nil
		case viewForecast:
			return m.updateForecast(msg)
		}
	case forecastMsg:
		m.loading = false
		m.error = ""
		m.result = msg.result
		m.ingredients.SetRows(ingredientRows(msg.result))
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		selected, ok := m.menu.SelectedItem().(item)
		if !ok {
			return m, nil
		}
		switch selected.title {
		case menuExit:
			return m, tea.Quit
		case menuFridge:
			m.current = viewFridge
		case menuForecast:
			m.current = viewForecast
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) updateFridge(msg tea.KeyMsg) Model {
	s := m.game.Snapshot()
	switch key := msg.String(); key {
	case "esc", "q":
		m.current = viewMenu
	case "up", "k":
		m.cursorRow = clamp(m.cursorRow-1, s.Grid.Rows())
	case "down", "j":
		m.cursorRow = clamp(m.cursorRow+1, s.Grid.Rows())
	case "left", "h":
		m.cursorCol = clamp(m.cursorCol-1, s.Grid.Cols())
	case "right", "l":
		m.cursorCol = clamp(m.cursorCol+1, s.Grid.Cols())
	case "tab":
		if len(s.Available) > 0 {
			m.choice = (m.choice + 1) % len(s.Available)
			m.game.Select(s.Available[m.choice].ID)
		}
	case "enter", " ":
		m.game.Place(m.cursorRow, m.cursorCol)
		m.choice = 0
	case "r":
		m.game.Reset()
		m.choice = 0
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(s.Available) {
			m.choice = n - 1
			m.game.Select(s.Available[m.choice].ID)
		}
	}
	return m
}

func (m Model) updateForecast(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.current = viewMenu
		return m, nil
	case "tab", "down":
		return m.focusField((m.focus + 1) % fieldCount), nil
	case "shift+tab", "up":
		return m.focusField((m.focus + fieldCount - 1) % fieldCount), nil
	case "enter":
		if m.loading {
			return m, nil
		}
		ev, err := m.eventDetails()
		if err != nil {
			m.error = forecast.MsgMissingFields
			return m, nil
		}
		m.loading = true
		m.error = ""
		return m, tea.Batch(m.spinner.Tick, requestForecast(m.client, ev))
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) Model {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

// eventDetails reads the form. Empty fields fall back to the placeholder
// so the form can be submitted as shown.
func (m Model) eventDetails() (forecast.EventDetails, error) {
	value := func(i int) string {
		if v := strings.TrimSpace(m.inputs[i].Value()); v != "" {
			return v
		}
		return m.inputs[i].Placeholder
	}
	footfall, err := strconv.Atoi(value(fieldFootfall))
	if err != nil {
		return forecast.EventDetails{}, forecast.ErrMissingFields
	}
	ev := forecast.EventDetails{
		EventType:       value(fieldEvent),
		AudienceProfile: value(fieldAudience),
		Footfall:        footfall,
		Date:            value(fieldDate),
	}
	return ev, forecast.Validate(ev)
}

func ingredientRows(r *ForecastResult) []table.Row {
	rows := make([]table.Row, len(r.Dish.Ingredients))
	for i, ing := range r.Dish.Ingredients {
		rows[i] = table.Row{ing.Name, ing.Display + " " + ing.Unit, ing.Proportion}
	}
	return rows
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// View renders the UI
func (m Model) View() string {
	switch m.current {
	case viewFridge:
		return docStyle.Render(fridgeView(m.game.Snapshot(), m.cursorRow, m.cursorCol))
	case viewForecast:
		return docStyle.Render(m.forecastView())
	default:
		return docStyle.Render(m.menu.View())
	}
}

func (m Model) forecastView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Forecast an Event") + "\n\n")

	labels := []string{"Event type", "Audience", "Footfall", "Date"}
	for i, in := range m.inputs {
		fmt.Fprintf(&b, "%-11s %s\n", labels[i]+":", in.View())
	}
	switch m.focus {
	case fieldEvent:
		b.WriteString(helpStyle.Render("one of: "+strings.Join(dish.EventTypes(), ", ")) + "\n")
	case fieldAudience:
		b.WriteString(helpStyle.Render("one of: "+strings.Join(forecast.AudienceProfiles(), ", ")) + "\n")
	}
	b.WriteString(helpStyle.Render("\ntab to move, enter to forecast, esc to go back") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Forecasting...\n")
	case m.error != "":
		b.WriteString(errorStyle.Render(m.error) + "\n")
	case m.result != nil:
		resp := m.result.Response
		b.WriteString(successStyle.Render(fmt.Sprintf("Predicted food quantity: %g", resp.PredictedFoodQuantity)) + "\n")
		if resp.WasteReductionPotential != nil {
			fmt.Fprintf(&b, "Waste reduction potential: %g\n", *resp.WasteReductionPotential)
		}
		d := m.result.Dish
		fmt.Fprintf(&b, "\n%s\n%s\n", infoStyle.Render(d.DishName), d.Description)
		fmt.Fprintf(&b, "Total weight %.2f kg, about %.0f servings\n\n", d.TotalWeightKg, d.EstimatedServings)
		b.WriteString(m.ingredients.View() + "\n")
	}
	return b.String()
}
