// Package main provides the kcal CLI entry point.
// This file implements the interactive prediction form using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"kcal/cmd/kcal/ui"
	"kcal/internal/form"
	"kcal/internal/predict"
)

// keyMap lists the form's key bindings for bubbles/help.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Reset  key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Reset, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Submit, k.Reset},
		{k.Theme, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous field")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "predict")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Theme:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	Help:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "help")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// placeholders hint at each field's expected range.
var placeholders = map[string]string{
	form.FieldAge:       "1-120",
	form.FieldDuration:  "minutes (1-500)",
	form.FieldHeartRate: "bpm (20-220)",
	form.FieldBodyTemp:  "°C (30-45)",
}

// formModel is the bubbletea model for the prediction form.
type formModel struct {
	// UI components
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	helpBar  help.Model
	keys     keyMap
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// Controller state
	state  *form.State
	fields []string

	// Backend
	predictor predict.Predictor
	logger    *zap.Logger

	// Layout
	width    int
	height   int
	ready    bool
	showHelp bool
}

// Messages for tea updates.
type (
	predictResultMsg struct{ calories float64 }
	predictErrMsg    struct{ err error }
)

// newFormModel initializes the interactive form model.
func newFormModel(predictor predict.Predictor, styles ui.Styles, historyCap int, logger *zap.Logger) formModel {
	fields := form.Fields()

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.Prompt = "│ "
		ti.CharLimit = 12
		ti.Width = 20
		ti.PromptStyle = styles.Muted
		ti.TextStyle = styles.Body
		inputs[i] = ti
	}
	inputs[0].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	hb := help.New()

	return formModel{
		inputs:    inputs,
		spinner:   sp,
		helpBar:   hb,
		keys:      defaultKeys,
		styles:    styles,
		renderer:  newMarkdownRenderer(styles.Theme, 80),
		state:     form.New(historyCap),
		fields:    fields,
		predictor: predictor,
		logger:    logger,
	}
}

// newMarkdownRenderer builds the glamour renderer for the help overlay.
func newMarkdownRenderer(theme ui.Theme, width int) *glamour.TermRenderer {
	var renderer *glamour.TermRenderer
	if theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(width),
		)
	}
	return renderer
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Theme):
			m.applyTheme(m.styles.Theme.Toggle())
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			return m.handleReset()

		case key.Matches(msg, m.keys.Submit):
			// The trigger is inert while a request is in flight.
			if m.state.Loading() {
				return m, nil
			}
			return m.handleSubmit()

		case key.Matches(msg, m.keys.Next):
			return m.moveFocus(1)

		case key.Matches(msg, m.keys.Prev):
			return m.moveFocus(-1)
		}

		// Everything else edits the focused field.
		return m.handleFieldInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.helpBar.Width = msg.Width
		m.renderer = newMarkdownRenderer(m.styles.Theme, wrapWidth(msg.Width))
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case predictResultMsg:
		m.state.ApplySuccess(msg.calories, time.Now())
		return m, nil

	case predictErrMsg:
		m.logger.Warn("prediction failed", zap.Error(msg.err))
		m.state.ApplyFailure()
		return m, nil
	}

	return m, nil
}

// moveFocus shifts focus by delta, blurring the field being left so its
// validation message becomes visible.
func (m formModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.state.Blur(m.fields[m.focus])
	m.inputs[m.focus].Blur()

	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)

	m.inputs[m.focus].Focus()
	return m, textinput.Blink
}

// handleFieldInput routes a key to the focused textinput and syncs the
// controller state when the value actually changed.
func (m formModel) handleFieldInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	field := m.fields[m.focus]
	if value := m.inputs[m.focus].Value(); value != m.state.Value(field) {
		m.state.SetField(field, value)
	}
	return m, cmd
}

func (m formModel) handleReset() (tea.Model, tea.Cmd) {
	m.state.Reset()
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	return m, textinput.Blink
}

func (m formModel) handleSubmit() (tea.Model, tea.Cmd) {
	if !m.state.BeginSubmit() {
		return m, nil
	}

	// Values go out exactly as parsed; validation already gated submission.
	req := predict.Request{
		Age:       form.Number(m.state.Value(form.FieldAge)),
		Duration:  form.Number(m.state.Value(form.FieldDuration)),
		HeartRate: form.Number(m.state.Value(form.FieldHeartRate)),
		BodyTemp:  form.Number(m.state.Value(form.FieldBodyTemp)),
	}

	return m, tea.Batch(
		m.spinner.Tick,
		m.predictCmd(req),
	)
}

// predictCmd issues the one asynchronous request. It resolves to exactly one
// completion message, which is what clears the loading state.
func (m formModel) predictCmd(req predict.Request) tea.Cmd {
	return func() tea.Msg {
		calories, err := m.predictor.Predict(context.Background(), req)
		if err != nil {
			return predictErrMsg{err}
		}
		return predictResultMsg{calories}
	}
}

// wrapWidth derives the help overlay's word-wrap width from the terminal
// width, with a floor for tiny or not-yet-known sizes.
func wrapWidth(termWidth int) int {
	w := termWidth - 8
	if w < 20 {
		w = 20
	}
	return w
}

// applyTheme rebuilds every themed component.
func (m *formModel) applyTheme(theme ui.Theme) {
	m.styles = ui.NewStyles(theme)
	m.spinner.Style = m.styles.Spinner
	for i := range m.inputs {
		m.inputs[i].PromptStyle = m.styles.Muted
		m.inputs[i].TextStyle = m.styles.Body
	}
	m.renderer = newMarkdownRenderer(theme, wrapWidth(m.width))
}

func (m formModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	sections := []string{
		m.renderHeader(),
		m.renderFields(),
		m.renderOutcome(),
		m.renderHistory(),
		m.renderFooter(),
	}

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, nonEmpty...)
}

func (m formModel) renderHeader() string {
	title := m.styles.Header.Render(" kcal ")
	subtitle := m.styles.Subtitle.Render(" calorie predictor")

	var status string
	if m.state.Loading() {
		status = m.styles.Warning.Render("● Predicting")
	} else {
		status = m.styles.Success.Render("● Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, subtitle, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

func (m formModel) renderFields() string {
	var sb strings.Builder

	for i, f := range m.fields {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.LabelFocused
		}

		sb.WriteString(label.Render(form.Label(f)))
		sb.WriteString(m.inputs[i].View())

		if msg := m.state.VisibleError(f); msg != "" {
			sb.WriteString("  " + m.styles.FieldError.Render(msg))
		} else if f == form.FieldBodyTemp {
			if value := m.state.Value(f); value != "" {
				sb.WriteString("  " + m.renderTempHint(value))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderTempHint shows the informational Low/Normal/High grade next to the
// body-temperature field.
func (m formModel) renderTempHint(value string) string {
	hint := form.TempHint(value)
	var style lipgloss.Style
	switch hint {
	case "Low":
		style = m.styles.Info
	case "High":
		style = m.styles.Warning
	default:
		style = m.styles.Success
	}
	return m.styles.Hint.Render("temp ") + style.Render(hint)
}

func (m formModel) renderOutcome() string {
	if m.state.Loading() {
		return m.styles.Spinner.Render(m.spinner.View()) + m.styles.Muted.Render(" Predicting...")
	}

	if msg := m.state.ErrorMessage(); msg != "" {
		return m.styles.Error.Render(msg)
	}

	if calories, ok := m.state.Result(); ok {
		tier := form.Classify(calories)
		var tierStyle lipgloss.Style
		switch tier {
		case form.LightActivity:
			tierStyle = m.styles.ResultLight
		case form.ModerateActivity:
			tierStyle = m.styles.ResultModerate
		default:
			tierStyle = m.styles.ResultIntense
		}

		content := m.styles.ResultValue.Render(fmt.Sprintf("%.2f kcal", calories)) +
			"  " + tierStyle.Render(tier.Label())
		return m.styles.ResultPanel.Render(content)
	}

	return ""
}

func (m formModel) renderHistory() string {
	entries := m.state.History()
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.HistoryTitle.Render("Recent predictions"))
	for _, e := range entries {
		row := fmt.Sprintf("%.2f kcal · age %s · %s min · %s bpm · %s °C",
			e.Calories, e.Age, e.Duration, e.HeartRate, e.BodyTemp)
		sb.WriteString("\n" + m.styles.HistoryRow.Render(row) +
			"  " + m.styles.HistoryTime.Render(e.When))
	}
	return sb.String()
}

func (m formModel) renderFooter() string {
	return lipgloss.NewStyle().MarginTop(1).Render(m.helpBar.View(m.keys))
}

const helpMarkdown = `# kcal

Estimate calories burnt from four inputs: age, workout duration, average
heart rate, and body temperature.

| Key | Action |
|-----|--------|
| tab / shift+tab | next / previous field |
| ↓ / ↑ | next / previous field |
| enter | predict |
| ctrl+r | reset the form (history is kept) |
| ctrl+t | toggle light/dark theme |
| ctrl+g | toggle this help |
| esc / ctrl+c | quit |

Validation messages appear once a field has been visited. The three most
recent predictions are kept on screen and survive resets.
`

func (m formModel) renderHelpOverlay() string {
	rendered := m.safeRenderMarkdown(helpMarkdown)
	back := m.styles.Muted.Render("ctrl+g to go back")
	return lipgloss.JoinVertical(lipgloss.Left, rendered, back)
}

// safeRenderMarkdown renders markdown with panic recovery, falling back to
// the raw text.
func (m formModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

// runForm starts the full-screen interactive form.
func runForm(predictor predict.Predictor, styles ui.Styles, historyCap int, logger *zap.Logger) error {
	p := tea.NewProgram(
		newFormModel(predictor, styles, historyCap, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}
