// Package ui renders the chat session and agent profile as line-mode
// terminal output. It is used when the full-screen interface is not
// available (pipes, dumb terminals) or when --plain is set.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"light-chat/internal/agent"
	"light-chat/internal/history"
	"light-chat/internal/terminal"
)

// Color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// knowledgeExcerptWords bounds each knowledge document preview
const knowledgeExcerptWords = 24

// Display writes the conversation to a terminal-like writer
type Display struct {
	out       io.Writer
	width     int
	color     bool
	agentName string
	renderer  *glamour.TermRenderer
	spinner   *terminal.Spinner
}

// Options controls how a Display renders
type Options struct {
	Width int    // wrap width; 80 when zero
	Theme string // glamour style: auto, dark, light, notty
	Color bool   // emit ANSI colors and the spinner
}

// NewDisplay creates a display writing to out
func NewDisplay(out io.Writer, opts Options) *Display {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	style := glamour.WithAutoStyle()
	if opts.Theme != "" && opts.Theme != "auto" {
		style = glamour.WithStandardStyle(opts.Theme)
	}
	if !opts.Color {
		style = glamour.WithStandardStyle("notty")
	}

	// Create markdown renderer
	renderer, _ := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(max(20, width-10)),
	)

	return &Display{
		out:       out,
		width:     width,
		color:     opts.Color,
		agentName: "Agent",
		renderer:  renderer,
		spinner:   terminal.NewSpinner(out),
	}
}

// SetAgentName sets the label used for agent entries
func (d *Display) SetAgentName(name string) {
	if strings.TrimSpace(name) != "" {
		d.agentName = name
	}
}

func (d *Display) paint(code, s string) string {
	if !d.color {
		return s
	}
	return code + s + colorReset
}

// ClearScreen clears the terminal
func (d *Display) ClearScreen() {
	if d.color {
		fmt.Fprint(d.out, "\033[2J\033[H")
	}
}

// PrintWelcome displays the banner and available commands
func (d *Display) PrintWelcome(backendURL string) {
	fmt.Fprintln(d.out, d.paint(colorBold+colorCyan, "light-chat · "+d.agentName))
	fmt.Fprintf(d.out, "%s %s\n", d.paint(colorGray, "Backend:"), backendURL)
	fmt.Fprintf(d.out, "%s /being | /history [n] | /clear | /exit\n", d.paint(colorGray, "Commands:"))
	fmt.Fprintln(d.out)
}

// PrintEmptyState invites the user to start chatting
func (d *Display) PrintEmptyState() {
	fmt.Fprintln(d.out, d.paint(colorDim, "Start a conversation: send a message to begin chatting with your AI agent."))
}

// PrintPrompt displays user input prompt
func (d *Display) PrintPrompt() {
	fmt.Fprintf(d.out, "\n%s ", d.paint(colorBold+colorGreen, "❯"))
}

// PrintEntry renders one log entry. Agent entries are rendered as markdown.
func (d *Display) PrintEntry(e history.Entry) {
	stamp := e.CreatedAt.Format("15:04:05")
	bar := d.paint(colorGray, "│")

	if e.IsUser() {
		fmt.Fprintf(d.out, "\n%s\n", d.paint(colorGray, "┌─ You · "+stamp))
		for _, line := range strings.Split(e.Content, "\n") {
			fmt.Fprintf(d.out, "%s %s\n", bar, line)
		}
		fmt.Fprintln(d.out, d.paint(colorGray, "└"))
		return
	}

	fmt.Fprintf(d.out, "\n%s\n", d.paint(colorGray, "┌─ "+d.agentName+" · "+stamp))
	for _, line := range strings.Split(d.renderMarkdown(e.Content), "\n") {
		fmt.Fprintf(d.out, "%s %s\n", bar, line)
	}
	fmt.Fprintln(d.out, d.paint(colorGray, "└"))
}

// PrintHint shows a dim one-line diagnostic category under a fallback entry
func (d *Display) PrintHint(hint string) {
	if hint == "" {
		return
	}
	fmt.Fprintln(d.out, d.paint(colorDim, "  ("+hint+")"))
}

// StartThinking shows the pending indicator
func (d *Display) StartThinking() {
	if d.color {
		d.spinner.Start("Thinking...")
		return
	}
	fmt.Fprintln(d.out, "Thinking...")
}

// StopThinking removes the pending indicator
func (d *Display) StopThinking() {
	d.spinner.Stop()
}

// PrintHistory shows the given entries of a conversation started at started
func (d *Display) PrintHistory(entries []history.Entry, started time.Time) {
	if len(entries) == 0 {
		d.PrintInfo("No conversation history yet")
		return
	}

	d.PrintSeparator()
	fmt.Fprintf(d.out, "Conversation History (session started %s)\n", started.Format("15:04:05"))
	d.PrintSeparator()

	for _, e := range entries {
		who := "You"
		if !e.IsUser() {
			who = d.agentName
		}
		fmt.Fprintf(d.out, "\n[%s] %s:\n%s\n", e.CreatedAt.Format("15:04:05"), who, e.Content)
	}

	d.PrintSeparator()
}

// PrintProfile renders the agent profile
func (d *Display) PrintProfile(p agent.Profile) {
	d.PrintSeparator()
	fmt.Fprintln(d.out, d.paint(colorBold+colorCyan, p.Name))
	if p.Bio != "" {
		fmt.Fprintln(d.out, p.Bio)
	}
	d.PrintSeparator()

	d.section("Basic Information")
	fmt.Fprintf(d.out, "  Model Provider:    %s\n", p.ModelProvider)
	fmt.Fprintf(d.out, "  Context ID:        %s\n", p.ContextID)
	fmt.Fprintf(d.out, "  Knowledge Base:    %d documents\n", len(p.Knowledge))
	fmt.Fprintf(d.out, "  Example Responses: %d examples\n", len(p.ExampleResponses))

	if p.Personality != "" {
		d.section("Personality")
		fmt.Fprintln(d.out, indent(p.Personality, "  "))
	}

	if p.System != "" {
		d.section("System Prompt")
		fmt.Fprintln(d.out, indent(p.System, "  "))
	}

	if len(p.Knowledge) > 0 {
		d.section("Knowledge Base")
		for i, doc := range p.Knowledge {
			fmt.Fprintf(d.out, "  %d. %s\n", i+1, Excerpt(doc, knowledgeExcerptWords))
		}
	}

	if len(p.ExampleResponses) > 0 {
		d.section("Example Responses")
		for _, r := range p.ExampleResponses {
			fmt.Fprintf(d.out, "  • %s\n", truncate(cleanText(r), d.width-6))
		}
	}
	d.PrintSeparator()
}

// PrintProfileUnavailable is shown when the profile could not be loaded
func (d *Display) PrintProfileUnavailable() {
	fmt.Fprintln(d.out, d.paint(colorRed, "✗ Failed to fetch agent details"))
}

func (d *Display) section(title string) {
	fmt.Fprintf(d.out, "\n%s\n", d.paint(colorBold, title))
}

// PrintSeparator prints a visual separator
func (d *Display) PrintSeparator() {
	line := strings.Repeat("─", min(d.width, 80))
	fmt.Fprintln(d.out, d.paint(colorDim, line))
}

// PrintInfo displays info message
func (d *Display) PrintInfo(msg string) {
	fmt.Fprintln(d.out, d.paint(colorCyan, "ℹ "+msg))
}

// PrintWarning displays warning message
func (d *Display) PrintWarning(msg string) {
	fmt.Fprintln(d.out, d.paint(colorYellow, "⚠ "+msg))
}

// PrintSuccess displays success message
func (d *Display) PrintSuccess(msg string) {
	fmt.Fprintln(d.out, d.paint(colorGreen, "✓ "+msg))
}

// PrintGoodbye displays goodbye message
func (d *Display) PrintGoodbye() {
	fmt.Fprintf(d.out, "\n%s\n", d.paint(colorBold+colorCyan, "Goodbye!"))
}

// PrintElapsed shows how long the last exchange took
func (d *Display) PrintElapsed(elapsed time.Duration) {
	fmt.Fprintln(d.out, d.paint(colorGray, "  ⏱ "+formatDuration(elapsed)))
}

func (d *Display) renderMarkdown(s string) string {
	if d.renderer == nil {
		return s
	}
	rendered, err := d.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(rendered, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
