package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/manor-mystery/internal/game"
	"github.com/jwebster45206/manor-mystery/pkg/actor"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "Ask a question, or type /help..."
)

type entryKind int

const (
	entryNarrator entryKind = iota
	entryUser
	entryReply
	entryError
	entryHelp
)

// entry is one block of the transcript, re-wrapped whenever the window resizes.
type entry struct {
	kind    entryKind
	speaker string
	text    string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx          context.Context
	game         *game.Game
	transcript   []entry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	// Last person questioned, for plain-text follow-ups
	lastListener int
	lastReply    string
	announced    bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

const helpText = `Commands:
• /look - Describe the room, its guests and exits
• /move <room> - Walk to a room (name, prefix or id)
• /ask <name>: <question> - Question someone in the room
• /inv <name> - Ask someone what they carry
• /accuse <name> - Name the murderer
• /help - Show this help
• Ctrl+Y - Copy the last reply
• Ctrl+C - Quit game

Plain text asks the last person you questioned.
Every action except /look and /help spends a turn.`

func NewConsoleUI(ctx context.Context, g *game.Game) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	m := ConsoleUI{
		ctx:          ctx,
		game:         g,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		lastListener: actor.UserID,
	}
	m.narrate(introText(g))
	m.narrate(describeRoom(g))
	return m
}

func introText(g *game.Game) string {
	loc := g.Location()
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\nOne of the guests is a murderer. You have %d turns to name them before time runs out, and the household grows wary of a detective who asks too much.",
		loc.Name, loc.Description, loc.Event, g.State().MaxTurns)
}

func describeRoom(g *game.Game) string {
	room := g.CurrentRoom()
	var b strings.Builder
	fmt.Fprintf(&b, "You are in the %s. %s", room.Name, room.Description)

	others := g.OthersInCurrentRoom()
	if len(others) == 0 {
		b.WriteString("\nNobody else is here.")
	} else {
		b.WriteString("\nHere with you:")
		for _, p := range others {
			fmt.Fprintf(&b, "\n  [%d] %s, the %s", p.ID, p.Name, strings.ToLower(p.Job))
		}
	}

	exits := g.ConnectedRooms()
	if len(exits) > 0 {
		names := make([]string, 0, len(exits))
		for _, r := range exits {
			names = append(names, r.Name)
		}
		b.WriteString("\nExits: " + strings.Join(names, ", "))
	}
	return b.String()
}

func writeMetadata(g *game.Game) string {
	var content strings.Builder
	gs := g.State()
	user := g.User()

	content.WriteString(titleStyle.Render("CASE FILE") + "\n\n")

	content.WriteString("Game ID:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	content.WriteString("Turn:\n")
	content.WriteString(fmt.Sprintf("%d of %d\n\n", gs.CurrentTurn, gs.MaxTurns))

	content.WriteString("Suspicion:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", user.Suspicion))

	content.WriteString("Room:\n")
	content.WriteString(g.CurrentRoom().Name + "\n\n")

	content.WriteString("Guests here:\n")
	others := g.OthersInCurrentRoom()
	if len(others) == 0 {
		content.WriteString("None\n")
	}
	for _, p := range others {
		content.WriteString(fmt.Sprintf("• %s (%s, asked %d)\n", p.Name, p.Mood, len(g.ExchangesWith(p.ID))))
		if known := p.KnownItems(); len(known) > 0 {
			names := make([]string, 0, len(known))
			for _, item := range known {
				names = append(names, item.Name)
			}
			content.WriteString("  carries " + strings.Join(names, ", ") + "\n")
		}
	}

	content.WriteString("\nYour pockets:\n")
	for _, item := range g.UserInventory() {
		content.WriteString("• " + item.Name + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")

	return content.String()
}

func (m *ConsoleUI) narrate(text string) {
	m.transcript = append(m.transcript, entry{kind: entryNarrator, speaker: AgentName, text: text})
}

func (m *ConsoleUI) fail(err error) {
	m.transcript = append(m.transcript, entry{kind: entryError, text: "Error: " + err.Error()})
}

// writeChatContent builds the chat content from the transcript for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("MANOR MYSTERY") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, e := range m.transcript {
		content.WriteString(formatEntry(e, chatWidth) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func formatEntry(e entry, width int) string {
	switch e.kind {
	case entryUser:
		prefix := "You: "
		if e.speaker != "" {
			prefix = "You to " + e.speaker + ": "
		}
		return userStyle.Render(prefix) + wordwrap.String(e.text, max(width-len(prefix), 10))
	case entryReply:
		prefix := e.speaker + ": "
		return speakerStyle.Render(prefix) + wordwrap.String(e.text, max(width-len(prefix), 10))
	case entryError:
		return errorStyle.Render(wordwrap.String(e.text, width))
	case entryHelp:
		return titleStyle.Render("Help:") + "\n" + e.text
	default:
		return narratorStyle.Render(e.speaker+":") + "\n" + wordwrap.String(e.text, width)
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.game))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLastReply()
			m.writeChatContent()
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case progressTickMsg:
		if m.loading {
			return m.pollConversation()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := parseCommand(input)
	if err != nil {
		m.fail(err)
		m.writeChatContent()
		return m, nil
	}

	if cmd.kind == cmdQuit {
		m.showQuitModal = true
		return m, nil
	}
	if !m.game.IsActive() && cmd.kind != cmdHelp && cmd.kind != cmdLook {
		m.fail(game.ErrGameOver)
		m.writeChatContent()
		return m, nil
	}

	var next tea.Cmd
	switch cmd.kind {
	case cmdHelp:
		m.transcript = append(m.transcript, entry{kind: entryHelp, text: helpText})
	case cmdLook:
		m.narrate(describeRoom(m.game))
	case cmdMove:
		next = m.move(cmd.target)
	case cmdAsk:
		next = m.ask(cmd.target, cmd.question)
	case cmdInventory:
		next = m.askInventory(cmd.target)
	case cmdAccuse:
		m.accuse(cmd.target)
	}

	m.announceEnd()
	m.writeChatContent()
	m.metaViewport.SetContent(writeMetadata(m.game))
	return m, next
}

func (m *ConsoleUI) move(target string) tea.Cmd {
	room, err := findRoom(m.game.Rooms(), target)
	if err != nil {
		m.fail(err)
		return nil
	}
	if err := m.game.MoveUser(m.ctx, room.ID); err != nil {
		m.fail(err)
		return nil
	}
	m.narrate(describeRoom(m.game))
	return nil
}

func (m *ConsoleUI) ask(target, question string) tea.Cmd {
	listener, err := m.listener(target)
	if err != nil {
		m.fail(err)
		return nil
	}
	if _, err := m.game.BeginConversation(m.ctx, listener.ID, question); err != nil {
		m.fail(err)
		return nil
	}
	m.transcript = append(m.transcript, entry{kind: entryUser, speaker: listener.Name, text: question})
	return m.startLoading(listener.ID)
}

func (m *ConsoleUI) askInventory(target string) tea.Cmd {
	listener, err := m.listener(target)
	if err != nil {
		m.fail(err)
		return nil
	}
	if _, err := m.game.AskAboutInventory(m.ctx, listener.ID); err != nil {
		m.fail(err)
		return nil
	}
	m.transcript = append(m.transcript, entry{kind: entryUser, speaker: listener.Name, text: game.InventoryQuestion})
	return m.startLoading(listener.ID)
}

// listener resolves target among the people in the room, falling back to the
// last person questioned.
func (m *ConsoleUI) listener(target string) (actor.Player, error) {
	if target == "" {
		if m.lastListener == actor.UserID {
			return actor.Player{}, errors.New("ask whom? try /ask <name>: <question>")
		}
		return m.game.Player(m.lastListener)
	}
	return findPlayer(m.game.OthersInCurrentRoom(), target)
}

func (m *ConsoleUI) startLoading(listenerID int) tea.Cmd {
	m.lastListener = listenerID
	m.loading = true
	m.progressTick = 0
	return progressTick()
}

func (m *ConsoleUI) accuse(target string) {
	var suspects []actor.Player
	for _, p := range m.game.Players() {
		if !p.IsUser() {
			suspects = append(suspects, p)
		}
	}
	accused, err := findPlayer(suspects, target)
	if err != nil {
		m.fail(err)
		return
	}
	correct, err := m.game.Accuse(m.ctx, actor.UserID, accused.ID)
	if err != nil {
		m.fail(err)
		return
	}
	if correct {
		m.narrate(fmt.Sprintf("You point at %s. The room falls silent, then the confession comes.", accused.Name))
		return
	}
	m.narrate(fmt.Sprintf("You point at %s, who protests their innocence. The other guests eye you coldly.", accused.Name))
}

// pollConversation runs on every progress tick until the worker's answer is in.
func (m ConsoleUI) pollConversation() (tea.Model, tea.Cmd) {
	ex, done, err := m.game.PollConversation(m.ctx)
	if err != nil {
		m.loading = false
		m.fail(err)
		m.writeChatContent()
		return m, nil
	}
	if !done {
		m.progressTick++
		m.writeChatContent()
		return m, progressTick()
	}

	m.loading = false
	listener, _ := m.game.Player(ex.ListenerID)
	m.lastReply = ex.Response
	m.transcript = append(m.transcript, entry{kind: entryReply, speaker: listener.Name, text: ex.Response})

	m.announceEnd()
	m.writeChatContent()
	m.metaViewport.SetContent(writeMetadata(m.game))
	return m, nil
}

// announceEnd writes the closing narration once, revealing the murderer.
func (m *ConsoleUI) announceEnd() {
	if m.game.IsActive() || m.announced {
		return
	}
	m.announced = true

	var b strings.Builder
	if m.game.State().Solved {
		b.WriteString("Case closed. You unmasked the murderer.")
	} else {
		fmt.Fprintf(&b, "The investigation is over: %s.", m.game.EndReason())
	}
	if murderer, err := m.game.Murderer(); err == nil {
		fmt.Fprintf(&b, "\nThe murderer was %s, the %s.", murderer.Name, strings.ToLower(murderer.Job))
		for _, item := range murderer.Inventory {
			if item.MurderWeapon {
				fmt.Fprintf(&b, " The weapon: %s.", strings.ToLower(item.Description))
			}
		}
	}
	b.WriteString("\nPress Ctrl+C to leave the manor.")
	m.narrate(b.String())
}

func (m *ConsoleUI) copyLastReply() {
	if m.lastReply == "" {
		m.fail(errors.New("nothing to copy yet"))
		return
	}
	if err := clipboard.WriteAll(m.lastReply); err != nil {
		m.fail(fmt.Errorf("copy to clipboard: %w", err))
		return
	}
	m.narrate("Copied the last reply to the clipboard.")
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case progressTickMsg:
		// Keep polling so a finished conversation is not lost behind the modal
		if m.loading {
			model, cmd := m.pollConversation()
			next := model.(ConsoleUI)
			next.showQuitModal = true
			return next, cmd
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	if m.game.IsActive() {
		content.WriteString("The murderer is still at large. Leave the manor anyway?")
	} else {
		content.WriteString("Leave the manor?")
	}
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	input := m.textarea.View()
	if m.loading {
		input = loadingStyle.Render("Waiting for an answer...")
	}

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			input,
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
