package tui

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/odds"
	"github.com/lox/blackjack/internal/randutil"
)

const oddsTimeout = 5 * time.Second

// Options configures the TUI
type Options struct {
	DefaultBet   int
	TopUpAmount  int
	OddsSamples  int
	ShowOdds     bool // run the odds advisor at every decision
	ShowHoleCard bool // print the face-down card in the log (debugging)
	TestMode     bool
}

// TUIModel represents the Bubble Tea model for the blackjack table. It is the
// only caller of the session: every intent is dispatched from Update.
type TUIModel struct {
	session   *game.Session
	logger    *log.Logger
	formatter *game.EventFormatter
	rng       *rand.Rand
	opts      Options

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model
	help        help.Model

	// State
	gameLog     []string
	warning     string
	lastBet     int
	decision    int // bumped on every accepted intent so stale odds are dropped
	estimate    *odds.Estimate
	estimating  bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// oddsMsg carries a finished odds estimate back into the update loop
type oddsMsg struct {
	decision int
	estimate odds.Estimate
	err      error
}

// NewTUIModel creates a TUI model for the session and subscribes it to the
// session's events. The RNG seeds the odds advisor.
func NewTUIModel(session *game.Session, rng *rand.Rand, logger *log.Logger, opts Options) *TUIModel {
	if opts.DefaultBet <= 0 {
		opts.DefaultBet = game.DefaultBet
	}
	if opts.TopUpAmount <= 0 {
		opts.TopUpAmount = game.DefaultStartingChips
	}
	if opts.OddsSamples <= 0 {
		opts.OddsSamples = odds.DefaultSamples
	}

	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		session: session,
		logger:  logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			ShowHoleCard: opts.ShowHoleCard,
		}),
		rng:         rng,
		opts:        opts,
		logViewport: vp,
		actionInput: ti,
		help:        help.New(),
		gameLog:     []string{},
		lastBet:     opts.DefaultBet,
		focusedPane: 1, // Start with input focused
		testMode:    opts.TestMode,
		capturedLog: []string{},
	}
	session.EventBus().Subscribe(m)
	m.AddLogEntry(fmt.Sprintf("Welcome to the table. You have $%d in chips.", session.Chips()))
	m.AddLogEntry("Type 'help' for commands.")
	return m
}

// OnEvent implements game.EventSubscriber
func (m *TUIModel) OnEvent(event game.GameEvent) {
	switch event.(type) {
	case game.RoundStartEvent:
		m.estimate = nil
		m.AddLogEntry("")
	case game.RoundEndEvent:
		m.estimate = nil
	}
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case oddsMsg:
		m.handleOdds(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Focus):
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case msg.Type == tea.KeyEnter:
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processInput(input); cmd != nil {
					cmds = append(cmds, cmd)
				}
				if m.quitting {
					return m, tea.Quit
				}
			}
		case m.focusedPane == 0:
			switch {
			case key.Matches(msg, keys.Up):
				m.logViewport.ScrollUp(1)
			case key.Matches(msg, keys.Down):
				m.logViewport.ScrollDown(1)
			case key.Matches(msg, keys.PageUp):
				m.logViewport.HalfPageUp()
			case key.Matches(msg, keys.PageDown):
				m.logViewport.HalfPageDown()
			case key.Matches(msg, keys.Top):
				m.logViewport.GotoTop()
			case key.Matches(msg, keys.Bottom):
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processInput runs one line of user input and returns any follow-up command
func (m *TUIModel) processInput(input string) tea.Cmd {
	c, err := parseCommand(input, m.lastBet, m.opts.TopUpAmount)
	if err != nil {
		m.warning = err.Error()
		return nil
	}

	switch c.local {
	case "":
		return m.dispatch(c.intent)
	case cmdEnter:
		// Enter repeats the obvious next step
		switch m.session.Phase() {
		case game.Betting:
			return m.dispatch(game.PlaceBet{Amount: m.lastBet})
		case game.RoundOver:
			return m.dispatch(game.NewRound{})
		default:
			m.warning = "Choose: " + formatValidIntents(m.session.ValidIntents())
			return nil
		}
	case cmdOdds:
		return m.requestOdds()
	case cmdHistory:
		m.showHistory()
	case cmdHelp:
		m.showHelp()
	case cmdQuit:
		m.quitting = true
	}
	return nil
}

// dispatch applies an intent and turns rejections into warnings
func (m *TUIModel) dispatch(in game.Intent) tea.Cmd {
	m.logger.Debug("Dispatching intent", "intent", in.Kind(), "phase", m.session.Phase())

	if err := m.session.Dispatch(in); err != nil {
		m.logger.Debug("Intent rejected", "intent", in.Kind(), "error", err)
		m.warning = m.warningText(err)
		return nil
	}

	m.warning = ""
	m.decision++
	if bet, ok := in.(game.PlaceBet); ok {
		m.lastBet = bet.Amount
	}
	if in.Kind() == game.IntentNewRound && m.session.CanTopUp() {
		m.AddLogEntry(fmt.Sprintf("Your balance is low. Type 'add' to buy $%d in chips.", m.opts.TopUpAmount))
	}

	if m.opts.ShowOdds && m.session.Phase() == game.PlayerActing {
		return m.requestOdds()
	}
	return nil
}

// warningText maps a rejected intent to something the player can act on
func (m *TUIModel) warningText(err error) string {
	switch game.WarningFor(err) {
	case game.WarningInvalidBet:
		return fmt.Sprintf("Bets must be between $1 and your balance of $%d.", m.session.Chips())
	case game.WarningInsufficientChips:
		return fmt.Sprintf("You need $%d more to double.", m.session.CurrentBet()-m.session.Chips())
	case game.WarningTopUpDenied:
		return fmt.Sprintf("Chips can only be bought while your balance is below $%d.", m.session.TopUpThreshold())
	case game.WarningIllegalAction:
		return fmt.Sprintf("You can't do that now. Choose: %s", formatValidIntents(m.session.ValidIntents()))
	default:
		return err.Error()
	}
}

// requestOdds starts the odds advisor in the background
func (m *TUIModel) requestOdds() tea.Cmd {
	if m.session.Phase() != game.PlayerActing {
		m.warning = "Odds are available while it's your turn."
		return nil
	}
	dealer := m.session.DealerHand()
	if len(dealer.Cards) == 0 {
		return nil
	}

	sit := odds.Situation{
		Player:   m.session.PlayerHand().Cards,
		DealerUp: dealer.Cards[0],
		Unseen:   m.session.Unseen(),
	}
	seed := m.rng.Int64()
	samples := m.opts.OddsSamples
	decision := m.decision
	m.estimating = true

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), oddsTimeout)
		defer cancel()
		est, err := odds.Run(ctx, sit, samples, randutil.New(seed))
		return oddsMsg{decision: decision, estimate: est, err: err}
	}
}

// handleOdds applies an estimate unless the player has acted since it was
// requested; a newer request may still be running in that case.
func (m *TUIModel) handleOdds(msg oddsMsg) {
	if msg.decision != m.decision {
		m.logger.Debug("Discarding stale odds", "decision", msg.decision, "current", m.decision)
		return
	}
	m.estimating = false
	if msg.err != nil {
		m.logger.Warn("Odds estimate failed", "error", msg.err)
		m.warning = "Odds unavailable: " + msg.err.Error()
		return
	}
	m.estimate = &msg.estimate
	m.AddLogEntry("Odds: " + msg.estimate.String())
}

func (m *TUIModel) showHistory() {
	rounds := m.session.History()
	if len(rounds) == 0 {
		m.AddLogEntry("No rounds played yet.")
		return
	}
	start := max(0, len(rounds)-5)
	for _, r := range rounds[start:] {
		for _, line := range strings.Split(strings.TrimRight(r.Summary(), "\n"), "\n") {
			m.AddLogEntry(line)
		}
	}
}

func (m *TUIModel) showHelp() {
	for _, line := range []string{
		"Commands:",
		"  bet <amount> (or just the amount)  place a bet; Enter repeats the last bet",
		"  hit / h, stand / s, double / d     play your hand",
		"  new / n (or Enter)                 clear the table for the next round",
		"  add [amount]                       buy chips when your balance is low",
		"  odds / ?                           estimate hit vs stand",
		"  history                            show recent rounds",
		"  quit / q                           leave the table",
	} {
		m.AddLogEntry(line)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 0 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#626262"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight

	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder
	s := m.session
	records := s.Records()

	content.WriteString(HeaderStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	content.WriteString("\n\n")
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Chips: $%d", s.Chips())))
	content.WriteString("\n")
	if s.CurrentBet() > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet:   $%d", s.CurrentBet())))
		if s.Doubled() {
			content.WriteString(" (x2)")
		}
		content.WriteString("\n")
	}
	content.WriteString("\n")
	fmt.Fprintf(&content, "Record:  %d-%d-%d\n", records.Wins, records.Losses, records.Draws)
	fmt.Fprintf(&content, "Win %%:   %.1f\n", s.WinProbability()*100)
	fmt.Fprintf(&content, "Net:     %+d\n", s.NetEarnings())
	if s.Bought() > 0 {
		fmt.Fprintf(&content, "Bought:  $%d\n", s.Bought())
	}
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Shoe: %d cards", s.ShoeRemaining())))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Phase: " + s.Phase().String()))

	return content.String()
}

// renderActionPane renders the hands, prompts and the input field
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder
	s := m.session

	if s.Phase() != game.Betting {
		dealer := s.DealerHand()
		player := s.PlayerHand()
		content.WriteString(HandInfoStyle.Render("Dealer: "))
		content.WriteString(m.renderHand(dealer))
		content.WriteString("\n")
		content.WriteString(HandInfoStyle.Render("You:    "))
		content.WriteString(m.renderHand(player))
		content.WriteString("\n")
	}

	if msg := s.Message(); msg != "" {
		if r, ok := s.LastSettlement(); ok && r.Outcome == game.Win {
			content.WriteString(SuccessStyle.Render(msg))
		} else if ok && r.Outcome == game.Loss {
			content.WriteString(ErrorStyle.Render(msg))
		} else {
			content.WriteString(WarningStyle.Render(msg))
		}
		content.WriteString("\n")
	}

	if m.estimate != nil && s.Phase() == game.PlayerActing {
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Advisor: %s (bust on hit %.0f%%)",
			m.estimate.Advice(), m.estimate.BustOnHit*100)))
		content.WriteString("\n")
	} else if m.estimating {
		content.WriteString(InfoStyle.Render("Advisor: thinking..."))
		content.WriteString("\n")
	}

	if m.warning != "" {
		content.WriteString(ErrorStyle.Render(m.warning))
		content.WriteString("\n")
	}

	content.WriteString(ActionsStyle.Render("Actions: " + formatValidIntents(s.ValidIntents())))
	content.WriteString("\n")

	switch s.Phase() {
	case game.Betting:
		m.actionInput.Placeholder = fmt.Sprintf("Enter a bet (Enter for $%d), 'help' or 'quit'", m.lastBet)
	case game.PlayerActing:
		m.actionInput.Placeholder = "hit, stand, double, odds"
	default:
		m.actionInput.Placeholder = "Enter for the next round"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")
	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render(m.help.FullHelpView(keys.FullHelp())))
	} else {
		content.WriteString(m.help.ShortHelpView(keys.ShortHelp()))
	}

	return content.String()
}

// renderHand formats a hand with colored cards and its visible total
func (m *TUIModel) renderHand(hand game.HandSnapshot) string {
	parts := make([]string, 0, hand.Len())
	for _, card := range hand.Cards {
		parts = append(parts, renderCard(card))
	}
	for range hand.Hidden {
		parts = append(parts, HiddenCardStyle.Render("??"))
	}

	total := hand.Score.String()
	if hand.Natural {
		total = "blackjack"
	}
	return "[" + strings.Join(parts, " ") + "] " + total
}

func renderCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Warning returns the warning currently shown to the player
func (m *TUIModel) Warning() string {
	return m.warning
}

// Quitting reports whether the player asked to leave
func (m *TUIModel) Quitting() bool {
	return m.quitting
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
