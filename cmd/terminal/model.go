package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
)

const boardRows = 8

type model struct {
	styles styles
	cfg    *config.Config
	login  string

	ctx     context.Context
	cancel  context.CancelFunc
	app     *app.App
	user    *core.User
	cleanup func()

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool
	width     int

	repos    []*core.Repository
	selected *core.Repository
	// reviews is the reconciled view of the selected repository, newest first.
	reviews []*core.ReviewJob
	seen    map[int64]core.ReviewStatus
	history []string
}

func initialModel(theme ThemeName, cfg *config.Config, login string) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a command, /help for the list..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.command

	ctx, cancel := context.WithCancel(context.Background())
	return &model{
		styles:    styles,
		cfg:       cfg,
		login:     login,
		ctx:       ctx,
		cancel:    cancel,
		textarea:  ta,
		spinner:   sp,
		isLoading: true,
		seen:      make(map[int64]core.ReviewStatus),
		history:   []string{styles.header.Render("PULLPILOT REVIEW CONSOLE"), "Connecting to the review service..."},
	}
}

// shutdown aborts running analyses, waits for them to record a result and
// releases the store.
func (m *model) shutdown() {
	m.cancel()
	if m.app != nil {
		m.app.StopWorkers()
	}
	if m.cleanup != nil {
		m.cleanup()
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeAppCmd(m.ctx, m.cfg, m.login), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m, m.processCommand(input)
		}

	case appInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print("", m.styles.error.Render("ERROR: "+msg.err.Error()))
			return m, nil
		}
		m.app, m.user, m.cleanup = msg.app, msg.user, msg.cleanup
		m.print(m.styles.success.Render(fmt.Sprintf("✓ Signed in as %s", m.user.GitHubLogin)))
		return m, loadReposCmd(m.app, m.user.ID)

	case reposLoadedMsg:
		if msg.err != nil {
			m.print("", m.styles.error.Render("Could not load repositories: "+msg.err.Error()))
			return m, nil
		}
		m.repos = msg.repos
		switch {
		case len(m.repos) == 0:
			m.print(m.styles.inactive.Render("No repositories connected. Use '/connect owner/name'."))
		case len(m.repos) == 1 && m.selected == nil:
			m.print(m.styles.command.Render("→ Selecting the only connected repository: " + m.repos[0].FullName))
			return m, m.selectRepo(m.repos[0])
		case m.selected == nil:
			m.print(m.styles.inactive.Render(fmt.Sprintf("%d repositories connected. Use '/repos' and '/select [id|name]'.", len(m.repos))))
		}
		return m, nil

	case repoConnectedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print(m.styles.error.Render("ERROR: " + msg.err.Error()))
			return m, nil
		}
		m.print(m.styles.success.Render(fmt.Sprintf("✓ Connected %s (id %d)", msg.repo.FullName, msg.repo.ID)))
		return m, tea.Batch(loadReposCmd(m.app, m.user.ID), m.selectRepo(msg.repo))

	case reviewSubmittedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print(m.styles.error.Render("SUBMIT FAILED: " + msg.err.Error()))
			return m, nil
		}
		m.seen[msg.job.ID] = msg.job.Status
		m.print(m.styles.command.Render(fmt.Sprintf("→ Review #%d queued for PR #%d %s", msg.job.ID, msg.job.PRNumber, msg.job.PRTitle)))
		if msg.job.Status == core.StatusFailed {
			m.print(m.styles.error.Render("  " + msg.job.ErrorMessage))
		}
		return m, loadHistoryCmd(m.app, m.user.ID, msg.job.RepositoryID)

	case historyLoadedMsg:
		if m.selected == nil || msg.repoID != m.selected.ID {
			return m, nil
		}
		if msg.err != nil {
			m.print(m.styles.error.Render("Could not load reviews: " + msg.err.Error()))
			return m, nil
		}
		m.announceTransitions(msg.jobs)
		m.reviews = msg.jobs

	case pollMsg:
		if m.selected == nil || msg.repoID != m.selected.ID {
			return m, nil
		}
		return m, tea.Batch(loadHistoryCmd(m.app, m.user.ID, msg.repoID), pollCmd(msg.repoID))

	case reviewRenderedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print(m.styles.error.Render("ERROR: " + msg.err.Error()))
			return m, nil
		}
		m.print("", msg.content)

	case cancelledMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print(m.styles.inactive.Render(msg.err.Error()))
			return m, nil
		}
		m.seen[msg.job.ID] = msg.job.Status
		m.print(m.styles.success.Render(fmt.Sprintf("✓ Review #%d cancelled", msg.job.ID)))
		return m, loadHistoryCmd(m.app, m.user.ID, msg.job.RepositoryID)

	case publishedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.print(m.styles.error.Render(fmt.Sprintf("PUBLISH FAILED (#%d): %s", msg.jobID, msg.err)))
			return m, nil
		}
		m.print(m.styles.success.Render(fmt.Sprintf("✓ Review #%d posted: %s", msg.jobID, msg.url)))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.styles.header = m.styles.header.Width(msg.Width - 4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-boardRows-12, 5)
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// announceTransitions prints a line for every review that finished since the
// previous refresh.
func (m *model) announceTransitions(jobs []*core.ReviewJob) {
	for _, job := range jobs {
		prev, known := m.seen[job.ID]
		m.seen[job.ID] = job.Status
		if !known || prev == job.Status || !job.Status.IsTerminal() {
			continue
		}
		line := fmt.Sprintf("● Review #%d for PR #%d %s", job.ID, job.PRNumber, job.Status)
		if job.Status == core.StatusFailed {
			m.print(m.styles.error.Render(line + ": " + job.ErrorMessage))
		} else {
			m.print(m.styles.success.Render(line + ". Use '/show " + strconv.FormatInt(job.ID, 10) + "' to read it."))
		}
	}
}

func (m *model) selectRepo(repo *core.Repository) tea.Cmd {
	m.selected = repo
	m.reviews = nil
	m.print(m.styles.success.Render("✓ Watching " + repo.FullName))
	return tea.Batch(loadHistoryCmd(m.app, m.user.ID, repo.ID), pollCmd(repo.ID))
}

func (m *model) print(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	if m.app == nil && m.isLoading {
		return fmt.Sprintf("\n  %s CONNECTING...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.selected != nil {
		statusParts = append(statusParts, "REPO: "+m.selected.FullName)
	} else {
		statusParts = append(statusParts, "REPO: None Selected")
	}
	pending := 0
	for _, job := range m.reviews {
		if job.Status == core.StatusPending {
			pending++
		}
	}
	if pending > 0 {
		statusParts = append(statusParts, m.styles.pending.Render(fmt.Sprintf("● %d PENDING", pending)))
	}
	statusParts = append(statusParts, fmt.Sprintf("%s (%s)", m.cfg.AI.GeneratorModel, m.cfg.AI.Provider))
	if m.user != nil {
		statusParts = append(statusParts, "USER: "+m.user.GitHubLogin)
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("WORKING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.board(),
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

// board renders the latest review of each pull request.
func (m *model) board() string {
	if m.selected == nil {
		return ""
	}
	if len(m.reviews) == 0 {
		return m.styles.inactive.Render("No reviews yet. Use '/review [pr]'.")
	}
	rows := []string{m.styles.inactive.Render(fmt.Sprintf("%-6s %-6s %-10s %s", "ID", "PR", "STATUS", "TITLE"))}
	for i, job := range m.reviews {
		if i == boardRows {
			rows = append(rows, m.styles.inactive.Render(fmt.Sprintf("... %d more", len(m.reviews)-boardRows)))
			break
		}
		rows = append(rows, fmt.Sprintf("%-6d %-6s %s %s",
			job.ID,
			"#"+strconv.Itoa(job.PRNumber),
			m.styles.status(job.Status).Render(fmt.Sprintf("%-10s", job.Status)),
			job.PRTitle,
		))
	}
	return m.styles.board.Render(strings.Join(rows, "\n"))
}

func (m *model) usage(text string) tea.Cmd {
	m.print(m.styles.error.Render("USAGE: " + text))
	return nil
}

func (m *model) processCommand(input string) tea.Cmd {
	m.print(m.styles.prompt.Render("► ") + input)

	parts := strings.Fields(input)
	command := parts[0]
	args := parts[1:]

	if m.app == nil && command != "/exit" && command != "/quit" && command != "/help" {
		m.print(m.styles.error.Render("The review service is not available."))
		return nil
	}

	switch command {
	case "/repos", "/ls":
		if len(m.repos) == 0 {
			m.print(m.styles.inactive.Render("No repositories connected. Use '/connect owner/name'."))
			return nil
		}
		var b strings.Builder
		b.WriteString(m.styles.success.Render("CONNECTED REPOSITORIES:"))
		for _, repo := range m.repos {
			marker := m.styles.inactive.Render("○")
			if m.selected != nil && repo.ID == m.selected.ID {
				marker = m.styles.success.Render("●")
			}
			fmt.Fprintf(&b, "\n  %s %-4d %s", marker, repo.ID, m.styles.prompt.Render(repo.FullName))
		}
		m.print(b.String())
		return nil

	case "/connect":
		if len(args) != 1 {
			return m.usage("/connect owner/name")
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, connectRepoCmd(m.app, m.user.ID, args[0]))

	case "/select":
		if len(args) != 1 {
			return m.usage("/select [id|name]")
		}
		for _, repo := range m.repos {
			if repo.FullName == args[0] || strconv.FormatInt(repo.ID, 10) == args[0] {
				return m.selectRepo(repo)
			}
		}
		m.print(m.styles.error.Render(fmt.Sprintf("Repository '%s' not found. Use /repos to see connected repositories.", args[0])))
		return nil

	case "/review":
		if m.selected == nil {
			m.print(m.styles.error.Render("No repository selected. Use '/select [id|name]' first."))
			return nil
		}
		if len(args) != 1 {
			return m.usage("/review [pr-number]")
		}
		pr, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil || pr <= 0 {
			return m.usage("/review [pr-number]")
		}
		for _, job := range m.reviews {
			if job.PRNumber == pr {
				m.print(m.styles.pending.Render(fmt.Sprintf("PR #%d was already reviewed (#%d, %s). Submitting a new analysis.", pr, job.ID, job.Status)))
				break
			}
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, submitReviewCmd(m.app, m.user.ID, m.selected.ID, pr))

	case "/show", "/cancel", "/publish":
		if len(args) != 1 {
			return m.usage(command + " [review-id]")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return m.usage(command + " [review-id]")
		}
		m.isLoading = true
		switch command {
		case "/cancel":
			return tea.Batch(m.spinner.Tick, cancelReviewCmd(m.app, m.user.ID, id))
		case "/publish":
			return tea.Batch(m.spinner.Tick, publishReviewCmd(m.app, m.user.ID, id))
		}
		return tea.Batch(m.spinner.Tick, showReviewCmd(m.app, m.user.ID, id, max(m.width-8, 40)))

	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /repos, /ls            List connected repositories.
  /connect owner/name    Connect a repository.
  /select [id|name]      Watch a repository's reviews.
  /review [pr]           Submit a pull request for analysis.
  /show [review-id]      Show a review and its findings.
  /cancel [review-id]    Cancel a pending review.
  /publish [review-id]   Post a completed review on its pull request.
  /help                  Show this help message.
  /exit, /quit           Exit.

  ` + m.styles.inactive.Render("The board shows the latest review of each pull request and refreshes every few seconds.")
		m.print("", helpText)
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.print(m.styles.error.Render("UNKNOWN COMMAND: "+command), m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}
