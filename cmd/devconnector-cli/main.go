package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pageSize = 10

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoadingPosts
	stepBrowsing
	stepComposing
	stepPublishing
)

type model struct {
	api          *apiClient
	step         step
	email        string
	userID       string
	posts        []post
	cursor       int
	currentInput string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ userID string }
type postsLoadedMsg []post
type actionDoneMsg struct{ message string }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringEmail}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(api *apiClient, email, password string) tea.Cmd {
	return func() tea.Msg {
		userID, err := api.login(email, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{userID: userID}
	}
}

func loadPosts(api *apiClient) tea.Cmd {
	return func() tea.Msg {
		posts, err := api.posts(pageSize)
		if err != nil {
			return errMsg{err}
		}
		return postsLoadedMsg(posts)
	}
}

func toggleLike(api *apiClient, p post, userID string) tea.Cmd {
	return func() tea.Msg {
		if p.likedBy(userID) {
			if err := api.unlike(p.ID); err != nil {
				return errMsg{err}
			}
			return actionDoneMsg{"Unliked"}
		}
		if err := api.like(p.ID); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{"Liked"}
	}
}

func publish(api *apiClient, text string) tea.Cmd {
	return func() tea.Msg {
		if err := api.createPost(text); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{"Post published"}
	}
}

func (m model) typing() bool {
	return m.step == stepEnteringEmail || m.step == stepEnteringPassword || m.step == stepComposing
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginSuccessMsg:
		m.userID = msg.userID
		m.step = stepLoadingPosts
		m.message = successStyle.Render("✓ Logged in as " + m.email)
		return m, loadPosts(m.api)

	case postsLoadedMsg:
		m.posts = []post(msg)
		m.step = stepBrowsing
		if m.cursor >= len(m.posts) {
			m.cursor = max(len(m.posts)-1, 0)
		}

	case actionDoneMsg:
		m.message = successStyle.Render("✓ " + msg.message)
		m.step = stepLoadingPosts
		return m, loadPosts(m.api)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		switch m.step {
		case stepLoggingIn:
			m.step = stepEnteringEmail
		case stepPublishing:
			m.step = stepComposing
		default:
			m.step = stepBrowsing
		}
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || (key == "q" && !m.typing()) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.typing() {
		switch key {
		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}
		case "esc":
			if m.step == stepComposing {
				m.currentInput = ""
				m.step = stepBrowsing
			}
		case "enter":
			return m.submit()
		default:
			switch msg.Type {
			case tea.KeyRunes:
				m.currentInput += string(msg.Runes)
			case tea.KeySpace:
				m.currentInput += " "
			}
		}
		return m, nil
	}

	if m.step != stepBrowsing {
		return m, nil
	}
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "l", "enter":
		if len(m.posts) > 0 {
			return m, toggleLike(m.api, m.posts[m.cursor], m.userID)
		}
	case "n":
		m.step = stepComposing
		m.currentInput = ""
	case "r":
		m.step = stepLoadingPosts
		return m, loadPosts(m.api)
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.currentInput)
	if input == "" {
		return m, nil
	}
	m.currentInput = ""

	switch m.step {
	case stepEnteringEmail:
		m.email = input
		m.step = stepEnteringPassword
	case stepEnteringPassword:
		m.step = stepLoggingIn
		m.message = "Logging in..."
		return m, loginUser(m.api, m.email, input)
	case stepComposing:
		m.step = stepPublishing
		m.message = "Publishing..."
		return m, publish(m.api, input)
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("DevConnector") + "\n\n")

	switch m.step {
	case stepEnteringEmail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your email:") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:") + "\n")
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn, stepLoadingPosts, stepPublishing:
		s.WriteString(m.message + "\n")

	case stepBrowsing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		if len(m.posts) == 0 {
			s.WriteString("No posts yet.\n")
		}
		for i, p := range m.posts {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			heart := "♡"
			if p.likedBy(m.userID) {
				heart = "♥"
			}
			line := fmt.Sprintf("%s: %s  %s %d  💬 %d", p.Name, p.Text, heart, len(p.Likes), len(p.Comments))
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(line)))
		}
		s.WriteString("\n↑/↓ move, l like/unlike, n new post, r refresh, q quit\n")

	case stepComposing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("What's on your mind?") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nEnter to publish, Esc to cancel\n")
	}

	return s.String()
}

func main() {
	defaultAPI := os.Getenv("DEVCONNECTOR_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:5000"
	}
	apiURL := flag.String("api", defaultAPI, "base URL of the devconnector API")
	flag.Parse()

	p := tea.NewProgram(initialModel(newAPIClient(strings.TrimSuffix(*apiURL, "/"))))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
