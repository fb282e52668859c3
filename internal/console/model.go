// Package console is the terminal front-end of the ERP. Every screen change goes
// through the navigation guard and the Administração screen edits profile permissions.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/celsoprodesp/Antigravity/internal/app"
	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/services/access"
	"github.com/celsoprodesp/Antigravity/internal/services/finance"
	"github.com/celsoprodesp/Antigravity/internal/services/session"
)

type mode int

const (
	modeLogin mode = iota
	modeMain
	modeClientPrompt
)

type focus int

const (
	focusSidebar focus = iota
	focusEditor
)

// savedMsg reports the outcome of an asynchronous permission save.
type savedMsg struct {
	profileID string
	err       error
}

// Options configures a Model.
type Options struct {
	State *app.State
	// Auth receives the email typed on the login screen
	Auth         *session.StaticAuthenticator
	Email        string // pre-filled login email
	Transactions []entities.Transaction
	Now          func() time.Time
}

// Model is the bubbletea model of the console.
type Model struct {
	state  *app.State
	auth   *session.StaticAuthenticator
	keys   KeyMap
	styles Styles
	now    func() time.Time

	input textinput.Model
	mode  mode
	focus focus

	cursor     int // sidebar
	row        int // editor
	profiles   []*entities.Profile
	profileIdx int
	saving     bool

	transactions []entities.Transaction
	category     string

	status     string
	statusWarn bool

	width  int
	height int
}

// NewModel creates the console on the login screen.
func NewModel(opts Options) Model {
	input := textinput.New()
	input.Placeholder = "email@empresa.com"
	input.CharLimit = 120
	input.SetValue(opts.Email)
	input.Focus()

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		state:        opts.State,
		auth:         opts.Auth,
		keys:         DefaultKeyMap,
		styles:       DefaultStyles,
		now:          now,
		input:        input,
		mode:         modeLogin,
		transactions: opts.Transactions,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.warn("Falha ao salvar permissões: %v", msg.err)
		} else {
			m.info("Permissões salvas (perfil %s)", msg.profileID)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeClientPrompt:
			return m.updateClientPrompt(msg)
		default:
			return m.updateMain(msg)
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	email := strings.TrimSpace(m.input.Value())
	if email == "" {
		m.warn("Informe o email")
		return m, nil
	}

	ctx := context.Background()
	m.auth.SignIn(email)
	user, err := m.state.SignIn(ctx)
	if err != nil {
		_ = m.auth.SignOut(ctx)
		if errors.Is(err, session.ErrUnknownPrincipal) {
			m.warn("Usuário não encontrado: %s", email)
		} else {
			m.warn("Falha no login: %v", err)
		}
		return m, nil
	}

	m.mode = modeMain
	m.focus = focusSidebar
	m.cursor = 0
	m.input.Blur()
	m.input.Reset()
	m.info("Bem-vindo, %s", user.Name)
	return m, nil
}

func (m Model) updateClientPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeMain
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		id := strings.TrimSpace(m.input.Value())
		m.mode = modeMain
		m.input.Blur()
		m.input.Reset()
		if id == "" {
			return m, nil
		}
		m.navigate(entities.ViewClientProfile, id)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.SignOut):
		if err := m.state.SignOut(context.Background()); err != nil {
			m.warn("Falha ao sair: %v", err)
			return m, nil
		}
		m.mode = modeLogin
		m.profiles = nil
		m.input.Focus()
		m.info("Sessão encerrada")
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.inAdmin() && m.focus == focusSidebar {
			m.focus = focusEditor
		} else {
			m.focus = focusSidebar
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.state.GoBack()
		m.afterMove()
		return m, nil
	}

	if m.focus == focusEditor {
		return m.updateEditor(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(entities.AllViews)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		m.navigate(entities.AllViews[m.cursor], m.state.Guard().SelectedEntity())
	case key.Matches(msg, m.keys.OpenRef):
		if m.current() == entities.ViewClients {
			m.mode = modeClientPrompt
			m.input.Placeholder = "id do cliente"
			m.input.Focus()
		}
	case key.Matches(msg, m.keys.Category):
		if m.current() == entities.ViewFinance {
			m.category = nextCategory(finance.Categories(m.transactions), m.category)
		}
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editor := m.state.Editor()
	rows := editor.Rows()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(rows)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.PrevProfile):
		m.selectProfile(m.profileIdx - 1)
	case key.Matches(msg, m.keys.NextProfile):
		m.selectProfile(m.profileIdx + 1)
	case key.Matches(msg, m.keys.ToggleRead):
		m.toggle(rows, entities.FieldRead)
	case key.Matches(msg, m.keys.ToggleWrite):
		m.toggle(rows, entities.FieldWrite)
	case key.Matches(msg, m.keys.ToggleDel):
		m.toggle(rows, entities.FieldDelete)
	case key.Matches(msg, m.keys.Save):
		if m.saving {
			return m, nil
		}
		if err := m.state.Guard().Require(entities.FieldWrite); err != nil {
			m.warn("%v", err)
			return m, nil
		}
		m.saving = true
		m.info("Salvando...")
		profileID := editor.Selected()
		return m, func() tea.Msg {
			return savedMsg{profileID: profileID, err: editor.Save(context.Background(), profileID)}
		}
	}
	return m, nil
}

func (m *Model) toggle(rows []access.Row, field entities.PermissionField) {
	if m.row >= len(rows) {
		return
	}
	if err := m.state.Guard().Require(entities.FieldWrite); err != nil {
		m.warn("%v", err)
		return
	}

	row := rows[m.row]
	editor := m.state.Editor()
	var err error
	if row.ID != nil {
		_, err = editor.Toggle(row.ID, field)
	} else {
		_, err = editor.TogglePage(row.PageKey, field)
	}

	switch {
	case errors.Is(err, access.ErrAdministratorProfile):
		m.warn("O perfil Administrador não pode ser editado")
	case err != nil:
		m.warn("%v", err)
	default:
		m.status = ""
	}
}

func (m *Model) navigate(view entities.View, entityID string) {
	if err := m.state.Navigate(view, entityID); err != nil {
		var denied *access.AccessDeniedError
		if errors.As(err, &denied) {
			m.warn("Acesso negado: %s", pageLabel(denied.PageKey))
		} else {
			m.warn("%v", err)
		}
		return
	}
	m.status = ""
	m.afterMove()
}

// afterMove prepares the pane of the view just entered
func (m *Model) afterMove() {
	if !m.inAdmin() {
		m.focus = focusSidebar
		return
	}
	if m.profiles != nil {
		return
	}
	profiles, err := m.state.Profiles().List(context.Background())
	if err != nil {
		m.warn("Falha ao carregar perfis: %v", err)
		return
	}
	m.profiles = profiles
	m.selectProfile(0)
}

func (m *Model) selectProfile(i int) {
	if len(m.profiles) == 0 {
		return
	}
	i = (i + len(m.profiles)) % len(m.profiles)
	m.profileIdx = i
	m.row = 0
	m.state.Editor().SelectProfile(m.profiles[i].ID)
}

func (m Model) current() entities.View {
	if g := m.state.Guard(); g != nil {
		return g.Current()
	}
	return entities.ViewDashboard
}

func (m Model) inAdmin() bool {
	return access.ResolvePageKey(m.current()) == entities.PageAdmin
}

func (m *Model) info(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusWarn = false
}

func (m *Model) warn(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusWarn = true
}

func nextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return ""
	}
	if current == "" {
		return categories[0]
	}
	for i, c := range categories {
		if c == current {
			if i+1 < len(categories) {
				return categories[i+1]
			}
			return ""
		}
	}
	return ""
}

func pageLabel(key entities.PageKey) string {
	if page, ok := entities.LookupPage(key); ok {
		return page.Name
	}
	return string(key)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ERP"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeLogin:
		b.WriteString("Email: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Sidebar.Render(m.sidebarView()),
			m.styles.Pane.Render(m.paneView()),
		))
		b.WriteString("\n")
		if m.mode == modeClientPrompt {
			b.WriteString("Cliente: ")
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusWarn {
			b.WriteString(m.styles.StatusWarn.Render(m.status))
		} else {
			b.WriteString(m.styles.StatusInfo.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) sidebarView() string {
	var b strings.Builder
	if u := m.state.User(); u != nil {
		fmt.Fprintf(&b, "%s  %s\n%s\n\n", u.Initials(), u.Name, u.Role)
	}

	guard := m.state.Guard()
	for i, view := range entities.AllViews {
		label := string(view)
		style := m.styles.Item
		if guard != nil && !m.state.Evaluator().Evaluate(guard.Subject(), view).CanEnter() {
			style = m.styles.Locked
		}
		if guard != nil && view == guard.Current() {
			style = m.styles.Current
			label = "● " + label
		} else {
			label = "  " + label
		}
		if i == m.cursor && m.focus == focusSidebar {
			style = m.styles.Cursor
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) paneView() string {
	guard := m.state.Guard()
	if guard == nil {
		return ""
	}

	var b strings.Builder
	view := guard.Current()
	fmt.Fprintf(&b, "%s\n", m.styles.Header.Render(pageLabel(access.ResolvePageKey(view))+" · "+string(view)))
	fmt.Fprintf(&b, "permissão: %s", guard.Permission())
	if id := guard.SelectedEntity(); id != "" {
		fmt.Fprintf(&b, "  cliente: %s", id)
	}
	b.WriteString("\n\n")

	switch {
	case m.inAdmin():
		b.WriteString(m.editorView())
	case view == entities.ViewFinance:
		b.WriteString(m.financeView())
	}
	return b.String()
}

func (m Model) editorView() string {
	if len(m.profiles) == 0 {
		return "Nenhum perfil\n"
	}

	var b strings.Builder
	profile := m.profiles[m.profileIdx]
	fmt.Fprintf(&b, "Perfil: %s (%d/%d)\n\n", profile.Name, m.profileIdx+1, len(m.profiles))
	fmt.Fprintf(&b, "%-22s %-5s %-5s %-5s\n", "Página", "Ler", "Esc.", "Exc.")

	for i, row := range m.state.Editor().Rows() {
		line := fmt.Sprintf("%-22s %-5s %-5s %-5s",
			row.PageName, mark(row.Permission.CanRead), mark(row.Permission.CanWrite), mark(row.Permission.CanDelete))
		style := m.styles.Item
		if row.ReadOnly {
			style = m.styles.Locked
		}
		if i == m.row && m.focus == focusEditor {
			style = m.styles.Cursor
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) financeView() string {
	txs, err := finance.Filter(m.transactions, finance.Criteria{Category: m.category}, m.now())
	if err != nil {
		return err.Error()
	}

	var b strings.Builder
	category := m.category
	if category == "" {
		category = "todas"
	}
	fmt.Fprintf(&b, "Categoria: %s\n\n", category)
	for _, tx := range txs {
		amount := fmt.Sprintf("%+10.2f", tx.Signed())
		if tx.Type == entities.TransactionExpense {
			amount = m.styles.Expense.Render(amount)
		} else {
			amount = m.styles.Income.Render(amount)
		}
		fmt.Fprintf(&b, "%-14s %-28s %-14s %s\n", tx.Date, tx.Description, tx.Status, amount)
	}
	t := finance.Summarize(txs)
	fmt.Fprintf(&b, "\nReceitas %.2f  Despesas %.2f  Saldo %.2f\n", t.Income, t.Expense, t.Balance)
	return b.String()
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch {
	case m.mode == modeLogin:
		return "enter sign in · ctrl+c quit"
	case m.focus == focusEditor:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevProfile, m.keys.NextProfile,
			m.keys.ToggleRead, m.keys.ToggleWrite, m.keys.ToggleDel, m.keys.Save, m.keys.Focus, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Back, m.keys.SignOut, m.keys.Quit}
		if m.inAdmin() {
			bindings = append(bindings, m.keys.Focus)
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func mark(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}
