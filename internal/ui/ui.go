package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/martishin/movie-search-service/internal/services"
	"github.com/martishin/movie-search-service/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogueView ViewState = iota
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	api       services.MovieAPI
	session   store.SessionState
	catalogue *store.CatalogueStore
	detail    *store.MovieDetailStore
	logger    *log.Logger
	notices   channelNotifier

	width     int
	height    int
	movieList list.Model
	listReady bool

	searching   bool
	searchInput textinput.Model
	likedOnly   bool
	notice      string

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The catalogue store is constructed here so its notifications land in the
// update loop instead of on stderr.
func NewModel(ctx context.Context, api services.MovieAPI, sess store.SessionState, logger *log.Logger) *Model {
	notices := make(channelNotifier, 8)

	input := textinput.New()
	input.Placeholder = "title or genre"
	input.Prompt = "search: "
	input.CharLimit = 64

	return &Model{
		ctx:         ctx,
		view:        CatalogueView,
		api:         api,
		session:     sess,
		catalogue:   store.NewCatalogueStore(api, sess, notices, logger),
		logger:      logger,
		notices:     notices,
		searchInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the initial catalogue load and the notification pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalogue(), m.waitForNotice())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch m.view {
		case CatalogueView:
			if m.searching {
				return m.handleSearchKeys(msg)
			}
			return m.handleCatalogueKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case catalogueLoadedMsg:
		m.rebuildList()
		return m, nil

	case detailLoadedMsg:
		return m, nil

	case likeToggledMsg:
		m.rebuildList()
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, m.waitForNotice()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CatalogueView:
		return m.renderCatalogue()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleCatalogueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.searchInput.SetValue(m.catalogue.Query())
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.sortTitle):
		m.catalogue.SortBy(store.SortByTitle)
		m.rebuildList()
		return m, nil

	case key.Matches(msg, m.keys.sortDate):
		m.catalogue.SortBy(store.SortByReleaseDate)
		m.rebuildList()
		return m, nil

	case key.Matches(msg, m.keys.sortRating):
		m.catalogue.SortBy(store.SortByUserRating)
		m.rebuildList()
		return m, nil

	case key.Matches(msg, m.keys.liked):
		m.likedOnly = !m.likedOnly
		m.rebuildList()
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, m.loadCatalogue()

	case key.Matches(msg, m.keys.like):
		if item, ok := m.selectedMovie(); ok {
			return m, m.toggleCatalogueLike(item.movie.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.selectedMovie(); ok {
			m.detail = store.NewMovieDetailStore(m.api, m.session, m.notices, m.logger, item.movie.ID)
			m.view = DetailView
			return m, m.loadDetail()
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.catalogue.Search("")
		m.rebuildList()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.catalogue.Search(m.searchInput.Value())
	m.rebuildList()
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogueView
		m.detail = nil
		// The catalogue reflects any like toggled in the detail view on
		// the next refresh, not retroactively.
		return m, m.loadCatalogue()
	case key.Matches(msg, m.keys.like):
		if m.detail != nil {
			return m, m.toggleDetailLike()
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.listReady || m.view != CatalogueView {
		return m, nil
	}
	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) selectedMovie() (movieItem, bool) {
	if !m.listReady {
		return movieItem{}, false
	}
	selected := m.movieList.SelectedItem()
	if selected == nil {
		return movieItem{}, false
	}
	item, ok := selected.(movieItem)
	return item, ok
}

// rebuildList re-derives the visible list items from the catalogue store.
func (m *Model) rebuildList() {
	movies := m.catalogue.Movies()

	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		if m.likedOnly && !movie.IsLiked {
			continue
		}
		items = append(items, movieItem{movie: movie})
	}

	if !m.listReady {
		delegate := list.NewDefaultDelegate()
		m.movieList = list.New(items, delegate, 0, 0)
		m.movieList.SetFilteringEnabled(false)
		m.movieList.SetShowHelp(false)
		m.movieList.SetSize(m.width-4, m.height-8)
		m.listReady = true
	} else {
		m.movieList.SetItems(items)
	}

	m.movieList.Title = m.listTitle()
}

func (m *Model) listTitle() string {
	title := "Movies"
	if m.likedOnly {
		title = "Liked Movies"
	}
	if query := m.catalogue.Query(); query != "" {
		title = fmt.Sprintf("%s · %q", title, query)
	}

	field, direction := m.catalogue.Sort()
	return fmt.Sprintf("%s · %s %s", title, field, direction)
}

func (m *Model) loadCatalogue() tea.Cmd {
	return func() tea.Msg {
		m.catalogue.Load(m.ctx)
		return catalogueLoadedMsg{}
	}
}

func (m *Model) loadDetail() tea.Cmd {
	detail := m.detail
	return func() tea.Msg {
		detail.Load(m.ctx)
		return detailLoadedMsg{movieID: detail.MovieID()}
	}
}

func (m *Model) toggleCatalogueLike(movieID int) tea.Cmd {
	return func() tea.Msg {
		m.catalogue.ToggleLike(m.ctx, movieID)
		return likeToggledMsg{movieID: movieID}
	}
}

func (m *Model) toggleDetailLike() tea.Cmd {
	detail := m.detail
	return func() tea.Msg {
		detail.ToggleLike(m.ctx)
		return likeToggledMsg{movieID: detail.MovieID()}
	}
}

func (m *Model) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-m.notices)
	}
}

func (m *Model) renderCatalogue() string {
	state, errMsg := m.catalogue.State()

	switch state {
	case store.Loading:
		if !m.listReady {
			return styles.help.Render("Loading movies...")
		}
	case store.Failed:
		body := styles.err.Render(fmt.Sprintf("Error: %s", errMsg))
		hint := styles.help.Render("Press R to retry, q to quit")
		return fmt.Sprintf("%s\n\n%s", body, hint)
	}

	if !m.listReady {
		m.rebuildList()
	}

	var sections []string
	if m.searching {
		sections = append(sections, m.searchInput.View())
	}
	sections = append(sections, m.movieList.View())

	if m.notice != "" {
		sections = append(sections, styles.warn.Render(m.notice))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.like, m.keys.liked, m.keys.quit}
	if m.searching {
		helpKeys = []key.Binding{m.keys.back, m.keys.enter}
	}
	sections = append(sections, m.help.ShortHelpView(helpKeys))

	return strings.Join(sections, "\n\n")
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}

	state, errMsg := m.detail.State()
	switch state {
	case store.Loading:
		return styles.help.Render("Loading movie...")
	case store.Failed:
		body := styles.err.Render(fmt.Sprintf("Error: %s", errMsg))
		hint := styles.help.Render("Press esc to go back, q to quit")
		return fmt.Sprintf("%s\n\n%s", body, hint)
	}

	movie := m.detail.Movie()
	if movie == nil {
		return ""
	}

	title := styles.title.Render(movie.Title)
	rating := styles.star.Render(starString(movie.UserRating))

	var meta []string
	if !movie.ReleaseDate.IsZero() {
		meta = append(meta, movie.ReleaseDate.Format("January 2, 2006"))
	}
	if movie.Runtime > 0 {
		meta = append(meta, fmt.Sprintf("%d min", movie.Runtime))
	}
	if movie.MPAARating != "" {
		meta = append(meta, movie.MPAARating)
	}
	if genres := movie.GenreNames(); len(genres) > 0 {
		meta = append(meta, strings.Join(genres, ", "))
	}

	var liked string
	if movie.IsLiked {
		liked = styles.ok.Render("♥ Liked")
	}

	var sections []string
	sections = append(sections, title)
	sections = append(sections, fmt.Sprintf("%s  %.1f/5", rating, movie.UserRating))
	if len(meta) > 0 {
		sections = append(sections, styles.help.Render(strings.Join(meta, " · ")))
	}
	if liked != "" {
		sections = append(sections, liked)
	}
	if movie.Description != "" {
		sections = append(sections, movie.Description)
	}
	if m.notice != "" {
		sections = append(sections, styles.warn.Render(m.notice))
	}

	helpKeys := []key.Binding{m.keys.like, m.keys.back, m.keys.quit}
	sections = append(sections, m.help.ShortHelpView(helpKeys))

	return strings.Join(sections, "\n\n")
}
