package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/boundary"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/artisan-cli/internal/adapters/driving/tui/views/refine"
	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

// outboxSize bounds how many boundary replies may wait for the event loop.
const outboxSize = 64

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Views never call services directly. They emit messages.Send, which the
// App hands to a boundary.Dispatcher off the event loop; replies come back
// through the outbox as messages.OutboundReceived.
type App struct {
	ports      *Ports
	ctx        context.Context
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	dispatcher *boundary.Dispatcher
	outbox     chan boundary.Outbound

	menuView      *menu.View
	refineView    *refine.View
	documentsView *documents.View
	chunksView    *chunks.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      styles.DefaultStyles(),
		keymap:      keymap.DefaultKeyMap(),
		outbox:      make(chan boundary.Outbound, outboxSize),
		currentView: messages.ViewMenu,
	}

	dispatcher, err := boundary.NewDispatcher(ports.boundary(), a.deliver)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	a.dispatcher = dispatcher

	a.menuView = menu.NewView(a.styles, a.keymap)
	a.refineView = refine.NewView(a.styles, a.keymap)
	a.documentsView = documents.NewView(a.styles, a.keymap)
	a.chunksView = chunks.NewView(a.styles, a.keymap)
	a.statusBar = status.NewBar(a.styles, a.keymap)

	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// deliver is the dispatcher's SendFunc. It runs on the goroutine that
// called Handle.
func (a *App) deliver(out boundary.Outbound) {
	select {
	case a.outbox <- out:
	case <-a.ctx.Done():
	}
}

// awaitOutbound waits for the next boundary reply.
func (a *App) awaitOutbound() tea.Msg {
	select {
	case out := <-a.outbox:
		return messages.OutboundReceived{Message: out}
	case <-a.ctx.Done():
		return nil
	}
}

// handle hands an inbound message to the dispatcher off the event loop.
func (a *App) handle(in boundary.Inbound) tea.Cmd {
	return func() tea.Msg {
		if err := a.dispatcher.Handle(a.ctx, in); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("artisan"),
		a.awaitOutbound,
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateKey(msg)

	case messages.Send:
		a.statusBar.SetState(status.StateWorking)
		a.statusBar.SetMessage(workingMessage(msg.Inbound.Type))
		return a, a.handle(msg.Inbound)

	case messages.OutboundReceived:
		return a, tea.Batch(a.routeOutbound(msg.Message), a.awaitOutbound)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.DocumentSelected:
		a.currentView = messages.ViewChunks
		a.updateHints()
		return a, a.chunksView.SetDocument(msg.DocumentID, msg.Name)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(domain.KindOf(msg.Err), msg.Err.Error())
		// A refused send leaves the current request in flight; the view
		// keeps waiting for it.
		if errors.Is(msg.Err, boundary.ErrOperationInFlight) {
			return a, nil
		}
		switch a.currentView {
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewChunks:
			a.chunksView, cmd = a.chunksView.Update(msg)
		case messages.ViewMenu, messages.ViewRefine, messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blinks, spinner ticks) to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRefine:
		a.refineView, cmd = a.refineView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) updateKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRefine:
		a.refineView, cmd = a.refineView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if msg.Type == tea.KeyEsc {
			return a.switchTo(messages.ViewMenu)
		}
	}
	return cmd
}

// routeOutbound delivers a reply to the view that owns its type. Errors go
// to the active view.
func (a *App) routeOutbound(out boundary.Outbound) tea.Cmd {
	msg := messages.OutboundReceived{Message: out}
	var cmd tea.Cmd

	if out.Type == boundary.TypeError {
		a.err = errors.New(out.Message)
		a.statusBar.SetError(out.Kind, out.Message)
	} else {
		a.err = nil
		a.statusBar.Clear()
	}

	switch out.Type {
	case boundary.TypeClarifyingQuestions, boundary.TypeOptimizedPrompt, boundary.TypeTemplateAdopted:
		a.refineView, cmd = a.refineView.Update(msg)
	case boundary.TypeDocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.statusBar.SetMessage(fmt.Sprintf("%d documents", len(out.Documents)))
	case boundary.TypeChunksLoaded, boundary.TypeChunkDeleted:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case boundary.TypeError:
		switch a.currentView {
		case messages.ViewRefine:
			a.refineView, cmd = a.refineView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewChunks:
			a.chunksView, cmd = a.chunksView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
		}
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.updateHints()

	switch view {
	case messages.ViewRefine:
		return a.refineView.Init()
	case messages.ViewDocuments:
		return a.documentsView.Load()
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewMenu, messages.ViewChunks:
	}
	return nil
}

func (a *App) updateHints() {
	switch a.currentView {
	case messages.ViewRefine:
		a.statusBar.SetHints(a.keymap.RefineHelp())
	case messages.ViewDocuments, messages.ViewChunks:
		a.statusBar.SetHints(a.keymap.ListHelp())
	case messages.ViewMenu, messages.ViewHelp:
		a.statusBar.SetHints(nil)
	}
}

func workingMessage(t boundary.MessageType) string {
	switch t {
	case boundary.TypeOptimizePrompt:
		return "Asking for clarifying questions..."
	case boundary.TypeSubmitResponses:
		return "Optimising prompt..."
	case boundary.TypeViewDocuments, boundary.TypeRefreshDocuments:
		return "Loading documents..."
	case boundary.TypeDeleteDocument, boundary.TypeDeleteChunk:
		return "Deleting..."
	case boundary.TypeViewDocumentChunks:
		return "Loading chunks..."
	default:
		return ""
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewMenu:
		body = a.menuView.View()
	case messages.ViewRefine:
		body = a.refineView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewChunks:
		body = a.chunksView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	keys := help.New()
	keys.ShowAll = true
	b.WriteString(keys.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(`Refine:
  Write a prompt and press ctrl+s. Answer each clarifying question
  with enter; esc returns to the previous answer. The optimised
  prompt can be adopted as the template for the next cycle.

Documents:
  enter opens the actions for a document; its chunks can be
  expanded with enter and deleted with d.

[esc] back to menu`)
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Leave room for the status bar
	viewHeight := max(height-2, 1)
	a.menuView.SetDimensions(width, viewHeight)
	a.refineView.SetDimensions(width, viewHeight)
	a.documentsView.SetDimensions(width, viewHeight)
	a.chunksView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
