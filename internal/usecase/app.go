package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/queue"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/notify"
	"github.com/xavierca1/leadboard/internal/store"
)

const sideEffectTimeout = 15 * time.Second

// App is the shared application context: the collection store, the
// notification channel and the session's current user.
type App struct {
	Store  *store.Store
	Notify notify.Poster

	crm    CRM
	events EventPublisher
	mailer Mailer
	log    logger.Logger
	now    func() time.Time

	mu          sync.RWMutex
	currentUser string

	bg          sync.WaitGroup
	unsubscribe func()
}

type Option func(*App)

func WithEvents(p EventPublisher) Option { return func(a *App) { a.events = p } }
func WithMailer(m Mailer) Option         { return func(a *App) { a.mailer = m } }
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func NewApp(st *store.Store, poster notify.Poster, crm CRM, log logger.Logger, opts ...Option) *App {
	a := &App{
		Store:  st,
		Notify: poster,
		crm:    crm,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.unsubscribe = st.Subscribe(func(k store.Kind) {
		if k == store.KindAgents {
			a.syncCurrentUser()
		}
	})
	return a
}

// Close detaches from the store and waits for pending side effects.
func (a *App) Close() {
	a.unsubscribe()
	a.bg.Wait()
}

// Wait blocks until every queued event publish and email has finished.
func (a *App) Wait() {
	a.bg.Wait()
}

// LoadReference fetches agents and tags in parallel. A tag failure is only
// logged; an agent failure is announced and returned.
func (a *App) LoadReference(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.Store.LoadAgents(gctx)
		return err
	})
	g.Go(func() error {
		if _, err := a.Store.LoadTags(gctx); err != nil {
			a.log.Warn("tags unavailable", logger.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Notify.Post("Failed to load application data", notify.Error)
		return err
	}
	return nil
}

// HandleLeadEvent refreshes the held leads with the filter they were last
// loaded with.
func (a *App) HandleLeadEvent(ctx context.Context, ev queue.LeadEvent) error {
	a.log.Debug("lead event received", logger.String("type", string(ev.Type)), logger.String("lead_id", ev.LeadID))
	_, err := a.Store.LoadLeads(ctx, a.Store.LeadFilter())
	return err
}

// CurrentUser is the agent comments are authored as.
func (a *App) CurrentUser() (entity.Agent, bool) {
	a.mu.RLock()
	id := a.currentUser
	a.mu.RUnlock()
	if id == "" {
		return entity.Agent{}, false
	}
	return a.Store.Agent(id)
}

func (a *App) SetCurrentUser(id string) (entity.Agent, error) {
	agent, ok := a.Store.Agent(id)
	if !ok {
		return entity.Agent{}, &entity.Error{Kind: entity.KindNotFound, Status: 404, Message: "Sales agent not found"}
	}
	a.mu.Lock()
	a.currentUser = id
	a.mu.Unlock()
	return agent, nil
}

// syncCurrentUser picks the first agent when no current user is set or the
// chosen one disappeared.
func (a *App) syncCurrentUser() {
	agents := a.Store.Agents()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentUser != "" {
		for _, ag := range agents {
			if ag.ID == a.currentUser {
				return
			}
		}
	}
	a.currentUser = ""
	if len(agents) > 0 {
		a.currentUser = agents[0].ID
	}
}

// background runs fn detached from the request, bounded by
// sideEffectTimeout.
func (a *App) background(ctx context.Context, fn func(ctx context.Context)) {
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		fn(ctx)
	}()
}
