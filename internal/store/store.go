// Package store keeps the most recently fetched leads, agents and tags and is
// the single source the pipeline reads from.
//
// Loads replace a collection wholesale; mutations go to the CRM API first and
// are mirrored locally only when the API accepts them. A failed call never
// touches the held state.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/logger"
)

type Kind string

const (
	KindLeads  Kind = "leads"
	KindAgents Kind = "agents"
	KindTags   Kind = "tags"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ErrClosed is returned once the store has been torn down. The response
// that arrived is discarded.
var ErrClosed = errors.New("store closed")

// Remote is the part of the CRM API the store reads and writes through.
type Remote interface {
	ListLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error)
	CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error)
	UpdateLead(ctx context.Context, id string, in entity.LeadInput) (entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error

	ListAgents(ctx context.Context) ([]entity.Agent, error)
	CreateAgent(ctx context.Context, in entity.AgentInput) (entity.Agent, error)
	DeleteAgent(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]entity.Tag, error)
	CreateTag(ctx context.Context, name string) (entity.Tag, error)
}

type identified interface {
	GetID() string
}

// collection holds one kind. issued counts loads started; applied is the
// sequence number of the load whose result is currently held.
type collection[T identified] struct {
	items   []T
	issued  uint64
	applied uint64
}

type Store struct {
	remote Remote
	log    logger.Logger

	mu         sync.Mutex
	leads      collection[entity.Lead]
	agents     collection[entity.Agent]
	tags       collection[entity.Tag]
	leadFilter entity.FilterSpec
	subs       map[int]func(Kind)
	nextSub    int
	closed     bool
}

func New(remote Remote, log logger.Logger) *Store {
	return &Store{
		remote: remote,
		log:    log,
		subs:   make(map[int]func(Kind)),
	}
}

// Subscribe registers fn to be called with the kind of every collection that
// changes. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Kind)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close tears the store down. Responses still in flight are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(Kind))
	s.mu.Unlock()
}

func (s *Store) publish(kind Kind) {
	s.mu.Lock()
	subs := make([]func(Kind), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(kind)
	}
}

// Load refreshes one collection. For leads, filter is forwarded to the API.
func (s *Store) Load(ctx context.Context, kind Kind, filter entity.FilterSpec) error {
	var err error
	switch kind {
	case KindLeads:
		_, err = s.LoadLeads(ctx, filter)
	case KindAgents:
		_, err = s.LoadAgents(ctx)
	case KindTags:
		_, err = s.LoadTags(ctx)
	default:
		err = errors.New("unknown collection kind " + string(kind))
	}
	return err
}

// load fetches and replaces c. When a newer load of the same kind has
// already been applied, the fetched result is returned to its caller but
// not held, so the newer contents stay.
func load[T identified](ctx context.Context, s *Store, kind Kind, c *collection[T], fetch func(context.Context) ([]T, error), onApply func()) ([]T, error) {
	s.mu.Lock()
	c.issued++
	seq := c.issued
	s.mu.Unlock()

	items, err := fetch(ctx)
	middleware.RecordStoreLoad(string(kind), err == nil)
	if err != nil {
		s.log.Warn("store load failed", logger.String("kind", string(kind)), logger.Error(err))
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if seq < c.applied {
		s.mu.Unlock()
		s.log.Debug("stale load not applied", logger.String("kind", string(kind)), logger.Int("seq", int(seq)))
		return slices.Clone(items), nil
	}
	c.items = items
	c.applied = seq
	if onApply != nil {
		onApply()
	}
	out := slices.Clone(c.items)
	s.mu.Unlock()

	s.publish(kind)
	return out, nil
}

// mutate mirrors a result the API already accepted into c.
func mutate[T identified](s *Store, kind Kind, op Op, c *collection[T], id string, result T) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	switch op {
	case OpCreate:
		c.items = slices.Insert(c.items, 0, result)
	case OpUpdate:
		for i := range c.items {
			if c.items[i].GetID() == id {
				c.items[i] = result
			}
		}
	case OpDelete:
		c.items = slices.DeleteFunc(c.items, func(item T) bool { return item.GetID() == id })
	}
	s.mu.Unlock()

	middleware.RecordMutation(string(kind), string(op))
	s.publish(kind)
	return nil
}

func (s *Store) LoadLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error) {
	return load(ctx, s, KindLeads, &s.leads,
		func(ctx context.Context) ([]entity.Lead, error) { return s.remote.ListLeads(ctx, filter) },
		func() { s.leadFilter = filter },
	)
}

func (s *Store) LoadAgents(ctx context.Context) ([]entity.Agent, error) {
	return load(ctx, s, KindAgents, &s.agents, s.remote.ListAgents, nil)
}

func (s *Store) LoadTags(ctx context.Context) ([]entity.Tag, error) {
	return load(ctx, s, KindTags, &s.tags, s.remote.ListTags, nil)
}

func (s *Store) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	created, err := s.remote.CreateLead(ctx, in)
	if err != nil {
		return entity.Lead{}, err
	}
	return created, mutate(s, KindLeads, OpCreate, &s.leads, created.ID, created)
}

func (s *Store) UpdateLead(ctx context.Context, id string, in entity.LeadInput) (entity.Lead, error) {
	updated, err := s.remote.UpdateLead(ctx, id, in)
	if err != nil {
		return entity.Lead{}, err
	}
	return updated, mutate(s, KindLeads, OpUpdate, &s.leads, id, updated)
}

func (s *Store) DeleteLead(ctx context.Context, id string) error {
	if err := s.remote.DeleteLead(ctx, id); err != nil {
		return err
	}
	return mutate(s, KindLeads, OpDelete, &s.leads, id, entity.Lead{})
}

func (s *Store) CreateAgent(ctx context.Context, in entity.AgentInput) (entity.Agent, error) {
	created, err := s.remote.CreateAgent(ctx, in)
	if err != nil {
		return entity.Agent{}, err
	}
	return created, mutate(s, KindAgents, OpCreate, &s.agents, created.ID, created)
}

func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	if err := s.remote.DeleteAgent(ctx, id); err != nil {
		return err
	}
	return mutate(s, KindAgents, OpDelete, &s.agents, id, entity.Agent{})
}

func (s *Store) CreateTag(ctx context.Context, name string) (entity.Tag, error) {
	created, err := s.remote.CreateTag(ctx, name)
	if err != nil {
		return "", err
	}
	return created, mutate(s, KindTags, OpCreate, &s.tags, created.GetID(), created)
}

func (s *Store) Leads() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.leads.items)
}

// LeadFilter is the filter the held leads were fetched with.
func (s *Store) LeadFilter() entity.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leadFilter
}

func (s *Store) Agents() []entity.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.agents.items)
}

func (s *Store) Tags() []entity.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tags.items)
}

// Agent looks up a held agent by id.
func (s *Store) Agent(id string) (entity.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.agents.items {
		if a.ID == id {
			return a, true
		}
	}
	return entity.Agent{}, false
}
