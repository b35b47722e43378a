package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/logger"
	redisstore "github.com/refdeck/refdeck/internal/store/redis"
)

// Source is the slice of the document store the assembler consumes:
// one live stream per collection, each delivering full snapshots.
type Source interface {
	SubscribeCategories(ctx context.Context, fn redisstore.CategoriesHandler) (func(), error)
	SubscribeAllLinks(ctx context.Context, fn redisstore.LinksHandler) (func(), error)
}

// TreeState is the merged live view handed to consumers.
//
// Loading stays true until the category stream has delivered at least
// once; the link stream does not gate it, since a category with zero
// links is a valid tree. Err, once set, is terminal.
//
// Readers must treat the state as immutable.
type TreeState struct {
	Categories []domain.Category
	Loading    bool
	Err        error
}

// Assembler merges the category snapshot stream and the cross-parent
// link snapshot stream into one tree of Category -> Links.
//
// It is a two-slot state machine: either stream replaces its slot
// wholesale and triggers a pure rebuild, so the merge result is
// independent of which stream delivers first or how they interleave.
//
// One Assembler per owning scope; Start acquires the subscriptions and
// Close releases them exactly once.
type Assembler struct {
	source Source
	logger logger.Logger

	mu          sync.Mutex
	categories  map[string]*domain.Category // parent slot, keyed by category ID
	linksByCat  map[string][]domain.Link    // child slot, grouped by parent ID
	haveParents bool
	state       TreeState

	updates chan TreeState
	cancels []func()
	once    sync.Once
}

// NewAssembler creates an assembler over the given source
func NewAssembler(source Source, log logger.Logger) *Assembler {
	return &Assembler{
		source:     source,
		logger:     log,
		categories: make(map[string]*domain.Category),
		linksByCat: make(map[string][]domain.Link),
		state:      TreeState{Loading: true},
		updates:    make(chan TreeState, 1),
	}
}

// Start acquires both subscriptions. On failure nothing stays acquired.
func (a *Assembler) Start(ctx context.Context) error {
	cancelCategories, err := a.source.SubscribeCategories(ctx, a.onCategories)
	if err != nil {
		return fmt.Errorf("failed to subscribe to categories: %w", err)
	}
	a.cancels = append(a.cancels, cancelCategories)

	cancelLinks, err := a.source.SubscribeAllLinks(ctx, a.onLinks)
	if err != nil {
		a.Close()
		return fmt.Errorf("failed to subscribe to links: %w", err)
	}
	a.cancels = append(a.cancels, cancelLinks)

	return nil
}

// Close releases the subscriptions. Safe to call more than once; only
// the first call does anything.
func (a *Assembler) Close() {
	a.once.Do(func() {
		for _, cancel := range a.cancels {
			cancel()
		}
	})
}

// Updates returns the live view channel. Delivery is latest-wins: a
// slow reader only ever misses intermediate states, never the newest.
func (a *Assembler) Updates() <-chan TreeState {
	return a.updates
}

// Current returns the most recently merged state
func (a *Assembler) Current() TreeState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assembler) onCategories(categories []*domain.Category, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Err != nil {
		return
	}
	if err != nil {
		a.fail(err)
		return
	}

	a.categories = make(map[string]*domain.Category, len(categories))
	for _, category := range categories {
		a.categories[category.ID] = category
	}
	a.haveParents = true
	a.rebuild()
}

func (a *Assembler) onLinks(links []*domain.Link, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Err != nil {
		return
	}
	if err != nil {
		a.fail(err)
		return
	}

	a.linksByCat = make(map[string][]domain.Link, len(a.categories))
	for _, link := range links {
		a.linksByCat[link.CategoryID] = append(a.linksByCat[link.CategoryID], *link)
	}
	a.rebuild()
}

// rebuild recomputes the merged tree from the two slots. Caller holds
// the lock. Links belonging to no live category (orphans) are dropped
// from the view; their documents are untouched.
func (a *Assembler) rebuild() {
	merged := make([]domain.Category, 0, len(a.categories))
	for id, category := range a.categories {
		node := *category
		// Always a materialized slice; a category with no links owns
		// an empty set, never nil.
		node.Links = append(make([]domain.Link, 0, len(a.linksByCat[id])), a.linksByCat[id]...)
		merged = append(merged, node)
	}
	// Set semantics; sorted only so consumers see a stable order.
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	a.state = TreeState{
		Categories: merged,
		Loading:    !a.haveParents,
	}
	a.push()
}

// fail puts the assembler in its terminal error state. Later snapshot
// deliveries are ignored; recovery means re-creating the assembler.
func (a *Assembler) fail(err error) {
	a.logger.Error("catalog stream failed", logger.Error(err))
	a.state = TreeState{
		Categories: a.state.Categories,
		Loading:    false,
		Err:        err,
	}
	a.push()
}

// push publishes the current state, dropping the stale value if the
// reader has not caught up. Caller holds the lock, so there is exactly
// one writer.
func (a *Assembler) push() {
	select {
	case a.updates <- a.state:
	default:
		select {
		case <-a.updates:
		default:
		}
		a.updates <- a.state
	}
}
