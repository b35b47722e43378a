package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/refdeck/refdeck/internal/domain"
	"github.com/refdeck/refdeck/internal/logger"
	redisstore "github.com/refdeck/refdeck/internal/store/redis"
)

// fakeSource hands the subscription callbacks back to the test so it
// can script snapshot deliveries in any interleaving.
type fakeSource struct {
	categories redisstore.CategoriesHandler
	links      redisstore.LinksHandler

	categoryCancels int
	linkCancels     int
}

func (f *fakeSource) SubscribeCategories(_ context.Context, fn redisstore.CategoriesHandler) (func(), error) {
	f.categories = fn
	return func() { f.categoryCancels++ }, nil
}

func (f *fakeSource) SubscribeAllLinks(_ context.Context, fn redisstore.LinksHandler) (func(), error) {
	f.links = fn
	return func() { f.linkCancels++ }, nil
}

func startAssembler(t *testing.T) (*Assembler, *fakeSource) {
	t.Helper()
	source := &fakeSource{}
	assembler := NewAssembler(source, logger.New("error", false))
	if err := assembler.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(assembler.Close)
	return assembler, source
}

func testCategories() []*domain.Category {
	return []*domain.Category{
		{ID: "datasets", Title: "Datasets"},
		{ID: "tools", Title: "Tools"},
	}
}

func testLinks() []*domain.Link {
	return []*domain.Link{
		{ID: "era5", CategoryID: "datasets", Title: "ERA5", URL: "#", Type: domain.LinkTypeDataset},
		{ID: "qgis", CategoryID: "tools", Title: "QGIS", URL: "https://qgis.org", Type: domain.LinkTypeTool},
		{ID: "grass", CategoryID: "tools", Title: "GRASS GIS", URL: "https://grass.osgeo.org", Type: domain.LinkTypeTool},
	}
}

func treeShape(state TreeState) map[string]int {
	shape := make(map[string]int, len(state.Categories))
	for _, category := range state.Categories {
		shape[category.ID] = len(category.Links)
	}
	return shape
}

func TestMergeIsOrderIndependent(t *testing.T) {
	tests := []struct {
		name    string
		deliver func(source *fakeSource)
	}{
		{
			name: "parents first",
			deliver: func(source *fakeSource) {
				source.categories(testCategories(), nil)
				source.links(testLinks(), nil)
			},
		},
		{
			name: "children first",
			deliver: func(source *fakeSource) {
				source.links(testLinks(), nil)
				source.categories(testCategories(), nil)
			},
		},
		{
			name: "children twice around parents",
			deliver: func(source *fakeSource) {
				source.links(testLinks()[:1], nil)
				source.categories(testCategories(), nil)
				source.links(testLinks(), nil)
			},
		},
	}

	want := map[string]int{"datasets": 1, "tools": 2}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembler, source := startAssembler(t)
			tt.deliver(source)

			state := assembler.Current()
			if state.Loading {
				t.Error("Loading = true after category snapshot")
			}
			if state.Err != nil {
				t.Fatalf("unexpected error state: %v", state.Err)
			}

			got := treeShape(state)
			if len(got) != len(want) {
				t.Fatalf("tree has %d categories, want %d", len(got), len(want))
			}
			for id, links := range want {
				if got[id] != links {
					t.Errorf("category %s has %d links, want %d", id, got[id], links)
				}
			}
		})
	}
}

func TestLoadingGatesOnParentStreamOnly(t *testing.T) {
	assembler, source := startAssembler(t)

	if !assembler.Current().Loading {
		t.Error("Loading = false before any snapshot")
	}

	// A child snapshot alone does not end loading.
	source.links(testLinks(), nil)
	if !assembler.Current().Loading {
		t.Error("Loading = false after child snapshot only")
	}

	// An empty parent snapshot does.
	source.categories(nil, nil)
	state := assembler.Current()
	if state.Loading {
		t.Error("Loading = true after parent snapshot")
	}
	if len(state.Categories) != 0 {
		t.Errorf("tree has %d categories, want 0", len(state.Categories))
	}
}

func TestCategoryWithNoLinksIsValid(t *testing.T) {
	assembler, source := startAssembler(t)

	source.categories(testCategories(), nil)

	state := assembler.Current()
	for _, category := range state.Categories {
		if category.Links == nil {
			t.Errorf("category %s has nil links, want empty slice", category.ID)
		}
		if len(category.Links) != 0 {
			t.Errorf("category %s has %d links before any child snapshot", category.ID, len(category.Links))
		}
	}

	// A child snapshot covering only one category leaves the others
	// with an empty set, still never nil.
	source.links([]*domain.Link{
		{ID: "qgis", CategoryID: "tools", Title: "QGIS", URL: "https://qgis.org", Type: domain.LinkTypeTool},
	}, nil)

	state = assembler.Current()
	for _, category := range state.Categories {
		if category.Links == nil {
			t.Errorf("category %s has nil links after partial child snapshot", category.ID)
		}
	}
}

func TestOrphanedLinksAreNotInTree(t *testing.T) {
	assembler, source := startAssembler(t)

	source.categories([]*domain.Category{{ID: "tools", Title: "Tools"}}, nil)
	orphans := append(testLinks(), &domain.Link{ID: "lost", CategoryID: "deleted-category", Title: "Lost"})
	source.links(orphans, nil)

	state := assembler.Current()
	if len(state.Categories) != 1 {
		t.Fatalf("tree has %d categories, want 1", len(state.Categories))
	}
	if got := len(state.Categories[0].Links); got != 2 {
		t.Errorf("tools has %d links, want 2 (orphans excluded)", got)
	}
}

func TestStreamErrorIsTerminal(t *testing.T) {
	assembler, source := startAssembler(t)

	source.categories(testCategories(), nil)
	streamErr := errors.New("connection reset")
	source.links(nil, streamErr)

	state := assembler.Current()
	if !errors.Is(state.Err, streamErr) {
		t.Fatalf("Err = %v, want the stream error", state.Err)
	}
	if state.Loading {
		t.Error("Loading = true in error state")
	}

	// Later deliveries must not revive the assembler.
	source.categories([]*domain.Category{{ID: "new", Title: "New"}}, nil)
	after := assembler.Current()
	if !errors.Is(after.Err, streamErr) {
		t.Error("error state was cleared by a later snapshot")
	}
	if treeShape(after)["new"] != 0 {
		t.Error("snapshot applied after terminal error")
	}
}

func TestCloseCancelsBothSubscriptionsOnce(t *testing.T) {
	assembler, source := startAssembler(t)

	assembler.Close()
	assembler.Close()

	if source.categoryCancels != 1 {
		t.Errorf("category subscription cancelled %d times, want 1", source.categoryCancels)
	}
	if source.linkCancels != 1 {
		t.Errorf("link subscription cancelled %d times, want 1", source.linkCancels)
	}
}

func TestUpdatesKeepsLatestState(t *testing.T) {
	assembler, source := startAssembler(t)

	// Deliver more states than the channel buffers; the reader must
	// still observe the newest one.
	source.categories(testCategories(), nil)
	source.links(testLinks()[:1], nil)
	source.links(testLinks(), nil)

	state := <-assembler.Updates()
	got := treeShape(state)
	if got["tools"] != 2 || got["datasets"] != 1 {
		t.Errorf("latest state not delivered, got shape %v", got)
	}
}
