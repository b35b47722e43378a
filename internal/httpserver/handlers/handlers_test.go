package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/catalog"
	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/httpserver/routes"
	"github.com/refdeck/refdeck/internal/logger"
	"github.com/refdeck/refdeck/internal/notify"
	redisstore "github.com/refdeck/refdeck/internal/store/redis"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.New("error", false)
	store := redisstore.NewStore(client)
	emitter := notify.NewEmitter(store)

	assembler := catalog.NewAssembler(store, log)
	feed := notify.NewFeed(store, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := assembler.Start(ctx); err != nil {
		t.Fatalf("assembler start failed: %v", err)
	}
	t.Cleanup(assembler.Close)
	if err := feed.Start(ctx); err != nil {
		t.Fatalf("feed start failed: %v", err)
	}
	t.Cleanup(feed.Close)

	d := deps.Deps{
		Logger:      log,
		StartTime:   time.Now(),
		Version:     "test",
		RedisClient: client,
		Assembler:   assembler,
		Feed:        feed,
		Mutations:   catalog.NewService(store, emitter, log),
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, raw
}

// waitUntil polls cond; subscription snapshots arrive asynchronously.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

type treeBody struct {
	Categories []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Links []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"links"`
	} `json:"categories"`
	Loading bool `json:"loading"`
}

func getTree(t *testing.T, ts *httptest.Server) treeBody {
	t.Helper()
	status, raw := doJSON(t, http.MethodGet, ts.URL+"/api/categories", "")
	if status != http.StatusOK {
		t.Fatalf("GET /api/categories = %d, want 200", status)
	}
	var body treeBody
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode tree: %v", err)
	}
	return body
}

func TestCategoryAndLinkLifecycle(t *testing.T) {
	ts := setupServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/categories",
		`{"title":"Tools","description":"Everyday tooling","icon":"wrench"}`)
	if status != http.StatusCreated {
		t.Fatalf("POST category = %d, want 201", status)
	}

	var categoryID string
	waitUntil(t, func() bool {
		tree := getTree(t, ts)
		if tree.Loading || len(tree.Categories) != 1 {
			return false
		}
		categoryID = tree.Categories[0].ID
		return tree.Categories[0].Title == "Tools"
	})

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/categories/"+categoryID+"/links",
		`{"title":"NASA POWER Dataset!!","url":"https://power.larc.nasa.gov","type":"dataset"}`)
	if status != http.StatusCreated {
		t.Fatalf("POST link = %d, want 201", status)
	}

	waitUntil(t, func() bool {
		tree := getTree(t, ts)
		return len(tree.Categories) == 1 &&
			len(tree.Categories[0].Links) == 1 &&
			tree.Categories[0].Links[0].ID == "nasa-power-dataset"
	})

	status, _ = doJSON(t, http.MethodPatch,
		ts.URL+"/api/categories/"+categoryID+"/links/nasa-power-dataset",
		`{"title":"NASA POWER"}`)
	if status != http.StatusOK {
		t.Fatalf("PATCH link = %d, want 200", status)
	}

	waitUntil(t, func() bool {
		tree := getTree(t, ts)
		return len(tree.Categories[0].Links) == 1 &&
			tree.Categories[0].Links[0].Title == "NASA POWER"
	})

	status, _ = doJSON(t, http.MethodDelete,
		ts.URL+"/api/categories/"+categoryID+"?title=Tools", "")
	if status != http.StatusOK {
		t.Fatalf("DELETE category = %d, want 200", status)
	}

	waitUntil(t, func() bool {
		return len(getTree(t, ts).Categories) == 0
	})
}

func TestRejectsUnknownLinkType(t *testing.T) {
	ts := setupServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/categories/cat-1/links",
		`{"title":"Broken","url":"https://example.com","type":"bogus"}`)
	if status != http.StatusBadRequest {
		t.Errorf("POST link with unknown type = %d, want 400", status)
	}
}

func TestRejectsMalformedBody(t *testing.T) {
	ts := setupServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/categories", `{"title":`)
	if status != http.StatusBadRequest {
		t.Errorf("POST malformed body = %d, want 400", status)
	}
}

func TestNotificationsFeedOverHTTP(t *testing.T) {
	ts := setupServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/categories",
		`{"title":"Papers","description":"","icon":"book"}`)
	if status != http.StatusCreated {
		t.Fatalf("POST category = %d, want 201", status)
	}

	type feedBody struct {
		Notifications []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Read bool   `json:"read"`
		} `json:"notifications"`
		UnreadCount int `json:"unreadCount"`
	}
	getFeed := func() feedBody {
		status, raw := doJSON(t, http.MethodGet, ts.URL+"/api/notifications", "")
		if status != http.StatusOK {
			t.Fatalf("GET /api/notifications = %d, want 200", status)
		}
		var body feedBody
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("failed to decode feed: %v", err)
		}
		return body
	}

	waitUntil(t, func() bool {
		feed := getFeed()
		return feed.UnreadCount == 1 &&
			len(feed.Notifications) == 1 &&
			feed.Notifications[0].Type == "category_created"
	})

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/notifications/read-all", "")
	if status != http.StatusOK {
		t.Fatalf("POST read-all = %d, want 200", status)
	}

	waitUntil(t, func() bool {
		feed := getFeed()
		return feed.UnreadCount == 0 && len(feed.Notifications) == 1
	})

	id := getFeed().Notifications[0].ID
	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/notifications/"+id+"/dismiss", "")
	if status != http.StatusOK {
		t.Fatalf("POST dismiss = %d, want 200", status)
	}

	waitUntil(t, func() bool {
		return len(getFeed().Notifications) == 0
	})
}

func TestReadyzReflectsRedis(t *testing.T) {
	ts := setupServer(t)

	status, raw := doJSON(t, http.MethodGet, ts.URL+"/readyz", "")
	if status != http.StatusOK {
		t.Fatalf("GET /readyz = %d, want 200", status)
	}
	var body struct {
		Ready bool `json:"ready"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode readyz: %v", err)
	}
	if !body.Ready {
		t.Error("ready = false, want true")
	}
}
