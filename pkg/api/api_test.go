package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"yawt/pkg/auth"
	"yawt/pkg/models"
	"yawt/pkg/store"
	"yawt/pkg/timeline"

	"github.com/gorilla/mux"
)

const testSigningKey = "test-signing-key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	root := mux.NewRouter()
	v1 := root.PathPrefix("/v1").Subrouter()
	v1.Use(auth.RequireSignedUser(auth.SecConfig{SigningKeys: []string{testSigningKey}}))
	New(st, 1<<20).Register(v1)

	ts := httptest.NewServer(root)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, user string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
		req.Header.Set("X-User-Signature", auth.SignUserID(testSigningKey, user))
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func mkSeries(t *testing.T, ts *httptest.Server, user, title string) models.Series {
	t.Helper()
	var sr models.Series
	if code := do(t, ts, http.MethodPost, "/v1/series", user, map[string]string{"title": title}, &sr); code != http.StatusCreated {
		t.Fatalf("create series: status %d", code)
	}
	return sr
}

func mkBook(t *testing.T, ts *httptest.Server, user, seriesID, title string) models.Book {
	t.Helper()
	var b models.Book
	code := do(t, ts, http.MethodPost, "/v1/series/"+seriesID+"/books", user, map[string]string{"title": title}, &b)
	if code != http.StatusCreated {
		t.Fatalf("create book: status %d", code)
	}
	return b
}

func mkScene(t *testing.T, ts *httptest.Server, user, seriesID, bookID, text string) models.Scene {
	t.Helper()
	var sc models.Scene
	path := fmt.Sprintf("/v1/series/%s/books/%s/scenes", seriesID, bookID)
	if code := do(t, ts, http.MethodPost, path, user, map[string]string{"text": text}, &sc); code != http.StatusCreated {
		t.Fatalf("create scene: status %d", code)
	}
	return sc
}

func TestUnauthenticatedRejected(t *testing.T) {
	ts := newTestServer(t)
	if code := do(t, ts, http.MethodGet, "/v1/series", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]string
	if code := do(t, ts, http.MethodGet, "/v1/me", "alice", nil, &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out["userId"] != "alice" {
		t.Fatalf("userId = %q", out["userId"])
	}
}

func TestSeriesLifecycle(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	if sr.ID == "" || sr.CreatedAt == 0 {
		t.Fatalf("bad series: %+v", sr)
	}

	var got models.Series
	if code := do(t, ts, http.MethodGet, "/v1/series/"+sr.ID, "alice", nil, &got); code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	if got.Title != "Chronicles" {
		t.Fatalf("title = %q", got.Title)
	}

	// partial update keeps untouched fields
	desc := "a long tale"
	if code := do(t, ts, http.MethodPut, "/v1/series/"+sr.ID, "alice", map[string]string{"description": desc}, &got); code != http.StatusOK {
		t.Fatalf("update: %d", code)
	}
	if got.Title != "Chronicles" || got.Description != desc {
		t.Fatalf("after update: %+v", got)
	}

	var listed struct {
		Series []models.Series `json:"series"`
	}
	if code := do(t, ts, http.MethodGet, "/v1/series", "alice", nil, &listed); code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if len(listed.Series) != 1 {
		t.Fatalf("listed %d series", len(listed.Series))
	}

	if code := do(t, ts, http.MethodDelete, "/v1/series/"+sr.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: %d", code)
	}
	if code := do(t, ts, http.MethodGet, "/v1/series/"+sr.ID, "alice", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", code)
	}
}

func TestSeriesValidation(t *testing.T) {
	ts := newTestServer(t)
	if code := do(t, ts, http.MethodPost, "/v1/series", "alice", map[string]string{"title": "   "}, nil); code != http.StatusBadRequest {
		t.Fatalf("blank title: %d", code)
	}
	sr := mkSeries(t, ts, "alice", "Keep")
	if code := do(t, ts, http.MethodPut, "/v1/series/"+sr.ID, "alice", map[string]string{"title": ""}, nil); code != http.StatusBadRequest {
		t.Fatalf("empty title update: %d", code)
	}
}

func TestSeriesDeleteBlockedByBooks(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	b := mkBook(t, ts, "alice", sr.ID, "Volume One")

	if code := do(t, ts, http.MethodDelete, "/v1/series/"+sr.ID, "alice", nil, nil); code != http.StatusConflict {
		t.Fatalf("delete with books: %d", code)
	}
	if code := do(t, ts, http.MethodDelete, "/v1/series/"+sr.ID+"/books/"+b.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete book: %d", code)
	}
	if code := do(t, ts, http.MethodDelete, "/v1/series/"+sr.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete after emptying: %d", code)
	}
}

func TestBooksOrderAndReorder(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	a := mkBook(t, ts, "alice", sr.ID, "A")
	b := mkBook(t, ts, "alice", sr.ID, "B")
	c := mkBook(t, ts, "alice", sr.ID, "C")

	titles := func() []string {
		var listed struct {
			Books []models.Book `json:"books"`
		}
		if code := do(t, ts, http.MethodGet, "/v1/series/"+sr.ID+"/books", "alice", nil, &listed); code != http.StatusOK {
			t.Fatalf("list books: %d", code)
		}
		out := make([]string, 0, len(listed.Books))
		for _, bk := range listed.Books {
			out = append(out, bk.Title)
		}
		return out
	}

	if got := titles(); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Fatalf("initial order = %v", got)
	}

	// move C between A and B
	path := "/v1/series/" + sr.ID + "/books/" + c.ID + "/reorder"
	if code := do(t, ts, http.MethodPost, path, "alice", map[string]string{"afterId": a.ID, "beforeId": b.ID}, nil); code != http.StatusOK {
		t.Fatalf("reorder: %d", code)
	}
	if got := titles(); !equalStrings(got, []string{"A", "C", "B"}) {
		t.Fatalf("after reorder = %v", got)
	}

	// no anchors is a validation error
	if code := do(t, ts, http.MethodPost, path, "alice", map[string]string{}, nil); code != http.StatusBadRequest {
		t.Fatalf("anchorless reorder: %d", code)
	}
	// unknown anchor is not found
	if code := do(t, ts, http.MethodPost, path, "alice", map[string]string{"afterId": "nope"}, nil); code != http.StatusNotFound {
		t.Fatalf("unknown anchor: %d", code)
	}
}

func TestSceneDerivedAttributes(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	bk := mkBook(t, ts, "alice", sr.ID, "Volume One")

	text := "---\ntitle: The Storm\nchapter: 3\nstartDate: \"1041-05-02\"\ntags: [weather]\n---\nRain fell for days."
	sc := mkScene(t, ts, "alice", sr.ID, bk.ID, text)
	if sc.Derived.Title != "The Storm" {
		t.Fatalf("derived title = %q", sc.Derived.Title)
	}
	if sc.Derived.StartDate != "1041-05-02" {
		t.Fatalf("derived startDate = %q", sc.Derived.StartDate)
	}
	if len(sc.Derived.Tags) != 1 || sc.Derived.Tags[0] != "weather" {
		t.Fatalf("derived tags = %v", sc.Derived.Tags)
	}

	// updating the text recomputes derived fields
	path := fmt.Sprintf("/v1/series/%s/books/%s/scenes/%s", sr.ID, bk.ID, sc.ID)
	var updated models.Scene
	if code := do(t, ts, http.MethodPut, path, "alice", map[string]string{"text": "no frontmatter here"}, &updated); code != http.StatusOK {
		t.Fatalf("update scene: %d", code)
	}
	if updated.Derived.Title != "" || updated.Derived.StartDate != "" {
		t.Fatalf("derived not cleared: %+v", updated.Derived)
	}
	// missing text field on update is rejected
	if code := do(t, ts, http.MethodPut, path, "alice", map[string]string{}, nil); code != http.StatusBadRequest {
		t.Fatalf("textless update: %d", code)
	}
}

func TestBookDeleteBlockedByScenes(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	bk := mkBook(t, ts, "alice", sr.ID, "Volume One")
	sc := mkScene(t, ts, "alice", sr.ID, bk.ID, "text")

	bookPath := "/v1/series/" + sr.ID + "/books/" + bk.ID
	if code := do(t, ts, http.MethodDelete, bookPath, "alice", nil, nil); code != http.StatusConflict {
		t.Fatalf("delete with scenes: %d", code)
	}
	scenePath := fmt.Sprintf("%s/scenes/%s", bookPath, sc.ID)
	if code := do(t, ts, http.MethodDelete, scenePath, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete scene: %d", code)
	}
	if code := do(t, ts, http.MethodDelete, bookPath, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete after emptying: %d", code)
	}
}

func TestTimelineEventsDerivedAndSorted(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")
	bk := mkBook(t, ts, "alice", sr.ID, "Volume One")

	var tl models.Timeline
	code := do(t, ts, http.MethodPost, "/v1/series/"+sr.ID+"/timelines", "alice",
		map[string]string{"title": "Main"}, &tl)
	if code != http.StatusCreated {
		t.Fatalf("create timeline: %d", code)
	}

	mkScene(t, ts, "alice", sr.ID, bk.ID, "---\ntitle: Later\nstartDate: \"1041-06-01\"\ntimelineIds: ["+tl.ID+"]\n---\nx")
	mkScene(t, ts, "alice", sr.ID, bk.ID, "---\ntitle: Earlier\nstartDate: \"1041-05-01\"\ntimelineIds: ["+tl.ID+"]\n---\nx")
	// no dates: excluded from the derived view
	mkScene(t, ts, "alice", sr.ID, bk.ID, "---\ntitle: Undated\ntimelineIds: ["+tl.ID+"]\n---\nx")
	// other timeline: excluded
	mkScene(t, ts, "alice", sr.ID, bk.ID, "---\ntitle: Elsewhere\nstartDate: \"1041-01-01\"\ntimelineIds: [other]\n---\nx")

	eventsPath := "/v1/series/" + sr.ID + "/timelines/" + tl.ID + "/events"
	var out struct {
		Events []timeline.SceneEvent `json:"events"`
	}
	if code := do(t, ts, http.MethodGet, eventsPath, "alice", nil, &out); code != http.StatusOK {
		t.Fatalf("list events: %d", code)
	}
	if len(out.Events) != 2 {
		t.Fatalf("events = %+v", out.Events)
	}
	if out.Events[0].Title != "Earlier" || out.Events[1].Title != "Later" {
		t.Fatalf("order = %q, %q", out.Events[0].Title, out.Events[1].Title)
	}
	if out.Events[0].BookTitle != "Volume One" {
		t.Fatalf("bookTitle = %q", out.Events[0].BookTitle)
	}

	// the write path stays closed
	if code := do(t, ts, http.MethodPost, eventsPath, "alice", map[string]string{"title": "manual"}, nil); code != http.StatusBadRequest {
		t.Fatalf("post events: %d", code)
	}
	// and per-id access explains itself instead of 404ing
	byID := eventsPath + "/" + out.Events[0].SceneID
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		if code := do(t, ts, method, byID, "alice", nil, nil); code != http.StatusBadRequest {
			t.Fatalf("%s event by id: %d", method, code)
		}
	}
}

func TestSeriesEventsCRUD(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")

	var e models.Event
	body := map[string]any{"title": "The Siege", "startDate": "1041-07-01", "characterIds": []string{"c1", "c1", "c2"}}
	if code := do(t, ts, http.MethodPost, "/v1/series/"+sr.ID+"/events", "alice", body, &e); code != http.StatusCreated {
		t.Fatalf("create event: %d", code)
	}
	if len(e.CharacterIDs) != 2 {
		t.Fatalf("characterIds not deduped: %v", e.CharacterIDs)
	}

	var got models.Event
	path := "/v1/series/" + sr.ID + "/events/" + e.ID
	if code := do(t, ts, http.MethodPut, path, "alice", map[string]string{"endDate": "1041-08-01"}, &got); code != http.StatusOK {
		t.Fatalf("update event: %d", code)
	}
	if got.Title != "The Siege" || got.EndDate != "1041-08-01" {
		t.Fatalf("after update: %+v", got)
	}
	if code := do(t, ts, http.MethodDelete, path, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete event: %d", code)
	}
}

func TestCharactersAndLocations(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Chronicles")

	var c models.Character
	body := map[string]any{"name": "Mira", "extra": map[string]any{"age": 30, "house": "Dane"}}
	if code := do(t, ts, http.MethodPost, "/v1/series/"+sr.ID+"/characters", "alice", body, &c); code != http.StatusCreated {
		t.Fatalf("create character: %d", code)
	}
	if c.Extra["house"] != "Dane" {
		t.Fatalf("extra = %v", c.Extra)
	}

	var l models.Location
	lbody := map[string]any{"name": "Harbor", "tags": []string{"coast", "coast", " "}}
	if code := do(t, ts, http.MethodPost, "/v1/series/"+sr.ID+"/locations", "alice", lbody, &l); code != http.StatusCreated {
		t.Fatalf("create location: %d", code)
	}
	if len(l.Tags) != 1 || l.Tags[0] != "coast" {
		t.Fatalf("tags = %v", l.Tags)
	}

	if code := do(t, ts, http.MethodPost, "/v1/series/"+sr.ID+"/characters", "alice", map[string]string{"name": ""}, nil); code != http.StatusBadRequest {
		t.Fatalf("blank name: %d", code)
	}
}

func TestNotesCRUD(t *testing.T) {
	ts := newTestServer(t)

	var n models.Note
	if code := do(t, ts, http.MethodPost, "/v1/notes", "alice", map[string]string{"title": "Ideas", "content": "body"}, &n); code != http.StatusCreated {
		t.Fatalf("create note: %d", code)
	}

	var got models.Note
	if code := do(t, ts, http.MethodPut, "/v1/notes/"+n.ID, "alice", map[string]string{"content": "revised"}, &got); code != http.StatusOK {
		t.Fatalf("update note: %d", code)
	}
	if got.Title != "Ideas" || got.Content != "revised" {
		t.Fatalf("after update: %+v", got)
	}
	if code := do(t, ts, http.MethodDelete, "/v1/notes/"+n.ID, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete note: %d", code)
	}
	if code := do(t, ts, http.MethodGet, "/v1/notes/"+n.ID, "alice", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", code)
	}
}

func TestUserIsolation(t *testing.T) {
	ts := newTestServer(t)
	sr := mkSeries(t, ts, "alice", "Private")

	if code := do(t, ts, http.MethodGet, "/v1/series/"+sr.ID, "bob", nil, nil); code != http.StatusNotFound {
		t.Fatalf("cross-user get: %d", code)
	}
	var listed struct {
		Series []models.Series `json:"series"`
	}
	if code := do(t, ts, http.MethodGet, "/v1/series", "bob", nil, &listed); code != http.StatusOK {
		t.Fatalf("cross-user list: %d", code)
	}
	if len(listed.Series) != 0 {
		t.Fatalf("bob sees %d series", len(listed.Series))
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
