package gtasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeTasksAPI serves a configurable set of lists and tasks with pagination.
type fakeTasksAPI struct {
	lists     []map[string]string
	tasks     map[string][]map[string]string // listID -> tasks
	pageSize  int
	failLists bool
}

func (f *fakeTasksAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		if f.failLists {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 403, "message": "insufficient scope"},
			})
			return
		}
		f.writePage(w, r, f.lists)
	})

	mux.HandleFunc("/lists/", func(w http.ResponseWriter, r *http.Request) {
		// Path shape: /lists/{id}/tasks
		listID := r.URL.Path[len("/lists/") : len(r.URL.Path)-len("/tasks")]
		if r.URL.Query().Get("showHidden") != "true" {
			http.Error(w, "expected showHidden=true", http.StatusBadRequest)
			return
		}
		f.writePage(w, r, f.tasks[listID])
	})

	return mux
}

func (f *fakeTasksAPI) writePage(w http.ResponseWriter, r *http.Request, items []map[string]string) {
	// Page tokens are plain offsets in this fake.
	start := 0
	if tok := r.URL.Query().Get("pageToken"); tok != "" {
		start = atoi(tok)
	}

	size := f.pageSize
	if size <= 0 {
		size = len(items)
	}

	end := start + size
	resp := map[string]any{}
	if end >= len(items) {
		end = len(items)
	} else {
		resp["nextPageToken"] = itoa(end)
	}
	resp["items"] = items[start:end]

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func newTestClient(t *testing.T, api *fakeTasksAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	return NewClient(server.Client(), WithBaseURL(server.URL))
}

func TestListTaskLists_Pagination(t *testing.T) {
	api := &fakeTasksAPI{
		lists: []map[string]string{
			{"id": "l1", "title": "Watch Later"},
			{"id": "l2", "title": "Work"},
			{"id": "l3", "title": "Music"},
		},
		pageSize: 2,
	}

	client := newTestClient(t, api)
	lists, err := client.ListTaskLists(context.Background())
	if err != nil {
		t.Fatalf("ListTaskLists() error = %v", err)
	}

	if len(lists) != 3 {
		t.Fatalf("got %d lists, want 3", len(lists))
	}
	if lists[2].Title != "Music" {
		t.Errorf("lists[2].Title = %q, want %q", lists[2].Title, "Music")
	}
}

func TestFetchAllTasks(t *testing.T) {
	api := &fakeTasksAPI{
		lists: []map[string]string{
			{"id": "l1", "title": "Watch Later"},
			{"id": "l2", "title": "Work"},
		},
		tasks: map[string][]map[string]string{
			"l1": {
				{"id": "t1", "title": "Watch: https://youtu.be/abc123def45", "status": "needsAction"},
				{"id": "t2", "title": "Done already", "status": "completed"},
			},
			"l2": {
				{"id": "t3", "title": "Review doc", "notes": "no videos here", "status": "needsAction"},
			},
		},
		pageSize: 1,
	}

	client := newTestClient(t, api)
	tasks, err := client.FetchAllTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchAllTasks() error = %v", err)
	}

	// Completed t2 is skipped.
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	if tasks[0].ListName != "Watch Later" {
		t.Errorf("tasks[0].ListName = %q, want %q", tasks[0].ListName, "Watch Later")
	}
	if tasks[1].ID != "t3" {
		t.Errorf("tasks[1].ID = %q, want %q", tasks[1].ID, "t3")
	}
}

func TestListTaskLists_APIError(t *testing.T) {
	api := &fakeTasksAPI{failLists: true}

	client := newTestClient(t, api)
	_, err := client.ListTaskLists(context.Background())
	if err == nil {
		t.Fatal("ListTaskLists() should fail")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Message != "insufficient scope" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestListTasks_IgnoresUnexpectedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "t1", "title": "hello", "status": "needsAction",
				 "etag": "abc", "selfLink": "ignored", "brandNewField": [1, 2, 3]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	tasks, err := client.ListTasks(context.Background(), TaskList{ID: "l1", Title: "Inbox"})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}

	if len(tasks) != 1 || tasks[0].Title != "hello" {
		t.Errorf("tasks = %+v", tasks)
	}
}
