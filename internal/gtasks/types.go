package gtasks

// Task is a single Google Tasks item annotated with its list.
type Task struct {
	ID          string
	ListID      string
	ListName    string
	Title       string
	Notes       string
	Status      string // "needsAction" or "completed"
	Due         string
	WebViewLink string
}

// TaskList is a Google Tasks list.
type TaskList struct {
	ID    string
	Title string
}

// API response shapes. Unknown fields are ignored on decode.

type taskListsResponse struct {
	Items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type tasksResponse struct {
	Items []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Notes       string `json:"notes"`
		Status      string `json:"status"`
		Due         string `json:"due"`
		WebViewLink string `json:"webViewLink"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
