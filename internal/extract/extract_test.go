package extract

import (
	"reflect"
	"testing"

	"github.com/xbito/yt-gt-browser/internal/gtasks"
)

func TestVideoIDs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "full watch URL",
			text: "check https://www.youtube.com/watch?v=dQw4w9WgXcQ out",
			want: []string{"dQw4w9WgXcQ"},
		},
		{
			name: "short URL",
			text: "https://youtu.be/abc123",
			want: []string{"abc123"},
		},
		{
			name: "no scheme",
			text: "see youtube.com/watch?v=xyz_789",
			want: []string{"xyz_789"},
		},
		{
			name: "mobile host",
			text: "m.youtube.com/watch?v=mobileVid01",
			want: []string{"mobileVid01"},
		},
		{
			name: "shorts URL",
			text: "https://www.youtube.com/shorts/short12345",
			want: []string{"short12345"},
		},
		{
			name: "v not first query param",
			text: "https://www.youtube.com/watch?t=42&v=laterParam1",
			want: []string{"laterParam1"},
		},
		{
			name: "multiple URLs",
			text: "see https://www.youtube.com/watch?v=abc123 and https://youtu.be/def456",
			want: []string{"abc123", "def456"},
		},
		{
			name: "duplicate within text",
			text: "https://youtu.be/abc123 again https://www.youtube.com/watch?v=abc123",
			want: []string{"abc123"},
		},
		{
			name: "no URLs",
			text: "buy milk, call dentist",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "unrelated domain",
			text: "https://vimeo.com/12345678",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VideoIDs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VideoIDs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestVideoRefs_DeduplicatesAcrossTasks(t *testing.T) {
	tasks := []gtasks.Task{
		{
			ID:       "t1",
			ListName: "Watch Later",
			Title:    "Watch: https://youtu.be/abc123",
		},
		{
			ID:       "t2",
			ListName: "Work",
			Notes:    "see https://www.youtube.com/watch?v=abc123 and https://youtu.be/def456",
		},
	}

	refs := VideoRefs(tasks)

	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}

	// First-seen wins: abc123 keeps t1's annotation.
	if refs[0].VideoID != "abc123" || refs[0].TaskID != "t1" || refs[0].ListName != "Watch Later" {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].VideoID != "def456" || refs[1].TaskID != "t2" || refs[1].ListName != "Work" {
		t.Errorf("refs[1] = %+v", refs[1])
	}
}

func TestVideoRefs_SkipsTasksWithoutURLs(t *testing.T) {
	tasks := []gtasks.Task{
		{ID: "t1", Title: "buy milk"},
		{ID: "t2", Notes: "plain notes, no links"},
	}

	if refs := VideoRefs(tasks); len(refs) != 0 {
		t.Errorf("got %d refs, want 0", len(refs))
	}
}

func TestVideoRefs_TitleAndNotesBothScanned(t *testing.T) {
	tasks := []gtasks.Task{
		{
			ID:    "t1",
			Title: "intro https://youtu.be/titleVid001",
			Notes: "followup https://youtu.be/notesVid002",
		},
	}

	refs := VideoRefs(tasks)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].VideoID != "titleVid001" || refs[1].VideoID != "notesVid002" {
		t.Errorf("refs = %+v", refs)
	}
}
