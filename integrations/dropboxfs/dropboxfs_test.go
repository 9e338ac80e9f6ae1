package dropboxfs

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"

	"github.com/wudi/docsmith/integrations"
)

const fileMetaJSON = `{
	"name": "q3.pptx",
	"id": "id:abc123",
	"path_display": "/reports/q3.pptx",
	"path_lower": "/reports/q3.pptx",
	"size": 4,
	"rev": "015d1",
	"client_modified": "2026-08-25T10:00:00Z",
	"server_modified": "2026-08-25T10:00:00Z"
}`

// newTestStore routes all SDK traffic to a local stub server.
func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := dropbox.Config{
		Token:  "tok",
		Client: srv.Client(),
		URLGenerator: func(hostType, namespace, route string) string {
			return fmt.Sprintf("%s/2/%s/%s", srv.URL, namespace, route)
		},
	}
	return NewFromConfig(cfg)
}

func TestUpload(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/files/upload" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "deck" {
			t.Errorf("uploaded body = %q", body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fileMetaJSON)
	}))

	info, err := store.Upload("/reports/q3.pptx", []byte("deck"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if info.Name != "q3.pptx" || info.Size != 4 || info.PathDisplay != "/reports/q3.pptx" {
		t.Fatalf("info = %+v", info)
	}
}

func TestDownload(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Dropbox-Api-Result", fileMetaJSON)
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, "deck")
	}))

	info, data, err := store.Download("/reports/q3.pptx")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "deck" || info.ID != "id:abc123" {
		t.Fatalf("data=%q info=%+v", data, info)
	}
}

func TestSharedLink(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			".tag": "file",
			"url": "https://www.dropbox.com/s/abc/q3.pptx?dl=0",
			"name": "q3.pptx",
			"id": "id:abc123",
			"client_modified": "2026-08-25T10:00:00Z",
			"server_modified": "2026-08-25T10:00:00Z",
			"rev": "015d1",
			"size": 4,
			"link_permissions": {"can_revoke": true, "resolved_visibility": {".tag": "public"}}
		}`)
	}))

	url, err := store.SharedLink("/reports/q3.pptx")
	if err != nil {
		t.Fatalf("SharedLink: %v", err)
	}
	if url != "https://www.dropbox.com/s/abc/q3.pptx?dl=0" {
		t.Fatalf("url = %q", url)
	}
}

func TestRelativePathRejected(t *testing.T) {
	store := New("tok")
	if _, err := store.Upload("reports/q3.pptx", nil); !integrations.IsValidation(err) {
		t.Fatalf("relative path should fail validation, got %v", err)
	}
}

func TestMapErr(t *testing.T) {
	cases := []struct {
		summary string
		check   func(error) bool
		name    string
	}{
		{"path/not_found/", integrations.IsNotFound, "not_found"},
		{"expired_access_token/", integrations.IsAuth, "auth"},
		{"too_many_requests/", integrations.IsRateLimited, "rate_limited"},
		{"path/malformed_path/", integrations.IsValidation, "validation"},
	}
	for _, tc := range cases {
		err := mapErr(fmt.Errorf("%s", tc.summary))
		if !tc.check(err) {
			t.Errorf("summary %q did not classify as %s: %v", tc.summary, tc.name, err)
		}
	}
}
