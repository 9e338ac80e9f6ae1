package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wudi/docsmith/integrations"
)

// testServer stubs the token endpoint and the meetings API in one
// mux and counts token exchanges.
func testServer(t *testing.T) (*Client, *int) {
	t.Helper()
	exchanges := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "cid" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"reason":"Invalid client credentials"}`)
			return
		}
		if got := r.FormValue("grant_type"); got != "account_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		exchanges++
		fmt.Fprintf(w, `{"access_token":"at-%d","token_type":"bearer","expires_in":3600}`, exchanges)
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at-1" {
			t.Errorf("Authorization = %q", got)
		}
		var body createMeetingBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode meeting body: %v", err)
		}
		resp := Meeting{
			ID:        91234,
			Topic:     body.Topic,
			Type:      body.Type,
			StartTime: body.StartTime,
			Duration:  body.Duration,
			JoinURL:   "https://zoom.us/j/91234",
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/v2/meetings/91234", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Meeting{ID: 91234, Topic: "Retro", JoinURL: "https://zoom.us/j/91234"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(Config{
		AccountID:    "acct",
		ClientID:     "cid",
		ClientSecret: "secret",
		AuthURL:      srv.URL + "/oauth/token",
		BaseURL:      srv.URL + "/v2",
		HTTPClient:   srv.Client(),
	})
	return c, &exchanges
}

func TestCreateMeeting(t *testing.T) {
	c, exchanges := testServer(t)

	start := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	meeting, err := c.CreateMeeting(context.Background(), CreateMeetingRequest{
		Topic:    "Quarterly review",
		Start:    start,
		Duration: 45,
	})
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	if meeting.ID != 91234 || meeting.JoinURL == "" {
		t.Fatalf("meeting = %+v", meeting)
	}
	if meeting.Type != TypeScheduled || meeting.StartTime != "2026-09-01T15:00:00Z" {
		t.Fatalf("scheduled fields: type=%d start=%q", meeting.Type, meeting.StartTime)
	}

	// Second call inside the token lifetime reuses the cached token.
	if _, err := c.GetMeeting(context.Background(), 91234); err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if *exchanges != 1 {
		t.Fatalf("token exchanged %d times, want 1", *exchanges)
	}
}

func TestCreateInstantMeeting(t *testing.T) {
	c, _ := testServer(t)
	meeting, err := c.CreateMeeting(context.Background(), CreateMeetingRequest{Topic: "Standup"})
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	if meeting.Type != TypeInstant || meeting.StartTime != "" {
		t.Fatalf("instant meeting fields: %+v", meeting)
	}
}

func TestBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"reason":"Invalid client credentials"}`)
	}))
	defer srv.Close()

	c := New(Config{
		AccountID: "acct", ClientID: "wrong", ClientSecret: "wrong",
		AuthURL: srv.URL, BaseURL: srv.URL, HTTPClient: srv.Client(),
	})
	_, err := c.CreateMeeting(context.Background(), CreateMeetingRequest{Topic: "x"})
	if !integrations.IsAuth(err) {
		t.Fatalf("failed exchange should classify as auth, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	c := New(Config{AccountID: "a", ClientID: "b", ClientSecret: "c"})
	if _, err := c.CreateMeeting(context.Background(), CreateMeetingRequest{}); !integrations.IsValidation(err) {
		t.Fatalf("missing topic should fail validation, got %v", err)
	}
	if _, err := c.GetMeeting(context.Background(), 0); !integrations.IsValidation(err) {
		t.Fatalf("zero id should fail validation, got %v", err)
	}
}
