package solvr_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"solvr-go/solvr"

	"github.com/google/go-cmp/cmp"
)

func TestClient_Claim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/v1/agents/me/claim" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"token":"claim_abc123","expires_at":"2025-06-15T18:30:00Z","instructions":"share with your operator"}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, 3)
	got, err := c.Claim(context.Background())
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	want := &solvr.ClaimToken{
		Token:        "claim_abc123",
		ExpiresAt:    "2025-06-15T18:30:00Z",
		Instructions: "share with your operator",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("claim token mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Pins(t *testing.T) {
	t.Run("create pin posts the CID and name", func(t *testing.T) {
		var body string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v1/pins" {
				t.Errorf("%s %s, want POST /v1/pins", r.Method, r.URL.Path)
			}
			b := make([]byte, r.ContentLength)
			r.Body.Read(b)
			body = string(b)
			fmt.Fprint(w, `{"requestid":"req-1","status":"queued","created":"2025-06-15T12:00:00Z","pin":{"cid":"QmTest","name":"my-file"}}`)
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv, 3)
		got, err := c.CreatePin(context.Background(), solvr.CreatePinRequest{CID: "QmTest", Name: "my-file"})
		if err != nil {
			t.Fatalf("CreatePin() error = %v", err)
		}

		if want := `{"cid":"QmTest","name":"my-file"}`; body != want {
			t.Errorf("request body = %s, want %s", body, want)
		}
		if got.RequestID != "req-1" || got.Status != "queued" {
			t.Errorf("pin = %+v", got)
		}
		if got.Pin.CID != "QmTest" {
			t.Errorf("pin CID = %q, want QmTest", got.Pin.CID)
		}
	})

	t.Run("missing CID is rejected locally", func(t *testing.T) {
		var attempts int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv, 3)
		if _, err := c.CreatePin(context.Background(), solvr.CreatePinRequest{}); err == nil {
			t.Fatal("CreatePin() accepted an empty CID")
		}
		if attempts != 0 {
			t.Errorf("attempts = %d, want 0", attempts)
		}
	})

	t.Run("list encodes the status filter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/pins" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if got := r.URL.Query().Get("status"); got != "pinned" {
				t.Errorf("status param = %q, want pinned", got)
			}
			fmt.Fprint(w, `{"count":2,"results":[
				{"requestid":"req-1","status":"pinned","pin":{"cid":"QmA","name":"a"}},
				{"requestid":"req-2","status":"pinned","pin":{"cid":"QmB"}}
			]}`)
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv, 3)
		got, err := c.ListPins(context.Background(), &solvr.ListPinsOptions{Status: "pinned"})
		if err != nil {
			t.Fatalf("ListPins() error = %v", err)
		}
		if got.Count != 2 || len(got.Results) != 2 {
			t.Fatalf("list = %+v", got)
		}
		if got.Results[1].Pin.CID != "QmB" {
			t.Errorf("second CID = %q, want QmB", got.Results[1].Pin.CID)
		}
	})

	t.Run("get returns one pin", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/pins/req-9" {
				t.Errorf("path = %q", r.URL.Path)
			}
			fmt.Fprint(w, `{"requestid":"req-9","status":"pinning","pin":{"cid":"QmNine"}}`)
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv, 3)
		got, err := c.GetPin(context.Background(), "req-9")
		if err != nil {
			t.Fatalf("GetPin() error = %v", err)
		}
		if got.Status != "pinning" {
			t.Errorf("status = %q, want pinning", got.Status)
		}
	})

	t.Run("delete sends DELETE", func(t *testing.T) {
		var method, path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv, 3)
		if err := c.DeletePin(context.Background(), "req-9"); err != nil {
			t.Fatalf("DeletePin() error = %v", err)
		}
		if method != http.MethodDelete || path != "/v1/pins/req-9" {
			t.Errorf("%s %s, want DELETE /v1/pins/req-9", method, path)
		}
	})
}

func TestClient_AddFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/add" {
			t.Errorf("%s %s, want POST /v1/add", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("Content-Type = %q, want multipart/form-data", ct)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "data.json" {
			t.Errorf("filename = %q, want data.json", header.Filename)
		}
		content := make([]byte, header.Size)
		file.Read(content)
		if string(content) != `{"hello":"ipfs"}` {
			t.Errorf("file content = %s", content)
		}

		fmt.Fprint(w, `{"cid":"QmUploaded","size":16}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, 3)
	got, err := c.AddFile(context.Background(), "data.json", strings.NewReader(`{"hello":"ipfs"}`))
	if err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	if got.CID != "QmUploaded" || got.Size != 16 {
		t.Errorf("upload = %+v, want CID QmUploaded size 16", got)
	}
}
