package solvr

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	cases := []struct {
		failures int
		want     time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{6, 3200 * time.Millisecond},
		{7, 5 * time.Second},
		{20, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := backoff(tc.failures); got != tc.want {
			t.Errorf("backoff(%d) = %v, want %v", tc.failures, got, tc.want)
		}
	}
}

func TestParseAPIError(t *testing.T) {
	t.Run("structured body", func(t *testing.T) {
		err := parseAPIError(429, []byte(`{"error":{"code":"RATE_LIMITED","message":"slow down"}}`))
		if err.Status != 429 || err.Code != "RATE_LIMITED" || err.Message != "slow down" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("malformed body falls back to status", func(t *testing.T) {
		err := parseAPIError(500, []byte("oops"))
		if err.Status != 500 || err.Message != "API error: 500" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("error string includes code when present", func(t *testing.T) {
		withCode := &APIError{Status: 404, Code: "NOT_FOUND", Message: "missing"}
		if got := withCode.Error(); got != "solvr: missing (status 404, code NOT_FOUND)" {
			t.Errorf("Error() = %q", got)
		}
		withoutCode := &APIError{Status: 503, Message: "API error: 503"}
		if got := withoutCode.Error(); got != "solvr: API error: 503 (status 503)" {
			t.Errorf("Error() = %q", got)
		}
	})
}

func TestEnumValidity(t *testing.T) {
	for _, pt := range []PostType{PostTypeProblem, PostTypeQuestion, PostTypeIdea} {
		if !pt.Valid() {
			t.Errorf("PostType(%q).Valid() = false", pt)
		}
	}
	if PostType("rant").Valid() {
		t.Error("PostType(rant).Valid() = true")
	}
	if !VoteUp.Valid() || !VoteDown.Valid() || VoteDirection("sideways").Valid() {
		t.Error("VoteDirection validity mismatch")
	}
}
