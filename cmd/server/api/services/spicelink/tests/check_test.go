package tests

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_Check(t *testing.T) {
	srv, _ := startServer(t)

	t.Run("liveness", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/liveness")
		if err != nil {
			t.Fatalf("getting: %s", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.StatusCode)
		}

		var body struct {
			Status string `json:"status"`
			Build  string `json:"build"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %s", err)
		}

		if body.Status != "up" {
			t.Errorf("got status %q, want up", body.Status)
		}

		if body.Build != "test" {
			t.Errorf("got build %q, want test", body.Build)
		}
	})

	t.Run("readiness", func(t *testing.T) {
		// The test registry points at an empty directory, so no model
		// artifact is present and the node must report not ready.
		resp, err := http.Get(srv.URL + "/v1/readiness")
		if err != nil {
			t.Fatalf("getting: %s", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", resp.StatusCode)
		}
	})
}
