package results_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/sdk/spice"
)

func Test_Results(t *testing.T) {
	store, err := results.NewStore(10, time.Minute)
	if err != nil {
		t.Fatalf("creating store: %s", err)
	}

	prediction := spice.Resolve([spice.NumClasses]float32{0.1, 0.1, 0.7, 0.1})

	added := store.Add("MobileNetV2", prediction, "deskripsi kunyit")

	if added.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}

	got, err := store.Retrieve(added.ID)
	if err != nil {
		t.Fatalf("retrieving result: %s", err)
	}

	if got.Model != "MobileNetV2" {
		t.Errorf("got model %q, want MobileNetV2", got.Model)
	}

	if got.Prediction.Class != spice.Kunyit {
		t.Errorf("got class %v, want Kunyit", got.Prediction.Class)
	}

	if got.Description != "deskripsi kunyit" {
		t.Errorf("got description %q", got.Description)
	}

	if _, err := store.Retrieve(uuid.New()); err == nil {
		t.Error("expected error for unknown id")
	}
}
