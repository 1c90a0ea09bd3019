package catalog_test

import (
	"testing"

	"github.com/najmahf/spicelink/sdk/spice"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
)

func Test_Catalog(t *testing.T) {
	ctlg, err := catalog.New()
	if err != nil {
		t.Fatalf("creating catalog: %s", err)
	}

	t.Run("descriptions", func(t *testing.T) {
		for _, class := range spice.Classes() {
			desc := ctlg.Description(class)

			if desc == "" {
				t.Errorf("class %v: empty description", class)
			}

			if desc == catalog.NoDescription {
				t.Errorf("class %v: missing description", class)
			}
		}
	})

	t.Run("fallback", func(t *testing.T) {
		if got := ctlg.Description(spice.Class(9)); got != catalog.NoDescription {
			t.Errorf("got %q, want fallback", got)
		}
	})

	t.Run("info", func(t *testing.T) {
		info, exists := ctlg.Info(spice.Kunyit)
		if !exists {
			t.Fatal("expected info for Kunyit")
		}

		if info.Name != "Kunyit" {
			t.Errorf("got name %q, want Kunyit", info.Name)
		}

		if info.Scientific == "" {
			t.Error("expected a scientific name")
		}
	})

	t.Run("list", func(t *testing.T) {
		list := ctlg.List()

		if len(list) != spice.NumClasses {
			t.Fatalf("got %d entries, want %d", len(list), spice.NumClasses)
		}

		for i, class := range spice.Classes() {
			if list[i].Name != class.String() {
				t.Errorf("entry %d: got %q, want %q", i, list[i].Name, class)
			}
		}
	})
}
