package filewatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pantry-planner/internal/food"
)

func TestHandleFileChange(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "filewatch_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	store := NewHouseholdStore(food.DefaultCatalog())
	fw, err := NewFileWatcher([]string{tmpDir}, store)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer fw.Close()

	path := filepath.Join(tmpDir, "household.csv")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write CSV: %v", err)
		}
	}

	t.Run("ValidFile", func(t *testing.T) {
		write("member,food,weight\nmia,breakfast01,0.9\nnoa,lunch01,0.4\n")
		fw.HandleFileChange(path)

		members := store.MembersForWeek(1)
		if len(members) != 2 || members[0].Name != "mia" {
			t.Fatalf("Expected [mia noa], got %v", members)
		}
		if store.Version() != 1 {
			t.Errorf("Expected version 1, got %d", store.Version())
		}
	})

	t.Run("InvalidFileKeepsPrevious", func(t *testing.T) {
		write("member,food,weight\nmia,caviar,1\n")
		fw.HandleFileChange(path)

		if len(store.Members()) != 2 || store.Version() != 1 {
			t.Errorf("Expected the previous household to survive a bad file")
		}
	})

	t.Run("PreferenceChangeAccepted", func(t *testing.T) {
		write("member,food,weight\nnoa,lunch01,0.9\nmia,breakfast01,0.1\n")
		fw.HandleFileChange(path)

		if store.Version() != 2 {
			t.Fatalf("Expected version 2, got %d", store.Version())
		}
		if w := store.Members()[1].PreferenceWeight("breakfast01"); w != 0.1 {
			t.Errorf("Expected mia's new weight 0.1, got %v", w)
		}
	})

	t.Run("MembershipChangeRejected", func(t *testing.T) {
		write("member,food,weight\nmia,breakfast01,0.9\nnoa,lunch01,0.4\nkit,lunch02,1\nzed,dinner01,1\n")
		fw.HandleFileChange(path)

		if len(store.Members()) != 2 || store.Version() != 2 {
			t.Errorf("Expected the two-member household to be kept, got %v", store.Members())
		}
		if err := store.Reload(path); !errors.Is(err, ErrMembersChanged) {
			t.Errorf("Expected ErrMembersChanged, got %v", err)
		}
	})
}
