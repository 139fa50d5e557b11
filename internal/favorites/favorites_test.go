package favorites

import (
	"testing"

	"github.com/rainfrog/rainfrog/internal/model"
)

func TestSaveListDeleteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, nil)

	fav := model.Favorite{Name: "good_name-1", QueryLines: []string{"select 1", "from t"}}
	if err := store.Save(fav); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "good_name-1" {
		t.Fatalf("List = %+v, want one favorite named good_name-1", list)
	}
	if list[0].Query() != "select 1\nfrom t" {
		t.Fatalf("Query() = %q, want joined lines", list[0].Query())
	}

	if err := store.Delete("good_name-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err = store.List()
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List after delete = %+v, want empty", list)
	}
}

func TestSaveRejectsInvalidName(t *testing.T) {
	store := New(t.TempDir(), nil)
	err := store.Save(model.Favorite{Name: "foo bar", QueryLines: []string{"select 1"}})
	if err == nil {
		t.Fatalf("expected an error saving an invalid favorite name")
	}
}

func TestListOnMissingDirectoryIsEmptyNotError(t *testing.T) {
	store := New(t.TempDir()+"/does-not-exist", nil)
	list, err := store.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List = %+v, want empty", list)
	}
}
