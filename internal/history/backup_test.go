package history_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/HendryAvila/ortu/internal/history"
)

// ─── Text export / import ───────────────────────────────────────────────────

func TestExportGroup_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "first\nline two", "Snips")
	insert(t, s, "not in group", "")
	insert(t, s, "second", "Snips")

	path := filepath.Join(t.TempDir(), "snips.txt")
	if err := s.ExportGroup("Snips", path); err != nil {
		t.Fatalf("ExportGroup: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "second" + history.Separator + "first\nline two"
	if string(data) != want {
		t.Errorf("export = %q, want %q", data, want)
	}
}

func TestExportAllText(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "a", "")
	insert(t, s, "b", "Work")

	path := filepath.Join(t.TempDir(), "all.txt")
	if err := s.ExportAllText(path); err != nil {
		t.Fatalf("ExportAllText: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "b"+history.Separator+"a" {
		t.Errorf("export = %q", data)
	}
}

func TestImportGroup_RoundTrip(t *testing.T) {
	src := newTestStore(t)
	insert(t, src, "alpha", "Snips")
	insert(t, src, "beta\ngamma", "Snips")

	path := filepath.Join(t.TempDir(), "snips.txt")
	if err := src.ExportGroup("Snips", path); err != nil {
		t.Fatal(err)
	}

	dst := newTestStore(t)
	n, err := dst.ImportGroup("Imported", path)
	if err != nil {
		t.Fatalf("ImportGroup: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}

	items, _ := dst.GetHistory(history.GroupFilter{Name: "Imported"})
	got := contents(items)
	sort.Strings(got)
	if strings.Join(got, "|") != "alpha|beta\ngamma" {
		t.Errorf("imported contents = %q", got)
	}
	for _, it := range items {
		if it.Category == nil || *it.Category != "Imported" {
			t.Errorf("item %d category = %v, want Imported", it.ID, it.Category)
		}
	}
}

func TestImportGroup_SkipsBlankSegments(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "in.txt")
	body := "one" + history.Separator + "   \n" + history.Separator + "two"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.ImportGroup("G", path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}
}

func TestImportGroup_Twice_Duplicates(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.ImportGroup("G", path); err != nil {
			t.Fatal(err)
		}
	}
	items, _ := s.GetHistory(history.GroupFilter{Name: "G"})
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestImportGroup_MissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ImportGroup("G", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
	names, _ := s.Categories()
	if len(names) != 0 {
		t.Errorf("failed import must not create group, got %v", names)
	}
}

func TestSplitText(t *testing.T) {
	got := history.SplitText("a" + history.Separator + "\n" + history.Separator + " b ")
	if len(got) != 2 || got[0] != "a" || got[1] != " b " {
		t.Errorf("SplitText = %q", got)
	}
	if got := history.SplitText(""); len(got) != 0 {
		t.Errorf("SplitText(\"\") = %q, want empty", got)
	}
}

// ─── Backup / Restore ───────────────────────────────────────────────────────

func TestParseRestoreMode(t *testing.T) {
	for _, in := range []string{"replace", "merge"} {
		if _, err := history.ParseRestoreMode(in); err != nil {
			t.Errorf("ParseRestoreMode(%q): %v", in, err)
		}
	}
	if _, err := history.ParseRestoreMode("append"); !errors.Is(err, history.ErrInvalidRestoreMode) {
		t.Errorf("err = %v, want ErrInvalidRestoreMode", err)
	}
}

func TestBackupRestore_ReplaceRoundTrip(t *testing.T) {
	src := newTestStore(t)
	a := insert(t, src, "docker ps", "Docker")
	b := insert(t, src, "notes", "")
	if err := src.AddToGroup(b, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := src.AddToGroup(a, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := src.TogglePermanent(b); err != nil {
		t.Fatal(err)
	}
	if _, err := src.CreateGroup("Empty"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := src.BackupToFile(path, nil); err != nil {
		t.Fatalf("BackupToFile: %v", err)
	}

	dst := newTestStore(t)
	insert(t, dst, "to be wiped", "Junk")

	res, err := dst.RestoreFromFile(path, history.RestoreReplace)
	if err != nil {
		t.Fatalf("RestoreFromFile: %v", err)
	}
	if res.ItemsInserted != 2 || res.ItemsMerged != 0 || res.GroupsCreated != 3 {
		t.Errorf("result = %+v, want 2 inserted / 0 merged / 3 groups", res)
	}

	srcItems, _ := src.GetHistory(nil)
	dstItems, _ := dst.GetHistory(nil)
	if len(dstItems) != len(srcItems) {
		t.Fatalf("restored %d items, want %d", len(dstItems), len(srcItems))
	}
	for i := range srcItems {
		want, got := srcItems[i], dstItems[i]
		if got.RawContent != want.RawContent ||
			got.IsPermanent != want.IsPermanent ||
			got.CreatedAt != want.CreatedAt ||
			strings.Join(got.Groups, ",") != strings.Join(want.Groups, ",") {
			t.Errorf("item %d: got %+v, want %+v", i, got, want)
		}
	}

	names, _ := dst.Categories()
	if strings.Join(names, ",") != "Docker,Empty,Work" {
		t.Errorf("Categories = %v, want Docker,Empty,Work", names)
	}
}

func TestBackup_JSONShape(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "x", "G")

	data, err := s.ExportAll(nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := history.MarshalBackup(data)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"history", "groups", "exported_at"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("backup missing %q key", key)
		}
	}
}

func TestExportAll_SelectedGroups(t *testing.T) {
	s := newTestStore(t)
	a := insert(t, s, "in both", "A")
	if err := s.AddToGroup(a, "B"); err != nil {
		t.Fatal(err)
	}
	insert(t, s, "only b", "B")
	insert(t, s, "only c", "C")

	data, err := s.ExportAll([]string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if len(data.History) != 2 {
		t.Errorf("items = %v, want 2 distinct", contents(data.History))
	}
	if len(data.Groups) != 2 {
		t.Errorf("groups = %+v, want A and B", data.Groups)
	}
}

func TestRestore_MergeReusesExistingContent(t *testing.T) {
	s := newTestStore(t)
	existing := insert(t, s, "docker ps", "Work")

	backup := &history.BackupData{
		History: []history.ClipboardItem{
			{ID: 77, ContentType: "text", RawContent: "docker ps", Groups: []string{"Ops"}, CreatedAt: "2024-01-01 00:00:00"},
			{ID: 78, RawContent: "brand new", Groups: []string{"Ops"}, CreatedAt: "2024-01-02T10:00:00Z"},
		},
		Groups: []history.Group{{Name: "Ops"}, {Name: "Work"}},
	}

	res, err := s.Restore(backup, history.RestoreMerge)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if res.ItemsMerged != 1 || res.ItemsInserted != 1 || res.GroupsCreated != 1 {
		t.Errorf("result = %+v, want 1 merged / 1 inserted / 1 group", res)
	}

	items, _ := s.GetHistory(nil)
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2 (no duplicate)", contents(items))
	}

	it, _ := s.GetItem(existing)
	if !hasGroup(it, "Work") || !hasGroup(it, "Ops") {
		t.Errorf("merged item groups = %v, want Work and Ops", it.Groups)
	}

	for _, item := range items {
		if item.RawContent == "brand new" {
			if item.ID == 78 {
				t.Error("backup ids must not be reused")
			}
			if item.ContentType != history.ContentTypeText {
				t.Errorf("missing content type should default to text, got %q", item.ContentType)
			}
			if item.CreatedAt != "2024-01-02 10:00:00" {
				t.Errorf("CreatedAt = %q, want normalized 2024-01-02 10:00:00", item.CreatedAt)
			}
		}
	}
}

func TestRestore_InvalidMode(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Restore(&history.BackupData{}, history.RestoreMode("wipe"))
	if !errors.Is(err, history.ErrInvalidRestoreMode) {
		t.Errorf("err = %v, want ErrInvalidRestoreMode", err)
	}
}

func TestRestore_FailureRollsBack(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "keep me", "Work")

	s.FailExecMatching(func(q string) bool {
		return strings.Contains(q, "INSERT INTO history")
	})

	backup := &history.BackupData{
		History: []history.ClipboardItem{{RawContent: "incoming"}},
	}
	if _, err := s.Restore(backup, history.RestoreReplace); !errors.Is(err, history.ErrInjected) {
		t.Fatalf("err = %v, want ErrInjected", err)
	}

	items, err := s.GetHistory(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].RawContent != "keep me" {
		t.Errorf("after failed restore = %v, want [keep me]", contents(items))
	}
	names, _ := s.Categories()
	if len(names) != 1 || names[0] != "Work" {
		t.Errorf("groups after failed restore = %v, want [Work]", names)
	}
}

func TestInsertItem_CommitFailureLeavesNothing(t *testing.T) {
	s := newTestStore(t)
	s.FailCommit()

	if _, err := s.InsertItem("lost", nil); !errors.Is(err, history.ErrInjected) {
		t.Fatalf("err = %v, want ErrInjected", err)
	}
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestRestoreFromFile_BadJSON(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RestoreFromFile(path, history.RestoreMerge); err == nil {
		t.Fatal("expected parse error")
	}
}
