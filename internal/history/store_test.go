package history

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/storage"
)

func TestStore_LoadFresh(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, nil)

	if store.Load() {
		t.Error("Load on empty storage should report no restore")
	}

	msgs := store.Snapshot()
	if len(msgs) != 1 {
		t.Fatalf("expected greeting only, got %d messages", len(msgs))
	}
	if msgs[0].Role != models.RoleModel || msgs[0].Text != models.Greeting {
		t.Errorf("unexpected greeting: %+v", msgs[0])
	}
	if msgs[0].ID == "" {
		t.Error("greeting should have an id")
	}

	// Load alone never writes
	if _, ok, _ := kv.Get(storage.KeyChatHistory); ok {
		t.Error("Load should not persist the greeting")
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", "{not json"},
		{"wrong shape", `{"id":"1"}`},
		{"empty array", "[]"},
		{"missing id", `[{"role":"user","text":"hi"}]`},
		{"bad role", `[{"id":"1","role":"assistant","text":"hi"}]`},
		{"duplicate id", `[{"id":"1","role":"user","text":"a"},{"id":"1","role":"model","text":"b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			_ = kv.Set(storage.KeyChatHistory, tt.raw)

			store := NewStore(kv, nil)
			if store.Load() {
				t.Error("corrupt snapshot should not be restored")
			}
			msgs := store.Snapshot()
			if len(msgs) != 1 || msgs[0].Text != models.Greeting {
				t.Errorf("expected fallback greeting, got %+v", msgs)
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	kv, err := storage.NewFileKV(filepath.Join(t.TempDir(), "default"))
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	first := NewStore(kv, nil)
	first.Load()
	user := models.NewUserMessage("How far can a Model 3 go?")
	reply := models.NewPlaceholder()
	first.Append(user, reply)
	first.SetTextAndSources(reply.ID, "About 500 km.", []models.Source{
		{URI: "https://tesla.com/model3", Title: "Model 3"},
	})

	second := NewStore(kv, nil)
	if !second.Load() {
		t.Fatal("expected snapshot to be restored")
	}

	got := second.Snapshot()
	want := first.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("restored %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Role != want[i].Role || got[i].Text != want[i].Text {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
		if len(got[i].Sources) != len(want[i].Sources) {
			t.Errorf("message %d sources = %v, want %v", i, got[i].Sources, want[i].Sources)
		}
	}
}

func TestStore_AppendPersistsSnapshot(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, nil)
	store.Load()

	store.Append(models.NewUserMessage("hi"), models.NewPlaceholder())

	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}

	raw, ok, _ := kv.Get(storage.KeyChatHistory)
	if !ok {
		t.Fatal("chat history was not persisted")
	}
	var persisted []models.Message
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("persisted value is not a JSON array: %v", err)
	}
	if len(persisted) != 3 {
		t.Errorf("persisted %d messages, want 3", len(persisted))
	}
	if persisted[1].Role != models.RoleUser || persisted[2].Text != models.Placeholder {
		t.Errorf("unexpected persisted order: %+v", persisted)
	}
}

func TestStore_UpdateByID(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), nil)
	store.Load()

	first := models.NewPlaceholder()
	second := models.NewPlaceholder()
	store.Append(first, second)

	ok := store.UpdateByID(second.ID, func(m *models.Message) {
		m.Text = "updated"
		m.ID = "hijacked"
		m.Role = models.RoleUser
	})
	if !ok {
		t.Fatal("UpdateByID should find the message")
	}

	got, _ := store.Get(second.ID)
	if got.Text != "updated" || got.Role != models.RoleModel {
		t.Errorf("second = %+v", got)
	}
	if _, found := store.Get("hijacked"); found {
		t.Error("mutate must not be able to change the id")
	}

	untouched, _ := store.Get(first.ID)
	if untouched.Text != models.Placeholder {
		t.Errorf("other message changed: %+v", untouched)
	}

	if store.UpdateByID("missing", func(m *models.Message) { m.Text = "x" }) {
		t.Error("UpdateByID on unknown id should return false")
	}
}

func TestStore_UpdateIsIdempotent(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), nil)
	store.Load()
	reply := models.NewPlaceholder()
	store.Append(reply)

	store.SetText(reply.ID, "same")
	before := store.Snapshot()
	store.SetText(reply.ID, "same")
	after := store.Snapshot()

	if len(before) != len(after) {
		t.Fatal("length changed")
	}
	for i := range before {
		if before[i].Text != after[i].Text {
			t.Errorf("message %d changed on repeated update", i)
		}
	}
}

func TestStore_PersistenceFailureKeepsMemory(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, nil)
	store.Load()

	kv.SetErr = errors.New("quota exceeded")
	store.Append(models.NewUserMessage("hello"), models.NewPlaceholder())

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3 despite failed write", store.Len())
	}
	if _, ok, _ := kv.Get(storage.KeyChatHistory); ok {
		t.Error("nothing should have been written")
	}

	// Recovers once storage works again
	kv.SetErr = nil
	store.Append(models.NewUserMessage("again"))
	raw, ok, _ := kv.Get(storage.KeyChatHistory)
	if !ok {
		t.Fatal("expected write after recovery")
	}
	msgs, err := Decode([]byte(raw))
	if err != nil || len(msgs) != 4 {
		t.Errorf("Decode = %d messages, %v", len(msgs), err)
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	store := NewStore(nil, nil)
	store.Load()
	reply := models.NewPlaceholder()
	store.Append(reply)
	store.SetTextAndSources(reply.ID, "x", []models.Source{{URI: "u", Title: "t"}})

	snap := store.Snapshot()
	snap[1].Text = "mutated"
	snap[1].Sources[0].Title = "mutated"

	got, _ := store.Get(reply.ID)
	if got.Text != "x" || got.Sources[0].Title != "t" {
		t.Errorf("store state leaked through snapshot: %+v", got)
	}
}

func TestStore_ResetAndReplace(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, nil)
	store.Load()
	store.Append(models.NewUserMessage("a"), models.NewPlaceholder())

	store.Reset()
	msgs := store.Snapshot()
	if len(msgs) != 1 || msgs[0].Text != models.Greeting {
		t.Errorf("Reset left %+v", msgs)
	}

	store.Replace([]models.Message{models.NewUserMessage("only")})
	if store.Len() != 1 {
		t.Errorf("Len() = %d after Replace", store.Len())
	}
	last, ok := store.Last(models.RoleUser)
	if !ok || last.Text != "only" {
		t.Errorf("Last(user) = %+v, %v", last, ok)
	}
	if _, ok := store.Last(models.RoleModel); ok {
		t.Error("no model message expected")
	}
}

func TestStore_OnChange(t *testing.T) {
	store := NewStore(nil, nil)
	var calls int
	var lastLen int
	store.OnChange(func(msgs []models.Message) {
		calls++
		lastLen = len(msgs)
	})

	store.Load()
	store.Append(models.NewUserMessage("a"))

	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}
	if lastLen != 2 {
		t.Errorf("listener saw %d messages, want 2", lastLen)
	}
}
