package sync

import (
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"swipe/internal/kv"
	"swipe/internal/store"
)

// hookedKV runs a callback after every read, letting tests interleave
// concurrent writes at exact points inside a compound store operation.
type hookedKV struct {
	kv.Store
	afterGet func(key string)
}

func (h *hookedKV) Get(key string) (string, bool, error) {
	v, ok, err := h.Store.Get(key)
	if h.afterGet != nil {
		h.afterGet(key)
	}
	return v, ok, err
}

func testKV(t *testing.T) *kv.DB {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return store.New(testKV(t), logger)
}

func TestMergeServerWinsOnConflict(t *testing.T) {
	s := testStore(t)
	logger, _ := zap.NewDevelopment()
	r := NewReconciler(s, logger)

	s.ReplaceMessages("c1", []store.Message{
		{ID: "m1", ChatID: "c1", Content: "local version", Timestamp: 100},
	})
	r.CacheMessages("c1", []store.Message{
		{ID: "m1", ChatID: "c1", Content: "server version", Timestamp: 100},
	})

	msgs := s.Messages("c1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (no duplicate)", len(msgs))
	}
	if msgs[0].Content != "server version" {
		t.Errorf("content = %q, want server version", msgs[0].Content)
	}
}

func TestMergeKeepsLocalOnlyMessages(t *testing.T) {
	s := testStore(t)
	logger, _ := zap.NewDevelopment()
	r := NewReconciler(s, logger)

	// m2 originated locally and was never echoed back by the server.
	s.ReplaceMessages("c1", []store.Message{
		{ID: "m2", ChatID: "c1", Content: "local only", Timestamp: 200},
	})
	r.CacheMessages("c1", []store.Message{
		{ID: "m1", ChatID: "c1", Content: "from server", Timestamp: 100},
	})

	msgs := s.Messages("c1")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
}

func TestMergeSortsAscendingByTimestamp(t *testing.T) {
	s := testStore(t)
	logger, _ := zap.NewDevelopment()
	r := NewReconciler(s, logger)

	s.ReplaceMessages("c1", []store.Message{
		{ID: "m3", ChatID: "c1", Timestamp: 300},
	})
	r.CacheMessages("c1", []store.Message{
		{ID: "m1", ChatID: "c1", Timestamp: 100},
		{ID: "m2", ChatID: "c1", Timestamp: 200},
	})

	msgs := s.Messages("c1")
	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].Timestamp > msgs[i].Timestamp {
			t.Fatalf("not ascending at %d: %+v", i, msgs)
		}
	}
	if msgs[0].ID != "m1" || msgs[2].ID != "m3" {
		t.Errorf("order = %s, %s, %s", msgs[0].ID, msgs[1].ID, msgs[2].ID)
	}
}

func TestMergeIntoEmptyChat(t *testing.T) {
	s := testStore(t)
	logger, _ := zap.NewDevelopment()
	r := NewReconciler(s, logger)

	r.CacheMessages("c1", []store.Message{
		{ID: "m1", ChatID: "c1", Timestamp: 100},
	})
	if len(s.Messages("c1")) != 1 {
		t.Error("merge into empty chat lost the message")
	}
}

// TestMergeKeepsMessageSentMidMerge: a send fired while a merge holds the
// messages collection must queue behind the merge and survive it, never be
// overwritten by the merge's snapshot.
func TestMergeKeepsMessageSentMidMerge(t *testing.T) {
	hk := &hookedKV{Store: testKV(t)}
	logger, _ := zap.NewDevelopment()
	s := store.New(hk, logger)
	r := NewReconciler(s, logger)
	s.SaveChat(store.Chat{ID: "c1"})

	var once gosync.Once
	sent := make(chan store.Message, 1)
	hk.afterGet = func(key string) {
		if key != "messages" {
			return
		}
		once.Do(func() {
			go func() { sent <- s.SendMessage("c1", "sent mid-merge", "me") }()
			// Give the send time to reach the messages mutex.
			time.Sleep(50 * time.Millisecond)
		})
	}

	r.CacheMessages("c1", []store.Message{
		{ID: "srv1", ChatID: "c1", Content: "from server", Timestamp: 100},
	})
	m := <-sent

	var contents []string
	found := false
	for _, got := range s.Messages("c1") {
		contents = append(contents, got.Content)
		if got.ID == m.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("message sent during merge lost; store holds %v", contents)
	}
}

func TestCacheChatUpsert(t *testing.T) {
	s := testStore(t)
	logger, _ := zap.NewDevelopment()
	r := NewReconciler(s, logger)

	r.CacheChat(store.Chat{ID: "c1", Name: "Old"})
	r.CacheChat(store.Chat{ID: "c1", Name: "New"})

	chats := s.Chats()
	if len(chats) != 1 || chats[0].Name != "New" {
		t.Errorf("chats = %+v, want single chat named New", chats)
	}
}
