package dao

import (
	"context"
	"testing"
	"time"

	"prism/prism/sources/psql/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupChatDAO(t *testing.T) *ChatMessageDAO {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ChatMessage{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewChatMessageDAO(db)
}

func TestSaveMessageAssignsIDAndTimestamp(t *testing.T) {
	dao := setupChatDAO(t)
	ctx := context.Background()

	msg, err := dao.SaveMessage(ctx, "u1", models.RoleUser, models.ContentTypeText, "hello")
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if msg.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Errorf("expected assigned id")
	}
	if msg.CreatedAt.IsZero() {
		t.Errorf("expected assigned created_at")
	}
}

func TestHistoryOrderedOldestFirst(t *testing.T) {
	dao := setupChatDAO(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		if _, err := dao.SaveMessage(ctx, "u1", models.RoleUser, models.ContentTypeText, content); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	history, err := dao.GetHistoryByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetHistoryByUser failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	want := []string{"first", "second", "third"}
	for i, msg := range history {
		if msg.Content != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], msg.Content)
		}
	}
}

func TestHistoryIsIdempotent(t *testing.T) {
	dao := setupChatDAO(t)
	ctx := context.Background()

	dao.SaveMessage(ctx, "u1", models.RoleUser, models.ContentTypeText, "a")
	dao.SaveMessage(ctx, "u1", models.RoleModel, models.ContentTypeText, "b")

	first, err := dao.GetHistoryByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetHistoryByUser failed: %v", err)
	}
	second, err := dao.GetHistoryByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetHistoryByUser failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("position %d: expected identical ordering", i)
		}
	}
}

func TestHistoryIsScopedToUser(t *testing.T) {
	dao := setupChatDAO(t)
	ctx := context.Background()

	dao.SaveMessage(ctx, "u1", models.RoleUser, models.ContentTypeText, "mine")
	dao.SaveMessage(ctx, "u2", models.RoleUser, models.ContentTypeText, "theirs")

	history, err := dao.GetHistoryByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetHistoryByUser failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "mine" {
		t.Errorf("expected only u1's message, got %+v", history)
	}
}

func TestDeleteAllByUserKeepsOtherUsers(t *testing.T) {
	dao := setupChatDAO(t)
	ctx := context.Background()

	dao.SaveMessage(ctx, "u1", models.RoleUser, models.ContentTypeText, "a")
	dao.SaveMessage(ctx, "u1", models.RoleModel, models.ContentTypeText, "b")
	dao.SaveMessage(ctx, "u2", models.RoleUser, models.ContentTypeText, "c")

	deleted, err := dao.DeleteAllByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("DeleteAllByUser failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted rows, got %d", deleted)
	}

	mine, _ := dao.GetHistoryByUser(ctx, "u1")
	if len(mine) != 0 {
		t.Errorf("expected empty history after clear, got %d rows", len(mine))
	}
	theirs, _ := dao.GetHistoryByUser(ctx, "u2")
	if len(theirs) != 1 {
		t.Errorf("expected u2's history untouched, got %d rows", len(theirs))
	}
}
