package ops

import (
	"context"
	"fmt"
	"testing"
)

func TestList_Empty(t *testing.T) {
	database, _ := setupTest(t)

	out, err := List(context.Background(), database)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Items == nil {
		t.Fatal("Items is nil, want empty slice")
	}
	if out.Total != 0 {
		t.Errorf("Total = %d, want 0", out.Total)
	}
}

func TestList_CreationOrder(t *testing.T) {
	database, cfg := setupTest(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		n, err := Create(ctx, database, cfg, CreateInput{Content: fmt.Sprintf("note %d", i)})
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		ids = append(ids, n.ID)
	}

	out, err := List(ctx, database)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Total != 5 {
		t.Fatalf("Total = %d, want 5", out.Total)
	}
	for i, id := range ids {
		if out.Items[i].ID != id {
			t.Errorf("Items[%d].ID = %q, want %q (creation order)", i, out.Items[i].ID, id)
		}
	}
}
