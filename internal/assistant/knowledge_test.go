package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/storage"
)

func seedKnowledge(t *testing.T, store *storage.MemoryStorage, items ...models.KnowledgeItem) []string {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, 0, len(items))
	for i := range items {
		item := items[i]
		item.AddedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.AddKnowledge(context.Background(), &item))
		ids = append(ids, item.ID)
	}
	return ids
}

func TestSelectKnowledge_ExplicitIDs(t *testing.T) {
	store := storage.NewMemoryStorage()
	ids := seedKnowledge(t, store,
		models.KnowledgeItem{Title: "Deck Staining", Content: "Oil based stains last longer."},
		models.KnowledgeItem{Title: "Gutter Cleaning", Content: "Twice a year."},
	)

	items, err := SelectKnowledge(context.Background(), store, "unrelated words entirely", ids[:1], 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Deck Staining", items[0].Title)
}

func TestSelectKnowledge_KeywordMatch(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedKnowledge(t, store,
		models.KnowledgeItem{Title: "Deck Staining", Content: "Oil based stains last longer."},
		models.KnowledgeItem{Title: "Gutter Cleaning", Content: "Clear leaves twice a year."},
		models.KnowledgeItem{Title: "Tile Grout", Content: "Seal grout after 72 hours."},
	)

	items, err := SelectKnowledge(context.Background(), store, "When should I seal the GROUT?", nil, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tile Grout", items[0].Title)

	// words of three characters or fewer never match
	items, err = SelectKnowledge(context.Background(), store, "oil a day", nil, 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSelectKnowledge_LimitAndOrder(t *testing.T) {
	store := storage.NewMemoryStorage()
	var items []models.KnowledgeItem
	for i := 0; i < 5; i++ {
		items = append(items, models.KnowledgeItem{Title: fmt.Sprintf("Paint guide %d", i), Content: "paint"})
	}
	seedKnowledge(t, store, items...)

	got, err := SelectKnowledge(context.Background(), store, "which paint finish", nil, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Paint guide 4", got[0].Title)

	got, err = SelectKnowledge(context.Background(), store, "which paint finish", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
