package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/storage"
)

// recentKnowledgeWindow is how many of the newest items keyword matching scans
const recentKnowledgeWindow = 10

// SelectKnowledge picks the items used as prompt context. Explicit ids win;
// otherwise the newest items whose title or content contains any message word
// longer than three characters are used. At most limit items are returned.
func SelectKnowledge(ctx context.Context, store storage.KnowledgeStore, message string, ids []string, limit int) ([]*models.KnowledgeItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	if len(ids) > 0 {
		items, err := store.GetKnowledge(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge items: %w", err)
		}
		return capItems(items, limit), nil
	}

	words := searchWords(message)
	if len(words) == 0 {
		return nil, nil
	}

	recent, err := store.RecentKnowledge(ctx, recentKnowledgeWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent knowledge: %w", err)
	}

	var matched []*models.KnowledgeItem
	for _, item := range recent {
		title := strings.ToLower(item.Title)
		content := strings.ToLower(item.Content)
		for _, w := range words {
			if strings.Contains(title, w) || strings.Contains(content, w) {
				matched = append(matched, item)
				break
			}
		}
	}
	return capItems(matched, limit), nil
}

func searchWords(message string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(message)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

func capItems(items []*models.KnowledgeItem, limit int) []*models.KnowledgeItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func snippets(items []*models.KnowledgeItem) []models.KnowledgeSnippet {
	out := make([]models.KnowledgeSnippet, 0, len(items))
	for _, item := range items {
		out = append(out, item.Snippet())
	}
	return out
}
