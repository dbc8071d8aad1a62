package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comunidadhq/backend/internal/models"
)

func comment(id string, parentID *string, at time.Time) models.Comment {
	return models.Comment{ID: id, PostID: "p1", ParentID: parentID, CreatedAt: at}
}

func ptr(s string) *string { return &s }

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Deliberately shuffled input: c2 arrives before its parent c1.
	flat := []models.Comment{
		comment("c2", ptr("c1"), base.Add(2*time.Minute)),
		comment("c1", nil, base),
		comment("c4", ptr("c2"), base.Add(4*time.Minute)),
		comment("c3", nil, base.Add(3*time.Minute)),
		comment("c5", ptr("c1"), base.Add(1*time.Minute)),
	}

	roots := BuildCommentTree(flat)
	require.Len(t, roots, 2)

	assert.Equal(t, "c1", roots[0].ID)
	assert.Equal(t, "c3", roots[1].ID)

	// Siblings under c1 are chronological: c5 (t+1) before c2 (t+2).
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "c5", roots[0].Replies[0].ID)
	assert.Equal(t, "c2", roots[0].Replies[1].ID)

	require.Len(t, roots[0].Replies[1].Replies, 1)
	assert.Equal(t, "c4", roots[0].Replies[1].Replies[0].ID)

	assert.Empty(t, roots[1].Replies)
}

func TestBuildCommentTree_MissingParentBecomesRoot(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	flat := []models.Comment{
		comment("c1", nil, base),
		comment("c2", ptr("gone"), base.Add(time.Minute)),
	}

	roots := BuildCommentTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, "c1", roots[0].ID)
	assert.Equal(t, "c2", roots[1].ID)
}

func TestBuildCommentTree_Empty(t *testing.T) {
	assert.Empty(t, BuildCommentTree(nil))
}
