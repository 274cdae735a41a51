package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/syncstore"
)

func openTestTier(t *testing.T) *Tier {
	t.Helper()
	tier, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tier.Close() })
	return tier
}

func samplePortfolio() domain.Portfolio {
	dur := 12
	return domain.Portfolio{
		ID:       "p1",
		Title:    "My Work",
		Sections: []domain.Section{{ID: "s1", Title: "Design", Order: 0}},
		Items: []domain.Item{
			{
				ID: "i1", Type: domain.MediaImage, Title: "Logo", SectionID: "s1",
				Metadata: domain.ItemMetadata{Size: 2048, Format: "png", Dimensions: &domain.Dimensions{Width: 640, Height: 480}},
			},
			{
				ID: "i2", Type: domain.MediaVideo, Title: "Reel", ThumbnailBase64: "AAAA",
				Metadata: domain.ItemMetadata{Size: 4096, Format: "mp4", Duration: &dur},
			},
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	tier := openTestTier(t)

	snap, err := tier.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveAndLoad(t *testing.T) {
	tier := openTestTier(t)
	ctx := context.Background()
	p := samplePortfolio()
	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{Current: &p, Portfolios: []domain.Portfolio{p}, SavedAt: saved}))

	snap, err := tier.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "p1", snap.Current.ID)
	assert.True(t, saved.Equal(snap.SavedAt))
	require.Len(t, snap.Portfolios, 1)

	items := snap.Portfolios[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "s1", items[0].SectionID)
	assert.Equal(t, &domain.Dimensions{Width: 640, Height: 480}, items[0].Metadata.Dimensions)
	require.NotNil(t, items[1].Metadata.Duration)
	assert.Equal(t, 12, *items[1].Metadata.Duration)
	assert.Equal(t, "AAAA", items[1].ThumbnailBase64)
}

func TestSaveOverwrites(t *testing.T) {
	tier := openTestTier(t)
	ctx := context.Background()

	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{Portfolios: []domain.Portfolio{{ID: "a", Title: "A"}}}))
	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{Portfolios: []domain.Portfolio{{ID: "b", Title: "B"}}}))

	snap, err := tier.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Portfolios, 1)
	assert.Equal(t, "b", snap.Portfolios[0].ID)
	assert.Nil(t, snap.Current)
}

func TestClear(t *testing.T) {
	tier := openTestTier(t)
	ctx := context.Background()
	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{}))

	require.NoError(t, tier.Clear(ctx))
	snap, err := tier.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()
	p := samplePortfolio()

	tier, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{Current: &p, Portfolios: []domain.Portfolio{p}}))
	require.NoError(t, tier.Close())

	tier, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tier.Close() })

	snap, err := tier.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "My Work", snap.Current.Title)
}

func TestStoreRestoresFromTier(t *testing.T) {
	tier := openTestTier(t)
	ctx := context.Background()
	p := samplePortfolio()
	require.NoError(t, tier.Save(ctx, syncstore.Snapshot{Current: &p, Portfolios: []domain.Portfolio{p}}))

	// the gateway is never called: the store is only restored
	s := syncstore.New(nil, syncstore.WithSnapshot(tier))
	require.NoError(t, s.Restore(ctx))

	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "p1", cur.ID)
	assert.Len(t, cur.Items, 2)

	// a local transition is written back
	require.True(t, s.DeleteItem("i1"))
	snap, err := tier.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Current.Items, 1)
}
