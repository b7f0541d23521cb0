package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/config"
	"clubsite/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return NewRepository(db)
}

func strPtr(s string) *string { return &s }

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)

		rec, err := newRecord(k)
		require.NoError(t, err)
		back, err := KindOf(rec)
		require.NoError(t, err)
		assert.Equal(t, k, back)
		assert.NotEqual(t, string(k), k.Label())
	}

	for _, tag := range []string{"", "user", "Update", "blogpost"} {
		_, err := ParseKind(tag)
		assert.ErrorIs(t, err, ErrUnknownKind, tag)
	}
	assert.Len(t, Kinds(), 5)
}

func TestUpdatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	faker := gofakeit.New(7)

	for i := 0; i < 5; i++ {
		u := &database.Update{
			Title:       faker.Sentence(4),
			Description: faker.Paragraph(1, 2, 8, " "),
			Date:        faker.Date().Format("January 2, 2006"),
		}
		require.NoError(t, repo.Create(ctx, u))
	}

	latest := &database.Update{Title: "Term starts", Description: "Welcome back", Date: "Sept 1"}
	require.NoError(t, repo.Create(ctx, latest))

	updates, err := repo.ListUpdates(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 6)
	assert.Equal(t, latest.ID, updates[0].ID)
	assert.Equal(t, "Term starts", updates[0].Title)
	assert.Equal(t, "Welcome back", updates[0].Description)
	assert.Equal(t, "Sept 1", updates[0].Date)
	assert.Nil(t, updates[0].ImageFile)
	for i := 1; i < len(updates); i++ {
		assert.Greater(t, updates[i-1].ID, updates[i].ID)
	}
}

func TestClubsByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, name := range []string{"Robotics", "Chess Club", "Drama"} {
		require.NoError(t, repo.Create(ctx, &database.Club{Name: name, Description: "d"}))
	}

	clubs, err := repo.ListClubs(ctx)
	require.NoError(t, err)
	names := make([]string, len(clubs))
	for i, c := range clubs {
		names[i] = c.Name
	}
	if diff := cmp.Diff([]string{"Chess Club", "Drama", "Robotics"}, names); diff != "" {
		t.Errorf("club order mismatch (-want +got):\n%s", diff)
	}
}

func TestBlogPostsNewestByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &database.BlogPost{Title: "middle", Content: "c", DatePosted: base.Add(24 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &database.BlogPost{Title: "newest", Content: "c", DatePosted: base.Add(48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &database.BlogPost{Title: "oldest", Content: "c", DatePosted: base}))

	posts, err := repo.ListBlogPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Title)
	assert.Equal(t, "middle", posts[1].Title)
	assert.Equal(t, "oldest", posts[2].Title)
}

func TestGetBlogPostNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBlogPost(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelatedBlogPosts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	faker := gofakeit.New(11)

	var ids []uint
	for i := 0; i < 6; i++ {
		p := &database.BlogPost{Title: faker.BookTitle(), Content: faker.Paragraph(1, 3, 10, " ")}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	target := ids[2]

	for i := 0; i < 20; i++ {
		related, err := repo.RelatedBlogPosts(ctx, target, RelatedLimit)
		require.NoError(t, err)
		require.Len(t, related, 3)

		seen := map[uint]bool{}
		for _, p := range related {
			assert.NotEqual(t, target, p.ID)
			assert.False(t, seen[p.ID], "duplicate related post %d", p.ID)
			seen[p.ID] = true
		}
	}
}

func TestRelatedBlogPostsFewerThanLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	only := &database.BlogPost{Title: "solo", Content: "c"}
	other := &database.BlogPost{Title: "pair", Content: "c"}
	require.NoError(t, repo.Create(ctx, only))
	require.NoError(t, repo.Create(ctx, other))

	related, err := repo.RelatedBlogPosts(ctx, only.ID, RelatedLimit)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, other.ID, related[0].ID)
}

func TestDeleteReturnsReferencedFiles(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	club := &database.Club{Name: "Art", Description: "Paint", ImageFile: strPtr("a1.png")}
	img := &database.GalleryImage{Filename: "g1.jpg", Caption: "Sunset"}
	event := &database.Event{Title: "Gala", Description: "Dinner", Location: "Hall"}
	require.NoError(t, repo.Create(ctx, club))
	require.NoError(t, repo.Create(ctx, img))
	require.NoError(t, repo.Create(ctx, event))

	tests := []struct {
		kind  Kind
		id    uint
		files []string
	}{
		{KindClub, club.ID, []string{"a1.png"}},
		{KindGallery, img.ID, []string{"g1.jpg"}},
		{KindEvent, event.ID, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			deleted, err := repo.Delete(ctx, tt.kind, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, deleted.Kind)
			assert.Equal(t, tt.id, deleted.ID)
			assert.Equal(t, tt.files, deleted.Files)

			_, err = repo.Get(ctx, tt.kind, tt.id)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.Delete(ctx, tt.kind, tt.id)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestDeleteUnknownKind(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Delete(context.Background(), Kind("member"), 1)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadListing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(ctx, &database.Update{Title: "u", Description: "d"}))
	require.NoError(t, repo.Create(ctx, &database.Club{Name: "Chess Club", Description: "Weekly meetups"}))
	require.NoError(t, repo.Create(ctx, &database.BlogPost{Title: "b", Content: "c"}))
	require.NoError(t, repo.Create(ctx, &database.GalleryImage{Filename: "x.png"}))
	require.NoError(t, repo.Create(ctx, &database.Event{Title: "e", Description: "d"}))

	l, err := repo.LoadListing(ctx)
	require.NoError(t, err)
	assert.Len(t, l.Updates, 1)
	assert.Len(t, l.Clubs, 1)
	assert.Len(t, l.Posts, 1)
	assert.Len(t, l.Gallery, 1)
	assert.Len(t, l.Events, 1)
}
