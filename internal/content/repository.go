package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"clubsite/internal/database"
)

// RelatedLimit is how many other posts the blog detail page suggests.
const RelatedLimit = 3

// Repository performs the record operations of the site against one gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Listing is every record of every kind, each list in its display order.
type Listing struct {
	Updates []database.Update
	Clubs   []database.Club
	Posts   []database.BlogPost
	Gallery []database.GalleryImage
	Events  []database.Event
}

// Deleted describes a removed row and the upload names it referenced.
type Deleted struct {
	Kind  Kind
	ID    uint
	Files []string
}

// Create persists rec; the store assigns its identity key.
func (r *Repository) Create(ctx context.Context, rec Record) error {
	kind, err := KindOf(rec)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
	return nil
}

func list[T any](ctx context.Context, db *gorm.DB, k Kind) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).Order(k.order()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", k, err)
	}
	return rows, nil
}

func (r *Repository) ListUpdates(ctx context.Context) ([]database.Update, error) {
	return list[database.Update](ctx, r.db, KindUpdate)
}

func (r *Repository) ListClubs(ctx context.Context) ([]database.Club, error) {
	return list[database.Club](ctx, r.db, KindClub)
}

func (r *Repository) ListBlogPosts(ctx context.Context) ([]database.BlogPost, error) {
	return list[database.BlogPost](ctx, r.db, KindBlog)
}

func (r *Repository) ListGalleryImages(ctx context.Context) ([]database.GalleryImage, error) {
	return list[database.GalleryImage](ctx, r.db, KindGallery)
}

func (r *Repository) ListEvents(ctx context.Context) ([]database.Event, error) {
	return list[database.Event](ctx, r.db, KindEvent)
}

// LoadListing reads all five lists.
func (r *Repository) LoadListing(ctx context.Context) (*Listing, error) {
	var (
		l   Listing
		err error
	)
	if l.Updates, err = r.ListUpdates(ctx); err != nil {
		return nil, err
	}
	if l.Clubs, err = r.ListClubs(ctx); err != nil {
		return nil, err
	}
	if l.Posts, err = r.ListBlogPosts(ctx); err != nil {
		return nil, err
	}
	if l.Gallery, err = r.ListGalleryImages(ctx); err != nil {
		return nil, err
	}
	if l.Events, err = r.ListEvents(ctx); err != nil {
		return nil, err
	}
	return &l, nil
}

// Get returns the row of kind with that id, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, kind Kind, id uint) (Record, error) {
	rec, err := newRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
	}
	return rec, nil
}

func (r *Repository) GetBlogPost(ctx context.Context, id uint) (*database.BlogPost, error) {
	rec, err := r.Get(ctx, KindBlog, id)
	if err != nil {
		return nil, err
	}
	return rec.(*database.BlogPost), nil
}

// RelatedBlogPosts picks up to n posts uniformly at random, never the post itself.
func (r *Repository) RelatedBlogPosts(ctx context.Context, id uint, n int) ([]database.BlogPost, error) {
	var posts []database.BlogPost
	if n <= 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Where("id <> ?", id).
		Order("RANDOM()").
		Limit(n).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to pick related posts: %w", err)
	}
	return posts, nil
}

// Delete removes the row after a successful fetch. The returned Files are the
// upload names the row referenced; removing them is the caller's job.
func (r *Repository) Delete(ctx context.Context, kind Kind, id uint) (Deleted, error) {
	rec, err := r.Get(ctx, kind, id)
	if err != nil {
		return Deleted{}, err
	}

	result := r.db.WithContext(ctx).Delete(rec)
	if result.Error != nil {
		return Deleted{}, fmt.Errorf("failed to delete %s %d: %w", kind, id, result.Error)
	}
	// A concurrent delete won the race.
	if result.RowsAffected == 0 {
		return Deleted{}, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}

	return Deleted{Kind: kind, ID: id, Files: rec.StoredFiles()}, nil
}
