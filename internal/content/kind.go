// Package content holds the five record kinds of the site and the repository
// that creates, lists, fetches and deletes them.
package content

import (
	"errors"
	"fmt"

	"clubsite/internal/database"
)

// Kind tags one of the five record types. The set is closed: ParseKind is the
// only way to obtain a Kind from outside input.
type Kind string

const (
	KindUpdate  Kind = "update"
	KindClub    Kind = "club"
	KindBlog    Kind = "blog"
	KindGallery Kind = "gallery"
	KindEvent   Kind = "event"
)

var (
	ErrUnknownKind = errors.New("unknown record type")
	ErrNotFound    = errors.New("record not found")
)

// Record is implemented by every persisted model.
type Record interface {
	StoredFiles() []string
}

var allKinds = []Kind{KindUpdate, KindClub, KindBlog, KindGallery, KindEvent}

// Kinds lists every record type in display order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseKind(tag string) (Kind, error) {
	for _, k := range allKinds {
		if string(k) == tag {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Label is the human name used in status messages.
func (k Kind) Label() string {
	switch k {
	case KindUpdate:
		return "Update"
	case KindClub:
		return "Club"
	case KindBlog:
		return "Blog post"
	case KindGallery:
		return "Gallery image"
	case KindEvent:
		return "Event"
	}
	return string(k)
}

// newRecord returns an empty model for k, used as the scan target for fetch and delete.
func newRecord(k Kind) (Record, error) {
	switch k {
	case KindUpdate:
		return &database.Update{}, nil
	case KindClub:
		return &database.Club{}, nil
	case KindBlog:
		return &database.BlogPost{}, nil
	case KindGallery:
		return &database.GalleryImage{}, nil
	case KindEvent:
		return &database.Event{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// KindOf reports the kind of a model value.
func KindOf(rec Record) (Kind, error) {
	switch rec.(type) {
	case *database.Update:
		return KindUpdate, nil
	case *database.Club:
		return KindClub, nil
	case *database.BlogPost:
		return KindBlog, nil
	case *database.GalleryImage:
		return KindGallery, nil
	case *database.Event:
		return KindEvent, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownKind, rec)
}

// order is the listing rule per kind. The trailing id column only pins
// ties to insertion order.
func (k Kind) order() string {
	switch k {
	case KindClub:
		return "name ASC, id ASC"
	case KindBlog:
		return "date_posted DESC, id DESC"
	default:
		return "id DESC"
	}
}
