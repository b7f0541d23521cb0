package database

import (
	"time"

	"gorm.io/gorm"
)

// Update is a dated announcement shown at the top of the homepage.
type Update struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:150;not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Date          string    `gorm:"size:50" json:"date"`
	ImageFile     *string   `gorm:"size:100" json:"image_file"`
	ImageOriginal *string   `gorm:"size:255" json:"image_original,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Club struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null;index" json:"name"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ImageFile     *string   `gorm:"size:100" json:"image_file"`
	ImageOriginal *string   `gorm:"size:255" json:"image_original,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type BlogPost struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:150;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	DatePosted    time.Time `gorm:"not null;index" json:"date_posted"`
	ImageFile     *string   `gorm:"size:100" json:"image_file"`
	ImageOriginal *string   `gorm:"size:255" json:"image_original,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate stamps DatePosted with the creation time when the caller left it empty.
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now().UTC()
	}
	return nil
}

type GalleryImage struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Filename         string    `gorm:"size:100;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename,omitempty"`
	Caption          string    `gorm:"size:200" json:"caption"`
	CreatedAt        time.Time `json:"created_at"`
}

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        string    `gorm:"size:50" json:"date"`
	Location    string    `gorm:"size:100" json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{&Update{}, &Club{}, &BlogPost{}, &GalleryImage{}, &Event{}}
}

// StoredFiles returns upload-directory names referenced by the row.
func (u *Update) StoredFiles() []string { return optional(u.ImageFile) }

func (c *Club) StoredFiles() []string { return optional(c.ImageFile) }

func (p *BlogPost) StoredFiles() []string { return optional(p.ImageFile) }

func (g *GalleryImage) StoredFiles() []string {
	if g.Filename == "" {
		return nil
	}
	return []string{g.Filename}
}

func (e *Event) StoredFiles() []string { return nil }

func optional(name *string) []string {
	if name == nil || *name == "" {
		return nil
	}
	return []string{*name}
}
