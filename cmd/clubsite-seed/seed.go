package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/upload"
)

// Counts is the number of records per kind.
type Counts struct {
	Updates int
	Clubs   int
	Posts   int
	Gallery int
	Events  int
}

func (c Counts) Total() int {
	return c.Updates + c.Clubs + c.Posts + c.Gallery + c.Events
}

// Seeder writes fake but plausible records through the same repository and
// upload store the server uses.
type Seeder struct {
	repo    *content.Repository
	uploads *upload.Store
	faker   *gofakeit.Faker

	// step is called after every record, created or not.
	step func()
}

func NewSeeder(repo *content.Repository, uploads *upload.Store, seed uint64) *Seeder {
	return &Seeder{repo: repo, uploads: uploads, faker: gofakeit.New(seed), step: func() {}}
}

// Run creates want records and reports how many of each were written.
func (s *Seeder) Run(ctx context.Context, want Counts) (Counts, error) {
	var done Counts

	for i := 0; i < want.Updates; i++ {
		u := &database.Update{
			Title:       s.faker.Sentence(s.faker.Number(3, 6)),
			Description: s.faker.Paragraph(1, 2, 12, " "),
			Date:        s.faker.PastDate().Format("January 2, 2006"),
		}
		if err := s.create(ctx, u); err != nil {
			return done, err
		}
		done.Updates++
	}

	for i := 0; i < want.Clubs; i++ {
		c := &database.Club{
			Name:        s.faker.Hobby() + " Club",
			Description: s.faker.Paragraph(1, 3, 10, " "),
		}
		if s.faker.Bool() {
			stored, err := s.image("club")
			if err != nil {
				return done, err
			}
			c.ImageFile, c.ImageOriginal = &stored.Name, &stored.Original
		}
		if err := s.create(ctx, c); err != nil {
			return done, err
		}
		done.Clubs++
	}

	now := time.Now().UTC()
	for i := 0; i < want.Posts; i++ {
		p := &database.BlogPost{
			Title:      s.faker.BookTitle(),
			Content:    s.faker.Paragraph(3, 4, 14, "\n\n"),
			DatePosted: s.faker.DateRange(now.AddDate(-1, 0, 0), now),
		}
		if err := s.create(ctx, p); err != nil {
			return done, err
		}
		done.Posts++
	}

	for i := 0; i < want.Gallery; i++ {
		stored, err := s.image("gallery")
		if err != nil {
			return done, err
		}
		g := &database.GalleryImage{
			Filename:         stored.Name,
			OriginalFilename: stored.Original,
			Caption:          s.faker.Sentence(s.faker.Number(2, 5)),
		}
		if err := s.create(ctx, g); err != nil {
			return done, err
		}
		done.Gallery++
	}

	for i := 0; i < want.Events; i++ {
		e := &database.Event{
			Title:       s.faker.Adjective() + " " + s.faker.Noun() + " night",
			Description: s.faker.Paragraph(1, 2, 10, " "),
			Date:        s.faker.DateRange(now, now.AddDate(0, 6, 0)).Format("Mon, Jan 2 15:04"),
			Location:    s.faker.Street() + ", " + s.faker.City(),
		}
		if err := s.create(ctx, e); err != nil {
			return done, err
		}
		done.Events++
	}

	return done, nil
}

func (s *Seeder) create(ctx context.Context, rec content.Record) error {
	defer s.step()
	if err := s.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("seed %T: %w", rec, err)
	}
	return nil
}

// image stores a generated gradient PNG.
func (s *Seeder) image(prefix string) (upload.Stored, error) {
	const w, h = 320, 240
	from, to := s.color(), s.color()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		t := float64(x) / float64(w-1)
		c := color.RGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 255,
		}
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return upload.Stored{}, err
	}
	name := fmt.Sprintf("%s-%d.png", prefix, s.faker.Number(1000, 9999))
	return s.uploads.Put(name, &buf)
}

func (s *Seeder) color() color.RGBA {
	return color.RGBA{
		R: uint8(s.faker.Number(0, 255)),
		G: uint8(s.faker.Number(0, 255)),
		B: uint8(s.faker.Number(0, 255)),
		A: 255,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
