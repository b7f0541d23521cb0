// Command clubsite-seed fills a database and upload dir with demo content.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"clubsite/internal/config"
	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/upload"
)

var (
	dbPath    string
	uploadDir string
	seedValue uint64
	want      Counts
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clubsite-seed",
		Short: "Fill the club site with demo content",
		RunE:  runSeed,
	}

	rootCmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (defaults to database.path)")
	rootCmd.Flags().StringVar(&uploadDir, "uploads", "", "Upload dir (defaults to upload.dir)")
	rootCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed, 0 picks one from the clock")

	rootCmd.Flags().IntVar(&want.Updates, "updates", 5, "Updates to create")
	rootCmd.Flags().IntVar(&want.Clubs, "clubs", 6, "Clubs to create")
	rootCmd.Flags().IntVar(&want.Posts, "posts", 8, "Blog posts to create")
	rootCmd.Flags().IntVar(&want.Gallery, "gallery", 6, "Gallery images to create")
	rootCmd.Flags().IntVar(&want.Events, "events", 4, "Events to create")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if uploadDir != "" {
		cfg.Upload.Dir = uploadDir
	}
	if seedValue == 0 {
		seedValue = uint64(time.Now().UnixNano())
	}

	pterm.DefaultHeader.WithFullWidth().WithBackgroundStyle(pterm.NewStyle(pterm.BgLightMagenta)).WithTextStyle(pterm.NewStyle(pterm.FgBlack)).Println("CLUB SITE SEEDER")
	pterm.Println()

	data := pterm.TableData{
		{"Database", color.New(color.FgCyan).Sprint(cfg.Database.Path)},
		{"Uploads", color.New(color.FgCyan).Sprint(cfg.Upload.Dir)},
		{"Records", color.New(color.FgYellow).Sprintf("%d", want.Total())},
		{"Seed", color.New(color.FgYellow).Sprintf("%d", seedValue)},
	}
	_ = pterm.DefaultTable.WithBoxed().WithData(data).Render()
	pterm.Println()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	uploads, err := upload.NewStore(cfg.Upload)
	if err != nil {
		return err
	}

	seeder := NewSeeder(content.NewRepository(db), uploads, seedValue)

	bar, _ := pterm.DefaultProgressbar.
		WithTotal(want.Total()).
		WithTitle("Seeding content...").
		WithShowCount(true).
		WithShowElapsedTime(true).
		Start()
	seeder.step = func() { bar.Increment() }

	done, err := seeder.Run(context.Background(), want)
	bar.Stop()

	pterm.Println()
	summary := pterm.TableData{
		{"Kind", "Created"},
		{"Updates", fmt.Sprint(done.Updates)},
		{"Clubs", fmt.Sprint(done.Clubs)},
		{"Blog posts", fmt.Sprint(done.Posts)},
		{"Gallery images", fmt.Sprint(done.Gallery)},
		{"Events", fmt.Sprint(done.Events)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(summary).Render()
	pterm.Println()

	if err != nil {
		pterm.DefaultSection.WithStyle(pterm.NewStyle(pterm.FgYellow)).Println("COMPLETED WITH ERRORS")
		pterm.Error.Println(err)
		return err
	}
	pterm.DefaultSection.WithStyle(pterm.NewStyle(pterm.FgGreen)).Println("SEEDING COMPLETED SUCCESSFULLY")
	pterm.Info.Printf("Created %d records.\n", done.Total())
	return nil
}
