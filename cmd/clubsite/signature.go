package main

import (
	"fmt"

	"github.com/fatih/color"

	"clubsite/internal/config"
)

func printSignature(cfg *config.Config) {
	cyan := color.New(color.FgHiCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()
	blueLink := color.New(color.FgHiBlue, color.Underline).SprintFunc()

	fmt.Println()
	fmt.Printf("%s : %s\n", cyan("Site       "), white(cfg.App.Name))
	fmt.Printf("%s : %s\n", cyan("Version    "), white(cfg.App.Version))
	fmt.Printf("%s : %s\n", cyan("Database   "), white(cfg.Database.Path))
	fmt.Printf("%s : %s\n", cyan("Uploads    "), white(cfg.Upload.Dir))
	fmt.Printf("%s : %s\n", cyan("Admin      "), blueLink(cfg.BaseURL+"/admin"))
	fmt.Println()
}
