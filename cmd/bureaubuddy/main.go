package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/SawyerAlston/BureauBuddy/internal/backend"
	"github.com/SawyerAlston/BureauBuddy/internal/capture"
	"github.com/SawyerAlston/BureauBuddy/internal/config"
	"github.com/SawyerAlston/BureauBuddy/internal/content"
	"github.com/SawyerAlston/BureauBuddy/internal/geometry"
	"github.com/SawyerAlston/BureauBuddy/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bureaubuddy %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) < 3 {
		printUsage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.Printf("bureaubuddy v%s (built %s, commit %s), backend %s", Version, BuildTime, GitCommit, cfg.BackendURL)
	}

	client := backend.New(cfg.BackendURL, cfg.HTTPTimeout)
	view := content.NewView()
	pipe := pipeline.New(client, view, nil)
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(ctx, pipe, view, os.Args[2])
	case "explain":
		err = runExplain(ctx, pipe, view, os.Args[2])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func printUsage() {
	fmt.Println("bureaubuddy - plain-language help with bureaucratic documents")
	fmt.Println()
	fmt.Println("Usage: bureaubuddy <command> <file>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze <file>    Summarize a document and list its requirements")
	fmt.Println("  explain <image>   Explain the text in an image in plain language")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BUREAUBUDDY_BACKEND_URL     Analysis service URL (default http://localhost:8000)")
	fmt.Println("  BUREAUBUDDY_HTTP_TIMEOUT    Request timeout in seconds (default 60)")
	fmt.Println("  BUREAUBUDDY_LOG_LEVEL=debug Enable debug logging")
}

// runAnalyze runs the document chain on a local file and prints the result.
func runAnalyze(ctx context.Context, pipe *pipeline.Pipeline, view *content.View, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	if err := pipe.LoadDocument(ctx, filepath.Base(path), mimeTypeFor(path), f); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	pipe.Wait()

	if msg := pipe.Status().DocumentError; msg != "" {
		return fmt.Errorf("analyze: %s", msg)
	}

	doc, _ := view.Snapshot()
	if doc.Purpose != "" {
		fmt.Printf("Purpose: %s\n\n", doc.Purpose)
	}
	fmt.Println(doc.DisplaySummary())
	if len(doc.Requirements) > 0 {
		fmt.Println()
		fmt.Println("Requirements:")
		for _, r := range doc.Requirements {
			fmt.Printf("  - %s\n", r.DisplayLabel())
		}
	}
	printInfo(doc.Info)
	return nil
}

func printInfo(info content.Info) {
	sections := []struct {
		label string
		items []string
	}{
		{"Deadlines", info.Deadlines},
		{"Notices", info.Notices},
		{"Rules", info.Rules},
		{"Other important information", info.Other},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		fmt.Println()
		fmt.Printf("%s:\n", s.label)
		for _, it := range s.items {
			fmt.Printf("  - %s\n", it)
		}
	}
}

// runExplain runs the selection chain on an image file, treating the whole
// image as the selected region.
func runExplain(ctx context.Context, pipe *pipeline.Pipeline, view *content.View, path string) error {
	src, err := capture.OpenFileSource(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer src.Close()

	frame, err := src.Frame()
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	b := frame.Bounds()
	still, err := capture.ExtractRegion(frame, geometry.Rect{Width: b.Dx(), Height: b.Dy()})
	if err != nil {
		return fmt.Errorf("extract region: %w", err)
	}

	if err := pipe.ExplainSelection(ctx, still); err != nil {
		return fmt.Errorf("explain: %w", err)
	}
	if msg := pipe.Status().SelectionError; msg != "" {
		return fmt.Errorf("explain: %s", msg)
	}

	_, sel := view.Snapshot()
	fmt.Println(sel.Explanation.DisplayText())

	if err := pipe.GenerateSteps(ctx, ""); err != nil {
		return fmt.Errorf("next steps: %w", err)
	}
	if msg := pipe.Status().StepsError; msg != "" {
		log.Printf("next steps unavailable: %s", msg)
		return nil
	}
	_, sel = view.Snapshot()
	if len(sel.Steps) > 0 {
		fmt.Println()
		fmt.Println("Next steps:")
		for i, step := range sel.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
	return nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
