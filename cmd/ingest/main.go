package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"book-companion-be/internal/dto"

	"github.com/fatih/color"
)

// Ingests a book from a directory of chapter text files. Files are
// taken in lexical order, one chapter per file; the file name (minus
// extension) becomes the chapter title.
//
//	go run ./cmd/ingest -dir ./books/dracula -title "Dracula" -author "Bram Stoker"
func main() {
	var (
		dir     = flag.String("dir", "", "directory of chapter .txt files (required)")
		title   = flag.String("title", "", "book title (required)")
		author  = flag.String("author", "", "book author")
		baseURL = flag.String("url", "http://localhost:3000", "API base URL")
		wait    = flag.Bool("wait", true, "poll until embedding finishes")
	)
	flag.Parse()

	if *dir == "" || *title == "" {
		flag.Usage()
		os.Exit(2)
	}

	chapters, err := readChapters(*dir)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	color.Cyan("Found %d chapters in %s", len(chapters), *dir)

	req := dto.IngestBookRequest{
		Title:    *title,
		Author:   *author,
		Chapters: chapters,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	resp, err := http.Post(*baseURL+"/api/book/v1", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Error: ingest request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		color.Red("Ingest rejected (%d): %s", resp.StatusCode, body)
		os.Exit(1)
	}

	var envelope struct {
		Data dto.IngestBookResponse `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Fatalf("Error: unexpected response: %s", body)
	}
	bookId := envelope.Data.Id
	color.Green("Book accepted: %s (status %s)", bookId, envelope.Data.EmbeddingStatus)

	if !*wait {
		return
	}

	for {
		time.Sleep(2 * time.Second)

		status, totalChunks, err := fetchStatus(*baseURL, bookId.String())
		if err != nil {
			color.Yellow("Status check failed: %v", err)
			continue
		}

		switch status {
		case "ready":
			color.Green("Book is ready: %d chunks embedded", totalChunks)
			return
		case "failed":
			color.Red("Embedding failed; re-run ingest to retry")
			os.Exit(1)
		default:
			fmt.Print(".")
		}
	}
}

func readChapters(dir string) ([]dto.IngestChapter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .txt files in %s", dir)
	}
	sort.Strings(names)

	chapters := make([]dto.IngestChapter, 0, len(names))
	for _, name := range names {
		text, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, dto.IngestChapter{
			Title:     strings.TrimSuffix(name, ".txt"),
			SpineHref: name,
			Text:      string(text),
		})
	}
	return chapters, nil
}

func fetchStatus(baseURL, bookId string) (string, int, error) {
	resp, err := http.Get(baseURL + "/api/book/v1/" + bookId)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data dto.ShowBookResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", 0, err
	}
	return envelope.Data.EmbeddingStatus, envelope.Data.TotalChunks, nil
}
