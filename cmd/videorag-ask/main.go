// Command videorag-ask is an interactive terminal client for a running
// videorag server: it optionally ingests a video, then lets you ask
// questions about it.
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
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"videorag/internal/tui"
)

func main() {
	var serverURL string
	var process bool
	flag.StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the videorag server")
	flag.BoolVar(&process, "process", false, "Ingest the video before asking")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: videorag-ask [--server=http://localhost:8000] [--process] <video-url>")
		os.Exit(1)
	}
	videoURL := flag.Arg(0)

	api := &apiClient{
		baseURL: strings.TrimRight(serverURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}

	if process {
		if err := api.ProcessVideo(videoURL); err != nil {
			log.Fatalf("process video failed: %v", err)
		}
	}

	m := tui.New(api, videoURL)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

// apiClient talks to the videorag HTTP API.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func (c *apiClient) ProcessVideo(videoURL string) error {
	var out struct {
		VideoID       string `json:"video_id"`
		ChunksCreated int    `json:"chunks_created"`
	}
	err := c.postJSON("/process-video", map[string]string{"video_url": videoURL}, &out)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %s: %d chunks stored\n", out.VideoID, out.ChunksCreated)
	return nil
}

func (c *apiClient) Ask(videoURL, question string) (tui.Answer, error) {
	var out struct {
		Answer         string   `json:"answer"`
		RelevantChunks []string `json:"relevant_chunks"`
	}
	err := c.postJSON("/ask", map[string]string{"video_url": videoURL, "question": question}, &out)
	if err != nil {
		return tui.Answer{}, err
	}
	return tui.Answer{Answer: out.Answer, Chunks: out.RelevantChunks}, nil
}

func (c *apiClient) postJSON(path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(payload, &detail) == nil && detail.Detail != "" {
			return fmt.Errorf("%s: %s", resp.Status, detail.Detail)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
