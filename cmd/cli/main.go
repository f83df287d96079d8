package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"eventsort/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type authResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("eventsort", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "session token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "events":
		handleEvents(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "stats":
		handleStats(ctx, client, *baseURL, *tokenPath)
	case "feed":
		handleFeed(*baseURL)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "redeem":
		fs := flag.NewFlagSet("auth redeem", flag.ExitOnError)
		token := fs.String("token", "", "one-time token from the bot's /review link")
		_ = fs.Parse(args)

		if *token == "" {
			log.Fatal("token is required")
		}

		payload := map[string]string{"token": *token}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/validate-token", "", payload, &resp); err != nil {
			log.Fatalf("redeem failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("✅ logged in as %s (id %d)\n", resp.Username, resp.UserID)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleEvents(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustLoadToken(tokenPath)

	switch sub {
	case "list":
		fs := flag.NewFlagSet("events list", flag.ExitOnError)
		filter := fs.String("filter", "upcoming", "all, upcoming or urgent")
		raw := fs.Bool("raw", false, "include raw message text")
		_ = fs.Parse(args)

		u := fmt.Sprintf("%s/events?filter=%s&include_raw=%v", baseURL, url.QueryEscape(*filter), *raw)
		var recs []models.EventRecord
		if err := doJSON(ctx, client, http.MethodGet, u, token, nil, &recs); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printEvents(recs)
	case "interested":
		var recs []models.EventRecord
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/events/interested/all", token, nil, &recs); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printEvents(recs)
	case "get":
		fs := flag.NewFlagSet("events get", flag.ExitOnError)
		id := fs.Int64("id", 0, "event id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("id is required")
		}

		var rec models.EventRecord
		if err := doJSON(ctx, client, http.MethodGet, fmt.Sprintf("%s/events/%d", baseURL, *id), token, nil, &rec); err != nil {
			log.Fatalf("get failed: %v", err)
		}
		out, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(out))
	case "swipe":
		fs := flag.NewFlagSet("events swipe", flag.ExitOnError)
		id := fs.Int64("id", 0, "event id")
		interested := fs.Bool("interested", false, "true = swipe right")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("id is required")
		}

		payload := map[string]bool{"interested": *interested}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, fmt.Sprintf("%s/events/%d/swipe", baseURL, *id), token, payload, &resp); err != nil {
			log.Fatalf("swipe failed: %v", err)
		}
		fmt.Printf("✅ %v\n", resp["message"])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleStats(ctx context.Context, client *http.Client, baseURL, tokenPath string) {
	token := mustLoadToken(tokenPath)

	var stats map[string]any
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/stats", token, nil, &stats); err != nil {
		log.Fatalf("stats failed: %v", err)
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}

// handleFeed tails the websocket feed of newly saved events.
func handleFeed(baseURL string) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("feed connect failed: %v", err)
	}
	defer conn.Close()

	log.Printf("listening on %s (Ctrl+C to stop)", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("feed closed: %v", err)
		}
		fmt.Print(string(msg))
	}
}

func printEvents(recs []models.EventRecord) {
	if len(recs) == 0 {
		fmt.Println("no events")
		return
	}
	for _, rec := range recs {
		fee := "TBC"
		if rec.Fee != nil {
			if *rec.Fee == 0 {
				fee = "Free"
			} else {
				fee = fmt.Sprintf("$%.2f", *rec.Fee)
			}
		}
		fmt.Printf("#%d  %s  [%s]  %s  fee: %s\n", rec.ID, rec.Title, rec.EventType, rec.Date, fee)
	}
}

func doJSON(ctx context.Context, client *http.Client, method, u, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".eventsort", "token.json")
}

type tokenData struct {
	Token string `json:"token"`
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(tokenData{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func mustLoadToken(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("no session token; run: eventsort auth redeem -token <token> (%v)", err)
	}
	var td tokenData
	if err := json.Unmarshal(b, &td); err != nil || td.Token == "" {
		log.Fatalf("token file %s is corrupt; redeem again", path)
	}
	return td.Token
}

func printUsage() {
	fmt.Println(`eventsort CLI

usage:
  eventsort [-api URL] [-token PATH] <command>

commands:
  auth redeem -token <one-time token>   exchange a bot token for a session
  events list [-filter all|upcoming|urgent] [-raw]
  events get -id <id>
  events swipe -id <id> [-interested]
  events interested
  stats
  feed                                  tail newly saved events`)
}
