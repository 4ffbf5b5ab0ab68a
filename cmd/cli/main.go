package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	owner := os.Getenv("OWNER_ID")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a site URL to monitor (e.g., https://example.com): ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		fmt.Println("Invalid URL.")
		return
	}

	fmt.Print("Alert email (blank to skip alerts): ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	body, _ := json.Marshal(map[string]any{
		"base_url":    raw,
		"alert_email": email,
	})
	req, _ := http.NewRequest(http.MethodPost, api+"/services", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		fmt.Println("Registered! First check runs on the next scheduler tick.")
	} else {
		fmt.Println("API returned status:", resp.Status)
	}
}
