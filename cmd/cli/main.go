package main

import (
	"fmt"
	"io"
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

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: report <job-path> [status] [next]")
		fmt.Fprintln(os.Stderr, "example: backup.sh 2>&1 | report /nightly/backup success 25h")
		os.Exit(2)
	}
	path := strings.Trim(os.Args[1], "/")
	if path == "" {
		fmt.Fprintln(os.Stderr, "Invalid job path.")
		os.Exit(2)
	}

	q := url.Values{}
	if len(os.Args) > 2 {
		q.Set("status", os.Args[2])
	}
	if len(os.Args) > 3 {
		q.Set("next", os.Args[3])
	}

	// Piped stdin becomes the logs payload.
	var body io.Reader
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		body = os.Stdin
	}

	u := api + "/report/" + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	resp, err := http.Post(u, "text/plain", body)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		fmt.Println("Reported! Check the API logs and GET /api/checkins.")
	} else {
		fmt.Println("API returned status:", resp.Status)
	}
}
