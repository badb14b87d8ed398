// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	logDir := strings.TrimSpace(os.Getenv("LOG_DIR"))
	sweep := strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_MS"))

	if apiAddr == "" {
		warn("API_ADDR is empty; default in your app may be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if db == "" {
		warn("DATABASE_URL empty — check-ins will be kept in memory and lost on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if logDir == "" {
		warn("LOG_DIR empty; the default 'logs' directory will be used.")
	} else {
		ok("LOG_DIR=" + logDir)
	}

	if sweep != "" {
		ms, err := strconv.Atoi(sweep)
		switch {
		case err != nil || ms < 0:
			fail("SWEEP_INTERVAL_MS must be a non-negative integer (milliseconds).")
		case ms == 0:
			warn("SWEEP_INTERVAL_MS=0 — sweeper disabled; overdue jobs only visible via /api/checkins/overdue.")
		default:
			ok("SWEEP_INTERVAL_MS=" + sweep)
		}
	}

	ok("preflight passed")
}
