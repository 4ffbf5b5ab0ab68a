// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	addr := strings.TrimSpace(os.Getenv("PULSE_ADDR"))
	db := strings.TrimSpace(os.Getenv("PULSE_DATABASE_URL"))
	webhook := strings.TrimSpace(os.Getenv("PULSE_ALERTS_WEBHOOK_URL"))
	smtpHost := strings.TrimSpace(os.Getenv("PULSE_SMTP_HOST"))
	smtpFrom := strings.TrimSpace(os.Getenv("PULSE_SMTP_FROM"))
	smtpPass := strings.TrimSpace(os.Getenv("PULSE_SMTP_PASSWORD"))

	if addr == "" {
		warn("PULSE_ADDR is empty; default :8080 will be used.")
	} else {
		ok("PULSE_ADDR=" + addr)
	}

	if db == "" {
		warn("PULSE_DATABASE_URL empty — service and incident stores will be in-memory and lost on restart.")
	} else {
		ok("PULSE_DATABASE_URL present")
	}

	if webhook == "" && smtpHost == "" {
		warn("no webhook and no SMTP configured — alerts will be logged but not delivered.")
	}
	if webhook != "" {
		ok("webhook notifier configured")
	}
	if smtpHost != "" {
		if smtpFrom == "" || smtpPass == "" {
			fail("PULSE_SMTP_HOST set but PULSE_SMTP_FROM / PULSE_SMTP_PASSWORD missing — email delivery would be skipped.")
		}
		ok("email notifier configured")
	}

	ok("preflight passed")
}
