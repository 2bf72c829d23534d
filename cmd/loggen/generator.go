package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	formatText   = "text"
	formatJSON   = "json"
	formatLogfmt = "logfmt"
	formatApache = "apache"
)

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "json_lines", "ndjson", "jsonl":
		return formatJSON
	case "plain", "txt":
		return formatText
	case "kv":
		return formatLogfmt
	default:
		return f
	}
}

func isSupported(f string) bool {
	switch f {
	case formatText, formatJSON, formatLogfmt, formatApache:
		return true
	default:
		return false
	}
}

type generator struct {
	format string
	rnd    *rand.Rand
	seq    int
}

func newGenerator(format string, rnd *rand.Rand) *generator {
	return &generator{format: format, rnd: rnd}
}

func (g *generator) line(now time.Time) string {
	g.seq++
	switch g.format {
	case formatJSON:
		return g.jsonLine(now)
	case formatApache:
		return g.apacheLine(now)
	case formatText:
		return fmt.Sprintf("[%s] %s %s: %s id=%s", now.UTC().Format(time.RFC3339), strings.ToUpper(g.level()), g.pick(services), g.pick(messages), g.hex(8))
	default:
		return fmt.Sprintf(`time=%s level=%s service=%s region=%s seq=%d latency_ms=%.1f msg=%q`,
			now.UTC().Format(time.RFC3339Nano), g.level(), g.pick(services), g.pick(regions), g.seq, g.float(0.5, 450), g.pick(messages))
	}
}

func (g *generator) jsonLine(now time.Time) string {
	rec := map[string]any{
		"ts":         now.UTC().Format(time.RFC3339Nano),
		"level":      g.level(),
		"service":    g.pick(services),
		"msg":        g.pick(messages),
		"request_id": g.hex(16),
		"seq":        g.seq,
		"latency_ms": g.float(0.5, 450),
		"tags":       []string{g.pick(regions), g.pick(envs)},
	}
	if g.rnd.Intn(4) == 0 {
		rec["http"] = map[string]any{"method": g.pick(methods), "status": g.status()}
	}
	b, _ := json.Marshal(rec)
	return string(b)
}

func (g *generator) apacheLine(now time.Time) string {
	return fmt.Sprintf(`%d.%d.%d.%d - %s [%s] "%s %s HTTP/1.1" %d %d "-" "curl/8.2.1"`,
		g.rnd.Intn(223)+1, g.rnd.Intn(255), g.rnd.Intn(255), g.rnd.Intn(255),
		g.pick(users), now.Format("02/Jan/2006:15:04:05 -0700"), g.pick(methods), g.pick(paths), g.status(), g.rnd.Intn(50000))
}

var (
	services = []string{"api", "worker", "auth", "gateway", "billing"}
	regions  = []string{"us-east-1", "us-west-2", "eu-west-1", "sa-east-1"}
	envs     = []string{"dev", "staging", "prod"}
	methods  = []string{"GET", "POST", "PUT", "DELETE"}
	paths    = []string{"/", "/health", "/login", "/api/v1/items", "/static/app.js"}
	users    = []string{"-", "alice", "bob", "carol"}
	messages = []string{
		"user authenticated",
		"request completed",
		"cache miss",
		"db query executed",
		"rate limit exceeded",
		"background job finished",
		"invalid credentials",
		"connection reset by peer",
	}
)

func (g *generator) pick(xs []string) string { return xs[g.rnd.Intn(len(xs))] }

func (g *generator) float(min, max float64) float64 { return min + g.rnd.Float64()*(max-min) }

func (g *generator) hex(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[g.rnd.Intn(len(digits))]
	}
	return string(b)
}

// level is weighted towards info.
func (g *generator) level() string {
	r := g.rnd.Float64()
	switch {
	case r < 0.6:
		return "info"
	case r < 0.8:
		return "debug"
	case r < 0.95:
		return "warn"
	default:
		return "error"
	}
}

func (g *generator) status() int {
	r := g.rnd.Float64()
	switch {
	case r < 0.8:
		return 200
	case r < 0.9:
		return 404
	case r < 0.97:
		return 500
	default:
		return 302
	}
}
