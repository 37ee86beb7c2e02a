// Package replay is a file-backed transport for development and
// integration testing. It replays recorded status reports from a JSONL
// file, serves map payloads from disk and records outbound commands
// instead of delivering them. The production WebSocket session layer
// lives outside this module and implements the same interface.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dulek/weback/vacuum"
)

const statusFile = "statuses.jsonl"

// Transport replays recorded device traffic from a directory.
type Transport struct {
	dir      string
	interval time.Duration
	log      zerolog.Logger
	statuses []map[string]any

	mu   sync.Mutex
	sent []vacuum.Payload
}

// Open reads the recorded statuses from dir. Each line of statuses.jsonl
// is one raw status mapping; map payloads live next to it as
// map_<id>.bin files.
func Open(dir string, interval time.Duration, log zerolog.Logger) (*Transport, error) {
	f, err := os.Open(filepath.Join(dir, statusFile))
	if err != nil {
		return nil, fmt.Errorf("open replay statuses: %w", err)
	}
	defer f.Close()

	var statuses []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(text, &fields); err != nil {
			return nil, fmt.Errorf("parse replay status line %d: %w", line, err)
		}
		statuses = append(statuses, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read replay statuses: %w", err)
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("no statuses recorded in %s", dir)
	}

	return &Transport{dir: dir, interval: interval, log: log, statuses: statuses}, nil
}

// StatusUpdates emits the recorded statuses in order, the first one
// immediately and the rest on the configured interval, looping forever
// until the context is cancelled.
func (t *Transport) StatusUpdates(ctx context.Context) (<-chan map[string]any, error) {
	ch := make(chan map[string]any)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case ch <- t.statuses[i%len(t.statuses)]:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// FetchMap reads a recorded map payload from disk.
func (t *Transport) FetchMap(_ context.Context, _ vacuum.Identity, mapID string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(t.dir, "map_"+mapID+".bin"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("replay map %s: %w", mapID, vacuum.ErrMapNotFound)
		}
		return nil, fmt.Errorf("read replay map %s: %w", mapID, err)
	}
	return data, nil
}

// SendCommand logs and records the payload instead of delivering it.
func (t *Transport) SendCommand(_ context.Context, ident vacuum.Identity, payload vacuum.Payload) error {
	t.log.Info().Str("device", ident.Name).Interface("payload", payload).Msg("command recorded")
	t.mu.Lock()
	t.sent = append(t.sent, payload)
	t.mu.Unlock()
	return nil
}

// Sent returns a copy of the recorded command payloads.
func (t *Transport) Sent() []vacuum.Payload {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]vacuum.Payload, len(t.sent))
	copy(out, t.sent)
	return out
}
