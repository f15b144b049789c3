package transport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"midi-animator/internal/event"
)

// DefaultReplayInterval separates replayed events.
const DefaultReplayInterval = 50 * time.Millisecond

// Record is one event of a replay file. WaitMS delays it beyond the replay
// interval.
type Record struct {
	event.Raw `yaml:",inline"`
	WaitMS    int `json:"wait_ms,omitempty" yaml:"wait_ms,omitempty"`
}

// ParseRecords decodes a replay file. YAML and JSON are both accepted.
func ParseRecords(data []byte) ([]Record, error) {
	var rs []Record
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse replay file: %w", err)
	}

	return rs, nil
}

// Replay is a Driver with a single input that plays back recorded events.
type Replay struct {
	name     string
	records  []Record
	interval time.Duration
}

// NewReplay creates a replay of records exposed as the input name.
func NewReplay(name string, records []Record, interval time.Duration) *Replay {
	return &Replay{name: name, records: records, interval: interval}
}

// LoadReplay reads a replay file. The input is named after the file.
func LoadReplay(p string, interval time.Duration) (*Replay, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file %s: %w", p, err)
	}

	rs, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return NewReplay("replay:"+filepath.Base(p), rs, interval), nil
}

func (r *Replay) Inputs() ([]string, error) {
	return []string{r.name}, nil
}

// Open starts playing from the first record. Records with an unknown type are
// skipped.
func (r *Replay) Open(name string, onEvent func(event.Event)) (io.Closer, error) {
	if name != r.name {
		return nil, fmt.Errorf("%w: %q", ErrNoPort, name)
	}

	p := &playback{stop: make(chan struct{}), done: make(chan struct{})}
	go p.play(r.records, r.interval, onEvent)

	return p, nil
}

type playback struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func (p *playback) play(rs []Record, interval time.Duration, onEvent func(event.Event)) {
	defer close(p.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for _, rec := range rs {
		timer.Reset(interval + time.Duration(rec.WaitMS)*time.Millisecond)

		select {
		case <-p.stop:
			return
		case <-timer.C:
		}

		if ev, ok := event.Normalize(rec.Raw); ok {
			onEvent(ev)
		}
	}
}

func (p *playback) Done() <-chan struct{} {
	return p.done
}

// Close stops the playback and waits for its goroutine.
func (p *playback) Close() error {
	p.once.Do(func() { close(p.stop) })
	<-p.done

	return nil
}
