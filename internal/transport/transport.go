package transport

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"midi-animator/internal/event"
)

var (
	// ErrTransport is wrapped by every connect and disconnect failure.
	ErrTransport = errors.New("transport error")
	// ErrNoInputs is returned when a driver has no input to auto-select.
	ErrNoInputs = errors.New("no input devices available")
	// ErrNoPort is returned when no input matches the requested name.
	ErrNoPort = errors.New("input device not found")
)

// TagTransport classifies transport failures for ftag.Get.
const TagTransport ftag.Kind = "transport"

// Driver enumerates and opens controller inputs.
type Driver interface {
	// Inputs lists the names of the available inputs.
	Inputs() ([]string, error)
	// Open starts delivering events of the named input to onEvent until the
	// returned Closer is closed. onEvent runs on a driver goroutine.
	Open(name string, onEvent func(event.Event)) (io.Closer, error)
}

// Finisher is implemented by connections whose input runs out, such as a
// replay. Done is closed once the last event was delivered.
type Finisher interface {
	Done() <-chan struct{}
}

// FindPort picks the input matching query. An exact match wins, then a case
// insensitive one, then the closest fuzzy match.
func FindPort(names []string, query string) (string, error) {
	for _, n := range names {
		if n == query {
			return n, nil
		}
	}

	for _, n := range names {
		if strings.EqualFold(n, query) {
			return n, nil
		}
	}

	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrNoPort, query, strings.Join(names, ", "))
	}

	sort.Sort(ranks)

	return ranks[0].Target, nil
}

// Select resolves want against the inputs of d. An empty want selects the
// first available input.
func Select(d Driver, want string) (string, error) {
	names, err := d.Inputs()
	if err != nil {
		return "", fmt.Errorf("failed to list inputs: %w", err)
	}

	if want == "" {
		if len(names) == 0 {
			return "", ErrNoInputs
		}

		return names[0], nil
	}

	return FindPort(names, want)
}

// Connect selects an input of d and opens it. Errors wrap ErrTransport and
// carry a user-facing description.
func Connect(d Driver, want string, onEvent func(event.Event)) (io.Closer, string, error) {
	name, err := Select(d, want)
	if err != nil {
		return nil, "", Wrap(err, "select input", "Could not find a MIDI input to connect to")
	}

	c, err := d.Open(name, onEvent)
	if err != nil {
		return nil, "", Wrap(err, "open input", fmt.Sprintf("Could not open MIDI input %s", name))
	}

	return c, name, nil
}

// Wrap marks err as a transport failure of op with a user-facing issue.
func Wrap(err error, op, issue string) error {
	return fault.Wrap(fmt.Errorf("%w: %w", ErrTransport, err),
		fmsg.WithDesc(op, issue),
		ftag.With(TagTransport),
	)
}
