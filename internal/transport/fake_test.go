package transport

import (
	"errors"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
)

// fakeIn is an in-memory gomidi input port.
type fakeIn struct {
	mu      sync.Mutex
	name    string
	number  int
	open    bool
	openErr error
	onMsg   func([]byte, int32)
	stopped bool
}

func (f *fakeIn) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return f.openErr
	}

	f.open = true

	return nil
}

func (f *fakeIn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = false

	return nil
}

func (f *fakeIn) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.open
}

func (f *fakeIn) Number() int             { return f.number }
func (f *fakeIn) String() string          { return f.name }
func (f *fakeIn) Underlying() interface{} { return nil }

func (f *fakeIn) Listen(onMsg func(msg []byte, milliseconds int32), _ drivers.ListenConfig) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onMsg = onMsg

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.stopped = true
		f.onMsg = nil
	}, nil
}

// send delivers raw bytes as if they arrived on the wire.
func (f *fakeIn) send(b ...byte) {
	f.mu.Lock()
	fn := f.onMsg
	f.mu.Unlock()

	if fn != nil {
		fn(b, 0)
	}
}

type fakeDriver struct {
	ins    []*fakeIn
	insErr error
}

func (d *fakeDriver) Ins() ([]drivers.In, error) {
	if d.insErr != nil {
		return nil, d.insErr
	}

	out := make([]drivers.In, len(d.ins))
	for i, in := range d.ins {
		out[i] = in
	}

	return out, nil
}

func (d *fakeDriver) Outs() ([]drivers.Out, error) { return nil, nil }
func (d *fakeDriver) String() string               { return "fake" }
func (d *fakeDriver) Close() error                 { return nil }

func newFakeDriver(names ...string) *fakeDriver {
	d := &fakeDriver{}
	for i, n := range names {
		d.ins = append(d.ins, &fakeIn{name: n, number: i})
	}

	return d
}

var errUnplugged = errors.New("unplugged")
