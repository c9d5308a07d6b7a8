package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const gridHTML = `<table class="flight-grid">
  <tr><th>Flight</th><th>Dep</th><th>Arr</th><th>Seats</th><th>Price</th></tr>
  <tr><td>XL100</td><td>08:00</td><td>09:10</td><td>2</td><td>$300.00</td><td>$520.00</td></tr>
  <tr><td>XL102</td><td>2:30 pm</td><td>3:40 pm</td><td>0</td><td>$250.00</td></tr>
</table>`

// fakeDriver is a scripted page. Selectors in visible are shown; selectors in hides
// disappear when their key is clicked. Errors are keyed by "Method selector".
type fakeDriver struct {
	mu      sync.Mutex
	calls   []string
	visible map[string]bool
	exists  map[string]bool
	values  map[string]string
	html    map[string]string
	hides   map[string]string
	errs    map[string]error

	closed int
	active *atomic.Int32
	peak   *atomic.Int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		visible: map[string]bool{".flight-grid": true},
		exists:  map[string]bool{},
		values:  map[string]string{},
		html:    map[string]string{".flight-grid": gridHTML},
		hides:   map[string]string{},
		errs:    map[string]error{},
	}
}

func (f *fakeDriver) record(method, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := strings.TrimSpace(method + " " + arg)
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.record("Navigate", ""); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values["url"] = url
	return nil
}

func (f *fakeDriver) Fill(_ context.Context, selector, value string) error {
	if err := f.record("Fill", selector); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[selector] = value
	return nil
}

func (f *fakeDriver) Select(_ context.Context, selector, value string) error {
	if err := f.record("Select", selector); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[selector] = value
	return nil
}

func (f *fakeDriver) Click(_ context.Context, selector string) error {
	if err := f.record("Click", selector); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if target, ok := f.hides[selector]; ok {
		f.visible[target] = false
	}
	return nil
}

func (f *fakeDriver) Submit(ctx context.Context, selector string) error {
	return f.Click(ctx, selector)
}

func (f *fakeDriver) WaitVisible(ctx context.Context, selector string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.record("WaitVisible", selector); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visible[selector] {
		return nil
	}
	return fmt.Errorf("waiting for %s: %w", selector, context.DeadlineExceeded)
}

func (f *fakeDriver) WaitGone(ctx context.Context, selector string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.record("WaitGone", selector); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.visible[selector] {
		return nil
	}
	return fmt.Errorf("waiting for %s to close: %w", selector, context.DeadlineExceeded)
}

func (f *fakeDriver) Exists(_ context.Context, selector string) (bool, error) {
	if err := f.record("Exists", selector); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists[selector] || f.visible[selector], nil
}

func (f *fakeDriver) OuterHTML(_ context.Context, selector string) (string, error) {
	if f.active != nil {
		if n := f.active.Add(1); n > f.peak.Load() {
			f.peak.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		defer f.active.Add(-1)
	}
	if err := f.record("OuterHTML", selector); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.html[selector], nil
}

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeDriver) value(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *fakeDriver) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeDriver) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeDriver) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeLauncher hands out drivers built by newDriver and counts launches.
type fakeLauncher struct {
	mu        sync.Mutex
	launches  int
	drivers   []*fakeDriver
	newDriver func() *fakeDriver
	err       error
}

func (l *fakeLauncher) Launch(ctx context.Context) (Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	build := l.newDriver
	if build == nil {
		build = newFakeDriver
	}
	d := build()
	l.drivers = append(l.drivers, d)
	return d, nil
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func (l *fakeLauncher) last() *fakeDriver {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.drivers) == 0 {
		return nil
	}
	return l.drivers[len(l.drivers)-1]
}
