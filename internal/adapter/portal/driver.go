// Package portal drives charter reservation portals: it logs in, searches availability,
// scrapes the results grid and normalizes rows into domain availabilities.
package portal

import (
	"context"
	"time"
)

// Driver is the narrow set of browser capabilities the portal needs.
// It is implemented by the headless browser in production and by fakes in tests.
//
// Waits that run out of time return an error matching context.DeadlineExceeded.
type Driver interface {
	// Navigate loads url and waits for the page to finish loading.
	Navigate(ctx context.Context, url string) error
	// Fill replaces the value of a text input.
	Fill(ctx context.Context, selector, value string) error
	// Select picks the option with the given value in a <select>.
	Select(ctx context.Context, selector, value string) error
	// Click clicks an element.
	Click(ctx context.Context, selector string) error
	// Submit clicks an element and waits for the navigation it triggers.
	Submit(ctx context.Context, selector string) error
	// WaitVisible blocks until the element is visible or timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// WaitGone blocks until the element is absent or timeout elapses.
	WaitGone(ctx context.Context, selector string, timeout time.Duration) error
	// Exists reports whether at least one element matches.
	Exists(ctx context.Context, selector string) (bool, error)
	// OuterHTML returns the markup of the first matching element.
	OuterHTML(ctx context.Context, selector string) (string, error)
	// Close releases the page and its browser process. It is idempotent.
	Close() error
}

// LaunchFunc starts a browser process with one page and returns its driver.
type LaunchFunc func(ctx context.Context) (Driver, error)
