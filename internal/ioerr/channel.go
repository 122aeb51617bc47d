package ioerr

import (
	"fmt"
	"sync"
)

// Channel holds the most recent error message. Set overwrites the slot
// (last write wins) and Get reads and clears it, so a second Get with no
// intervening Set returns "".
//
// The lock is never held while calling out of the Channel, so code that
// reports an error from inside another reporting call cannot deadlock.
type Channel struct {
	mu  sync.Mutex
	msg string
}

// Default is the process-wide channel used by the registry and by call sites
// that have no instance of their own to report through.
var Default = &Channel{}

// Set records a formatted message, replacing any previous one.
func (c *Channel) Set(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	c.msg = msg
	c.mu.Unlock()
}

// Record stores err's message and returns err unchanged, so it can be used
// in return statements. A nil err leaves the channel untouched.
func (c *Channel) Record(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	c.mu.Lock()
	c.msg = msg
	c.mu.Unlock()
	return err
}

// Get returns the pending message and clears it.
func (c *Channel) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.msg
	c.msg = ""
	return msg
}

// Pending reports whether a message is waiting, without consuming it.
func (c *Channel) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msg != ""
}
