package utils

import (
	"log"
	"time"
)

// OpTimer measures one named operation. The caller acquires a handle on
// entry and stops it on every exit path, usually with defer; each call
// owns its handle, so there is no shared registry to race on.
type OpTimer struct {
	name  string
	start time.Time
}

// StartTimer begins timing the named operation.
func StartTimer(name string) *OpTimer {
	return &OpTimer{name: name, start: time.Now()}
}

// Stop reports the elapsed time and returns it.
func (t *OpTimer) Stop() time.Duration {
	d := time.Since(t.start)
	log.Printf("timing: %s took %s", t.name, d.Round(time.Microsecond))
	return d
}
