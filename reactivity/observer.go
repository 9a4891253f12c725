package reactivity

import (
	"log"
	"time"
)

// Observer receives engine events. Forgot is called from the runtime's
// cleanup goroutine, the other methods from the goroutine owning the system.
type Observer interface {
	Tracked(source uint64, key Key, c *Computation)
	Triggered(source uint64, key Key, subscribers int)
	Ran(c *Computation, took time.Duration, err error)
	Forgot(source uint64)
}

type MultiObserver []Observer

func (m MultiObserver) Tracked(source uint64, key Key, c *Computation) {
	for _, o := range m {
		o.Tracked(source, key, c)
	}
}

func (m MultiObserver) Triggered(source uint64, key Key, subscribers int) {
	for _, o := range m {
		o.Triggered(source, key, subscribers)
	}
}

func (m MultiObserver) Ran(c *Computation, took time.Duration, err error) {
	for _, o := range m {
		o.Ran(c, took, err)
	}
}

func (m MultiObserver) Forgot(source uint64) {
	for _, o := range m {
		o.Forgot(source)
	}
}

// LogObserver writes one line per engine event.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver logs to l, or to the standard logger when l is nil.
func NewLogObserver(l *log.Logger) *LogObserver {
	if l == nil {
		l = log.Default()
	}
	return &LogObserver{logger: l}
}

func (o *LogObserver) Tracked(source uint64, key Key, c *Computation) {
	o.logger.Printf("track source=%d key=%s computation=%d", source, key, c.id)
}

func (o *LogObserver) Triggered(source uint64, key Key, subscribers int) {
	o.logger.Printf("trigger source=%d key=%s subscribers=%d", source, key, subscribers)
}

func (o *LogObserver) Ran(c *Computation, took time.Duration, err error) {
	if err != nil {
		o.logger.Printf("run computation=%d took=%v err=%v", c.id, took, err)
		return
	}
	o.logger.Printf("run computation=%d took=%v", c.id, took)
}

func (o *LogObserver) Forgot(source uint64) {
	o.logger.Printf("forget source=%d", source)
}
