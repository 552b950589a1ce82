package memory

import "github.com/sirupsen/logrus"

// startJanitor is tempuscache's janitor loop (ticker + stop channel)
// generalized to route through clock.Clock instead of time.NewTicker
// directly, so tests can drive active expiration with a TestClock.
func (c *Cache) startJanitor() {
	if c.janitorInterval <= 0 {
		return
	}

	c.stopWG.Add(1)
	go func() {
		defer c.stopWG.Done()

		timer := c.clk.NewTimer(c.janitorInterval)
		defer timer.Stop()

		for {
			select {
			case <-timer.C():
				c.sweep()
				timer.Reset(c.janitorInterval)
			case <-c.stopCh:
				return
			}
		}
	}()
}

// sweep performs active expiration: a full scan dropping expired scalars and
// expired list members, mirroring tempuscache's deleteExpired.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clk.Now()

	reaped := 0
	for k, e := range c.data {
		if e.isList {
			if !reapList(e, now) {
				delete(c.data, k)
				reaped++
			}
			continue
		}
		if e.expired(now) {
			delete(c.data, k)
			reaped++
		}
	}
	if reaped > 0 {
		logger.WithFields(logrus.Fields{"count": reaped}).Trace("janitor reaped expired entries")
	}
}
