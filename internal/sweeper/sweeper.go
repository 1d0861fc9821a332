// Package sweeper expires stale pending contributions. An online row
// whose payment webhook never arrives would otherwise sit pending
// forever; after the TTL it is marked expired so the ledger stays
// readable. A late success webhook still wins over expired, since the
// gateway is the source of truth for captured money.
package sweeper

import (
	"log"
	"time"
)

type Ledger interface {
	ExpirePending(olderThan time.Time) (int64, error)
}

type Sweeper struct {
	Store    Ledger
	TTL      time.Duration
	Interval time.Duration
}

func New(store Ledger, ttl time.Duration) *Sweeper {
	return &Sweeper{
		Store:    store,
		TTL:      ttl,
		Interval: 5 * time.Minute,
	}
}

func (s *Sweeper) Run() {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for range ticker.C {
		s.sweep(time.Now())
	}
}

func (s *Sweeper) sweep(now time.Time) {
	expired, err := s.Store.ExpirePending(now.Add(-s.TTL))
	if err != nil {
		log.Println("Failed to expire pending contributions:", err)
		return
	}
	if expired > 0 {
		log.Printf("Expired %d stale pending contributions", expired)
	}
}
