package bot

import (
	"sync"

	"golang.org/x/time/rate"
)

// senderLimiter keeps one token bucket per sender JID so a chatty contact
// cannot monopolize the model backend.
type senderLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     *sync.RWMutex
}

func newSenderLimiter(reqRate rate.Limit, burstSize int) *senderLimiter {
	return &senderLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.RWMutex{},
	}
}

func (l *senderLimiter) GetLimiterFrom(jid string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, exist := l.bucket[jid]; !exist {
		l.bucket[jid] = rate.NewLimiter(l.rate, l.burstSize)
	}

	return l.bucket[jid]
}

func (l *senderLimiter) Allow(jid string) bool {
	return l.GetLimiterFrom(jid).Allow()
}
