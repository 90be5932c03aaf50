package datasync

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often subscribers are refreshed without writes.
const DefaultPollInterval = 30 * time.Second

// PollingScheduler runs one ticker that calls onTick until stopped. Start and
// Stop are idempotent.
type PollingScheduler struct {
	clock    Clock
	interval time.Duration
	onTick   func()
	logger   zerolog.Logger

	mu      sync.Mutex
	ticker  Ticker
	done    chan struct{}
	running bool
}

func NewPollingScheduler(clock Clock, interval time.Duration, onTick func(), logger zerolog.Logger) *PollingScheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingScheduler{
		clock:    clock,
		interval: interval,
		onTick:   onTick,
		logger:   logger,
	}
}

func (p *PollingScheduler) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.ticker = p.clock.NewTicker(p.interval)
	p.done = make(chan struct{})
	p.running = true
	go p.loop(p.ticker, p.done)
	p.logger.Debug().Dur("interval", p.interval).Msg("Sync polling started")
}

// Stop does not wait for a tick already in progress.
func (p *PollingScheduler) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.ticker.Stop()
	close(p.done)
	p.ticker, p.done, p.running = nil, nil, false
	p.logger.Debug().Msg("Sync polling stopped")
}

func (p *PollingScheduler) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *PollingScheduler) loop(t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C():
			select {
			case <-done:
				return
			default:
			}
			p.onTick()
		}
	}
}
