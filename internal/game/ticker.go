package game

import (
	"context"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/logger"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

// Ticker drives the game loop at a fixed rate.
// It does NOT know about orders or inventory - only that the Game must be
// ticked on schedule.
type Ticker struct {
	game     *Game
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewTicker creates the game loop driver.
func NewTicker(g *Game, log *logger.Logger, interval time.Duration) *Ticker {
	return &Ticker{
		game:     g,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the game loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Infof("Game ticker started at %s resolution.", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Game ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Game ticker stopped manually.")
			return
		case <-ticker.C:
			started := time.Now()
			t.game.Tick()
			metrics.Get().RecordTick(time.Since(started))
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
