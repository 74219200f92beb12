package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"weatherhub.app/models"
	"weatherhub.app/scheduler"
)

// UpdateSubscription is a cancellable stream of current-weather results.
// Failed polls are skipped silently; the channel closes after Stop.
type UpdateSubscription struct {
	updates chan models.CurrentWeather
	stopped chan struct{}
	task    *scheduler.Task
	once    sync.Once
}

// Updates returns the emission channel. It closes once the subscription is
// stopped and the polling loop has exited.
func (sub *UpdateSubscription) Updates() <-chan models.CurrentWeather {
	return sub.updates
}

// Stop cancels the subscription: the next scheduled fetch never runs and no
// emissions happen after cancellation is observed. Safe to call more than
// once.
func (sub *UpdateSubscription) Stop() {
	sub.once.Do(func() {
		close(sub.stopped)
		sub.task.Stop()
		go func() {
			<-sub.task.Done()
			close(sub.updates)
		}()
	})
}

// WeatherUpdates polls CurrentWeather once immediately and then on the given
// interval, emitting each successful result. A non-positive interval uses
// the service default. Cancelling ctx stops the subscription too.
func (s *WeatherService) WeatherUpdates(ctx context.Context, location models.Location, interval time.Duration) *UpdateSubscription {
	if interval <= 0 {
		interval = s.updateInterval
	}

	sub := &UpdateSubscription{
		updates: make(chan models.CurrentWeather, 1),
		stopped: make(chan struct{}),
	}

	poll := func() {
		select {
		case <-sub.stopped:
			return
		default:
		}

		weather, err := s.CurrentWeather(ctx, location)
		if err != nil {
			slog.Warn("weather update poll failed", "location", location.String(), "error", err)
			return
		}

		select {
		case sub.updates <- *weather:
		case <-sub.stopped:
		}
	}

	sub.task = scheduler.Every(interval, poll)

	go func() {
		select {
		case <-ctx.Done():
			sub.Stop()
		case <-sub.stopped:
		}
	}()

	return sub
}
