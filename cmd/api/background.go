package main

import (
	"context"
	"time"
)

// sweepExpiredEveryHour removes expired sessions and refresh-token rows in
// the background for as long as the process runs.
func (app *application) sweepExpiredEveryHour() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		// Run once immediately
		app.sweepExpired()

		for range ticker.C {
			app.sweepExpired()
		}
	}()
}

func (app *application) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := app.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		app.logger.Errorf("Error deleting expired sessions: %v", err)
	} else if n > 0 {
		app.logger.Infof("Deleted %d expired sessions", n)
	}

	n, err = app.tokens.DeleteExpiredTokens(ctx)
	if err != nil {
		app.logger.Errorf("Error deleting expired refresh tokens: %v", err)
	} else if n > 0 {
		app.logger.Infof("Deleted %d expired refresh tokens", n)
	}
}
