package summary

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to the cron logger interface
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Schedule runs the roller on spec until the returned cron is stopped
func Schedule(spec string, roller *Roller, log *zap.Logger) (*cron.Cron, error) {
	cl := cronLogger{log: log.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := roller.Run(ctx); err != nil {
			log.Error("Booking summary roll-up failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("Booking summary roll-up scheduled", zap.String("schedule", spec))
	return c, nil
}
