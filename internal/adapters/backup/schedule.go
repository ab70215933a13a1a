package backup

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"peluqueria-canina/internal/platform/logger"
)

type Job interface {
	Export(ctx context.Context) error
}

// Schedule arranca un cron que corre job.Export según spec (formato estándar
// de 5 campos o descriptores tipo "@hourly"). El caller debe llamar Stop.
func Schedule(spec string, job Job, log logger.Logger) (*cron.Cron, error) {
	if log == nil {
		log = logger.Nop()
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := job.Export(ctx); err != nil {
			log.Error("scheduled backup failed", map[string]any{"error": err.Error()})
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backup schedule %q", spec)
	}
	c.Start()
	log.Info("backup scheduled", map[string]any{"spec": spec})
	return c, nil
}
