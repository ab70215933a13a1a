// Package backup vuelca la agenda a CSV después de cada cambio y, opcionalmente,
// en un horario fijo (cron).
package backup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/platform/logger"
)

// FileName es el nombre del archivo de respaldo dentro de Dir.
const FileName = "turnosBackup.csv"

const timeLayout = "2006-01-02 15:04"

// Row es una fila del CSV.
type Row struct {
	ID          string `csv:"ID"`
	Dog         string `csv:"Perro"`
	Start       string `csv:"Inicio"`
	End         string `csv:"Fin"`
	Description string `csv:"Descripcion"`
}

type Source interface {
	List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error)
}

type Recorder interface {
	Backup(outcome string)
}

type Options struct {
	Dir      string
	Location *time.Location
	Logger   logger.Logger
	Metrics  Recorder
}

// Exporter escribe todos los turnos activos. Implementa appointments.Exporter.
type Exporter struct {
	src     Source
	dir     string
	loc     *time.Location
	log     logger.Logger
	metrics Recorder

	mu sync.Mutex
}

func NewExporter(src Source, opts Options) *Exporter {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{src: src, dir: opts.Dir, loc: loc, log: log, metrics: opts.Metrics}
}

// Path devuelve la ruta completa del archivo.
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, FileName)
}

// Export reescribe el archivo completo: escribe a un temporal y renombra,
// así un lector nunca ve un CSV a medias.
func (e *Exporter) Export(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.export(ctx)
	e.record(err)
	return err
}

func (e *Exporter) export(ctx context.Context) error {
	list, err := e.src.List(ctx, appointments.ListFilter{})
	if err != nil {
		return errors.Wrap(err, "list appointments")
	}

	rows := make([]*Row, 0, len(list))
	for _, a := range list {
		rows = append(rows, &Row{
			ID:          a.ID,
			Dog:         a.DogName,
			Start:       a.StartTime.In(e.loc).Format(timeLayout),
			End:         a.EndTime.In(e.loc).Format(timeLayout),
			Description: a.Description,
		})
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return errors.Wrap(err, "create backup dir")
	}
	tmp, err := os.CreateTemp(e.dir, FileName+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := gocsv.MarshalFile(&rows, tmp); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write csv")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), e.Path()); err != nil {
		return errors.Wrap(err, "rename backup")
	}

	e.log.Debug("backup written", map[string]any{"path": e.Path(), "rows": len(rows)})
	return nil
}

func (e *Exporter) record(err error) {
	if e.metrics == nil {
		return
	}
	if err != nil {
		e.metrics.Backup("error")
		return
	}
	e.metrics.Backup("ok")
}
