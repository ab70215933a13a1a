package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	_ "peluqueria-canina/docs"
	"peluqueria-canina/internal/adapters/auth/session"
	"peluqueria-canina/internal/adapters/backup"
	"peluqueria-canina/internal/adapters/capabilities/roles"
	"peluqueria-canina/internal/adapters/storage/sqlstore"
	"peluqueria-canina/internal/config"
	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/domain/checkout"
	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/domain/notes"
	"peluqueria-canina/internal/domain/staff"
	"peluqueria-canina/internal/domain/users"
	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/platform/logger"
	"peluqueria-canina/internal/platform/metrics"
)

type Options struct {
	Config *config.Config

	// Opcional: si no viene, SQLite en memoria (modo demo/tests).
	DB *gorm.DB

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Exporter opcional; si es nil se crea el backup CSV en Config.BackupDir.
	Exporter appointments.Exporter
}

// App expone el handler y los servicios que main necesita (seed del admin, cron).
type App struct {
	Handler  http.Handler
	Users    *users.Service
	Exporter appointments.Exporter
}

func NewRouter(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	db := opts.DB
	if db == nil {
		opened, err := sqlstore.OpenMemory(uuid.NewString())
		if err != nil {
			return nil, err
		}
		db = opened
	}

	// Repos
	clientsRepo := sqlstore.NewClientsRepo(db)
	apptRepo := sqlstore.NewAppointmentsRepo(db)

	exporter := opts.Exporter
	if exporter == nil {
		exporter = backup.NewExporter(apptRepo, backup.Options{
			Dir:      cfg.BackupDir,
			Location: cfg.Location,
			Logger:   log,
			Metrics:  m,
		})
	}

	// Services por módulo
	clientsSvc := clients.NewService(clientsRepo)
	notesSvc := notes.NewService(sqlstore.NewNotesRepo(db), clientsSvc)
	catalogSvc := catalog.NewCatalog(sqlstore.NewCatalogRepo(db))
	staffSvc := staff.NewService(sqlstore.NewStaffRepo(db))
	usersSvc := users.NewService(sqlstore.NewUsersRepo(db), users.BcryptHasher{})

	scheduler := appointments.NewScheduler(appointments.Deps{
		Repo:          apptRepo,
		Dogs:          clientsSvc,
		Catalog:       catalogSvc,
		Professionals: staffSvc,
		Exporter:      exporter,
		Logger:        log,
		Metrics:       m,
	}, appointments.Options{
		Scope:      appointments.ConflictScope(cfg.ConflictScope),
		RejectPast: cfg.RejectPastBookings,
	})
	ledger := checkout.NewLedger(checkout.Deps{
		Repo:     sqlstore.NewLedgerRepo(db),
		Catalog:  catalogSvc,
		Logger:   log,
		Metrics:  m,
		Location: cfg.Location,
	})

	sessions := session.NewManager(usersSvc, session.Options{
		Secret: cfg.SessionSecret,
		Secure: cfg.SessionSecure,
	})
	gate := middleware.RequireCapability(roles.NewResolver(false))
	limiter := middleware.NewLoginLimiter(cfg.LoginRatePerMin)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover)
	r.Use(m.Middleware)

	r.Get("/health", healthHandler(db, log))
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	users.RegisterPublicRoutes(r, usersSvc, sessions, limiter.Handler)

	// Todo lo demás requiere sesión.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthContext(sessions, cfg.DevAuth))
		r.Use(middleware.RequireAuth)
		r.Use(chimw.Timeout(30 * time.Second))

		users.RegisterRoutes(r, usersSvc, sessions, gate)
		clients.RegisterRoutes(r, clientsSvc, gate)
		notes.RegisterRoutes(r, notesSvc)
		catalog.RegisterRoutes(r, catalogSvc, gate)
		staff.RegisterRoutes(r, staffSvc, gate)
		appointments.RegisterRoutes(r, scheduler, gate, cfg.Location)
		checkout.RegisterRoutes(r, ledger)
	})

	return &App{Handler: r, Users: usersSvc, Exporter: exporter}, nil
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

func healthHandler(db *gorm.DB, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := sqlstore.Ping(ctx, db); err != nil {
			log.Warn("health: database unavailable", map[string]any{"error": err.Error()})
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", DB: "down"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "up"})
	}
}
