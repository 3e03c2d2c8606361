package main

import (
	"context"
	"net/http"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/middleware"
	"hotelops/internal/modules/calendar"
	"hotelops/internal/modules/maintenance"
	"hotelops/internal/modules/occupancy"
	"hotelops/internal/modules/presence"
	"hotelops/internal/modules/reservation"
	jwtsvc "hotelops/internal/pkg/jwt"
	"hotelops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type serverDeps struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *gorm.DB
	rdb      *redis.Client
	registry *prometheus.Registry
	hub      *presence.Hub
	notifier occupancy.Notifier
	tokens   *jwtsvc.Service
	// clock overrides the hotel wall clock; nil uses time.Now.
	clock func() time.Time
}

// newRouter wires repositories, services and handlers into the HTTP API.
func newRouter(d serverDeps) *gin.Engine {
	reservationRepo := repository.NewReservationRepository(d.db)
	roomRepo := repository.NewRoomRepository(d.db)
	blockRepo := repository.NewBlockRepository(d.db)
	noteRepo := repository.NewDayNoteRepository(d.db)

	opts := []occupancy.Option{
		occupancy.WithNotifier(d.notifier),
		occupancy.WithMetrics(occupancy.NewMetrics(d.registry)),
		occupancy.WithLogger(d.log),
	}
	if d.clock != nil {
		opts = append(opts, occupancy.WithClock(d.clock))
	}
	occupancyService := occupancy.NewService(reservationRepo, roomRepo, blockRepo, d.cfg.HotelLocation, opts...)
	occupancyHandler := occupancy.NewHandler(occupancyService)

	reservationService := reservation.NewService(reservationRepo, occupancyService, d.log)
	reservationHandler := reservation.NewHandler(reservationService)

	calendarService := calendar.NewService(reservationRepo, noteRepo)
	calendarHandler := calendar.NewHandler(calendarService)

	maintenanceService := maintenance.NewService(blockRepo, occupancyService, d.notifier, d.log)
	maintenanceHandler := maintenance.NewHandler(maintenanceService)

	presenceHandler := presence.NewHandler(d.hub, d.tokens, nil, d.log)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(d.log), middleware.CORS(d.cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", readyHandler(d.db, d.rdb))
	if d.cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{Registry: d.registry})))
	}

	if d.cfg.InternalToken != "" {
		internal := r.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(d.cfg.InternalToken, d.cfg.InternalAllowedIPs, d.log))
		occupancyHandler.RegisterInternal(internal)
	}

	v1 := r.Group("/api/v1")
	{
		// the socket authenticates with ?token=
		presenceHandler.RegisterWS(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.tokens))
		{
			occupancyHandler.RegisterRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			calendarHandler.RegisterRoutes(protected)
			maintenanceHandler.RegisterRoutes(protected)
			presenceHandler.RegisterRoutes(protected)
		}
	}

	return r
}

func readyHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			c.String(http.StatusServiceUnavailable, "db not ready")
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.String(http.StatusServiceUnavailable, "redis not ready")
				return
			}
		}
		c.String(http.StatusOK, "ready")
	}
}
