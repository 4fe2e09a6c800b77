package main // service entry point

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/config"
    "github.com/iliyamo/hotel-housekeeping/internal/database"
    "github.com/iliyamo/hotel-housekeeping/internal/handler"
    custommw "github.com/iliyamo/hotel-housekeeping/internal/middleware"
    "github.com/iliyamo/hotel-housekeeping/internal/photo"
    "github.com/iliyamo/hotel-housekeeping/internal/queue"
    "github.com/iliyamo/hotel-housekeeping/internal/repository"
    "github.com/iliyamo/hotel-housekeeping/internal/router"
    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Repositories over the shared connection pool.
    rooms := repository.NewRoomRepo(db)
    assignments := repository.NewAssignmentRepo(db)
    cleanings := repository.NewCleaningRepo(db)
    incidents := repository.NewIncidentRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    photos := photo.NewStore(cfg.UploadDir, cfg.UploadURLPath)
    engine := service.NewHousekeeping(rooms, assignments, cleanings, incidents, photos, service.AMQPNotifier{})

    // The consumer degrades to a reconnect loop when the broker is
    // down; assignment flow does not depend on it.
    go func() {
        if err := queue.StartNotificationConsumer(); err != nil {
            log.Printf("notification consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)

    // Optional Redis-backed response cache for the read-heavy board.
    var extra []echo.MiddlewareFunc
    if rdb := config.NewRedisClient(); rdb != nil {
        extra = append(extra, custommw.NewRedisCache(config.LoadCacheConfig(), rdb))
    } else {
        log.Printf("redis unavailable, response cache disabled")
    }
    router.RegisterHousekeeping(e, router.Handlers{
        Rooms:       handler.NewRoomHandler(engine),
        Assignments: handler.NewAssignmentHandler(engine),
        Cleanings:   handler.NewCleaningHandler(engine),
        Incidents:   handler.NewIncidentHandler(engine),
        Sync:        handler.NewSyncHandler(engine),
    }, cfg.JWTSecret, extra...)

    // Incident photos are served straight from the upload directory.
    e.Static(cfg.UploadURLPath, cfg.UploadDir)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
