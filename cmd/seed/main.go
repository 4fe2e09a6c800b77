package main // development seeder: staff accounts and the room inventory

import (
    "context"
    "errors"
    "fmt"
    "log"

    "github.com/joho/godotenv"

    "github.com/iliyamo/hotel-housekeeping/internal/config"
    "github.com/iliyamo/hotel-housekeeping/internal/database"
    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/repository"
)

type seedUser struct {
    email string
    name  string
    role  model.UserRole
}

// Every demo account shares one password; these are throwaway logins
// for a development database.
const seedPassword = "password123"

var seedUsers = []seedUser{
    {"admin@hotel.test", "Admin", model.RoleAdmin},
    {"reception@hotel.test", "Front Desk", model.RoleReception},
    {"maria@hotel.test", "Maria", model.RoleHousekeeper},
    {"jonas@hotel.test", "Jonas", model.RoleHousekeeper},
}

func main() {
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    ctx := context.Background()
    users := repository.NewUserRepo(db)
    rooms := repository.NewRoomRepo(db)

    for _, u := range seedUsers {
        id, err := users.Upsert(ctx, u.email, u.name, seedPassword, u.role, cfg.BcryptCost)
        if err != nil {
            log.Fatalf("seed user %s: %v", u.email, err)
        }
        log.Printf("user %s (%s) -> id %d", u.email, u.role, id)
    }

    // Three floors, ten rooms each.  Existing rooms are left untouched.
    created := 0
    for floor := 1; floor <= 3; floor++ {
        for n := 1; n <= 10; n++ {
            f := floor
            room := model.Room{
                Number: fmt.Sprintf("%d%02d", floor, n),
                Floor:  &f,
                Status: model.RoomVacant,
            }
            if err := rooms.Create(ctx, &room); err != nil {
                if errors.Is(err, repository.ErrConflict) {
                    continue
                }
                log.Fatalf("seed room %s: %v", room.Number, err)
            }
            created++
        }
    }
    log.Printf("rooms created: %d", created)
}
