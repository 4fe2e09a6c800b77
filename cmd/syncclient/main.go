package main // offline-client companion: queues actions in Redis and drains them

// syncclient emulates the device side of offline work.  While the
// network is down, "clean" and "incident" subcommands append to a
// Redis-backed outbox; "drain" replays the queue against the server's
// sync endpoint in insertion order, deleting each entry only after the
// server accepted it.

import (
    "bytes"
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "net/http"
    "os"
    "strings"
    "time"

    "github.com/joho/godotenv"

    "github.com/iliyamo/hotel-housekeeping/internal/config"
    "github.com/iliyamo/hotel-housekeeping/internal/outbox"
)

func main() {
    _ = godotenv.Load()
    if len(os.Args) < 2 {
        usage()
    }

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Fatal("redis unavailable; the outbox needs it for durability")
    }
    device := envOr("OUTBOX_DEVICE", "device1")
    store := outbox.NewRedisStore(rdb, "outbox:"+device)
    ctx := context.Background()

    switch os.Args[1] {
    case "clean":
        fs := flag.NewFlagSet("clean", flag.ExitOnError)
        roomID := fs.Uint64("room", 0, "room id")
        userID := fs.Uint64("user", 0, "acting user id")
        date := fs.String("date", "", "service date (2006-01-02)")
        _ = fs.Parse(os.Args[2:])
        if *roomID == 0 || *userID == 0 || *date == "" {
            fs.Usage()
            os.Exit(2)
        }
        id, err := store.AddCleaning(ctx, outbox.PendingCleaning{
            RoomID:    *roomID,
            UserID:    *userID,
            Date:      *date,
            CleanedAt: time.Now().UTC().Format(time.RFC3339),
        })
        if err != nil {
            log.Fatalf("queue cleaning: %v", err)
        }
        fmt.Printf("queued cleaning entry %d\n", id)

    case "incident":
        fs := flag.NewFlagSet("incident", flag.ExitOnError)
        roomID := fs.Uint64("room", 0, "room id")
        userID := fs.Uint64("user", 0, "acting user id")
        desc := fs.String("desc", "", "defect description")
        photos := fs.String("photos", "", "comma-separated base64 payloads")
        _ = fs.Parse(os.Args[2:])
        if *roomID == 0 || *userID == 0 || *desc == "" {
            fs.Usage()
            os.Exit(2)
        }
        var ps []string
        if *photos != "" {
            ps = strings.Split(*photos, ",")
        }
        id, err := store.AddIncident(ctx, outbox.PendingIncident{
            RoomID:      *roomID,
            UserID:      *userID,
            Description: *desc,
            Photos:      ps,
            CreatedAt:   time.Now().UTC().Format(time.RFC3339),
        })
        if err != nil {
            log.Fatalf("queue incident: %v", err)
        }
        fmt.Printf("queued incident entry %d\n", id)

    case "drain":
        fs := flag.NewFlagSet("drain", flag.ExitOnError)
        server := fs.String("server", envOr("SYNC_SERVER", "http://localhost:8080"), "server base URL")
        token := fs.String("token", os.Getenv("SYNC_TOKEN"), "bearer access token")
        _ = fs.Parse(os.Args[2:])
        if *token == "" {
            log.Fatal("drain needs -token (or SYNC_TOKEN)")
        }
        ap := &httpApplier{base: strings.TrimRight(*server, "/"), token: *token}
        res, err := outbox.Reconcile(ctx, store, ap)
        if err != nil {
            log.Fatalf("drain: %v", err)
        }
        fmt.Printf("cleanings synced=%d failed=%d, incidents synced=%d failed=%d\n",
            res.Cleanings.Synced, res.Cleanings.Failed,
            res.Incidents.Synced, res.Incidents.Failed)

    case "list":
        entries, err := store.Unsynced(ctx)
        if err != nil {
            log.Fatalf("list: %v", err)
        }
        for _, e := range entries {
            switch {
            case e.Cleaning != nil:
                fmt.Printf("%d cleaning room=%d date=%s cleaned_at=%s\n",
                    e.ID, e.Cleaning.RoomID, e.Cleaning.Date, e.Cleaning.CleanedAt)
            case e.Incident != nil:
                fmt.Printf("%d incident room=%d desc=%q photos=%d\n",
                    e.ID, e.Incident.RoomID, e.Incident.Description, len(e.Incident.Photos))
            }
        }

    default:
        usage()
    }
}

// httpApplier replays entries one at a time through POST /v1/sync.  A
// failed count in the response marks the entry as rejected so the
// reconciler leaves it queued.
type httpApplier struct {
    base  string
    token string
}

type syncPayload struct {
    Cleanings []outbox.PendingCleaning `json:"cleanings"`
    Incidents []outbox.PendingIncident `json:"incidents"`
}

func (a *httpApplier) post(ctx context.Context, payload syncPayload) error {
    body, err := json.Marshal(payload)
    if err != nil {
        return err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/v1/sync", bytes.NewReader(body))
    if err != nil {
        return err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+a.token)

    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return fmt.Errorf("sync endpoint returned %s", resp.Status)
    }
    var res outbox.Results
    if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
        return err
    }
    if res.Cleanings.Failed+res.Incidents.Failed > 0 {
        return fmt.Errorf("server rejected entry")
    }
    return nil
}

func (a *httpApplier) ApplyCleaning(ctx context.Context, c outbox.PendingCleaning) error {
    return a.post(ctx, syncPayload{Cleanings: []outbox.PendingCleaning{c}})
}

func (a *httpApplier) ApplyIncident(ctx context.Context, i outbox.PendingIncident) error {
    return a.post(ctx, syncPayload{Incidents: []outbox.PendingIncident{i}})
}

func envOr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func usage() {
    fmt.Fprintln(os.Stderr, `usage: syncclient <command> [flags]

commands:
  clean     -room N -user N -date YYYY-MM-DD   queue an offline cleaning
  incident  -room N -user N -desc TEXT         queue an offline incident
  drain     -server URL -token JWT             replay the queue against the server
  list                                         show queued entries`)
    os.Exit(2)
}
