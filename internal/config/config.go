package config // loads application configuration from environment variables

import (
    "log"     // reports configuration errors and halts execution
    "os"      // access to environment variables
    "strconv" // string conversion helpers
)

// Config holds all runtime configuration values.  Each field maps to
// one environment variable; required ones are enforced with a fatal
// log so the server never starts half-configured.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
    UploadDir      string // filesystem directory for incident photos
    UploadURLPath  string // public URL path the upload dir is served under
}

// Load reads configuration from the environment and returns a Config.
// Missing required variables abort startup via must().
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),
        UploadDir:      getenv("UPLOAD_DIR", "uploads/incidents"),
        UploadURLPath:  getenv("UPLOAD_URL_PATH", "/uploads/incidents"),
    }
}

// must retrieves a required environment variable or exits fatally.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
