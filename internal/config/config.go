package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values are enforced at load time;
// optional ones fall back to a sensible default or stay empty.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign JWTs
	AccessTTLMin    int    // access token time-to-live in minutes
	ResetTTLMin     int    // password-reset token time-to-live in minutes
	BcryptCost      int    // bcrypt cost for password hashing
	UploadDir       string // directory for uploaded images (posters, avatars)
	PublicBaseURL   string // base URL used when building links in emails
	KhaltiSecretKey string // Khalti merchant secret key
	KhaltiBaseURL   string // Khalti API base URL (sandbox or live)
	KhaltiReturnURL string // URL Khalti redirects the payer back to
	SMTPHost        string // SMTP server host (empty disables real mail)
	SMTPPort        int    // SMTP server port
	SMTPFrom        string // From address for outgoing mail
	SMTPUser        string // SMTP auth user (optional)
	SMTPPass        string // SMTP auth password (optional)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
		ResetTTLMin:     intOr("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:      mustInt("BCRYPT_COST"),
		UploadDir:       strOr("UPLOAD_DIR", "uploads"),
		PublicBaseURL:   strOr("PUBLIC_BASE_URL", "http://localhost:3000"),
		KhaltiSecretKey: os.Getenv("KHALTI_SECRET_KEY"),
		KhaltiBaseURL:   strOr("KHALTI_BASE_URL", "https://dev.khalti.com/api/v2"),
		KhaltiReturnURL: strOr("KHALTI_RETURN_URL", "http://localhost:3000/payment/return"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        intOr("SMTP_PORT", 587),
		SMTPFrom:        strOr("SMTP_FROM", "no-reply@cineghar.local"),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// strOr returns the env value when set, otherwise the default.
func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr returns the env value parsed as int when set and valid, otherwise
// the default.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
