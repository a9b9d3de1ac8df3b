package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/po-workflow/internal/domain/constants"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	// Sheet store
	SheetBackend    string
	SheetAPIURL     string
	SheetAPIKey     string
	SheetAPITimeout time.Duration
	SpreadsheetID   string
	CredentialsFile string
	DriveFolderID   string
	XLSXPath        string
	AttachmentDir   string

	// Workflow
	DayFirst          bool
	Location          *time.Location
	PatchMode         string
	GroupingNormalize bool
	StagesFile        string

	// Cache
	RedisAddress  string
	RedisPassword string
	CacheTTL      time.Duration

	// Telegram
	TelegramToken  string
	NotifyChatID   int64
	NotifyThreadID int
	AdminChatIDs   []int64
	DigestCron     string

	// Journal (POSTGRES_*)
	PostgresDSN          string
	PostgresHost         string
	PostgresPort         string
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresSSLMode      string
	PostgresAdminDSN     string
	PostgresAttempts     int
	PostgresRetrySeconds int

	LogDir            string
	AllowEmptySecrets bool
}

// DefaultDigestCron har kuni ertalab 9:00 da pending hisobot
const DefaultDigestCron = "0 9 * * *"

func parseChatTarget(raw string) (int64, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, nil
	}
	// Inline kommentariyalarni qo'llab-quvvatlash: "-100.../4  # izoh"
	if idx := strings.Index(raw, "#"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("noto'g'ri format, misol: -1001234567890 yoki -1001234567890/2")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if chatID > 0 {
		// Supergroup/kanallarda manfiy bo'lishi kerak, shuning uchun avtomatik tuzatamiz
		chatID = -chatID
	}

	threadID := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		tid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("topic ID noto'g'ri: %v", err)
		}
		if tid < 0 {
			tid = -tid
		}
		threadID = tid
	}

	return chatID, threadID, nil
}

// parseChatIDs "123, -100456" ro'yxati. Shaxsiy chat ID lar musbat bo'lgani
// uchun bu yerda ishora o'zgartirilmaydi.
func parseChatIDs(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chat ID noto'g'ri %q: %v", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		SheetBackend:    strings.ToLower(getEnv("SHEET_BACKEND", "http")),
		SheetAPIURL:     strings.TrimSpace(os.Getenv("SHEET_API_URL")),
		SheetAPIKey:     strings.TrimSpace(os.Getenv("SHEET_API_KEY")),
		SheetAPITimeout: getEnvDuration("SHEET_API_TIMEOUT", constants.DefaultStoreTimeout),
		SpreadsheetID:   strings.TrimSpace(os.Getenv("SPREADSHEET_ID")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_FILE")),
		DriveFolderID:   strings.TrimSpace(os.Getenv("DRIVE_FOLDER_ID")),
		XLSXPath:        getEnv("XLSX_PATH", "data/workflow.xlsx"),
		AttachmentDir:   getEnv("ATTACHMENT_DIR", "data/attachments"),

		PatchMode:         strings.ToLower(getEnv("PATCH_MODE", "merge")),
		GroupingNormalize: getEnvBool("GROUPING_NORMALIZE", false),
		StagesFile:        strings.TrimSpace(os.Getenv("STAGES_FILE")),

		RedisAddress:  strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getEnvDuration("CACHE_TTL", constants.DefaultCacheTTL),

		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		DigestCron:    getEnv("DIGEST_CRON", DefaultDigestCron),

		PostgresDSN:          strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		PostgresHost:         strings.TrimSpace(os.Getenv("POSTGRES_HOST")),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:         strings.TrimSpace(os.Getenv("POSTGRES_USER")),
		PostgresPassword:     os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:           strings.TrimSpace(os.Getenv("POSTGRES_DB")),
		PostgresSSLMode:      strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE")),
		PostgresAdminDSN:     strings.TrimSpace(os.Getenv("POSTGRES_ADMIN_DSN")),
		PostgresAttempts:     getEnvInt("POSTGRES_CONNECT_ATTEMPTS", 5),
		PostgresRetrySeconds: getEnvInt("POSTGRES_RETRY_SECONDS", 2),

		LogDir:            getEnv("LOG_DIR", "logs"),
		AllowEmptySecrets: getEnvBool("ALLOW_EMPTY_SECRETS", false),
	}

	switch strings.ToLower(getEnv("DATE_ORDER", "dmy")) {
	case "dmy":
		config.DayFirst = true
	case "mdy":
		config.DayFirst = false
	default:
		return nil, fmt.Errorf("DATE_ORDER noto'g'ri: dmy yoki mdy bo'lishi kerak")
	}

	tz := getEnv("APP_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE noto'g'ri %q: %v", tz, err)
	}
	config.Location = loc

	if raw := os.Getenv("NOTIFY_CHAT_ID"); raw != "" {
		chatID, threadID, err := parseChatTarget(raw)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_CHAT_ID noto'g'ri formatda: %v", err)
		}
		config.NotifyChatID = chatID
		config.NotifyThreadID = threadID
	}

	admins, err := parseChatIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_CHAT_IDS noto'g'ri formatda: %v", err)
	}
	config.AdminChatIDs = admins

	// Validatsiya
	switch config.SheetBackend {
	case "http", "google", "xlsx":
	default:
		return nil, fmt.Errorf("SHEET_BACKEND noto'g'ri: %q (http|google|xlsx)", config.SheetBackend)
	}
	switch config.PatchMode {
	case "merge", "sparse":
	default:
		return nil, fmt.Errorf("PATCH_MODE noto'g'ri: %q (merge|sparse)", config.PatchMode)
	}
	if !config.AllowEmptySecrets {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
		}
		switch config.SheetBackend {
		case "http":
			if config.SheetAPIURL == "" {
				return nil, fmt.Errorf("SHEET_API_URL environment variable bo'sh")
			}
		case "google":
			if config.SpreadsheetID == "" || config.CredentialsFile == "" {
				return nil, fmt.Errorf("SPREADSHEET_ID va GOOGLE_CREDENTIALS_FILE kerak")
			}
		}
	}

	return config, nil
}

// IsAdmin yozuvchi komandalar uchun ruxsat. Ro'yxat bo'sh bo'lsa hamma yozishi mumkin.
func (c *Config) IsAdmin(chatID int64) bool {
	if len(c.AdminChatIDs) == 0 {
		return true
	}
	for _, id := range c.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration "30s" yoki sekundlar soni ("30")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
