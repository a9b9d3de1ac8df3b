package constants

import "time"

// Sheet nomlari
const (
	// IndentSheet har bir indent (xarid talabi) uchun bitta qator
	IndentSheet = "INDENT"

	// LiftSheet har bir lift/qabul hodisasi uchun yangi qator qo'shiladi
	LiftSheet = "LIFT"
)

// Store konstantalari
const (
	// DefaultStoreTimeout HTTP store so'rovlari uchun timeout
	DefaultStoreTimeout = 30 * time.Second

	// MaxResponseSize store javobining maksimal hajmi (getAll butun sheetni qaytaradi)
	MaxResponseSize = 25 << 20

	// MaxErrorBodySize xato javobidan log uchun olinadigan qism
	MaxErrorBodySize = 1 << 20

	// MaxAttachmentSize yuklanadigan fayl maksimal hajmi (bayt)
	MaxAttachmentSize = 10 * 1024 * 1024 // 10MB
)

// Cache konstantalari
const (
	// DefaultCacheTTL getAll natijasini redisda saqlash muddati
	DefaultCacheTTL = 30 * time.Second

	// CacheKeyPrefix redis kalitlari prefiksi
	CacheKeyPrefix = "poflow:sheet:"
)

// Workflow konstantalari
const (
	// MissingMarker sheetda "qiymat yo'q" degan belgi
	MissingMarker = "-"

	// MoneyPlaces pul summalarini yaxlitlash aniqligi
	MoneyPlaces = 2

	// DefaultJournalLimit /journal komandasida ko'rsatiladigan yozuvlar
	DefaultJournalLimit = 15

	// MaxListItems Telegram xabarida ko'rsatiladigan qatorlar soni
	MaxListItems = 40
)
