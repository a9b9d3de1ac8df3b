package telegram

import (
	"context"
	"sort"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// messageRequest navbatdagi bitta xabar
type messageRequest struct {
	ctx     context.Context
	chatID  int64
	userID  int64
	message *tgbotapi.Message
}

// workerPool xabarlarni parallel qayta ishlaydi. /lift va /complete use case
// ichidagi mutex orqali ketma-ket yoziladi.
type workerPool struct {
	requestQueue chan *messageRequest
	workerCount  int
	handler      *BotHandler
	wg           sync.WaitGroup

	// Rate limiting per chat
	rateLimiter   map[int64]*chatRateLimit
	rateLimiterMu sync.Mutex
}

type chatRateLimit struct {
	lastRequest  time.Time
	requestCount int
}

const (
	maxRequestsPerSecond   = 2
	requestQueueSize       = 100
	defaultWorkerCount     = 4
	commandTimeout         = 90 * time.Second
	attachmentTimeout      = 60 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute
	maxRateLimitersInCache = 10000
)

// newWorkerPool creates a new worker pool
func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *messageRequest, requestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*chatRateLimit),
	}
}

// start starts all workers
func (wp *workerPool) start(ctx context.Context) {
	wp.handler.log.Info("starting workers", zap.Int("count", wp.workerCount))
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-wp.requestQueue:
			if !ok {
				return
			}
			if req == nil {
				continue
			}
			if !wp.checkRateLimit(req.chatID, time.Now()) {
				wp.handler.sendMessage(req.chatID, "⚠️ Juda ko'p so'rov. Iltimos, biroz kutib turing.")
				continue
			}
			wp.process(req, id)
		}
	}
}

// process bitta komandani timeout va panic recovery bilan bajaradi
func (wp *workerPool) process(req *messageRequest, worker int) {
	ctx, cancel := context.WithTimeout(req.ctx, commandTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			wp.handler.log.Error("panic in command", zap.Int("worker", worker), zap.Int64("chat", req.chatID), zap.Any("panic", r))
			wp.handler.sendMessage(req.chatID, "⚠️ Ichki xatolik yuz berdi. Iltimos, qayta urinib ko'ring.")
		}
	}()

	wp.handler.handleMessage(ctx, req.message)
}

// checkRateLimit chat uchun sekundiga maxRequestsPerSecond dan oshmasin
func (wp *workerPool) checkRateLimit(chatID int64, now time.Time) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	limiter, exists := wp.rateLimiter[chatID]
	if !exists {
		wp.rateLimiter[chatID] = &chatRateLimit{lastRequest: now, requestCount: 1}
		return true
	}
	if now.Sub(limiter.lastRequest) >= time.Second {
		limiter.requestCount = 1
		limiter.lastRequest = now
		return true
	}
	if limiter.requestCount >= maxRequestsPerSecond {
		return false
	}
	limiter.requestCount++
	return true
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			wp.pruneRateLimits(now)
		}
	}
}

// pruneRateLimits eski yozuvlarni o'chiradi; juda ko'p bo'lsa eng eskilarini ham
func (wp *workerPool) pruneRateLimits(now time.Time) {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	for chatID, limiter := range wp.rateLimiter {
		if now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime {
			delete(wp.rateLimiter, chatID)
		}
	}
	excess := len(wp.rateLimiter) - maxRateLimitersInCache
	if excess <= 0 {
		return
	}
	type chatTime struct {
		chatID int64
		last   time.Time
	}
	chats := make([]chatTime, 0, len(wp.rateLimiter))
	for chatID, limiter := range wp.rateLimiter {
		chats = append(chats, chatTime{chatID: chatID, last: limiter.lastRequest})
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].last.Before(chats[j].last) })
	for i := 0; i < excess; i++ {
		delete(wp.rateLimiter, chats[i].chatID)
	}
}

// submit submits a message to the worker pool
func (wp *workerPool) submit(req *messageRequest) bool {
	select {
	case wp.requestQueue <- req:
		return true
	default:
		wp.handler.log.Warn("worker pool queue is full", zap.Int("queued", len(wp.requestQueue)), zap.Int64("chat", req.chatID))
		wp.handler.sendMessage(req.chatID, "⚠️ Bot juda band. Iltimos, bir oz kutib turing.")
		return false
	}
}

// shutdown navbatni yopadi va ishchilarni kutadi
func (wp *workerPool) shutdown() {
	wp.handler.log.Info("shutting down worker pool", zap.Int("queued", len(wp.requestQueue)))
	close(wp.requestQueue)
	wp.wg.Wait()
}
