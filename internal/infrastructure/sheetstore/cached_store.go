package sheetstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrCacheMiss kalit keshda yo'q
var ErrCacheMiss = errors.New("cache miss")

// Cache kesh backend (redis yoki test stub)
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache go-redis klientini Cache ga o'raydi
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

// DialRedis ulanib Ping qiladi
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// CachedStore GetAll natijasini keshlaydi. Shu sheetga har qanday yozuv
// keshni o'chiradi. Kesh xatolari faqat log qilinadi.
type CachedStore struct {
	next  repository.SheetRepository
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

var _ repository.SheetRepository = (*CachedStore)(nil)

// NewCachedStore read-through kesh dekoratori
func NewCachedStore(next repository.SheetRepository, cache Cache, ttl time.Duration, log *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{next: next, cache: cache, ttl: ttl, log: log.Named("cached_store")}
}

func cacheKey(sheet string) string {
	return constants.CacheKeyPrefix + sheet
}

// GetAll avval keshdan, bo'lmasa store dan o'qib keshga yozadi
func (s *CachedStore) GetAll(ctx context.Context, sheet string) ([][]any, error) {
	key := cacheKey(sheet)
	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var rows [][]any
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if decErr := dec.Decode(&rows); decErr == nil {
			return rows, nil
		}
		s.log.Warn("cache entry corrupt", zap.String("sheet", sheet))
	case !errors.Is(err, ErrCacheMiss):
		s.log.Warn("cache get failed", zap.String("sheet", sheet), zap.Error(err))
	}

	rows, err := s.next.GetAll(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if b, mErr := json.Marshal(rows); mErr == nil {
		if setErr := s.cache.Set(ctx, key, string(b), s.ttl); setErr != nil {
			s.log.Warn("cache set failed", zap.String("sheet", sheet), zap.Error(setErr))
		}
	}
	return rows, nil
}

func (s *CachedStore) invalidate(ctx context.Context, sheet string) {
	if err := s.cache.Del(ctx, cacheKey(sheet)); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("sheet", sheet), zap.Error(err))
	}
}

// Update yozadi va keshni o'chiradi (xato bo'lsa ham)
func (s *CachedStore) Update(ctx context.Context, sheet string, rowIndex int, row []any) error {
	defer s.invalidate(ctx, sheet)
	return s.next.Update(ctx, sheet, rowIndex, row)
}

// Insert yozadi va keshni o'chiradi
func (s *CachedStore) Insert(ctx context.Context, sheet string, row []any) error {
	defer s.invalidate(ctx, sheet)
	return s.next.Insert(ctx, sheet, row)
}

// BatchInsert yozadi va keshni o'chiradi
func (s *CachedStore) BatchInsert(ctx context.Context, sheet string, rows [][]any, startRow int) error {
	defer s.invalidate(ctx, sheet)
	return s.next.BatchInsert(ctx, sheet, rows, startRow)
}

// UploadFile keshga tegmaydi
func (s *CachedStore) UploadFile(ctx context.Context, file entity.Attachment) (string, error) {
	return s.next.UploadFile(ctx, file)
}
