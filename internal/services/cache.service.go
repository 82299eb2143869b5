package services

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"hostwatch/internal/models"
)

const (
	cacheKeyCPU        = "cpu"
	cacheKeyMemory     = "memory"
	cacheKeyDisk       = "disk"
	cacheKeyNetwork    = "network"
	cacheKeyProcesses  = "processes"
	cacheKeySystemInfo = "system-info"
)

// CachedProvider serves repeated on-demand reads from a short-lived cache so
// that dashboard polling does not hammer the OS. It also derives network
// throughput from successive counter reads.
type CachedProvider struct {
	next  MetricsProvider
	cache *cache.Cache

	mu       sync.Mutex
	lastSent uint64
	lastRecv uint64
	lastTime time.Time
	now      func() time.Time
}

// NewCachedProvider wraps next with a cache of the given TTL
func NewCachedProvider(next MetricsProvider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 10*ttl),
		now:   time.Now,
	}
}

// CPU readings are cached per sampling interval
func (c *CachedProvider) CPU(ctx context.Context, interval time.Duration) (*models.CPUStatus, error) {
	key := cacheKeyCPU + ":" + interval.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(*models.CPUStatus), nil
	}
	status, err := c.next.CPU(ctx, interval)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, status)
	return status, nil
}

func (c *CachedProvider) Memory(ctx context.Context) (*models.MemoryStatus, error) {
	if v, ok := c.cache.Get(cacheKeyMemory); ok {
		return v.(*models.MemoryStatus), nil
	}
	status, err := c.next.Memory(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKeyMemory, status)
	return status, nil
}

func (c *CachedProvider) Disk(ctx context.Context) (*models.DiskReport, error) {
	if v, ok := c.cache.Get(cacheKeyDisk); ok {
		return v.(*models.DiskReport), nil
	}
	report, err := c.next.Disk(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKeyDisk, report)
	return report, nil
}

func (c *CachedProvider) DiskUsage(ctx context.Context, path string) (*models.DiskStatus, error) {
	key := cacheKeyDisk + ":" + path
	if v, ok := c.cache.Get(key); ok {
		return v.(*models.DiskStatus), nil
	}
	status, err := c.next.DiskUsage(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, status)
	return status, nil
}

// Network fills in send/receive rates computed against the previous uncached read
func (c *CachedProvider) Network(ctx context.Context) (*models.NetworkStatus, error) {
	if v, ok := c.cache.Get(cacheKeyNetwork); ok {
		return v.(*models.NetworkStatus), nil
	}
	status, err := c.next.Network(ctx)
	if err != nil {
		return nil, err
	}

	withRates := *status
	withRates.BytesSentRate, withRates.BytesRecvRate = c.rates(status.BytesSent, status.BytesRecv)
	c.cache.SetDefault(cacheKeyNetwork, &withRates)
	return &withRates, nil
}

// rates calculates bytes/sec since the last call. The first call and counter
// resets report zero.
func (c *CachedProvider) rates(sent, recv uint64) (sentRate, recvRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	defer func() {
		c.lastSent, c.lastRecv, c.lastTime = sent, recv, now
	}()

	if c.lastTime.IsZero() {
		return 0, 0
	}
	elapsed := now.Sub(c.lastTime).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}
	if sent >= c.lastSent {
		sentRate = float64(sent-c.lastSent) / elapsed
	}
	if recv >= c.lastRecv {
		recvRate = float64(recv-c.lastRecv) / elapsed
	}
	return sentRate, recvRate
}

func (c *CachedProvider) Processes(ctx context.Context) (*models.ProcessList, error) {
	if v, ok := c.cache.Get(cacheKeyProcesses); ok {
		return v.(*models.ProcessList), nil
	}
	list, err := c.next.Processes(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKeyProcesses, list)
	return list, nil
}

// SystemInfo is cached like every other reading
func (c *CachedProvider) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	if v, ok := c.cache.Get(cacheKeySystemInfo); ok {
		return v.(*models.SystemInfo), nil
	}
	info, err := c.next.SystemInfo(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKeySystemInfo, info)
	return info, nil
}

// Flush drops every cached reading
func (c *CachedProvider) Flush() {
	c.cache.Flush()
}
