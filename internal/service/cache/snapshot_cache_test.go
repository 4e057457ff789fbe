package cache

import (
	"fmt"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func snap(symbol string, price float64) models.MarketSnapshot {
	return models.MarketSnapshot{
		Symbol:     symbol,
		Timestamp:  time.Now(),
		Price:      price,
		RecentHigh: price * 1.02,
		RecentLow:  price * 0.98,
		Volatility: 0.04,
		Sentiment:  0.5,
	}
}

func TestSnapshotCachePutLatest(t *testing.T) {
	c := NewSnapshotCache(10, time.Minute)
	c.Put(snap("BTCUSDT", 87000))
	c.Put(snap("BTCUSDT", 87500))

	got, ok := c.Latest("BTCUSDT")
	if !ok {
		t.Fatal("expected a cached snapshot")
	}
	if got.Price != 87500 {
		t.Fatalf("price %v, want the later put 87500", got.Price)
	}
	if _, ok := c.Latest("ETHUSDT"); ok {
		t.Fatal("unknown symbol must miss")
	}
}

func TestSnapshotCacheTTLExpiry(t *testing.T) {
	c := NewSnapshotCache(10, 10*time.Millisecond)
	c.Put(snap("BTCUSDT", 87000))
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Latest("BTCUSDT"); ok {
		t.Fatal("expired snapshot must miss")
	}
	if c.Len() != 0 {
		t.Fatalf("len %d after expiry read, want 0", c.Len())
	}
}

func TestSnapshotCacheCapacityBound(t *testing.T) {
	c := NewSnapshotCache(3, time.Minute)
	for i := 0; i < 5; i++ {
		c.Put(snap(fmt.Sprintf("SYM%d", i), 100))
	}
	if c.Len() != 3 {
		t.Fatalf("len %d, want capacity 3", c.Len())
	}
}

func TestSnapshotCacheEvictsLeastRecent(t *testing.T) {
	c := NewSnapshotCache(2, time.Minute)
	c.Put(snap("A", 1))
	time.Sleep(time.Millisecond)
	c.Put(snap("B", 2))
	time.Sleep(time.Millisecond)
	c.Latest("A") // A is now more recently used than B
	time.Sleep(time.Millisecond)
	c.Put(snap("C", 3))

	if _, ok := c.Latest("B"); ok {
		t.Fatal("least recently used symbol must be evicted")
	}
	if _, ok := c.Latest("A"); !ok {
		t.Fatal("recently read symbol must survive")
	}
}
