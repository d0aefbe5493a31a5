package service

import (
	"context"
	"sync/atomic"

	"hotelsync/pkg/metrics"

	"golang.org/x/sync/semaphore"
)

// MaxConcurrentSyncs - лимит одновременных синхронизаций по умолчанию.
// Ограничивает параллельные обращения к внешнему скраперу на весь процесс.
const MaxConcurrentSyncs = 5

// SyncGate ограничивает количество одновременных синхронизаций.
// Взвешенный семафор вместо счетчика с поллингом: ожидающие будятся при
// освобождении слота, а пара Acquire/Release не может разъехаться,
// поэтому дрейф счетчика невозможен.
type SyncGate struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

// NewSyncGate создает гейт на max одновременных синхронизаций
func NewSyncGate(max int) *SyncGate {
	if max < 1 {
		max = MaxConcurrentSyncs
	}
	return &SyncGate{
		sem:      semaphore.NewWeighted(int64(max)),
		capacity: int64(max),
	}
}

// Acquire блокируется до свободного слота или отмены контекста
func (g *SyncGate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	g.inFlight.Add(1)
	metrics.SyncsInFlight.Inc()
	return nil
}

// Release освобождает слот; вызывается безусловно, в том числе после сбоя
func (g *SyncGate) Release() {
	g.inFlight.Add(-1)
	metrics.SyncsInFlight.Dec()
	g.sem.Release(1)
}

// InFlight возвращает количество занятых слотов
func (g *SyncGate) InFlight() int {
	return int(g.inFlight.Load())
}

// Capacity возвращает размер гейта
func (g *SyncGate) Capacity() int {
	return int(g.capacity)
}
