package processor

import (
	"context"
	"errors"
	"log"
	"time"

	"hotelsync/internal/app/review-sync/config"
	"hotelsync/internal/app/review-sync/entity"
	"hotelsync/internal/app/review-sync/repository"
	"hotelsync/internal/app/review-sync/service"
	"hotelsync/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает плановые синхронизации.
// Три независимых тика по тирам периодичности (daily/weekly/monthly)
// плюс ежечасный housekeeping. Тик не ждет завершения синхронизаций:
// каждая уходит в отдельную горутину, гейт внутри SyncService
// ограничивает их одновременное количество.
type CronScheduler struct {
	cron            *cron.Cron
	integrationRepo repository.IntegrationRepository
	syncSvc         service.SyncServiceInterface
	lockRepo        repository.SyncLockRepository
	gate            *service.SyncGate
}

// NewCronScheduler создает планировщик синхронизаций
func NewCronScheduler(
	integrationRepo repository.IntegrationRepository,
	syncSvc service.SyncServiceInterface,
	lockRepo repository.SyncLockRepository,
	gate *service.SyncGate,
) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:            c,
		integrationRepo: integrationRepo,
		syncSvc:         syncSvc,
		lockRepo:        lockRepo,
		gate:            gate,
	}
}

// Start регистрирует cron задачи и запускает планировщик
func (s *CronScheduler) Start(ctx context.Context, schedules config.CronScheduleConfig) error {
	tiers := []struct {
		spec string
		tier entity.SyncFrequency
	}{
		{schedules.Daily, entity.SyncFrequencyDaily},
		{schedules.Weekly, entity.SyncFrequencyWeekly},
		{schedules.Monthly, entity.SyncFrequencyMonthly},
	}

	for _, t := range tiers {
		tier := t.tier
		if _, err := s.cron.AddFunc(t.spec, func() {
			s.runTier(ctx, tier)
		}); err != nil {
			return err
		}
		log.Printf("Scheduled %s sync tier with spec %q", tier, t.spec)
	}

	if _, err := s.cron.AddFunc(schedules.Housekeeping, func() {
		s.runHousekeeping(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	return nil
}

// Stop останавливает планировщик, дождавшись выполняющихся тиков
func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные cron задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

// runTier выбирает должников одного тира и отправляет их в синхронизацию.
// Ошибка выборки логируется и тик бросается целиком - никаких мутаций
// состояния, следующий тик повторит выборку.
func (s *CronScheduler) runTier(ctx context.Context, tier entity.SyncFrequency) {
	now := time.Now().UTC()

	due, err := s.integrationRepo.FindDue(ctx, tier, now)
	if err != nil {
		log.Printf("ERROR: failed to select due integrations for tier %s: %v", tier, err)
		metrics.SchedulerTicks.WithLabelValues(string(tier), "query_failed").Inc()
		return
	}

	metrics.SchedulerTicks.WithLabelValues(string(tier), "ok").Inc()

	if len(due) == 0 {
		return
	}

	log.Printf("Tier %s: %d integrations due for sync", tier, len(due))

	// Fire-and-forget: тик не ждет завершения; порядок обработки не гарантируется
	for i := range due {
		integration := due[i]
		go s.dispatch(ctx, &integration)
	}
}

// dispatch выполняет одну плановую синхронизацию.
// Ошибки на плановом пути не всплывают: исход виден только в статусе
// интеграции, sync_config.error и логах.
func (s *CronScheduler) dispatch(ctx context.Context, integration *entity.Integration) {
	result, err := s.syncSvc.SyncIntegration(ctx, integration)
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			log.Printf("Integration %s: sync already in progress, skipping scheduled run", integration.ID.Hex())
			return
		}
		log.Printf("ERROR: scheduled sync failed for integration %s (%s): %v",
			integration.ID.Hex(), integration.Platform, err)
		return
	}

	log.Printf("Scheduled sync completed for integration %s (%s): %d new reviews",
		integration.ID.Hex(), integration.Platform, result.NewReviews)
}

// runHousekeeping раз в час публикует занятость гейта и живые блокировки.
// Слоты гейта не могут утечь (семафор освобождается в defer), а просроченные
// блокировки Redis снимает по TTL - housekeeping делает и то и другое видимым.
func (s *CronScheduler) runHousekeeping(ctx context.Context) {
	locks, err := s.lockRepo.ActiveLocks(ctx)
	if err != nil {
		log.Printf("WARNING: housekeeping failed to list active sync locks: %v", err)
		return
	}

	log.Printf("Housekeeping: %d/%d gate slots in use, %d active sync locks",
		s.gate.InFlight(), s.gate.Capacity(), len(locks))
}
