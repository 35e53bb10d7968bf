// Package coordinator реализует машину состояний разрешения аутентификации
// и подписки. Координатор — единственный владелец состояния
// {зритель, доступ, флаги готовности}: он загружается при старте, слушает
// события аутентификации, запускает резолвер и отдаёт остальному приложению
// единый согласованный срез. Никто другой не читает состояние сессии бэкенда.
//
// Ключевое свойство корректности: ни один сбой внутри координатора не может
// оставить флаги готовности ложными навсегда — guard трактует «ещё не решено»
// как «ждать», и зависший флаг означал бы вечный экран загрузки.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/remote-jobboard/internal/config"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/entitlement"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

// AuthBackend описывает операции бэкенда, нужные координатору.
type AuthBackend interface {
	// GetSession возвращает текущую сессию либо nil для анонимного зрителя.
	GetSession(ctx context.Context) (*models.Session, error)
	// SignOut завершает сессию на бэкенде.
	SignOut(ctx context.Context) error
}

// SubscriptionSource описывает источник записей о подписках.
type SubscriptionSource interface {
	SubscriptionByEmail(ctx context.Context, email string) (*models.Subscription, error)
}

// Cache описывает кеш подсказок для записей о подписках.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, time.Time, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, key string) error
}

// Coordinator владеет состоянием цикла разрешения. Все мутации происходят
// только в его собственных операциях; guard и обработчики получают копии
// через Snapshot.
type Coordinator struct {
	log      *slog.Logger
	auth     AuthBackend
	subs     SubscriptionSource
	cache    Cache
	timeouts config.Resolution

	mu                   sync.Mutex
	viewer               *models.Viewer
	entitlement          *models.Subscription
	authResolved         bool
	subscriptionResolved bool
	cycle                uint64            // идентификатор цикла разрешения, растёт при каждой смене зрителя
	inflight             map[string]uint64 // почта -> цикл, владеющий незавершённой загрузкой

	now func() time.Time
}

// New создает координатор в неразрешённом состоянии (оба флага ложны).
func New(auth AuthBackend, subs SubscriptionSource, cache Cache, log *slog.Logger, timeouts config.Resolution) *Coordinator {
	return &Coordinator{
		log:      log,
		auth:     auth,
		subs:     subs,
		cache:    cache,
		timeouts: timeouts,
		inflight: make(map[string]uint64),
		now:      time.Now,
	}
}

// Snapshot возвращает согласованную копию текущего состояния.
func (c *Coordinator) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.Snapshot{
		AuthResolved:         c.authResolved,
		SubscriptionResolved: c.subscriptionResolved,
	}
	if c.viewer != nil {
		v := *c.viewer
		snap.Viewer = &v
	}
	if c.entitlement != nil {
		e := *c.entitlement
		snap.Entitlement = &e
	}
	return snap
}

// Bootstrap выполняется один раз при старте: спрашивает у бэкенда текущую
// сессию и, если зритель есть, дожидается загрузки его подписки, прежде чем
// объявить аутентификацию разрешённой. Недоступный бэкенд приводит
// к принудительной готовности с анонимным зрителем после ограниченного
// ожидания: зависший старт хуже ложного «не залогинен», пользователь может
// повторить попытку.
func (c *Coordinator) Bootstrap(ctx context.Context) {
	const op = "coordinator.Bootstrap"
	log := c.log.With(sl.Op(op))

	bctx, cancel := context.WithTimeout(ctx, c.timeouts.BootstrapTimeout)
	sess, err := c.auth.GetSession(bctx)
	cancel()
	if err != nil {
		log.Warn("session check failed, forcing readiness with anonymous viewer", sl.Err(err))
		c.clear()
		return
	}
	if sess == nil {
		log.Info("no stored session, viewer is anonymous")
		c.clear()
		return
	}

	c.mu.Lock()
	if c.viewer != nil && c.viewer.Email == sess.Viewer.Email {
		// события успели применить эту же сессию, новый цикл не нужен
		c.authResolved = true
		c.mu.Unlock()
		return
	}
	cycle := c.beginCycleLocked(sess.Viewer)
	c.mu.Unlock()

	c.loadEntitlement(ctx, sess.Viewer.Email, cycle, true)

	c.mu.Lock()
	c.authResolved = true
	c.mu.Unlock()
	log.Info("bootstrap complete", slog.String("email", sess.Viewer.Email))
}

// HandleAuthEvent применяет событие изменения аутентификации. Обязан быть
// идемпотентным: дубликат события и token refresh того же зрителя не должны
// перезапускать загрузку подписки — подписка от обновления токена не меняется.
func (c *Coordinator) HandleAuthEvent(ctx context.Context, event supabase.AuthEvent, sess *models.Session) {
	const op = "coordinator.HandleAuthEvent"
	log := c.log.With(sl.Op(op), slog.String("event", string(event)))

	if event == supabase.AuthSignedOut || sess == nil || sess.Viewer.Email == "" {
		log.Info("session ended, state cleared")
		c.clear()
		return
	}

	c.mu.Lock()
	if c.viewer != nil && c.viewer.Email == sess.Viewer.Email {
		// тот же зритель: дубликат или token refresh, подписку не перечитываем
		c.mu.Unlock()
		return
	}
	cycle := c.beginCycleLocked(sess.Viewer)
	c.authResolved = true
	c.mu.Unlock()

	log.Info("new viewer signed in", slog.String("email", sess.Viewer.Email))
	c.loadEntitlement(ctx, sess.Viewer.Email, cycle, false)
}

// Logout завершает сессию на бэкенде и синхронно очищает состояние:
// к моменту возврата зритель и доступ сброшены, оба флага готовности
// подняты — разрешать больше нечего.
func (c *Coordinator) Logout(ctx context.Context) {
	const op = "coordinator.Logout"

	if err := c.auth.SignOut(ctx); err != nil {
		c.log.Warn("backend sign-out failed, clearing local state anyway", sl.Op(op), sl.Err(err))
	}
	c.clear()
}

// beginCycleLocked начинает новый цикл разрешения для зрителя.
// Вызывается только под mu.
func (c *Coordinator) beginCycleLocked(viewer models.Viewer) uint64 {
	c.cycle++
	v := viewer
	c.viewer = &v
	c.entitlement = nil
	c.subscriptionResolved = false
	return c.cycle
}

// clear приводит состояние к «анонимный зритель, всё разрешено».
// Рост cycle делает незавершённые загрузки устаревшими.
func (c *Coordinator) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycle++
	c.viewer = nil
	c.entitlement = nil
	c.authResolved = true
	c.subscriptionResolved = true
}

// loadEntitlement загружает и разрешает подписку зрителя. Любой исход — успех,
// отсутствие записи, таймаут, ошибка — поднимает флаг subscriptionResolved
// цикла-владельца: на этот контракт опирается guard. Для одной почты
// одновременно идёт не более одной загрузки; повторный вызов для той же почты
// передаёт уже идущей загрузке владение своим циклом.
func (c *Coordinator) loadEntitlement(ctx context.Context, email string, cycle uint64, bootstrapRetry bool) {
	c.mu.Lock()
	if _, ok := c.inflight[email]; ok {
		// загрузка для этой почты уже идёт: переписываем владельца на текущий
		// цикл, её результат закроет его. Без этого цикл, начатый повторным
		// входом той же почты, никто бы не закрыл — старый результат отбросил
		// бы страж устаревания, а новая загрузка так и не началась бы
		c.inflight[email] = cycle
		c.mu.Unlock()
		return
	}
	c.inflight[email] = cycle
	c.mu.Unlock()

	rec, err := c.fetchOnce(ctx, email)
	if err != nil && !errors.Is(err, supabase.ErrNotFound) && bootstrapRetry && ctx.Err() == nil {
		rec, err = c.fetchOnce(ctx, email)
	}

	var resolved *models.Subscription
	var outcome string
	switch {
	case err == nil:
		resolved = entitlement.Resolve(rec, c.now())
		if cerr := c.cache.Set(ctx, entitlementKey(email), rec); cerr != nil {
			c.log.Warn("failed to cache subscription record", sl.Err(cerr))
		}
		outcome = outcomeOK
	case errors.Is(err, supabase.ErrNotFound):
		// отсутствие записи — не сбой: доступа нет, устаревший кеш стирается
		resolved = nil
		if cerr := c.cache.Invalidate(ctx, entitlementKey(email)); cerr != nil {
			c.log.Warn("failed to invalidate subscription cache", sl.Err(cerr))
		}
		outcome = outcomeNotFound
	default:
		var cached models.Subscription
		found, _, cerr := c.cache.Get(ctx, entitlementKey(email), &cached)
		if cerr == nil && found {
			resolved = entitlement.Resolve(&cached, c.now())
			outcome = outcomeCacheFallback
			c.log.Warn("entitlement fetch failed, falling back to cached record", sl.Err(err))
		} else {
			resolved = nil
			outcome = outcomeError
			c.log.Warn("entitlement fetch failed with no cache to fall back on", sl.Err(err))
		}
	}
	entitlementFetches.WithLabelValues(outcome).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	// владелец записи inflight мог смениться, пока шла загрузка: результат
	// закрывает цикл владельца, а не цикл, начавший загрузку
	owner, ok := c.inflight[email]
	if ok {
		delete(c.inflight, email)
	} else {
		owner = cycle
	}
	if owner != c.cycle || c.viewer == nil || c.viewer.Email != email {
		// зритель сменился, пока шла загрузка: результат отбрасывается,
		// иначе медленный ответ воскресил бы доступ вышедшего зрителя
		return
	}
	c.entitlement = resolved
	c.subscriptionResolved = true
}

func (c *Coordinator) fetchOnce(ctx context.Context, email string) (*models.Subscription, error) {
	fctx, cancel := context.WithTimeout(ctx, c.timeouts.FetchTimeout)
	defer cancel()
	return c.subs.SubscriptionByEmail(fctx, email)
}

func entitlementKey(email string) string {
	return "entitlement:" + email
}
