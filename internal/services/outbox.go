package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"plantopia_back_end/internal/store"
)

const (
	SyncPush    = "push"
	SyncStatus  = "status"
	SyncPayment = "payment"
	SyncPull    = "pull"
)

// SyncTask désigne une copie embarquée à réaligner sur la commande canonique.
// Op indique l'écriture qui a échoué, le rejeu resynchronise la copie entière.
type SyncTask struct {
	Op         string    `bson:"op"`
	OrderID    string    `bson:"orderId"`
	UserID     string    `bson:"userId"`
	Attempts   int       `bson:"attempts"`
	EnqueuedAt time.Time `bson:"enqueuedAt"`
	LastError  string    `bson:"lastError,omitempty"`
}

type OutboxQueue interface {
	Enqueue(ctx context.Context, t SyncTask) error
	// Dequeue renvoie nil, nil quand la file est vide.
	Dequeue(ctx context.Context) (*SyncTask, error)
	Len(ctx context.Context) (int64, error)
}

// =============================================
// REDIS
// =============================================

const outboxKey = "outbox:orders"

type RedisOutbox struct {
	rdb *redis.Client
}

func NewRedisOutbox(rdb *redis.Client) *RedisOutbox {
	return &RedisOutbox{rdb: rdb}
}

func (q *RedisOutbox) Enqueue(ctx context.Context, t SyncTask) error {
	data, err := bson.Marshal(t)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, outboxKey, data).Err()
}

func (q *RedisOutbox) Dequeue(ctx context.Context) (*SyncTask, error) {
	data, err := q.rdb.RPop(ctx, outboxKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t SyncTask
	if err := bson.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("tâche outbox illisible: %w", err)
	}
	return &t, nil
}

func (q *RedisOutbox) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, outboxKey).Result()
}

// =============================================
// MÉMOIRE
// =============================================

type MemoryOutbox struct {
	mu    sync.Mutex
	tasks []SyncTask
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{}
}

func (q *MemoryOutbox) Enqueue(_ context.Context, t SyncTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *MemoryOutbox) Dequeue(_ context.Context) (*SyncTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, nil
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return &t, nil
}

func (q *MemoryOutbox) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

// =============================================
// RECONCILER
// =============================================

// Reconciler vide l'outbox à intervalle régulier. Chaque rejeu est
// idempotent sur l'identifiant de commande : la copie est poussée si absente
// (filtre orders._id != id), ses statuts sont posés par $set positionnel et
// une commande canonique disparue entraîne un $pull.
type Reconciler struct {
	store       *store.Store
	queue       OutboxQueue
	interval    time.Duration
	maxAttempts int
}

func NewReconciler(st *store.Store, queue OutboxQueue, interval time.Duration, maxAttempts int) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Reconciler{store: st, queue: queue, interval: interval, maxAttempts: maxAttempts}
}

// Run bloque jusqu'à l'annulation de ctx.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Printf("🔁 Reconciler démarré (intervalle %s)", r.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Reconciler arrêté")
			return
		case <-ticker.C:
			r.Drain(ctx)
		}
	}
}

// Drain traite les tâches présentes au début de l'appel et renvoie le nombre
// de copies resynchronisées. Une tâche en échec est remise en file.
func (r *Reconciler) Drain(ctx context.Context) int {
	pending, err := r.queue.Len(ctx)
	if err != nil {
		log.Printf("⚠️ Outbox illisible: %v", err)
		return 0
	}

	synced := 0
	for i := int64(0); i < pending; i++ {
		task, err := r.queue.Dequeue(ctx)
		if err != nil {
			log.Printf("⚠️ Outbox illisible: %v", err)
			return synced
		}
		if task == nil {
			break
		}

		if err := r.sync(ctx, *task); err != nil {
			task.Attempts++
			task.LastError = err.Error()
			if task.Attempts >= r.maxAttempts {
				log.Printf("❌ Commande %s abandonnée après %d tentatives: %v", task.OrderID, task.Attempts, err)
				continue
			}
			if qerr := r.queue.Enqueue(ctx, *task); qerr != nil {
				log.Printf("❌ Commande %s perdue par l'outbox: %v", task.OrderID, qerr)
			}
			continue
		}
		synced++
		log.Printf("✅ Copie de la commande %s resynchronisée pour %s", task.OrderID, task.UserID)
	}
	return synced
}

func (r *Reconciler) sync(ctx context.Context, t SyncTask) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if t.Op == SyncPull {
		return r.store.Users.PullOrder(ctx, t.UserID, t.OrderID)
	}

	order, err := r.store.Orders.FindByID(ctx, t.OrderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		return r.store.Users.PullOrder(ctx, t.UserID, t.OrderID)
	}
	if err != nil {
		return err
	}

	if err := r.store.Users.PushOrder(ctx, order.UserID, order.Copy(), order.Shipping); err != nil {
		return err
	}
	id := order.ID.Hex()
	if err := r.store.Users.SetOrderStatus(ctx, order.UserID, id, order.Status); err != nil {
		return err
	}
	return r.store.Users.SetOrderPaymentStatus(ctx, order.UserID, id, order.PaymentStatus)
}
