package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/audit"
	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/store"
)

// CreateOrderInput : corps de POST /api/orders. Les articles sont des fiches
// produit recopiées telles quelles par le client.
type CreateOrderInput struct {
	UserID        string           `json:"userId"`
	Items         []map[string]any `json:"items"`
	Shipping      models.Shipping  `json:"shipping"`
	Summary       models.Summary   `json:"summary"`
	PaymentMethod string           `json:"paymentMethod"`
}

// OrderService gère la double écriture entre la collection orders (canonique)
// et la copie embarquée dans users.orders. Une écriture de copie en échec
// n'annule jamais l'écriture canonique : elle est journalisée puis confiée à
// l'outbox.
type OrderService struct {
	store  *store.Store
	outbox OutboxQueue
	events OrderEvents
	mailer Mailer
	audit  audit.Sink
}

func NewOrderService(st *store.Store, outbox OutboxQueue, events OrderEvents, mailer Mailer, sink audit.Sink) *OrderService {
	if outbox == nil {
		outbox = NewMemoryOutbox()
	}
	if events == nil {
		events = NoopEvents{}
	}
	if sink == nil {
		sink = audit.LogSink{}
	}
	return &OrderService{store: st, outbox: outbox, events: events, mailer: mailer, audit: sink}
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.UserID == "" || in.Items == nil || in.Shipping == nil || in.Summary == nil {
		return nil, apperr.Validation("Missing required fields")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, raw := range in.Items {
		items = append(items, models.NewOrderItem(raw))
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.DefaultPaymentMethod
	}

	// Précision milliseconde, comme une date BSON relue depuis MongoDB.
	now := time.Now().UTC().Truncate(time.Millisecond)
	order := &models.Order{
		OrderDetails: models.OrderDetails{
			UserID:        in.UserID,
			Items:         items,
			Shipping:      in.Shipping,
			Summary:       in.Summary,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: method,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	if err := s.store.Orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	orderID := order.ID.Hex()
	log.Printf("🧾 Commande %s créée pour %s (%d articles)", orderID, in.UserID, len(items))

	if err := s.store.Users.PushOrder(ctx, in.UserID, order.Copy(), in.Shipping); err != nil {
		s.propagationFailed(ctx, SyncTask{Op: SyncPush, OrderID: orderID, UserID: in.UserID}, err)
	}

	s.audit.Record(audit.Entry{
		Actor:      in.UserID,
		Action:     audit.ActionOrderCreate,
		Resource:   audit.ResourceOrder,
		ResourceID: orderID,
		Details:    map[string]any{"total": order.OrderTotal(), "items": len(items)},
		Success:    true,
	})
	s.sendConfirmation(*order)

	return order, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid status value")
	}

	order, err := s.store.Orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	// La copie est indexée par la forme hexadécimale canonique (minuscules).
	orderID = order.ID.Hex()

	if order.UserID != "" {
		if err := s.store.Users.SetOrderStatus(ctx, order.UserID, orderID, status); err != nil {
			s.propagationFailed(ctx, SyncTask{Op: SyncStatus, OrderID: orderID, UserID: order.UserID}, err)
		}
	}

	s.audit.Record(audit.Entry{
		Actor:      order.UserID,
		Action:     audit.ActionOrderStatus,
		Resource:   audit.ResourceOrder,
		ResourceID: orderID,
		Details:    map[string]any{"status": status},
		Success:    true,
	})
	s.publish(ctx, order, EventStatusChanged)
	return order, nil
}

// UpdatePaymentStatus suit le même schéma que UpdateOrderStatus. Appelé par
// le webhook Stripe.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid payment status value")
	}

	order, err := s.store.Orders.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	orderID = order.ID.Hex()

	if order.UserID != "" {
		if err := s.store.Users.SetOrderPaymentStatus(ctx, order.UserID, orderID, status); err != nil {
			s.propagationFailed(ctx, SyncTask{Op: SyncPayment, OrderID: orderID, UserID: order.UserID}, err)
		}
	}

	s.audit.Record(audit.Entry{
		Actor:      "stripe",
		Action:     audit.ActionOrderPayment,
		Resource:   audit.ResourceOrder,
		ResourceID: orderID,
		Details:    map[string]any{"paymentStatus": status},
		Success:    true,
	})
	s.publish(ctx, order, EventPaymentChanged)
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID, requesterUserID string) error {
	if requesterUserID == "" {
		return apperr.Validation("User ID required")
	}

	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	orderID = order.ID.Hex()
	if order.UserID != requesterUserID {
		s.audit.Record(audit.Entry{
			Actor:      requesterUserID,
			Action:     audit.ActionOrderDelete,
			Resource:   audit.ResourceOrder,
			ResourceID: orderID,
			Success:    false,
			ErrorMsg:   "not owner",
		})
		return apperr.Forbidden("You can only delete your own orders")
	}

	if err := s.store.Orders.Delete(ctx, orderID); err != nil {
		return err
	}

	if err := s.store.Users.PullOrder(ctx, requesterUserID, orderID); err != nil {
		s.propagationFailed(ctx, SyncTask{Op: SyncPull, OrderID: orderID, UserID: requesterUserID}, err)
	}

	s.audit.Record(audit.Entry{
		Actor:      requesterUserID,
		Action:     audit.ActionOrderDelete,
		Resource:   audit.ResourceOrder,
		ResourceID: orderID,
		Success:    true,
	})
	return nil
}

// ListOrdersForUser lit les copies embarquées, createdAt décroissant. Le tri
// est stable : deux commandes de même date gardent leur ordre d'insertion.
func (s *OrderService) ListOrdersForUser(ctx context.Context, uid string) ([]models.UserOrder, error) {
	user, err := s.store.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return sortUserOrders(user.Orders), nil
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders.List(ctx)
}

func sortUserOrders(orders []models.UserOrder) []models.UserOrder {
	if orders == nil {
		return []models.UserOrder{}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// propagationFailed journalise l'écart entre la commande canonique et sa
// copie puis confie la resynchronisation au Reconciler. Un utilisateur
// inexistant ne sera jamais réparé par un rejeu : pas de mise en file.
func (s *OrderService) propagationFailed(ctx context.Context, task SyncTask, err error) {
	log.Printf("❌ Copie de la commande %s non synchronisée pour %s (%s): %v", task.OrderID, task.UserID, task.Op, err)

	if errors.Is(err, store.ErrUserNotFound) {
		return
	}
	task.EnqueuedAt = time.Now()
	if qerr := s.outbox.Enqueue(ctx, task); qerr != nil {
		log.Printf("❌ Outbox indisponible, commande %s à resynchroniser manuellement: %v", task.OrderID, qerr)
		return
	}
	log.Printf("📮 Resynchronisation de la commande %s mise en file", task.OrderID)
}

func (s *OrderService) publish(ctx context.Context, order *models.Order, kind string) {
	if order.UserID == "" {
		return
	}
	ev := OrderEvent{
		Type:          kind,
		OrderID:       order.ID.Hex(),
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		At:            order.UpdatedAt,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("⚠️ Événement commande %s non publié: %v", ev.OrderID, err)
	}
}

// sendConfirmation part en tâche de fond : l'échec d'envoi n'affecte pas la
// commande.
func (s *OrderService) sendConfirmation(order models.Order) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.store.Users.FindByUID(ctx, order.UserID)
		if err != nil || user.Email == "" {
			return
		}
		if err := s.mailer.SendOrderConfirmation(ctx, user.Email, order); err != nil {
			log.Println("❌ Erreur envoi e-mail confirmation :", err)
			return
		}
		log.Println("📧 E-mail de confirmation envoyé à", user.Email)
	}()
}
