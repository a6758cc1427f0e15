package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/bouwshop/api/internal/domain"
	pfirestore "github.com/bouwshop/api/internal/platform/firestore"
	"github.com/bouwshop/api/internal/repositories"
)

const ordersCollection = "orders"

type orderItemDocument struct {
	ProductID   string               `firestore:"productId"`
	ProductName domain.LocalizedText `firestore:"productName"`
	Quantity    int                  `firestore:"quantity"`
	Price       float64              `firestore:"price"`
	Total       float64              `firestore:"total"`
}

type orderCustomerDocument struct {
	Name       string `firestore:"name"`
	Email      string `firestore:"email"`
	Phone      string `firestore:"phone"`
	Address    string `firestore:"address"`
	City       string `firestore:"city"`
	PostalCode string `firestore:"postalCode"`
	Country    string `firestore:"country"`
}

type orderDocument struct {
	OrderNumber   string                `firestore:"orderNumber"`
	Items         []orderItemDocument   `firestore:"items"`
	Customer      orderCustomerDocument `firestore:"customer"`
	Subtotal      float64               `firestore:"subtotal"`
	Tax           float64               `firestore:"tax"`
	Total         float64               `firestore:"total"`
	Status        string                `firestore:"status"`
	PaymentStatus string                `firestore:"paymentStatus"`
	PaymentMethod string                `firestore:"paymentMethod"`
	Notes         string                `firestore:"notes"`
	CreatedAt     time.Time             `firestore:"createdAt"`
	UpdatedAt     time.Time             `firestore:"updatedAt"`
}

func (d orderDocument) toDomain(id string) domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}
	return domain.Order{
		ID:          id,
		OrderNumber: d.OrderNumber,
		Items:       items,
		Customer: domain.CustomerInfo{
			Name:       d.Customer.Name,
			Email:      d.Customer.Email,
			Phone:      d.Customer.Phone,
			Address:    d.Customer.Address,
			City:       d.Customer.City,
			PostalCode: d.Customer.PostalCode,
			Country:    d.Customer.Country,
		},
		Subtotal:      d.Subtotal,
		Tax:           d.Tax,
		Total:         d.Total,
		Status:        domain.OrderStatus(d.Status),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func newOrderCustomerDocument(info domain.CustomerInfo) orderCustomerDocument {
	return orderCustomerDocument{
		Name:       info.Name,
		Email:      info.Email,
		Phone:      info.Phone,
		Address:    info.Address,
		City:       info.City,
		PostalCode: info.PostalCode,
		Country:    info.Country,
	}
}

// OrderRepository persists orders in Firestore. Every stock-touching
// transition runs in a single transaction.
type OrderRepository struct {
	provider  *pfirestore.Provider
	orders    *pfirestore.Collection[orderDocument]
	products  *pfirestore.Collection[productDocument]
	customers *pfirestore.Collection[customerDocument]
}

// NewOrderRepository constructs an OrderRepository bound to the provider.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository requires firestore provider")
	}
	return &OrderRepository{
		provider:  provider,
		orders:    pfirestore.NewCollection[orderDocument](provider, ordersCollection),
		products:  pfirestore.NewCollection[productDocument](provider, productsCollection),
		customers: pfirestore.NewCollection[customerDocument](provider, customersCollection),
	}, nil
}

// mergeCartLines validates cart lines and collapses repeated product ids into
// a single line with the summed quantity, keeping first-seen order. Stock
// checks and decrements then operate on the combined quantity per product
// instead of seeing the same pre-transaction stock once per line.
func mergeCartLines(in []repositories.CartLine) ([]repositories.CartLine, error) {
	merged := make([]repositories.CartLine, 0, len(in))
	index := make(map[string]int, len(in))
	for _, line := range in {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			return nil, repositories.NewOrderError(repositories.OrderErrorProductNotFound, "order create: product id is required", nil)
		}
		if line.Quantity <= 0 {
			return nil, repositories.NewOrderError(repositories.OrderErrorUnknown, fmt.Sprintf("order create: quantity for %s must be > 0", id), nil)
		}
		if at, ok := index[id]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, repositories.CartLine{ProductID: id, Quantity: line.Quantity})
	}
	return merged, nil
}

// Create runs the whole order creation unit in one transaction: product
// validation and price snapshots, stock decrements, the order write and the
// customer ledger upsert either all land or none do. Firestore requires all
// transaction reads to precede the first write, so the method is structured
// as a read phase followed by a write phase.
func (r *OrderRepository) Create(ctx context.Context, req repositories.CreateOrderRequest) (domain.Order, error) {
	if r == nil || r.provider == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return domain.Order{}, errors.New("order create: order id is required")
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		return domain.Order{}, errors.New("order create: order number is required")
	}
	if len(req.Lines) == 0 {
		return domain.Order{}, errors.New("order create: at least one line is required")
	}

	lines, err := mergeCartLines(req.Lines)
	if err != nil {
		return domain.Order{}, wrapOrderError("orders.create", err)
	}

	now := req.Now.UTC()
	email := strings.ToLower(strings.TrimSpace(req.Customer.Email))

	var created domain.Order
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ordersColl, err := r.orders.Ref(ctx)
		if err != nil {
			return err
		}
		customersColl, err := r.customers.Ref(ctx)
		if err != nil {
			return err
		}

		// Read phase.
		numberQuery := ordersColl.Where("orderNumber", "==", req.OrderNumber).Limit(1)
		numberIter := tx.Documents(numberQuery)
		if _, err := numberIter.Next(); err == nil {
			numberIter.Stop()
			return repositories.NewOrderError(repositories.OrderErrorDuplicateNumber, fmt.Sprintf("order number %s already exists", req.OrderNumber), nil)
		} else if !errors.Is(err, iterator.Done) {
			numberIter.Stop()
			return err
		}
		numberIter.Stop()

		type lineState struct {
			ref     *firestore.DocumentRef
			product productDocument
			line    repositories.CartLine
		}
		states := make([]lineState, 0, len(lines))
		for _, line := range lines {
			ref, err := r.products.DocumentRef(ctx, line.ProductID)
			if err != nil {
				return err
			}
			snap, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return repositories.NewOrderError(repositories.OrderErrorProductNotFound, fmt.Sprintf("product %s not found", line.ProductID), err)
				}
				return err
			}
			doc, err := r.products.Decode(snap)
			if err != nil {
				return err
			}
			if doc.Data.Stock < line.Quantity {
				return repositories.NewOrderError(repositories.OrderErrorInsufficientStock, fmt.Sprintf("insufficient stock for %s", line.ProductID), nil)
			}
			states = append(states, lineState{ref: ref, product: doc.Data, line: line})
		}

		var ledgerRef *firestore.DocumentRef
		var ledger customerDocument
		ledgerExists := false
		if email != "" {
			customerQuery := customersColl.Where("email", "==", email).Limit(1)
			customerIter := tx.Documents(customerQuery)
			snap, err := customerIter.Next()
			customerIter.Stop()
			switch {
			case err == nil:
				doc, err := r.customers.Decode(snap)
				if err != nil {
					return err
				}
				ledgerRef = snap.Ref
				ledger = doc.Data
				ledgerExists = true
			case errors.Is(err, iterator.Done):
				ledgerRef, err = r.customers.DocumentRef(ctx, req.CustomerID)
				if err != nil {
					return err
				}
			default:
				return err
			}
		}

		// Write phase.
		items := make([]orderItemDocument, 0, len(states))
		domainItems := make([]domain.OrderItem, 0, len(states))
		for _, state := range states {
			updated := state.product
			updated.Stock -= state.line.Quantity
			updated.UpdatedAt = now
			if err := tx.Set(state.ref, updated); err != nil {
				return err
			}
			lineTotal := domain.Round2(state.product.Price * float64(state.line.Quantity))
			items = append(items, orderItemDocument{
				ProductID:   state.line.ProductID,
				ProductName: state.product.Name,
				Quantity:    state.line.Quantity,
				Price:       state.product.Price,
				Total:       lineTotal,
			})
			domainItems = append(domainItems, domain.OrderItem{
				ProductID:   state.line.ProductID,
				ProductName: state.product.Name,
				Quantity:    state.line.Quantity,
				Price:       state.product.Price,
				Total:       lineTotal,
			})
		}

		totals := domain.ComputeTotals(domainItems)
		orderRef, err := r.orders.DocumentRef(ctx, req.OrderID)
		if err != nil {
			return err
		}
		doc := orderDocument{
			OrderNumber:   req.OrderNumber,
			Items:         items,
			Customer:      newOrderCustomerDocument(req.Customer),
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
			Status:        string(domain.OrderStatusPending),
			PaymentStatus: string(domain.PaymentStatusPending),
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(orderRef, doc); err != nil {
			if status.Code(err) == codes.AlreadyExists {
				return repositories.NewOrderError(repositories.OrderErrorDuplicateNumber, fmt.Sprintf("order %s already exists", req.OrderID), err)
			}
			return err
		}

		if ledgerRef != nil {
			if !ledgerExists {
				ledger = customerDocument{
					Email:     email,
					CreatedAt: now,
				}
			}
			ledger.Name = req.Customer.Name
			ledger.Phone = req.Customer.Phone
			ledger.Address = req.Customer.Address
			ledger.City = req.Customer.City
			ledger.PostalCode = req.Customer.PostalCode
			ledger.Country = req.Customer.Country
			ledger.TotalOrders++
			ledger.TotalSpent = domain.Round2(ledger.TotalSpent + totals.Total)
			if err := tx.Set(ledgerRef, ledger); err != nil {
				return err
			}
		}

		created = doc.toDomain(req.OrderID)
		return nil
	})
	if err != nil {
		return domain.Order{}, wrapOrderError("orders.create", err)
	}
	return created, nil
}

// Find resolves the order by document id first, then by order number.
func (r *OrderRepository) Find(ctx context.Context, idOrNumber string) (domain.Order, error) {
	if r == nil || r.provider == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	key := strings.TrimSpace(idOrNumber)
	if key == "" {
		return domain.Order{}, errors.New("order find: id or number is required")
	}

	doc, err := r.orders.Get(ctx, key)
	if err == nil {
		return doc.Data.toDomain(doc.ID), nil
	}
	if !pfirestore.IsNotFound(err) {
		return domain.Order{}, wrapOrderError("orders.find", err)
	}

	docs, err := r.orders.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("orderNumber", "==", key).Limit(1)
	})
	if err != nil {
		return domain.Order{}, wrapOrderError("orders.find", err)
	}
	if len(docs) == 0 {
		return domain.Order{}, repositories.NewOrderError(repositories.OrderErrorNotFound, fmt.Sprintf("order %s not found", key), nil)
	}
	return docs[0].Data.toDomain(docs[0].ID), nil
}

func (r *OrderRepository) List(ctx context.Context, query repositories.OrderListQuery) ([]domain.Order, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("order repository not initialised")
	}

	docs, err := r.orders.Query(ctx, func(q firestore.Query) firestore.Query {
		if query.Status != "" {
			q = q.Where("status", "==", string(query.Status))
		}
		q = q.OrderBy("createdAt", firestore.Desc)
		if query.Skip > 0 {
			q = q.Offset(query.Skip)
		}
		if query.Limit > 0 {
			q = q.Limit(query.Limit)
		}
		return q
	})
	if err != nil {
		return nil, wrapOrderError("orders.list", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.Data.toDomain(doc.ID))
	}
	return orders, nil
}

// UpdateStatus transitions the fulfilment status. Entering cancelled from a
// non-cancelled status restores each item's stock in the same transaction;
// items whose product has since been deleted are skipped.
func (r *OrderRepository) UpdateStatus(ctx context.Context, update repositories.OrderStatusUpdate) (domain.Order, error) {
	if r == nil || r.provider == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(update.OrderID) == "" {
		return domain.Order{}, errors.New("order update status: order id is required")
	}

	now := update.Now.UTC()
	var updated domain.Order
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		orderRef, err := r.orders.DocumentRef(ctx, update.OrderID)
		if err != nil {
			return err
		}
		snap, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return repositories.NewOrderError(repositories.OrderErrorNotFound, fmt.Sprintf("order %s not found", update.OrderID), err)
			}
			return err
		}
		doc, err := r.orders.Decode(snap)
		if err != nil {
			return err
		}

		order := doc.Data
		restock := update.Status == domain.OrderStatusCancelled && order.Status != string(domain.OrderStatusCancelled)

		type restockState struct {
			ref      *firestore.DocumentRef
			product  productDocument
			quantity int
		}
		var restocks []restockState
		if restock {
			for _, item := range order.Items {
				ref, err := r.products.DocumentRef(ctx, item.ProductID)
				if err != nil {
					return err
				}
				psnap, err := tx.Get(ref)
				if err != nil {
					if status.Code(err) == codes.NotFound {
						continue
					}
					return err
				}
				pdoc, err := r.products.Decode(psnap)
				if err != nil {
					return err
				}
				restocks = append(restocks, restockState{ref: ref, product: pdoc.Data, quantity: item.Quantity})
			}
		}

		for _, state := range restocks {
			product := state.product
			product.Stock += state.quantity
			product.UpdatedAt = now
			if err := tx.Set(state.ref, product); err != nil {
				return err
			}
		}

		order.Status = string(update.Status)
		order.UpdatedAt = now
		if err := tx.Set(orderRef, order); err != nil {
			return err
		}
		updated = order.toDomain(update.OrderID)
		return nil
	})
	if err != nil {
		return domain.Order{}, wrapOrderError("orders.update_status", err)
	}
	return updated, nil
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, update repositories.OrderPaymentUpdate) (domain.Order, error) {
	if r == nil || r.provider == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(update.OrderID) == "" {
		return domain.Order{}, errors.New("order update payment: order id is required")
	}

	now := update.Now.UTC()
	var updated domain.Order
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		orderRef, err := r.orders.DocumentRef(ctx, update.OrderID)
		if err != nil {
			return err
		}
		snap, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return repositories.NewOrderError(repositories.OrderErrorNotFound, fmt.Sprintf("order %s not found", update.OrderID), err)
			}
			return err
		}
		doc, err := r.orders.Decode(snap)
		if err != nil {
			return err
		}

		order := doc.Data
		order.PaymentStatus = string(update.PaymentStatus)
		if update.Confirm {
			order.Status = string(domain.OrderStatusConfirmed)
		}
		order.UpdatedAt = now
		if err := tx.Set(orderRef, order); err != nil {
			return err
		}
		updated = order.toDomain(update.OrderID)
		return nil
	})
	if err != nil {
		return domain.Order{}, wrapOrderError("orders.update_payment", err)
	}
	return updated, nil
}

func wrapOrderError(op string, err error) error {
	if err == nil {
		return nil
	}
	var orderErr *repositories.OrderError
	if errors.As(err, &orderErr) {
		if orderErr.Op == "" {
			orderErr.Op = op
		}
		return orderErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
