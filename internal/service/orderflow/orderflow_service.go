package orderflow

import (
	"context"
	"strconv"

	"ordercomposite/internal/client"
	"ordercomposite/internal/model"
	"ordercomposite/internal/publisher"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
)

// sagaState tracks progress of one order placement
type sagaState string

const (
	stateInit             sagaState = "INIT"
	stateProductsResolved sagaState = "PRODUCTS_RESOLVED"
	stateStockChecked     sagaState = "STOCK_CHECKED"
	stateStockReserved    sagaState = "STOCK_RESERVED"
	stateOrderCreated     sagaState = "ORDER_CREATED"
	stateShippingCreated  sagaState = "SHIPPING_CREATED"
	stateDone             sagaState = "DONE"
	stateFailed           sagaState = "FAILED"
)

// Topics names the event topics the orchestrator publishes to
type Topics struct {
	Inventory string
	Shipping  string
}

// Service places composite orders across the product, inventory, order
// and shipping services
type Service interface {
	CreateCompositeOrder(ctx context.Context, req model.OrderCreateRequest) (*model.OrderAggregate, error)
}

type service struct {
	products    client.ProductAPI
	inventories client.InventoryAPI
	orders      client.OrderAPI
	shipments   client.ShippingAPI
	publisher   publisher.Publisher
	topics      Topics
	serviceAddr string
}

// NewService creates the order placement orchestrator
func NewService(
	products client.ProductAPI,
	inventories client.InventoryAPI,
	orders client.OrderAPI,
	shipments client.ShippingAPI,
	pub publisher.Publisher,
	topics Topics,
	serviceAddr string,
) Service {
	return &service{
		products:    products,
		inventories: inventories,
		orders:      orders,
		shipments:   shipments,
		publisher:   pub,
		topics:      topics,
		serviceAddr: serviceAddr,
	}
}

// saga carries the working data of one placement attempt across steps
type saga struct {
	state        sagaState
	req          model.OrderCreateRequest
	productsByID map[int]model.ProductDto
	order        *model.OrderDto
	shipping     *model.ShippingDto
}

func (s *saga) transition(next sagaState) {
	log.WithFields(map[string]interface{}{
		"userId": s.req.UserID,
		"from":   string(s.state),
		"to":     string(next),
	}).Debug("Order placement transition")
	s.state = next
}

// CreateCompositeOrder runs the placement workflow: resolve products, check
// stock, reserve stock, create the order, create the shipment, assemble the
// aggregate. Stock reserved before a later step fails is restored by
// publishing one INCREASE_STOCK event per line item.
func (s *service) CreateCompositeOrder(ctx context.Context, req model.OrderCreateRequest) (*model.OrderAggregate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	flow := &saga{state: stateInit, req: req}

	steps := []func(ctx context.Context, flow *saga) error{
		s.resolveProducts,
		s.checkStock,
		s.reserveStock,
		s.createOrder,
		s.createShipping,
	}
	for _, step := range steps {
		if err := step(ctx, flow); err != nil {
			s.fail(ctx, flow, err)
			return nil, err
		}
	}

	aggregate := s.assemble(flow)
	flow.transition(stateDone)

	log.WithFields(map[string]interface{}{
		"orderId": aggregate.OrderID,
		"userId":  aggregate.UserID,
		"items":   len(aggregate.Items),
	}).Info("Composite order placed")
	return aggregate, nil
}

// resolveProducts batch-fetches every referenced product; a missing product
// fails the whole placement with NotFound
func (s *service) resolveProducts(ctx context.Context, flow *saga) error {
	ids := make([]int, 0, len(flow.req.Items))
	seen := make(map[int]struct{}, len(flow.req.Items))
	for _, item := range flow.req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	flow.productsByID = make(map[int]model.ProductDto, len(products))
	for _, p := range products {
		flow.productsByID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := flow.productsByID[id]; !ok {
			return apperr.Newf(apperr.KindNotFound, "no product found for productId: %d", id)
		}
	}

	flow.transition(stateProductsResolved)
	return nil
}

// checkStock verifies availability for every line before any side effect
func (s *service) checkStock(ctx context.Context, flow *saga) error {
	sufficient, err := s.inventories.CheckStock(ctx, flow.req.Adjustments())
	if err != nil {
		return err
	}
	if !sufficient {
		return apperr.Newf(apperr.KindOutOfStock,
			"insufficient stock for order of user %d", flow.req.UserID)
	}
	flow.transition(stateStockChecked)
	return nil
}

// reserveStock commits the reduction for all lines in one request
func (s *service) reserveStock(ctx context.Context, flow *saga) error {
	if err := s.inventories.ReduceStocks(ctx, flow.req.Adjustments()); err != nil {
		return err
	}
	flow.transition(stateStockReserved)
	return nil
}

func (s *service) createOrder(ctx context.Context, flow *saga) error {
	order, err := s.orders.CreateOrder(ctx, model.OrderCreateDto{
		UserID:     flow.req.UserID,
		OrderItems: flow.req.Items,
	})
	if err != nil {
		return err
	}
	flow.order = order
	flow.transition(stateOrderCreated)
	return nil
}

// createShipping creates the shipment record and announces it on the
// shipping topic. The announce is fire-and-forget: a publish failure is
// logged, not surfaced, since the shipment itself is already committed.
func (s *service) createShipping(ctx context.Context, flow *saga) error {
	shipping, err := s.shipments.CreateShipping(ctx, model.ShippingCreateDto{
		OrderID: flow.order.ID,
		Address: flow.req.ShippingAddress,
	})
	if err != nil {
		return err
	}
	flow.shipping = shipping
	flow.transition(stateShippingCreated)

	key := strconv.Itoa(flow.order.ID)
	if err := s.publisher.PublishData(ctx, s.topics.Shipping, model.EventCreate, key, shipping); err != nil {
		log.WithFields(map[string]interface{}{
			"orderId": flow.order.ID,
		}).WithError(err).Warn("Failed to announce shipment creation")
	}
	return nil
}

// fail records the terminal failure and compensates reserved stock when the
// saga got at least as far as STOCK_RESERVED
func (s *service) fail(ctx context.Context, flow *saga, cause error) {
	reserved := flow.state == stateStockReserved || flow.state == stateOrderCreated
	log.WithFields(map[string]interface{}{
		"userId":      flow.req.UserID,
		"failedAfter": string(flow.state),
		"compensated": reserved,
	}).WithError(cause).Warn("Order placement failed")

	if reserved {
		s.compensateStock(ctx, flow)
	}
	flow.transition(stateFailed)
}

// compensateStock restores each reserved line by publishing an
// INCREASE_STOCK event per product. Publish failures are logged per line
// and do not mask the original error.
func (s *service) compensateStock(ctx context.Context, flow *saga) {
	for _, adjustment := range flow.req.Adjustments() {
		key := strconv.Itoa(adjustment.ProductID)
		err := s.publisher.PublishData(ctx, s.topics.Inventory, model.EventIncreaseStock, key, adjustment)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"productId": adjustment.ProductID,
				"quantity":  adjustment.Quantity,
			}).WithError(err).Error("Failed to publish stock compensation")
		}
	}
}

// assemble builds the result aggregate from the data the saga already
// holds, without re-reading any service
func (s *service) assemble(flow *saga) *model.OrderAggregate {
	order := flow.order
	shipping := flow.shipping

	items := make([]model.OrderItemSummary, 0, len(order.OrderItems))
	total := 0
	productAddr := ""
	for _, item := range order.OrderItems {
		product := flow.productsByID[item.ProductID]
		linePrice := item.Quantity * product.Price
		total += linePrice
		productAddr = product.ServiceAddress
		items = append(items, model.OrderItemSummary{
			OrderItemID: item.ID,
			Quantity:    item.Quantity,
			Price:       linePrice,
			Product: model.ProductSummary{
				ID:          product.ID,
				Name:        product.Name,
				Description: product.Description,
				Price:       product.Price,
			},
		})
	}

	return &model.OrderAggregate{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: total,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		ShippingSummary: model.ShippingSummary{
			OrderID: shipping.OrderID,
			Address: shipping.Address,
			Status:  shipping.Status,
		},
		Items: items,
		ServiceAddresses: map[string]string{
			"composite": s.serviceAddr,
			"product":   productAddr,
			"order":     order.ServiceAddress,
			"shipping":  shipping.ServiceAddress,
		},
	}
}
