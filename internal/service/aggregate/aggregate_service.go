package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ordercomposite/internal/client"
	"ordercomposite/internal/model"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
)

// Service read-side composite queries over the order, product and
// shipping services
type Service interface {
	GetCompositeOrder(ctx context.Context, orderID int) (*model.OrderAggregate, error)
	GetCompositeOrders(ctx context.Context) ([]model.OrderAggregate, error)
	GetCompositeOrdersByUser(ctx context.Context, userID int) ([]model.OrderAggregate, error)
}

type service struct {
	products    client.ProductAPI
	orders      client.OrderAPI
	shipments   client.ShippingAPI
	serviceAddr string
}

// NewService creates the aggregation service. serviceAddr identifies this
// composite instance in the ServiceAddresses section of every aggregate.
func NewService(products client.ProductAPI, orders client.OrderAPI, shipments client.ShippingAPI, serviceAddr string) Service {
	return &service{
		products:    products,
		orders:      orders,
		shipments:   shipments,
		serviceAddr: serviceAddr,
	}
}

// GetCompositeOrder joins one order with its shipment and product details.
// The shipping and product lookups run concurrently once the order is in
// hand; any sub-query failure fails the whole read.
func (s *service) GetCompositeOrder(ctx context.Context, orderID int) (*model.OrderAggregate, error) {
	if orderID < 1 {
		return nil, apperr.Newf(apperr.KindInvalidInput, "invalid orderId: %d", orderID)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var (
		shipping *model.ShippingDto
		products []model.ProductDto
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shipping, err = s.shipments.GetShippingByOrderID(gctx, orderID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.GetProductsByIDs(gctx, productIDs([]model.OrderDto{*order}))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aggregate, err := s.assemble(*order, shipping, indexProducts(products))
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"orderId": orderID,
		"items":   len(aggregate.Items),
	}).Debug("Composite order assembled")
	return aggregate, nil
}

// GetCompositeOrders joins every order with its shipment and products.
// Products and shipments are resolved with one batched call each over the
// de-duplicated id sets, regardless of how many orders reference them.
func (s *service) GetCompositeOrders(ctx context.Context) ([]model.OrderAggregate, error) {
	orders, err := s.orders.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.assembleAll(ctx, orders)
}

// GetCompositeOrdersByUser is GetCompositeOrders scoped to one user
func (s *service) GetCompositeOrdersByUser(ctx context.Context, userID int) ([]model.OrderAggregate, error) {
	if userID < 1 {
		return nil, apperr.Newf(apperr.KindInvalidInput, "invalid userId: %d", userID)
	}

	orders, err := s.orders.GetOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleAll(ctx, orders)
}

func (s *service) assembleAll(ctx context.Context, orders []model.OrderDto) ([]model.OrderAggregate, error) {
	if len(orders) == 0 {
		return []model.OrderAggregate{}, nil
	}

	orderIDs := make([]int, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	var (
		products  []model.ProductDto
		shipments []model.ShippingDto
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.GetProductsByIDs(gctx, productIDs(orders))
		return err
	})
	g.Go(func() error {
		var err error
		shipments, err = s.shipments.GetShipmentsByOrderIDs(gctx, orderIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	productsByID := indexProducts(products)
	shipmentsByOrder := make(map[int]*model.ShippingDto, len(shipments))
	for i := range shipments {
		shipmentsByOrder[shipments[i].OrderID] = &shipments[i]
	}

	aggregates := make([]model.OrderAggregate, 0, len(orders))
	for _, order := range orders {
		shipping, ok := shipmentsByOrder[order.ID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "no shipment found for order %d", order.ID)
		}
		aggregate, err := s.assemble(order, shipping, productsByID)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, *aggregate)
	}
	return aggregates, nil
}

// assemble builds one aggregate from data already fetched. Line prices are
// recomputed from current product unit prices so every aggregate reflects
// the catalog as of this read.
func (s *service) assemble(order model.OrderDto, shipping *model.ShippingDto, productsByID map[int]model.ProductDto) (*model.OrderAggregate, error) {
	items := make([]model.OrderItemSummary, 0, len(order.OrderItems))
	total := 0
	productAddr := ""
	for _, item := range order.OrderItems {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound,
				"no product found for productId: %d", item.ProductID)
		}
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
	}, nil
}

// productIDs collects the distinct product ids referenced by the orders,
// preserving first-seen order
func productIDs(orders []model.OrderDto) []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, order := range orders {
		for _, item := range order.OrderItems {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func indexProducts(products []model.ProductDto) map[int]model.ProductDto {
	byID := make(map[int]model.ProductDto, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}
