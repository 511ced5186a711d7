package inventory

import (
	"context"
	"errors"

	"ordercomposite/internal/client"
	"ordercomposite/internal/model"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
)

// maxConflictRetries bounds re-reads after an optimistic version conflict
const maxConflictRetries = 3

// Adjuster applies stock adjustment events to inventory records
type Adjuster interface {
	ProcessEvent(ctx context.Context, event *model.Event) error
}

type adjuster struct {
	inventories client.InventoryAPI
}

// NewAdjuster creates the stock adjuster
func NewAdjuster(inventories client.InventoryAPI) Adjuster {
	return &adjuster{inventories: inventories}
}

// ProcessEvent dispatches on the event type. INCREASE_STOCK carries a single
// adjustment, REDUCE_STOCKS carries a list. Anything else is rejected with
// an EventProcessing error.
func (a *adjuster) ProcessEvent(ctx context.Context, event *model.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	switch event.EventType {
	case model.EventIncreaseStock:
		var adjustment model.StockAdjustment
		if err := event.DecodeData(&adjustment); err != nil {
			return err
		}
		return a.increase(ctx, adjustment)

	case model.EventReduceStocks:
		var adjustments []model.StockAdjustment
		if err := event.DecodeDataList(&adjustments); err != nil {
			return err
		}
		return a.reduceAll(ctx, adjustments)

	default:
		return apperr.Newf(apperr.KindEventProcessing,
			"unexpected event type: %s", event.EventType)
	}
}

// increase adds the quantity to the product's stock. Deliberately not
// idempotent: replaying the same event doubles the increase.
func (a *adjuster) increase(ctx context.Context, adjustment model.StockAdjustment) error {
	if err := adjustment.Validate(); err != nil {
		return err
	}

	err := a.mutate(ctx, adjustment.ProductID, func(inventory *model.InventoryDto) error {
		inventory.Quantity += adjustment.Quantity
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"productId": adjustment.ProductID,
		"quantity":  adjustment.Quantity,
	}).Info("Stock increased")
	return nil
}

// reduceAll applies each reduction independently in input order. A failing
// entry does not roll back earlier ones; all errors are joined.
func (a *adjuster) reduceAll(ctx context.Context, adjustments []model.StockAdjustment) error {
	var errs []error
	for _, adjustment := range adjustments {
		if err := a.reduce(ctx, adjustment); err != nil {
			log.WithFields(map[string]interface{}{
				"productId": adjustment.ProductID,
				"quantity":  adjustment.Quantity,
			}).WithError(err).Warn("Stock reduction failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *adjuster) reduce(ctx context.Context, adjustment model.StockAdjustment) error {
	if err := adjustment.Validate(); err != nil {
		return err
	}

	return a.mutate(ctx, adjustment.ProductID, func(inventory *model.InventoryDto) error {
		if inventory.Quantity < adjustment.Quantity {
			return apperr.Newf(apperr.KindOutOfStock,
				"insufficient stock for productId %d: have %d, requested %d",
				adjustment.ProductID, inventory.Quantity, adjustment.Quantity)
		}
		inventory.Quantity -= adjustment.Quantity
		return nil
	})
}

// mutate runs a read-modify-write cycle under the record's optimistic
// version, re-reading and retrying on Conflict up to maxConflictRetries.
func (a *adjuster) mutate(ctx context.Context, productID int, apply func(*model.InventoryDto) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		inventory, err := a.inventories.GetInventory(ctx, productID)
		if err != nil {
			return err
		}

		if err := apply(inventory); err != nil {
			return err
		}

		if _, err := a.inventories.UpdateInventory(ctx, *inventory); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				lastErr = err
				log.WithFields(map[string]interface{}{
					"productId": productID,
					"attempt":   attempt + 1,
				}).Debug("Version conflict, retrying stock update")
				continue
			}
			return err
		}
		return nil
	}

	return apperr.Wrap(lastErr, apperr.KindConflict,
		"stock update exhausted conflict retries")
}
