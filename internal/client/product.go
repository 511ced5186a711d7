package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ordercomposite/internal/model"
)

// ProductAPI typed operations against the product service
type ProductAPI interface {
	GetProduct(ctx context.Context, id int) (*model.ProductDto, error)
	GetProducts(ctx context.Context) ([]model.ProductDto, error)
	GetProductsByIDs(ctx context.Context, ids []int) ([]model.ProductDto, error)
	Ping(ctx context.Context) error
}

// ProductClient product service client
type ProductClient struct {
	rest restClient
}

// GetProduct fetches one product by id
func (c *ProductClient) GetProduct(ctx context.Context, id int) (*model.ProductDto, error) {
	var product model.ProductDto
	if err := c.rest.get(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts fetches all products
func (c *ProductClient) GetProducts(ctx context.Context) ([]model.ProductDto, error) {
	var products []model.ProductDto
	if err := c.rest.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductsByIDs resolves a set of product ids in a single batched call
func (c *ProductClient) GetProductsByIDs(ctx context.Context, ids []int) ([]model.ProductDto, error) {
	var products []model.ProductDto
	if err := c.rest.get(ctx, "/products/byIds?ids="+joinIDs(ids), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Ping probes product service liveness
func (c *ProductClient) Ping(ctx context.Context) error {
	return c.rest.ping(ctx)
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}
