package graph

import (
	"context"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/order"
)

func (r *queryResolver) AdminOrders(ctx context.Context, status *string, limit *int, offset *int) ([]model.Order, error) {
	orders, err := r.OrderSvc.List(ctx, order.ListFilter{
		Status: order.Status(value(status)),
		Limit:  value(limit),
		Offset: value(offset),
	})
	if err != nil {
		return nil, err
	}
	return mapList(orders, MapOrderToGraphQL), nil
}
