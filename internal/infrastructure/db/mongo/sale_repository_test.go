package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

func saleDoc(oid primitive.ObjectID, customerID, status string) bson.D {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "customerId", Value: customerID},
		{Key: "userId", Value: "u1"},
		{Key: "products", Value: bson.A{
			bson.D{{Key: "name", Value: "Widget"}, {Key: "quantity", Value: 2}, {Key: "price", Value: 4.5}},
		}},
		{Key: "totalAmount", Value: 9.0},
		{Key: "paymentMethod", Value: "cash"},
		{Key: "status", Value: status},
		{Key: "statusHistory", Value: bson.A{
			bson.D{{Key: "status", Value: "pending"}, {Key: "date", Value: created}},
		}},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}
}

func TestSaleRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s := &domain.Sale{CustomerID: "c1", UserID: "u1", Status: domain.SaleStatusPending}
		if err := repo.Create(ctx, s); err != nil {
			mt.Fatalf("create: %v", err)
		}
		if s.ID == "" {
			mt.Fatalf("expected generated id")
		}
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.sales", mtest.FirstBatch, saleDoc(oid, "c1", "pending")))

		s, err := repo.FindByID(ctx, oid.Hex())
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if s.ID != oid.Hex() || s.TotalAmount != 9 || len(s.Products) != 1 || s.Products[0].Quantity != 2 {
			mt.Fatalf("unexpected sale: %+v", s)
		}
		if len(s.StatusHistory) != 1 || s.StatusHistory[0].Status != domain.SaleStatusPending {
			mt.Fatalf("unexpected history: %+v", s.StatusHistory)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.sales", mtest.FirstBatch))

		if _, err := repo.FindByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrSaleNotFound) {
			mt.Fatalf("expected ErrSaleNotFound, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.sales", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(11)}}),
			mtest.CreateCursorResponse(0, "test.sales", mtest.FirstBatch, saleDoc(primitive.NewObjectID(), "c1", "completed")),
		)

		sales, total, err := repo.List(ctx, ports.SaleListFilter{
			Filter: domain.SaleFilter{Status: domain.SaleStatusCompleted},
			Page:   domain.PageRequest{Page: 2, Limit: 10},
		})
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if total != 11 || len(sales) != 1 || sales[0].Status != domain.SaleStatusCompleted {
			mt.Fatalf("unexpected list result: total=%d %+v", total, sales)
		}
	})

	mt.Run("find all by customer", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.sales", mtest.FirstBatch,
			saleDoc(primitive.NewObjectID(), "c9", "pending"),
			saleDoc(primitive.NewObjectID(), "c9", "completed"),
		))

		sales, err := repo.FindAll(ctx, domain.SaleFilter{CustomerID: "c9"})
		if err != nil {
			mt.Fatalf("find all: %v", err)
		}
		if len(sales) != 2 {
			mt.Fatalf("expected 2 sales, got %d", len(sales))
		}
	})

	mt.Run("update with status change", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		s := &domain.Sale{ID: primitive.NewObjectID().Hex(), Status: domain.SaleStatusCompleted}
		change := &domain.StatusChange{Status: domain.SaleStatusCompleted, Date: time.Now(), Notes: "paid"}
		if err := repo.Update(ctx, s, change); err != nil {
			mt.Fatalf("update: %v", err)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(ctx, &domain.Sale{ID: primitive.NewObjectID().Hex()}, nil)
		if !errors.Is(err, domain.ErrSaleNotFound) {
			mt.Fatalf("expected ErrSaleNotFound, got %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewSaleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := repo.Delete(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrSaleNotFound) {
			mt.Fatalf("expected ErrSaleNotFound, got %v", err)
		}
	})
}

func TestSaleFilter(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	got := saleFilter(domain.SaleFilter{
		Status:     domain.SaleStatusPending,
		CustomerID: "c1",
		StartDate:  &start,
		EndDate:    &end,
	})

	if got["status"] != "pending" || got["customerId"] != "c1" {
		t.Fatalf("unexpected equality filters: %v", got)
	}
	if _, ok := got["userId"]; ok {
		t.Fatalf("empty userId must not be filtered")
	}
	created, ok := got["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("expected createdAt range, got %v", got["createdAt"])
	}
	if created["$gte"] != start || created["$lte"] != end {
		t.Fatalf("unexpected range: %v", created)
	}

	if _, ok := saleFilter(domain.SaleFilter{})["createdAt"]; ok {
		t.Fatalf("no range expected")
	}
}
