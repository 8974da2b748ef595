package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

const collectionSales = "sales"

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type productDocument struct {
	Name     string  `bson:"name"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
}

type statusChangeDocument struct {
	Status string    `bson:"status"`
	Date   time.Time `bson:"date"`
	Notes  string    `bson:"notes,omitempty"`
}

type saleDocument struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty"`
	CustomerID    string                 `bson:"customerId"`
	UserID        string                 `bson:"userId"`
	Products      []productDocument      `bson:"products"`
	TotalAmount   float64                `bson:"totalAmount"`
	PaymentMethod string                 `bson:"paymentMethod"`
	Status        string                 `bson:"status"`
	StatusHistory []statusChangeDocument `bson:"statusHistory"`
	CreatedAt     time.Time              `bson:"createdAt"`
	UpdatedAt     time.Time              `bson:"updatedAt"`
}

func toProductDocuments(in []domain.Product) []productDocument {
	out := make([]productDocument, 0, len(in))
	for _, p := range in {
		out = append(out, productDocument{Name: p.Name, Quantity: p.Quantity, Price: p.Price})
	}
	return out
}

func toStatusChangeDocument(c domain.StatusChange) statusChangeDocument {
	return statusChangeDocument{Status: string(c.Status), Date: c.Date.UTC(), Notes: c.Notes}
}

func toSaleDocument(s *domain.Sale) saleDocument {
	history := make([]statusChangeDocument, 0, len(s.StatusHistory))
	for _, h := range s.StatusHistory {
		history = append(history, toStatusChangeDocument(h))
	}
	return saleDocument{
		CustomerID:    s.CustomerID,
		UserID:        s.UserID,
		Products:      toProductDocuments(s.Products),
		TotalAmount:   s.TotalAmount,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		StatusHistory: history,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (d saleDocument) toDomain() *domain.Sale {
	products := make([]domain.Product, 0, len(d.Products))
	for _, p := range d.Products {
		products = append(products, domain.Product{Name: p.Name, Quantity: p.Quantity, Price: p.Price})
	}
	history := make([]domain.StatusChange, 0, len(d.StatusHistory))
	for _, h := range d.StatusHistory {
		history = append(history, domain.StatusChange{Status: domain.SaleStatus(h.Status), Date: h.Date, Notes: h.Notes})
	}
	return &domain.Sale{
		ID:            d.ID.Hex(),
		CustomerID:    d.CustomerID,
		UserID:        d.UserID,
		Products:      products,
		TotalAmount:   d.TotalAmount,
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		Status:        domain.SaleStatus(d.Status),
		StatusHistory: history,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// SaleRepository implements ports.SaleRepository using MongoDB.
type SaleRepository struct {
	col *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{col: db.Collection(collectionSales)}
}

// Create inserts s and fills in its generated id.
func (r *SaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toSaleDocument(s)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrSaleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc saleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of sales, newest first, and the total count.
func (r *SaleRepository) List(ctx context.Context, f ports.SaleListFilter) ([]*domain.Sale, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := saleFilter(f.Filter)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(f.Page.Skip()).
		SetLimit(int64(f.Page.Limit))

	sales, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// FindAll returns every sale matching f, newest first.
func (r *SaleRepository) FindAll(ctx context.Context, f domain.SaleFilter) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, saleFilter(f), options.Find().SetSort(newestFirst))
}

// Update sets the mutable fields and, when change is non-nil, appends it to the
// status history in the same write.
func (r *SaleRepository) Update(ctx context.Context, s *domain.Sale, change *domain.StatusChange) error {
	oid, ok := objectID(s.ID)
	if !ok {
		return domain.ErrSaleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"customerId":    s.CustomerID,
			"products":      toProductDocuments(s.Products),
			"totalAmount":   s.TotalAmount,
			"paymentMethod": string(s.PaymentMethod),
			"status":        string(s.Status),
			"updatedAt":     s.UpdatedAt,
		},
	}
	if change != nil {
		update["$push"] = bson.M{"statusHistory": toStatusChangeDocument(*change)}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrSaleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the listing filters.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *SaleRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Sale, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find sales: %w", err)
	}
	defer cur.Close(ctx)

	var docs []saleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}

	out := make([]*domain.Sale, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// saleFilter builds the query for f. The date range bounds createdAt inclusively.
func saleFilter(f domain.SaleFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}

	created := bson.M{}
	if f.StartDate != nil {
		created["$gte"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		created["$lte"] = f.EndDate.UTC()
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}
	return filter
}
