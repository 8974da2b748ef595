package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

const collectionCustomers = "customers"

var customerSortFields = map[string]string{
	"name":      "name",
	"email":     "email",
	"company":   "company",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

type noteDocument struct {
	ID        string    `bson:"id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type customerDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	Company   string             `bson:"company,omitempty"`
	Address   string             `bson:"address,omitempty"`
	Notes     []noteDocument     `bson:"notes"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toCustomerDocument(c *domain.Customer) customerDocument {
	notes := make([]noteDocument, 0, len(c.Notes))
	for _, n := range c.Notes {
		notes = append(notes, noteDocument{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt})
	}
	doc := customerDocument{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		Notes:     notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if oid, ok := objectID(c.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (d customerDocument) toDomain() *domain.Customer {
	notes := make([]domain.Note, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, domain.Note{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt})
	}
	return &domain.Customer{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Address:   d.Address,
		Notes:     notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CustomerRepository implements ports.CustomerRepository using MongoDB.
type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(collectionCustomers)}
}

// Create inserts c and fills in its generated id.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toCustomerDocument(c)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc customerDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of customers matching the equality filters and the total count.
func (r *CustomerRepository) List(ctx context.Context, f ports.CustomerListFilter) ([]*domain.Customer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := customerFilter(f.Filter)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(f.Sort, customerSortFields)).
		SetSkip(f.Page.Skip()).
		SetLimit(int64(f.Page.Limit))

	customers, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Search matches query case-insensitively against name, email and company.
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rx := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": rx},
		bson.M{"email": rx},
		bson.M{"company": rx},
	}}
	return r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
}

// Replace overwrites the stored customer, notes included.
func (r *CustomerRepository) Replace(ctx context.Context, c *domain.Customer) error {
	oid, ok := objectID(c.ID)
	if !ok {
		return domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, toCustomerDocument(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("replace customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the listing indexes.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "company", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *CustomerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Customer, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []customerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}

	out := make([]*domain.Customer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// customerFilter builds an equality filter from the non-empty fields of f.
func customerFilter(f domain.CustomerFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = f.Name
	}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	if f.Company != "" {
		filter["company"] = f.Company
	}
	if f.Phone != "" {
		filter["phone"] = f.Phone
	}
	return filter
}
