package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-manager/internal/domain"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type customerDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Surname     string             `bson:"surname"`
	Email       string             `bson:"email"`
	Initials    string             `bson:"initials,omitempty"`
	Mobile      string             `bson:"mobile,omitempty"`
	LastUpdated time.Time          `bson:"lastupdated"`
}

func (d customerDocument) toDomain() domain.Customer {
	return domain.Customer{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Surname:     d.Surname,
		Email:       d.Email,
		Initials:    d.Initials,
		Mobile:      d.Mobile,
		LastUpdated: d.LastUpdated.UTC(),
	}
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewMongo returns a Repository backed by a MongoDB collection.
func NewMongo(coll *mongo.Collection, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: coll, logger: logger.With().Str("repo", "customer_mongo").Logger()}
}

func (r *mongoRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	doc := customerDocument{
		Name:        c.Name,
		Surname:     c.Surname,
		Email:       c.Email,
		Initials:    c.Initials,
		Mobile:      c.Mobile,
		LastUpdated: c.LastUpdated,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, r.mapError("insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert customer: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	out := doc.toDomain()
	return &out, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	var doc customerDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, r.mapError("find", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *mongoRepo) Update(ctx context.Context, id string, c domain.Customer) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	set := bson.M{
		"name":        c.Name,
		"surname":     c.Surname,
		"email":       c.Email,
		"lastupdated": c.LastUpdated,
	}
	unset := bson.M{}
	for field, value := range map[string]string{"initials": c.Initials, "mobile": c.Mobile} {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc customerDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, r.mapError("update", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	var doc customerDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, r.mapError("delete", err)
	}
	out := doc.toDomain()
	return &out, nil
}

func (r *mongoRepo) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, r.mapError("count", err)
	}

	field := mongoSortField(q.SortField)
	dir := int(q.SortDirection)
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		// tie-break so pages stay stable across equal sort values
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, r.mapError("find", err)
	}
	var docs []customerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, r.mapError("decode", err)
	}

	customers := make([]domain.Customer, 0, len(docs))
	for _, d := range docs {
		customers = append(customers, d.toDomain())
	}
	page := domain.NewPage(customers, total, q.Offset, q.Limit)
	return &page, nil
}

func (r *mongoRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoRepo) mapError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.Conflict(duplicateEmailMessage)
	}
	r.logger.Error().Err(err).Str("op", op).Msg("customer store error")
	return fmt.Errorf("customer %s: %w", op, err)
}

func mongoSortField(f domain.SortField) string {
	if f == domain.SortByID {
		return "_id"
	}
	return string(f)
}
