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

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

const collectionOffers = "offers"

// OfferRepository implements ports.OfferRepository on the offers collection.
type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection(collectionOffers)}
}

type offerDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CropID       primitive.ObjectID `bson:"crop_id"`
	TraderID     primitive.ObjectID `bson:"trader_id"`
	OfferedPrice float64            `bson:"offered_price"`
	TraderName   string             `bson:"trader_name"`
	TraderPhone  string             `bson:"trader_phone"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty"`
}

func (d offerDoc) toDomain() domain.Offer {
	o := domain.Offer{
		ID:           d.ID.Hex(),
		CropID:       d.CropID.Hex(),
		TraderID:     d.TraderID.Hex(),
		OfferedPrice: d.OfferedPrice,
		TraderName:   d.TraderName,
		TraderPhone:  d.TraderPhone,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.UpdatedAt != nil {
		ts := d.UpdatedAt.UTC()
		o.UpdatedAt = &ts
	}
	return o
}

type traderOfferDoc struct {
	Offer offerDoc `bson:",inline"`
	Crop  *cropDoc `bson:"crop,omitempty"`
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	cropID, err := primitive.ObjectIDFromHex(o.CropID)
	if err != nil {
		return domain.ErrCropNotFound
	}
	traderID, err := primitive.ObjectIDFromHex(o.TraderID)
	if err != nil {
		return fmt.Errorf("insert offer: trader id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, offerDoc{
		CropID:       cropID,
		TraderID:     traderID,
		OfferedPrice: o.OfferedPrice,
		TraderName:   o.TraderName,
		TraderPhone:  o.TraderPhone,
		CreatedAt:    o.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

// ListByCrop returns every offer on cropID, highest price first.
func (r *OfferRepository) ListByCrop(ctx context.Context, cropID string) ([]domain.Offer, error) {
	oid, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return []domain.Offer{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "offered_price", Value: -1},
		{Key: "created_at", Value: 1},
	})
	cur, err := r.col.Find(ctx, bson.M{"crop_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	var docs []offerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	out := make([]domain.Offer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// ListByTrader returns the trader's offers newest first, each joined with its
// crop. The join is a left join: offers whose crop was deleted are kept with
// a nil Crop.
func (r *OfferRepository) ListByTrader(ctx context.Context, traderID string) ([]domain.TraderOffer, error) {
	oid, err := primitive.ObjectIDFromHex(traderID)
	if err != nil {
		return []domain.TraderOffer{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"trader_id": oid}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionCrops},
			{Key: "localField", Value: "crop_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "crop"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$crop"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list trader offers: %w", err)
	}

	var docs []traderOfferDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list trader offers: %w", err)
	}

	out := make([]domain.TraderOffer, 0, len(docs))
	for _, d := range docs {
		item := domain.TraderOffer{Offer: d.Offer.toDomain()}
		if d.Crop != nil {
			c := d.Crop.toDomain()
			item.Crop = &c
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdatePriceOwned changes offered_price and stamps updated_at in one call
// filtered by (id AND trader).
func (r *OfferRepository) UpdatePriceOwned(ctx context.Context, id, traderID string, price float64, updatedAt time.Time) (*domain.Offer, error) {
	filter, ok := ownedFilter(id, "trader_id", traderID)
	if !ok {
		return nil, domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"offered_price": price,
		"updated_at":    updatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc offerDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("update offer: %w", err)
	}
	o := doc.toDomain()
	return &o, nil
}

func (r *OfferRepository) DeleteOwned(ctx context.Context, id, traderID string) error {
	filter, ok := ownedFilter(id, "trader_id", traderID)
	if !ok {
		return domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing both offer listings.
func (r *OfferRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "crop_id", Value: 1}, {Key: "offered_price", Value: -1}}},
		{Keys: bson.D{{Key: "trader_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
