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

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

const collectionCrops = "crops"

// CropRepository implements ports.CropRepository on the crops collection.
type CropRepository struct {
	col *mongo.Collection
}

func NewCropRepository(db *mongo.Database) *CropRepository {
	return &CropRepository{col: db.Collection(collectionCrops)}
}

type cropDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CropType    string             `bson:"crop_type"`
	Quantity    float64            `bson:"quantity"`
	Price       float64            `bson:"price"`
	Location    string             `bson:"location"`
	HarvestDate string             `bson:"harvest_date"`
	UserID      primitive.ObjectID `bson:"user_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"`
}

func (d cropDoc) toDomain() domain.Crop {
	c := domain.Crop{
		ID:          d.ID.Hex(),
		CropType:    d.CropType,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Location:    d.Location,
		HarvestDate: d.HarvestDate,
		OwnerID:     d.UserID.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.UpdatedAt != nil {
		ts := d.UpdatedAt.UTC()
		c.UpdatedAt = &ts
	}
	return c
}

type farmerDoc struct {
	FullName string `bson:"full_name"`
	Phone    string `bson:"phone"`
	Location string `bson:"location"`
}

type listingDoc struct {
	Crop   cropDoc   `bson:",inline"`
	Farmer farmerDoc `bson:"farmer"`
}

// Create inserts c and sets its ID.
func (r *CropRepository) Create(ctx context.Context, c *domain.Crop) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(c.OwnerID)
	if err != nil {
		return fmt.Errorf("insert crop: owner id: %w", err)
	}

	res, err := r.col.InsertOne(ctx, cropDoc{
		CropType:    c.CropType,
		Quantity:    c.Quantity,
		Price:       c.Price,
		Location:    c.Location,
		HarvestDate: c.HarvestDate,
		UserID:      owner,
		CreatedAt:   c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert crop: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *CropRepository) FindByID(ctx context.Context, id string) (*domain.Crop, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCropNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CropRepository) FindOwned(ctx context.Context, id, ownerID string) (*domain.Crop, error) {
	filter, ok := ownedFilter(id, "user_id", ownerID)
	if !ok {
		return nil, domain.ErrCropNotFound
	}
	return r.findOne(ctx, filter)
}

// UpdateOwned sets the patched fields and updated_at in one FindOneAndUpdate,
// so the ownership check and the write cannot interleave with another request.
func (r *CropRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch domain.CropPatch, updatedAt time.Time) (*domain.Crop, error) {
	filter, ok := ownedFilter(id, "user_id", ownerID)
	if !ok {
		return nil, domain.ErrCropNotFound
	}

	set := bson.M{"updated_at": updatedAt}
	if patch.CropType != nil {
		set["crop_type"] = *patch.CropType
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.HarvestDate != nil {
		set["harvest_date"] = *patch.HarvestDate
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc cropDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("update crop: %w", err)
	}
	c := doc.toDomain()
	return &c, nil
}

func (r *CropRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Crop, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []domain.Crop{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}

	var docs []cropDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}

	out := make([]domain.Crop, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// DeleteOwned removes the crop only when both id and owner match. Offers on
// the crop are left in place.
func (r *CropRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedFilter(id, "user_id", ownerID)
	if !ok {
		return domain.ErrCropNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}

// Marketplace runs the public listing aggregation: filter, newest first, then
// an inner join on the owning user that keeps only public profile fields.
func (r *CropRepository) Marketplace(ctx context.Context, filter domain.MarketplaceFilter) ([]domain.MarketplaceListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, marketplacePipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("marketplace: %w", err)
	}

	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("marketplace: %w", err)
	}

	out := make([]domain.MarketplaceListing, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.MarketplaceListing{
			Crop: d.Crop.toDomain(),
			Farmer: domain.FarmerProfile{
				FullName: d.Farmer.FullName,
				Phone:    d.Farmer.Phone,
				Location: d.Farmer.Location,
			},
		})
	}
	return out, nil
}

func marketplacePipeline(f domain.MarketplaceFilter) mongo.Pipeline {
	match := bson.M{}
	if f.CropType != "" {
		match["crop_type"] = containsFold(f.CropType)
	}
	if f.Location != "" {
		match["location"] = containsFold(f.Location)
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		match["price"] = price
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "farmer"},
		}}},
		// No preserveNullAndEmptyArrays: a crop without an owner drops out.
		{{Key: "$unwind", Value: "$farmer"}},
		{{Key: "$addFields", Value: bson.D{{Key: "farmer", Value: bson.D{
			{Key: "full_name", Value: "$farmer.full_name"},
			{Key: "phone", Value: "$farmer.phone"},
			{Key: "location", Value: "$farmer.location"},
		}}}}},
	}
}

func (r *CropRepository) findOne(ctx context.Context, filter bson.M) (*domain.Crop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cropDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop: %w", err)
	}
	c := doc.toDomain()
	return &c, nil
}

// EnsureIndexes creates the indexes backing the owner listing and the marketplace sort.
func (r *CropRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedFilter builds {_id: id, <ownerField>: owner}. ok is false when either
// id is not a valid ObjectID, in which case nothing can match.
func ownedFilter(id, ownerField, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, ownerField: owner}, true
}

// containsFold matches s as a literal, case-insensitive substring.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
