package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// steppingClock returns a clock that advances one second per call.
func steppingClock() clock {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu         sync.Mutex
	byUsername map[string]*domain.User
	seq        int
	findErr    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byUsername: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[u.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.byUsername[u.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byUsername {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// seed stores a user directly and returns its id.
func (r *stubUserRepo) seed(username string, role domain.Role, fullName, phone, location string) string {
	u, err := r.Create(context.Background(), &domain.User{
		Username: username,
		Role:     role,
		FullName: fullName,
		Phone:    phone,
		Location: location,
	})
	if err != nil {
		panic(err)
	}
	return u.ID
}

// ---------------------------------------------------------------------------
// Crops
// ---------------------------------------------------------------------------

// stubCropRepo mirrors the Mongo repository: ownership is part of the filter
// and a mismatch is indistinguishable from a missing crop.
type stubCropRepo struct {
	crops   map[string]*domain.Crop
	users   *stubUserRepo
	seq     int
	err     error
	queries int
}

func newStubCropRepo(users *stubUserRepo) *stubCropRepo {
	return &stubCropRepo{crops: make(map[string]*domain.Crop), users: users}
}

func (r *stubCropRepo) Create(_ context.Context, c *domain.Crop) error {
	if r.err != nil {
		return r.err
	}
	r.seq++
	c.ID = fmt.Sprintf("crop-%d", r.seq)
	clone := *c
	r.crops[c.ID] = &clone
	return nil
}

func (r *stubCropRepo) FindByID(_ context.Context, id string) (*domain.Crop, error) {
	c, ok := r.crops[id]
	if !ok {
		return nil, domain.ErrCropNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCropRepo) FindOwned(_ context.Context, id, ownerID string) (*domain.Crop, error) {
	c, ok := r.crops[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCropNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCropRepo) UpdateOwned(_ context.Context, id, ownerID string, patch domain.CropPatch, updatedAt time.Time) (*domain.Crop, error) {
	c, ok := r.crops[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCropNotFound
	}
	patch.Apply(c)
	ts := updatedAt
	c.UpdatedAt = &ts
	clone := *c
	return &clone, nil
}

func (r *stubCropRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Crop, error) {
	out := []domain.Crop{}
	for _, c := range r.crops {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCropRepo) DeleteOwned(_ context.Context, id, ownerID string) error {
	c, ok := r.crops[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrCropNotFound
	}
	delete(r.crops, id)
	return nil
}

func (r *stubCropRepo) Marketplace(ctx context.Context, f domain.MarketplaceFilter) ([]domain.MarketplaceListing, error) {
	r.queries++
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.MarketplaceListing{}
	for _, c := range r.crops {
		if !f.Matches(*c) {
			continue
		}
		owner, err := r.users.FindByID(ctx, c.OwnerID)
		if err != nil {
			continue
		}
		out = append(out, domain.MarketplaceListing{
			Crop:   *c,
			Farmer: domain.FarmerProfile{FullName: owner.FullName, Phone: owner.Phone, Location: owner.Location},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

type stubOfferRepo struct {
	offers map[string]*domain.Offer
	crops  *stubCropRepo
	seq    int
}

func newStubOfferRepo(crops *stubCropRepo) *stubOfferRepo {
	return &stubOfferRepo{offers: make(map[string]*domain.Offer), crops: crops}
}

func (r *stubOfferRepo) Create(_ context.Context, o *domain.Offer) error {
	r.seq++
	o.ID = fmt.Sprintf("offer-%d", r.seq)
	clone := *o
	r.offers[o.ID] = &clone
	return nil
}

func (r *stubOfferRepo) ListByCrop(_ context.Context, cropID string) ([]domain.Offer, error) {
	out := []domain.Offer{}
	for _, o := range r.offers {
		if o.CropID == cropID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OfferedPrice > out[j].OfferedPrice })
	return out, nil
}

func (r *stubOfferRepo) ListByTrader(ctx context.Context, traderID string) ([]domain.TraderOffer, error) {
	out := []domain.TraderOffer{}
	for _, o := range r.offers {
		if o.TraderID != traderID {
			continue
		}
		item := domain.TraderOffer{Offer: *o}
		if c, err := r.crops.FindByID(ctx, o.CropID); err == nil {
			item.Crop = c
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOfferRepo) UpdatePriceOwned(_ context.Context, id, traderID string, price float64, updatedAt time.Time) (*domain.Offer, error) {
	o, ok := r.offers[id]
	if !ok || o.TraderID != traderID {
		return nil, domain.ErrOfferNotFound
	}
	o.OfferedPrice = price
	ts := updatedAt
	o.UpdatedAt = &ts
	clone := *o
	return &clone, nil
}

func (r *stubOfferRepo) DeleteOwned(_ context.Context, id, traderID string) error {
	o, ok := r.offers[id]
	if !ok || o.TraderID != traderID {
		return domain.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

// ---------------------------------------------------------------------------
// Marketplace cache
// ---------------------------------------------------------------------------

type stubCache struct {
	generation    int64
	entries       map[string][]domain.MarketplaceListing
	invalidations int
	err           error
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]domain.MarketplaceListing)}
}

func (c *stubCache) Generation(context.Context) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.generation, nil
}

func (c *stubCache) Get(_ context.Context, gen int64, key string) ([]domain.MarketplaceListing, bool, error) {
	v, ok := c.entries[fmt.Sprintf("%d:%s", gen, key)]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, gen int64, key string, listings []domain.MarketplaceListing) error {
	c.entries[fmt.Sprintf("%d:%s", gen, key)] = listings
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	if c.err != nil {
		return c.err
	}
	c.invalidations++
	c.generation++
	return nil
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

type stubIssuer struct{}

func (stubIssuer) Issue(userID string, role domain.Role) (string, error) {
	return "token-" + userID + "-" + string(role), nil
}
