package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CouponCollection is the document collection holding gift coupons
const CouponCollection = "coupons"

// ErrInvalidID is returned for ids that cannot be a document id
var ErrInvalidID = errors.New("invalid document id")

// couponSearchFields are matched with a case-insensitive OR
var couponSearchFields = []string{"code", "purchaserName", "purchaserEmail", "recipientName", "recipientEmail"}

// CouponRepository handles document store operations for coupons
type CouponRepository struct {
	coll   *mongo.Collection
	logger logger.Logger
}

// NewCouponRepository creates a new CouponRepository over coll
func NewCouponRepository(coll *mongo.Collection, logger logger.Logger) *CouponRepository {
	return &CouponRepository{
		coll:   coll,
		logger: logger,
	}
}

// couponFilter builds the search filter; an empty term matches everything
func couponFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	or := make(bson.A, 0, len(couponSearchFields))

	for _, field := range couponSearchFields {
		or = append(or, bson.M{field: pattern})
	}

	return bson.M{"$or": or}
}

// couponFindOptions sorts newest first and applies skip/limit
func couponFindOptions(q models.CouponQuery) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
}

// Find returns one page of coupons and the total number of matches
func (r *CouponRepository) Find(ctx context.Context, q models.CouponQuery) ([]*models.Coupon, int64, error) {
	filter := couponFilter(q.Search)

	total, err := r.coll.CountDocuments(ctx, filter)

	if err != nil {
		r.logger.Error("Failed to count coupons", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	cursor, err := r.coll.Find(ctx, filter, couponFindOptions(q))

	if err != nil {
		r.logger.Error("Failed to find coupons", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon

	if err := cursor.All(ctx, &coupons); err != nil {
		r.logger.Error("Failed to decode coupons", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return coupons, total, nil
}

// MarkRedeemed sets redeemed=true and stamps redeemedAt, unconditionally
func (r *CouponRepository) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{"$set": bson.M{"redeemed": true, "redeemedAt": at}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)

	if err != nil {
		r.logger.Error("Failed to redeem coupon", "error", err, "couponID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Counts returns the number of coupons and how many are redeemed
func (r *CouponRepository) Counts(ctx context.Context) (int64, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})

	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	redeemed, err := r.coll.CountDocuments(ctx, bson.M{"redeemed": true})

	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return total, redeemed, nil
}
