package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCouponPageSize caps the coupon list page size regardless of the request.
const MaxCouponPageSize = 200

// Coupon is a prepaid gift code document. Once Redeemed is true it stays true.
type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	PurchaserName  string             `bson:"purchaserName" json:"purchaserName"`
	PurchaserEmail string             `bson:"purchaserEmail" json:"purchaserEmail"`
	RecipientName  string             `bson:"recipientName" json:"recipientName"`
	RecipientEmail string             `bson:"recipientEmail" json:"recipientEmail"`
	Amount         float64            `bson:"amount" json:"amount"`
	Redeemed       bool               `bson:"redeemed" json:"redeemed"`
	RedeemedAt     *time.Time         `bson:"redeemedAt,omitempty" json:"redeemedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	Metadata       bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// CouponQuery is an already-normalised coupon search.
type CouponQuery struct {
	Search string
	Page   int
	Limit  int
}

// Skip returns the number of documents to skip for the page.
func (q CouponQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}
