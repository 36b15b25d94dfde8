// models/otp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPPurpose partitions OTP records so concurrent flows for the same
// phone number never collide.
type OTPPurpose string

const (
	OTPPurposeRegistration   OTPPurpose = "registration"
	OTPPurposeForgotPassword OTPPurpose = "forgot_password"
	OTPPurposeVerification   OTPPurpose = "verification"
)

// OTP represents a one-time password record. At most one record is
// active per (phoneNumber, purpose) pair; requesting a new code deletes
// any prior record for that key before inserting the replacement.
type OTP struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	Code        string             `json:"-" bson:"otp"`
	Purpose     OTPPurpose         `json:"purpose" bson:"purpose"`
	Verified    bool               `json:"isVerified" bson:"isVerified"`
	ExpiresAt   time.Time          `json:"expiresAt" bson:"expiresAt"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the record is unusable at the given instant.
// The record is invalid strictly after ExpiresAt.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
