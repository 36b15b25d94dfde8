// repositories/otp_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderapp/reminder_backend/config"
	"github.com/reminderapp/reminder_backend/models"
)

// OTPRepository persists OTP records in the "otps" collection. The
// one-active-record-per-key invariant is enforced by Replace deleting
// all prior records for the (phoneNumber, purpose) key before the
// insert, not by a unique constraint.
type OTPRepository struct {
	collection *mongo.Collection
}

func NewOTPRepository(client *mongo.Client) *OTPRepository {
	return &OTPRepository{
		collection: config.GetCollection(client, "otps"),
	}
}

// Replace deletes any existing record for the record's key and inserts
// the new one, superseding the old code.
func (r *OTPRepository) Replace(ctx context.Context, otp *models.OTP) error {
	key := bson.M{"phoneNumber": otp.PhoneNumber, "purpose": otp.Purpose}
	if _, err := r.collection.DeleteMany(ctx, key); err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, otp)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		otp.ID = id
	}
	return nil
}

// Find returns the current record for the key regardless of its
// verified state, or ErrNotFound.
func (r *OTPRepository) Find(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) (*models.OTP, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phoneNumber, "purpose": purpose})
}

// FindActive returns the current record for the key with the given
// verified state, or ErrNotFound.
func (r *OTPRepository) FindActive(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, verified bool) (*models.OTP, error) {
	return r.findOne(ctx, bson.M{
		"phoneNumber": phoneNumber,
		"purpose":     purpose,
		"isVerified":  verified,
	})
}

func (r *OTPRepository) findOne(ctx context.Context, filter bson.M) (*models.OTP, error) {
	var otp models.OTP
	err := r.collection.FindOne(ctx, filter).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// MarkVerified flips the record to verified. The transition is one-way;
// records never go back to unverified.
func (r *OTPRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isVerified": true}},
	)
	return err
}

// Delete removes a single record by id.
func (r *OTPRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteAll removes every record for the key.
func (r *OTPRepository) DeleteAll(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"phoneNumber": phoneNumber, "purpose": purpose})
	return err
}

// DeleteExpired removes all records whose expiresAt is before the given
// instant and reports how many were deleted. Mongo's TTL index does the
// same reclamation on its own schedule; this keeps the collection tidy
// between TTL monitor passes.
func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
