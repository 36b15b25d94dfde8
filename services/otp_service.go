// services/otp_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/utils"
)

// Defaults for the OTP lifecycle. They are copied onto each service
// instance so tests can compress the windows.
const (
	OTPLength      = 6
	OTPValidity    = 10 * time.Minute
	ResendCooldown = 60 * time.Second
)

var (
	// ErrOTPNotFound: no pending record for the key, or it was already
	// consumed.
	ErrOTPNotFound = errors.New("OTP not found or already used")
	// ErrOTPExpired: the record was past its expiry and has been
	// deleted as a side effect of the read.
	ErrOTPExpired = errors.New("OTP has expired")
	// ErrOTPMismatch: the submitted code does not match the stored one.
	ErrOTPMismatch = errors.New("invalid OTP")
)

// CooldownError rejects a resend inside the cooldown window. Seconds is
// the remaining wait, rounded up.
type CooldownError struct {
	Seconds int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new OTP", e.Seconds)
}

// OTPStore is the persistence contract for OTP records. Implemented by
// repositories.OTPRepository; tests use an in-memory fake.
type OTPStore interface {
	Replace(ctx context.Context, otp *models.OTP) error
	Find(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) (*models.OTP, error)
	FindActive(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, verified bool) (*models.OTP, error)
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OTPSender hands a generated code off for out-of-band delivery.
type OTPSender interface {
	SendOTP(phoneNumber, otp string) error
}

// AttemptLimiter caps verification attempts per phone number.
type AttemptLimiter interface {
	Allow(ctx context.Context, phoneNumber string) error
}

// OTPService orchestrates the OTP lifecycle: generate, deliver, verify,
// consume. Expiry is re-checked on every read; the store's TTL sweep is
// only housekeeping.
type OTPService struct {
	store   OTPStore
	sender  OTPSender
	limiter AttemptLimiter
	logger  *log.Logger

	validity time.Duration
	cooldown time.Duration
	now      func() time.Time
}

func NewOTPService(store OTPStore, sender OTPSender) *OTPService {
	return &OTPService{
		store:    store,
		sender:   sender,
		logger:   log.New(os.Stdout, "[OTP] ", log.LstdFlags),
		validity: OTPValidity,
		cooldown: ResendCooldown,
		now:      time.Now,
	}
}

// WithAttemptLimiter enables verification attempt throttling.
func (s *OTPService) WithAttemptLimiter(limiter AttemptLimiter) *OTPService {
	s.limiter = limiter
	return s
}

// Request generates a fresh code for the key, superseding any prior
// record, and hands it off for delivery. Delivery failure is logged but
// does not fail the request: in development mode the code is echoed to
// the client anyway, and the user can always resend.
func (s *OTPService) Request(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) (*models.OTP, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	otp := &models.OTP{
		PhoneNumber: phoneNumber,
		Code:        code,
		Purpose:     purpose,
		ExpiresAt:   now.Add(s.validity),
		CreatedAt:   now,
	}

	if err := s.store.Replace(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.sender.SendOTP(phoneNumber, code); err != nil {
		s.logger.Printf("failed to deliver OTP to %s: %v", phoneNumber, err)
	}

	return otp, nil
}

// Resend behaves like Request unless a record for the key is younger
// than the cooldown, in which case it reports the remaining wait.
func (s *OTPService) Resend(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) (*models.OTP, error) {
	existing, err := s.store.Find(ctx, phoneNumber, purpose)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		elapsed := s.now().Sub(existing.CreatedAt)
		if elapsed < s.cooldown {
			remaining := int(math.Ceil((s.cooldown - elapsed).Seconds()))
			return nil, &CooldownError{Seconds: remaining}
		}
	}

	return s.Request(ctx, phoneNumber, purpose)
}

// Verify checks a code for the forgot-password flow and marks the
// record verified on match. The record persists until the reset step
// consumes it.
func (s *OTPService) Verify(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, code string) error {
	otp, err := s.check(ctx, phoneNumber, purpose, code)
	if err != nil {
		return err
	}
	return s.store.MarkVerified(ctx, otp.ID)
}

// VerifyAndConsume checks a code for the registration flow and deletes
// the record on match, so verification and consumption are one step.
func (s *OTPService) VerifyAndConsume(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, code string) error {
	otp, err := s.check(ctx, phoneNumber, purpose, code)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, otp.ID)
}

// check validates a submitted code against the pending record: the
// record must exist unverified, be unexpired, and match exactly. An
// expired record is deleted as a side effect of the read.
func (s *OTPService) check(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, code string) (*models.OTP, error) {
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, phoneNumber); err != nil {
			return nil, err
		}
	}

	otp, err := s.store.FindActive(ctx, phoneNumber, purpose, false)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}

	if otp.Expired(s.now()) {
		if err := s.store.Delete(ctx, otp.ID); err != nil {
			s.logger.Printf("failed to delete expired OTP for %s: %v", phoneNumber, err)
		}
		return nil, ErrOTPExpired
	}

	// Exact string equality; codes are digits only, no normalization.
	if otp.Code != code {
		return nil, ErrOTPMismatch
	}

	return otp, nil
}

// RequireVerified ensures a verified, unexpired record exists for the
// key. Used by the reset-password step before touching the account.
func (s *OTPService) RequireVerified(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) error {
	otp, err := s.store.FindActive(ctx, phoneNumber, purpose, true)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if otp.Expired(s.now()) {
		if err := s.store.Delete(ctx, otp.ID); err != nil {
			s.logger.Printf("failed to delete expired OTP for %s: %v", phoneNumber, err)
		}
		return ErrOTPExpired
	}

	return nil
}

// Consume deletes every record for the key. Called once the dependent
// action (the password update) has gone through.
func (s *OTPService) Consume(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) error {
	return s.store.DeleteAll(ctx, phoneNumber, purpose)
}

// StartCleanupRoutine periodically deletes expired records until the
// context is cancelled. Correctness never depends on this sweep; every
// read re-checks expiry itself.
func (s *OTPService) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.cleanupExpired(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired(ctx)
		}
	}
}

func (s *OTPService) cleanupExpired(ctx context.Context) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Printf("OTP cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		s.logger.Printf("cleaned up %d expired OTPs", deleted)
	}
}
