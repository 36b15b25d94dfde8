package controllers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/services"
)

// Shared in-memory fakes and request plumbing for the controller tests.

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// jsonRequest builds an echo context carrying a JSON body and a recorder
// capturing the handler's response.
func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type fakeUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUserStore) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber == phoneNumber {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber == user.PhoneNumber || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.Password = hashedPassword
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeOTPStore struct {
	mu      sync.Mutex
	records map[string]*models.OTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{records: make(map[string]*models.OTP)}
}

func otpKey(phoneNumber string, purpose models.OTPPurpose) string {
	return phoneNumber + "|" + string(purpose)
}

func (f *fakeOTPStore) Replace(ctx context.Context, otp *models.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	cp := *otp
	f.records[otpKey(otp.PhoneNumber, otp.Purpose)] = &cp
	return nil
}

func (f *fakeOTPStore) Find(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp, ok := f.records[otpKey(phoneNumber, purpose)]; ok {
		cp := *otp
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOTPStore) FindActive(ctx context.Context, phoneNumber string, purpose models.OTPPurpose, verified bool) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp, ok := f.records[otpKey(phoneNumber, purpose)]; ok && otp.Verified == verified {
		cp := *otp
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOTPStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, otp := range f.records {
		if otp.ID == id {
			otp.Verified = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeOTPStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, otp := range f.records {
		if otp.ID == id {
			delete(f.records, key)
			return nil
		}
	}
	return nil
}

func (f *fakeOTPStore) DeleteAll(ctx context.Context, phoneNumber string, purpose models.OTPPurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, otpKey(phoneNumber, purpose))
	return nil
}

func (f *fakeOTPStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, otp := range f.records {
		if before.After(otp.ExpiresAt) {
			delete(f.records, key)
			deleted++
		}
	}
	return deleted, nil
}

// code returns the stored code for the key so tests can submit it.
func (f *fakeOTPStore) code(t *testing.T, phoneNumber string, purpose models.OTPPurpose) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	otp, ok := f.records[otpKey(phoneNumber, purpose)]
	if !ok {
		t.Fatalf("no OTP record for %s/%s", phoneNumber, purpose)
	}
	return otp.Code
}

type nopSender struct{}

func (nopSender) SendOTP(phoneNumber, otp string) error { return nil }

func newTestOTPService(store services.OTPStore) *services.OTPService {
	return services.NewOTPService(store, nopSender{})
}

type fakeReminderStore struct {
	mu        sync.Mutex
	reminders []models.Reminder
}

func (f *fakeReminderStore) Create(ctx context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reminder.ID = primitive.NewObjectID()
	reminder.CreatedAt = time.Now()
	f.reminders = append(f.reminders, *reminder)
	return nil
}

func (f *fakeReminderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Reminder{}
	for i := len(f.reminders) - 1; i >= 0; i-- {
		if f.reminders[i].UserID == userID {
			out = append(out, f.reminders[i])
		}
	}
	return out, nil
}
