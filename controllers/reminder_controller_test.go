package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reminderapp/reminder_backend/models"
)

// newReminderContext builds a context carrying the :id path parameter
// and the token-derived user id the JWT middleware would have set.
func newReminderContext(e *echo.Echo, method, body, pathID, tokenID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonRequest(e, method, "/addReminder/"+pathID, body)
	c.SetParamNames("id")
	c.SetParamValues(pathID)
	c.Set("userId", tokenID)
	return c, rec
}

func TestAddReminder(t *testing.T) {
	store := &fakeReminderStore{}
	rc := NewReminderController(store)
	e := newTestEcho()
	userID := primitive.NewObjectID()

	c, rec := newReminderContext(e, http.MethodPost,
		`{"description":"Renew car insurance","count":5,"daysBefore":[7,1]}`,
		userID.Hex(), userID.Hex())
	if err := rc.AddReminder(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.reminders) != 1 {
		t.Fatalf("expected 1 stored reminder, got %d", len(store.reminders))
	}
	stored := store.reminders[0]
	if stored.UserID != userID {
		t.Error("reminder not attributed to the path user")
	}
	if stored.Count != 5 || len(stored.DaysBefore) != 2 {
		t.Errorf("request values not honored: %+v", stored)
	}
}

func TestAddReminderDefaults(t *testing.T) {
	store := &fakeReminderStore{}
	rc := NewReminderController(store)
	e := newTestEcho()
	userID := primitive.NewObjectID()

	c, rec := newReminderContext(e, http.MethodPost,
		`{"description":"Pay rent"}`, userID.Hex(), userID.Hex())
	if err := rc.AddReminder(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	stored := store.reminders[0]
	if stored.Count != models.DefaultReminderCount {
		t.Errorf("expected default count %d, got %d", models.DefaultReminderCount, stored.Count)
	}
	if len(stored.DaysBefore) != 1 || stored.DaysBefore[0] != models.DefaultDaysBefore {
		t.Errorf("expected default daysBefore, got %v", stored.DaysBefore)
	}
}

func TestAddReminderMissingDescription(t *testing.T) {
	rc := NewReminderController(&fakeReminderStore{})
	e := newTestEcho()
	userID := primitive.NewObjectID()

	c, rec := newReminderContext(e, http.MethodPost, `{}`, userID.Hex(), userID.Hex())
	if err := rc.AddReminder(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Description is required" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestAddReminderForeignUser(t *testing.T) {
	rc := NewReminderController(&fakeReminderStore{})
	e := newTestEcho()

	c, rec := newReminderContext(e, http.MethodPost,
		`{"description":"Pay rent"}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	if err := rc.AddReminder(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "You can only manage your own reminders" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestAddReminderBadUserID(t *testing.T) {
	rc := NewReminderController(&fakeReminderStore{})
	e := newTestEcho()

	c, rec := newReminderContext(e, http.MethodPost,
		`{"description":"Pay rent"}`, "not-an-object-id", "not-an-object-id")
	if err := rc.AddReminder(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Invalid user id" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestListReminders(t *testing.T) {
	store := &fakeReminderStore{}
	rc := NewReminderController(store)
	e := newTestEcho()
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	seed := []*models.Reminder{
		{UserID: userID, Description: "first"},
		{UserID: otherID, Description: "someone else's"},
		{UserID: userID, Description: "second"},
	}
	for _, r := range seed {
		if err := store.Create(nil, r); err != nil {
			t.Fatalf("seed reminder: %v", err)
		}
	}

	c, rec := newReminderContext(e, http.MethodGet, "", userID.Hex(), userID.Hex())
	if err := rc.ListReminders(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	reminders, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("expected a list payload, got %T", resp.Data)
	}
	if len(reminders) != 2 {
		t.Errorf("expected 2 reminders for the user, got %d", len(reminders))
	}
}

func TestListRemindersEmpty(t *testing.T) {
	rc := NewReminderController(&fakeReminderStore{})
	e := newTestEcho()
	userID := primitive.NewObjectID()

	c, rec := newReminderContext(e, http.MethodGet, "", userID.Hex(), userID.Hex())
	if err := rc.ListReminders(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if reminders, ok := resp.Data.([]interface{}); !ok || len(reminders) != 0 {
		t.Errorf("expected an empty list, got %#v", resp.Data)
	}
}
