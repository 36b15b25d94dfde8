package controllers

import (
	"net/http"
	"testing"

	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/utils"
)

func newAuthFixture(t *testing.T) (*AuthController, *fakeUserStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	users := &fakeUserStore{}

	hash, err := utils.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := users.Create(nil, &models.User{Username: "sam", PhoneNumber: "+96170123456", Password: hash}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewAuthController(users), users
}

func TestLogin(t *testing.T) {
	ac, _ := newAuthFixture(t)
	e := newTestEcho()

	c, rec := jsonRequest(e, http.MethodPost, "/login", `{"phoneNumber":"+96170123456","password":"hunter22"}`)
	if err := ac.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Token == "" {
		t.Errorf("expected a token, got %+v", resp)
	}

	// Token also lands in an httpOnly cookie.
	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "token" {
			found = true
			if !cookie.HttpOnly {
				t.Error("token cookie should be httpOnly")
			}
			if cookie.Value != resp.Token {
				t.Error("cookie token differs from body token")
			}
		}
	}
	if !found {
		t.Error("token cookie not set")
	}
}

func TestLoginNormalizesPhone(t *testing.T) {
	ac, _ := newAuthFixture(t)
	e := newTestEcho()

	// Spaces and dashes in the submitted number still match the account.
	c, rec := jsonRequest(e, http.MethodPost, "/login", `{"phoneNumber":"+961 70-123-456","password":"hunter22"}`)
	if err := ac.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ac, _ := newAuthFixture(t)
	e := newTestEcho()

	c, rec := jsonRequest(e, http.MethodPost, "/login", `{"phoneNumber":"+96170123456","password":"wrong"}`)
	if err := ac.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Invalid phone number or password" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoginUnknownPhone(t *testing.T) {
	ac, _ := newAuthFixture(t)
	e := newTestEcho()

	// Unknown accounts answer the same 401 as a wrong password, so the
	// endpoint does not reveal which numbers are registered.
	c, rec := jsonRequest(e, http.MethodPost, "/login", `{"phoneNumber":"+96170999999","password":"hunter22"}`)
	if err := ac.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Invalid phone number or password" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoginMissingFields(t *testing.T) {
	ac, _ := newAuthFixture(t)
	e := newTestEcho()

	c, rec := jsonRequest(e, http.MethodPost, "/login", `{"phoneNumber":"+96170123456"}`)
	if err := ac.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Phone number and password are required" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}
