// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/digitalislam/dicms/internal/model"
	"github.com/digitalislam/dicms/internal/payment"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDonors struct {
	saved []model.Donor
	err   error
}

func (f *fakeDonors) Create(_ context.Context, d model.Donor) (model.Donor, error) {
	if f.err != nil {
		return model.Donor{}, f.err
	}
	d.ID = "donor-1"
	f.saved = append(f.saved, d)
	return d, nil
}

type fakeProvider struct {
	got   *payment.CheckoutRequest
	calls int
	err   error
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	f.calls++
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.CheckoutSession{ID: "cs_1", RedirectURL: "https://pay.test/cs_1"}, nil
}

var testURLs = CheckoutURLs{Success: "https://site.test/?status=success", Cancel: "https://site.test/"}

func TestDonations_Pledge(t *testing.T) {
	donors := &fakeDonors{}
	provider := &fakeProvider{}
	svc := NewDonations(donors, provider, testURLs, discardLogger())

	res, err := svc.Pledge(context.Background(), model.Donor{
		ID:     "client-supplied",
		Name:   "Musa",
		Email:  "musa@example.org",
		Phone:  "123",
		Pledge: "SLE 50.00",
	})
	if err != nil {
		t.Fatalf("Pledge: %v", err)
	}

	if res.RedirectURL != "https://pay.test/cs_1" {
		t.Errorf("RedirectURL = %q", res.RedirectURL)
	}
	if len(donors.saved) != 1 || donors.saved[0].Project != model.DefaultDonorProject {
		t.Errorf("saved = %+v", donors.saved)
	}
	if donors.saved[0].Pledge != "SLE 50.00" {
		t.Errorf("pledge text altered: %q", donors.saved[0].Pledge)
	}
	if provider.got.Amount.MinorUnits() != 5000 {
		t.Errorf("minor units = %d, want 5000", provider.got.Amount.MinorUnits())
	}
	if provider.got.Project != model.DefaultDonorProject || provider.got.SuccessURL != testURLs.Success {
		t.Errorf("checkout request = %+v", provider.got)
	}
}

func TestDonations_InvalidAmount(t *testing.T) {
	donors := &fakeDonors{}
	provider := &fakeProvider{}
	svc := NewDonations(donors, provider, testURLs, discardLogger())

	for _, pledge := range []string{"", "abc", "0", "-0.00"} {
		_, err := svc.Pledge(context.Background(), model.Donor{Name: "x", Pledge: pledge})
		if !errors.Is(err, payment.ErrInvalidAmount) {
			t.Errorf("Pledge(%q) error = %v, want ErrInvalidAmount", pledge, err)
		}
	}
	if len(donors.saved) != 0 || provider.calls != 0 {
		t.Errorf("invalid pledges reached the stores: %d saved, %d checkouts", len(donors.saved), provider.calls)
	}
}

func TestDonations_DonorSavedBeforeCheckout(t *testing.T) {
	donors := &fakeDonors{}
	provider := &fakeProvider{err: payment.ErrProvider}
	svc := NewDonations(donors, provider, testURLs, discardLogger())

	_, err := svc.Pledge(context.Background(), model.Donor{Name: "x", Project: "Education for All", Pledge: "10"})
	if !errors.Is(err, payment.ErrProvider) {
		t.Fatalf("error = %v, want ErrProvider", err)
	}
	if len(donors.saved) != 1 {
		t.Errorf("donor should stay saved when checkout fails, saved = %d", len(donors.saved))
	}
}

func TestDonations_SaveFailureSkipsCheckout(t *testing.T) {
	boom := errors.New("store down")
	provider := &fakeProvider{}
	svc := NewDonations(&fakeDonors{err: boom}, provider, testURLs, discardLogger())

	_, err := svc.Pledge(context.Background(), model.Donor{Name: "x", Pledge: "10"})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if provider.calls != 0 {
		t.Error("checkout attempted without a saved donor")
	}
}

type fakeVolunteers struct{ saved []model.Volunteer }

func (f *fakeVolunteers) Create(_ context.Context, v model.Volunteer) (model.Volunteer, error) {
	v.ID = "vol-1"
	f.saved = append(f.saved, v)
	return v, nil
}

func TestVolunteers_SignUp(t *testing.T) {
	store := &fakeVolunteers{}
	svc := NewVolunteers(store, discardLogger())

	v, err := svc.SignUp(context.Background(), model.Volunteer{ID: "ignored", Name: "Hawa", Location: "Freetown"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if v.ID != "vol-1" || len(store.saved) != 1 || store.saved[0].Name != "Hawa" {
		t.Errorf("volunteer = %+v, saved = %+v", v, store.saved)
	}
}

func chatServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestReflections_Ask(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, http.StatusOK, "  Charity purifies wealth.  ", &seen)
	defer srv.Close()

	r := NewReflections(ReflectionsConfig{APIKey: "k", BaseURL: srv.URL + "/", Model: "test-model"}, discardLogger())
	if !r.Enabled() {
		t.Fatal("Enabled() = false with an API key")
	}

	got := r.Ask(context.Background(), "What is zakat?")
	if got != "Charity purifies wealth." {
		t.Errorf("Ask() = %q", got)
	}
	if seen["model"] != "test-model" {
		t.Errorf("model = %v", seen["model"])
	}
	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", seen["messages"])
	}
	system := msgs[0].(map[string]any)
	if system["role"] != "system" || !strings.Contains(system["content"].(string), "Digital Islam") {
		t.Errorf("system message = %v", system)
	}
}

func TestReflections_Inspiration(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, http.StatusOK, "Verily, with hardship comes ease.", &seen)
	defer srv.Close()

	r := NewReflections(ReflectionsConfig{APIKey: "k", BaseURL: srv.URL + "/"}, discardLogger())
	got := r.Inspiration(context.Background(), "")
	if got != "Verily, with hardship comes ease." {
		t.Errorf("Inspiration() = %q", got)
	}
	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 1 || !strings.Contains(msgs[0].(map[string]any)["content"].(string), DefaultInspirationTopic) {
		t.Errorf("messages = %v", seen["messages"])
	}
	if seen["model"] != DefaultReflectionsModel {
		t.Errorf("model = %v", seen["model"])
	}
}

func TestReflections_Fallbacks(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	tests := []struct {
		name string
		r    *Reflections
	}{
		{"not configured", NewReflections(ReflectionsConfig{}, discardLogger())},
		{"provider error", NewReflections(ReflectionsConfig{APIKey: "k", BaseURL: srv.URL + "/"}, discardLogger())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Inspiration(context.Background(), "patience"); got != FallbackInspiration {
				t.Errorf("Inspiration() = %q", got)
			}
			if got := tt.r.Ask(context.Background(), "q"); got != FallbackAnswer {
				t.Errorf("Ask() = %q", got)
			}
		})
	}
}
