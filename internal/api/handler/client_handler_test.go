package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

type stubClientService struct {
	client      *domain.Client
	appliedTree *ports.ClientTreeInput
	err         error
}

func (s *stubClientService) GetAll(context.Context) ([]*domain.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Client{s.client}, nil
}

func (s *stubClientService) GetByID(_ context.Context, id string) (*domain.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func (s *stubClientService) Create(_ context.Context, name string) (*domain.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Client{ID: "65f2a1b3c4d5e6f708192a3b", ClientName: name, Locations: []domain.Location{}, UserRefs: []string{}}, nil
}

func (s *stubClientService) ApplyUpdate(_ context.Context, _ string, tree ports.ClientTreeInput) (*domain.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.appliedTree = &tree
	return s.client, nil
}

func (s *stubClientService) Delete(_ context.Context, _ string) error {
	return s.err
}

type stubCheckinService struct {
	recorded []ports.RecordVisitInput
	err      error
}

func (s *stubCheckinService) RecordVisit(_ context.Context, in ports.RecordVisitInput) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, in)
	return nil
}

func TestClientHandler_Create(t *testing.T) {
	h := NewClientHandler(&stubClientService{}, &stubCheckinService{})

	c, rec := newTestContext(t, http.MethodPost, "/clients", `{"clientname":"Acme"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp domain.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ClientName != "Acme" || resp.ID == "" {
		t.Fatalf("unexpected client: %+v", resp)
	}
}

func TestClientHandler_Create_MissingName(t *testing.T) {
	h := NewClientHandler(&stubClientService{}, &stubCheckinService{})
	c, _ := newTestContext(t, http.MethodPost, "/clients", `{}`)
	assertHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestClientHandler_Get_NotFound(t *testing.T) {
	h := NewClientHandler(&stubClientService{err: domain.ErrClientNotFound}, &stubCheckinService{})
	c, _ := newTestContext(t, http.MethodGet, "/clients/65f2a1b3c4d5e6f708192a3b", "")
	c.SetParamNames("id")
	c.SetParamValues("65f2a1b3c4d5e6f708192a3b")

	if err := h.Get(c); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientHandler_Update_PassesTree(t *testing.T) {
	svc := &stubClientService{client: &domain.Client{ID: "65f2a1b3c4d5e6f708192a3b", ClientName: "Acme"}}
	h := NewClientHandler(svc, &stubCheckinService{})

	body := `{
		"clientname": "Acme",
		"location": [
			{"locationname": "HQ", "zone": [{"zonename": "Lobby", "steps": ["enter", "badge"]}]}
		]
	}`
	c, rec := newTestContext(t, http.MethodPut, "/clients/65f2a1b3c4d5e6f708192a3b", body)
	c.SetParamNames("id")
	c.SetParamValues("65f2a1b3c4d5e6f708192a3b")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	tree := svc.appliedTree
	if tree == nil {
		t.Fatal("service did not receive a tree")
	}
	if len(tree.Locations) != 1 || len(tree.Locations[0].Zones) != 1 {
		t.Fatalf("tree shape not preserved: %+v", tree)
	}
	if tree.Locations[0].Zones[0].ZoneName != "Lobby" {
		t.Fatalf("zone name lost in mapping: %+v", tree.Locations[0].Zones[0])
	}
	// Omitted userRefs must stay nil so the stored value survives.
	if tree.UserRefs != nil {
		t.Fatalf("userRefs should be nil when omitted, got %v", tree.UserRefs)
	}
}

func TestClientHandler_Update_OmittedLocationsStayNil(t *testing.T) {
	svc := &stubClientService{client: &domain.Client{ID: "65f2a1b3c4d5e6f708192a3b"}}
	h := NewClientHandler(svc, &stubCheckinService{})

	c, _ := newTestContext(t, http.MethodPut, "/clients/65f2a1b3c4d5e6f708192a3b", `{"clientname":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues("65f2a1b3c4d5e6f708192a3b")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if svc.appliedTree.Locations != nil {
		t.Fatalf("locations should be nil when omitted, got %+v", svc.appliedTree.Locations)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	h := NewClientHandler(&stubClientService{}, &stubCheckinService{})

	c, rec := newTestContext(t, http.MethodDelete, "/clients/65f2a1b3c4d5e6f708192a3b", "")
	c.SetParamNames("id")
	c.SetParamValues("65f2a1b3c4d5e6f708192a3b")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "removed client with ID 65f2a1b3c4d5e6f708192a3b" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestClientHandler_CheckIn(t *testing.T) {
	checkin := &stubCheckinService{}
	h := NewClientHandler(&stubClientService{}, checkin)

	body := `{"zoneId":"65f2a1b3c4d5e6f708192a3b","userId":"65f2a1b3c4d5e6f708192a3c","direction":"out"}`
	c, rec := newTestContext(t, http.MethodPost, "/clients/check-in", body)

	if err := h.CheckIn(c); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(checkin.recorded) != 1 {
		t.Fatalf("expected 1 recorded visit, got %d", len(checkin.recorded))
	}
	if checkin.recorded[0].Direction != domain.VisitOut {
		t.Fatalf("direction = %q, want out", checkin.recorded[0].Direction)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "check-out recorded" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestClientHandler_CheckIn_DefaultsToIn(t *testing.T) {
	checkin := &stubCheckinService{}
	h := NewClientHandler(&stubClientService{}, checkin)

	body := `{"zoneId":"65f2a1b3c4d5e6f708192a3b","userId":"65f2a1b3c4d5e6f708192a3c"}`
	c, _ := newTestContext(t, http.MethodPost, "/clients/check-in", body)

	if err := h.CheckIn(c); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if checkin.recorded[0].Direction != domain.VisitIn {
		t.Fatalf("direction = %q, want in", checkin.recorded[0].Direction)
	}
}

func TestClientHandler_CheckIn_Validation(t *testing.T) {
	h := NewClientHandler(&stubClientService{}, &stubCheckinService{})

	tests := []struct {
		name string
		body string
	}{
		{"short zone id", `{"zoneId":"abc","userId":"65f2a1b3c4d5e6f708192a3c"}`},
		{"non-hex zone id", `{"zoneId":"zzzzzzzzzzzzzzzzzzzzzzzz","userId":"65f2a1b3c4d5e6f708192a3c"}`},
		{"bad direction", `{"zoneId":"65f2a1b3c4d5e6f708192a3b","userId":"65f2a1b3c4d5e6f708192a3c","direction":"up"}`},
		{"missing user", `{"zoneId":"65f2a1b3c4d5e6f708192a3b"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/clients/check-in", tc.body)
			assertHTTPError(t, h.CheckIn(c), http.StatusBadRequest)
		})
	}
}

func TestClientHandler_CheckIn_ZoneNotFound(t *testing.T) {
	h := NewClientHandler(&stubClientService{}, &stubCheckinService{err: domain.ErrZoneNotFound})

	body := `{"zoneId":"65f2a1b3c4d5e6f708192a3b","userId":"65f2a1b3c4d5e6f708192a3c"}`
	c, _ := newTestContext(t, http.MethodPost, "/clients/check-in", body)

	if err := h.CheckIn(c); !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}
