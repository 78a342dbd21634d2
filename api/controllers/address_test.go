package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/internal/address"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
)

type stubAddressService struct {
	owner    uuid.UUID
	created  address.CreateInput
	updateID uuid.UUID
	update   address.UpdateInput
	disabled uuid.UUID
	list     []address.AddressDTO
	err      error
}

func (s *stubAddressService) Create(_ context.Context, userID uuid.UUID, in address.CreateInput) (address.AddressDTO, error) {
	s.owner, s.created = userID, in
	return address.AddressDTO{ID: uuid.New(), City: in.City, Active: true}, s.err
}

func (s *stubAddressService) List(_ context.Context, userID uuid.UUID) ([]address.AddressDTO, error) {
	s.owner = userID
	return s.list, s.err
}

func (s *stubAddressService) Update(_ context.Context, userID, id uuid.UUID, in address.UpdateInput) (address.AddressDTO, error) {
	s.owner, s.updateID, s.update = userID, id, in
	return address.AddressDTO{ID: id}, s.err
}

func (s *stubAddressService) Disable(_ context.Context, userID, id uuid.UUID) error {
	s.owner, s.disabled = userID, id
	return s.err
}

func TestAddressCreate(t *testing.T) {
	svc := &stubAddressService{}
	userID := uuid.New()
	body := `{"address_line":"12 Baker Street","city":"Pune","state":"MH","pincode":"411001","country":"IN"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/address/create", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()

	AddressCreate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.owner != userID || svc.created.City != "Pune" {
		t.Fatalf("request not forwarded: %+v", svc.created)
	}
}

func TestAddressCreateValidation(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/address/create", strings.NewReader(`{"city":"Pune"}`)), uuid.New())
	resp := httptest.NewRecorder()

	AddressCreate(&stubAddressService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddressList(t *testing.T) {
	svc := &stubAddressService{list: []address.AddressDTO{{ID: uuid.New(), City: "Pune", Active: true}}}
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/address/get", nil), uuid.New())
	resp := httptest.NewRecorder()

	AddressList(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []address.AddressDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].City != "Pune" {
		t.Fatalf("unexpected list %+v", envelope.Data)
	}
}

func TestAddressUpdateForwardsPatch(t *testing.T) {
	svc := &stubAddressService{}
	id := uuid.New()
	body := `{"id":"` + id.String() + `","city":"Mumbai"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/address/update", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()

	AddressUpdate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updateID != id || svc.update.City == nil || *svc.update.City != "Mumbai" || svc.update.State != nil {
		t.Fatalf("unexpected patch %+v", svc.update)
	}
}

func TestAddressDisable(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"disabled", `{"id":"` + id.String() + `"}`, nil, http.StatusOK},
		{"missing id", `{}`, nil, http.StatusBadRequest},
		{"not found", `{"id":"` + id.String() + `"}`, pkgerrors.New(pkgerrors.CodeNotFound, "address not found"), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAddressService{err: tc.err}
			req := withUser(httptest.NewRequest(http.MethodDelete, "/api/address/disable", strings.NewReader(tc.body)), uuid.New())
			resp := httptest.NewRecorder()

			AddressDisable(svc, nil).ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAddressRequiresUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/address/get", nil)
	resp := httptest.NewRecorder()

	AddressList(&stubAddressService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
