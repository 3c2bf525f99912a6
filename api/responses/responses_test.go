package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

func TestWriteSuccessWrapsDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"name": "Summer Sale"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["name"] != "Summer Sale" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
}

func TestWriteSuccessStatusUsesGivenStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "abc"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found keeps message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "discount not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   string(pkgerrors.CodeNotFound),
			wantMsg:    "discount not found",
		},
		{
			name:       "forbidden keeps message",
			err:        pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user"),
			wantStatus: http.StatusForbidden,
			wantCode:   string(pkgerrors.CodeForbidden),
			wantMsg:    "store belongs to another user",
		},
		{
			name:       "internal hides message",
			err:        pkgerrors.New(pkgerrors.CodeInternal, "pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(pkgerrors.CodeInternal),
			wantMsg:    "internal server error",
		},
		{
			name:       "untyped error becomes internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(pkgerrors.CodeInternal),
			wantMsg:    "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, body.Error.Code)
			}
			if body.Error.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body.Error.Message)
			}
		})
	}
}

func TestWriteErrorIncludesDetailsWhenAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"percentage": "must be at most 100"})
	WriteError(context.Background(), nil, rec, err)

	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Details["percentage"] != "must be at most 100" {
		t.Fatalf("expected details to pass through, got %+v", body.Error.Details)
	}
}

func TestWriteErrorStripsDetailsWhenNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "boom").
		WithDetails(map[string]string{"query": "SELECT secrets"})
	WriteError(context.Background(), nil, rec, err)

	var body struct {
		Error struct {
			Details any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Details != nil {
		t.Fatalf("expected no details, got %+v", body.Error.Details)
	}
}
