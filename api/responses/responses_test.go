package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/types"
)

func TestWriteSuccessWrapsPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestWriteErrorExposesClientSafeMessages(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation message passes through",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"),
			wantStatus: 400,
			wantCode:   string(pkgerrors.CodeValidation),
			wantMsg:    "quantity must be at least 1",
		},
		{
			name:       "insufficient stock message passes through",
			err:        pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 2 left in stock"),
			wantStatus: 400,
			wantCode:   string(pkgerrors.CodeInsufficientStock),
			wantMsg:    "only 2 left in stock",
		},
		{
			name:       "internal detail is hidden",
			err:        pkgerrors.New(pkgerrors.CodeInternal, "pq: connection reset"),
			wantStatus: 500,
			wantCode:   string(pkgerrors.CodeInternal),
			wantMsg:    pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage,
		},
		{
			name:       "untyped error maps to internal",
			err:        context.DeadlineExceeded,
			wantStatus: 500,
			wantCode:   string(pkgerrors.CodeInternal),
			wantMsg:    pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)

			var envelope types.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tc.wantCode, envelope.Error.Code)
			assert.Equal(t, tc.wantMsg, envelope.Error.Message)
		})
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"rating": "must be at most 5"})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	details, ok := envelope.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "must be at most 5", details["rating"])
}
