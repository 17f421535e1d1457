package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/logx"
)

func TestVendorHandler_List(t *testing.T) {
	t.Parallel()

	h := NewVendorHandler(logx.Nop(), NewVendorLister(catalog.Default()))
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/vendors", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []domain.Vendor
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 5)

	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	require.IsIncreasing(t, ids)
	require.Contains(t, ids, catalog.DefaultVendorID)
}
