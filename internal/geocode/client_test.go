package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nominatimResponse = `{
	"display_name": "Avenida Principal 123, Centro, Oaxaca de Juárez, 68000, México",
	"address": {
		"road": "Avenida Principal",
		"house_number": "123",
		"city": "Oaxaca de Juárez",
		"postcode": "68000"
	}
}`

func TestReverse_MapsAddressFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "17.06", r.URL.Query().Get("lat"))
		assert.Equal(t, "-96.72", r.URL.Query().Get("lon"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nominatimResponse))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Reverse(17.06, -96.72)
	require.NoError(t, err)

	assert.Equal(t, "Avenida Principal", got.Street)
	assert.Equal(t, "123", got.Number)
	assert.Equal(t, "Oaxaca de Juárez", got.City)
	assert.Equal(t, "68000", got.PostalCode)
	assert.NotEmpty(t, got.DisplayName)
}

func TestReverse_CityFallsBackToTownOrVillage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address": {"road": "Camino Real", "town": "Tlacolula"}}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Reverse(16.95, -96.47)
	require.NoError(t, err)
	assert.Equal(t, "Tlacolula", got.City)
}

func TestReverse_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Reverse(0, 0)
	require.Error(t, err)
}

func TestReverse_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Reverse(0, 0)
	require.Error(t, err)
}
