package predictapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayprice-session/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailedRequest() models.PredictionRequest {
	return models.PredictionRequest{
		City:         models.CityGoa,
		PropertyType: models.PropertyVilla,
		RoomType:     "Entire home/apt",
		Accommodates: 6,
		Bedrooms:     3,
		Bathrooms:    2.5,
		Beds:         4,
		Amenities:    []string{"Wifi", "Pool", "Wifi", " "},
	}
}

func TestClient_Predict_SendsWireFormat(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success": true, "predicted_price": 12500.5}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 5*time.Second)
	result, err := client.Predict(context.Background(), detailedRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 12500.5, result.Price)

	assert.Equal(t, "Goa", got["city"])
	assert.Equal(t, "Villa", got["property_type"])
	assert.Equal(t, "Entire home/apt", got["room_type"])
	assert.EqualValues(t, 6, got["accommodates"])
	assert.EqualValues(t, 3, got["bedrooms"])
	assert.EqualValues(t, 4, got["beds"])
	assert.EqualValues(t, 2.5, got["bathrooms"])
	assert.Equal(t, "Pool,Wifi", got["amenities"])
}

func TestClient_Predict_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "success false", status: http.StatusOK, body: `{"success": false, "error": "model not loaded"}`, wantErr: ErrUnsuccessful},
		{name: "success false without message", status: http.StatusOK, body: `{"success": false}`, wantErr: ErrUnsuccessful},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`, wantErr: ErrMalformedResponse},
		{name: "missing success", status: http.StatusOK, body: `{"predicted_price": 10}`, wantErr: ErrMalformedResponse},
		{name: "missing price", status: http.StatusOK, body: `{"success": true}`, wantErr: ErrMalformedResponse},
		{name: "price wrong type", status: http.StatusOK, body: `{"success": true, "predicted_price": "lots"}`, wantErr: ErrMalformedResponse},
		{name: "server error", status: http.StatusInternalServerError, body: `{"success": false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewClient(server.URL, 5*time.Second).Predict(context.Background(), detailedRequest())
			require.Error(t, err)
			assert.Nil(t, result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_Predict_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Predict(context.Background(), detailedRequest())
	assert.Error(t, err)
}

func TestClient_Predict_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(server.URL, 10*time.Second).Predict(ctx, detailedRequest())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewPredictRequest_QuickDefaults(t *testing.T) {
	wire := NewPredictRequest(models.QuickSearchRequest(models.CityMumbai, models.PropertyApartment, 2))

	assert.Equal(t, PredictRequest{
		City:         "Mumbai",
		PropertyType: "Apartment",
		RoomType:     "Entire home/apt",
		Accommodates: 2,
		Bedrooms:     1,
		Beds:         1,
		Bathrooms:    1,
		Amenities:    "",
	}, wire)
}
