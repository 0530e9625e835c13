package predictapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"stayprice-session/internal/models"
)

var (
	// ErrUnsuccessful is returned when the endpoint answers with success=false
	ErrUnsuccessful = errors.New("prediction endpoint reported failure")

	// ErrMalformedResponse is returned when the body is not the expected shape
	ErrMalformedResponse = errors.New("malformed prediction response")
)

// maxBodyBytes bounds how much of a response body is read
const maxBodyBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PredictRequest is the JSON body of POST /predict
type PredictRequest struct {
	City         string  `json:"city"`
	PropertyType string  `json:"property_type"`
	RoomType     string  `json:"room_type"`
	Accommodates int     `json:"accommodates"`
	Bedrooms     int     `json:"bedrooms"`
	Beds         int     `json:"beds"`
	Bathrooms    float64 `json:"bathrooms"`
	Amenities    string  `json:"amenities"`
}

// PredictResponse is the JSON body returned by POST /predict. Pointers
// distinguish a missing field from a zero value.
type PredictResponse struct {
	Success        *bool    `json:"success"`
	PredictedPrice *float64 `json:"predicted_price"`
	Error          string   `json:"error,omitempty"`
}

// NewPredictRequest converts a prediction request into its wire form
func NewPredictRequest(req models.PredictionRequest) PredictRequest {
	return PredictRequest{
		City:         string(req.City),
		PropertyType: string(req.PropertyType),
		RoomType:     req.RoomType,
		Accommodates: req.Accommodates,
		Bedrooms:     req.Bedrooms,
		Beds:         req.Beds,
		Bathrooms:    req.Bathrooms,
		Amenities:    strings.Join(req.AmenityList(), ","),
	}
}

// Predict issues exactly one POST /predict. It never retries.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	jsonData, err := json.Marshal(NewPredictRequest(req))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("prediction endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decodeResponse(body)
}

func decodeResponse(body []byte) (*models.PredictionResult, error) {
	var predictResp PredictResponse
	if err := json.Unmarshal(body, &predictResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if predictResp.Success == nil {
		return nil, fmt.Errorf("%w: missing success flag", ErrMalformedResponse)
	}
	if !*predictResp.Success {
		if predictResp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, predictResp.Error)
		}
		return nil, ErrUnsuccessful
	}

	if predictResp.PredictedPrice == nil {
		return nil, fmt.Errorf("%w: missing predicted_price", ErrMalformedResponse)
	}
	price := *predictResp.PredictedPrice
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("%w: predicted_price is not finite", ErrMalformedResponse)
	}

	return &models.PredictionResult{Price: price, Success: true}, nil
}
