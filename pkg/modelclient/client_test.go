package modelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduinsight/backend/config"
	apperrors "eduinsight/backend/pkg/errors"
)

func TestNew_EmptyBaseURL(t *testing.T) {
	c := New(&config.ModelServiceConfig{})
	assert.Nil(t, c)
	assert.ErrorIs(t, c.Train(context.Background(), TrainRequest{}), apperrors.ErrNotConfigured)
}

func TestTrain_Success(t *testing.T) {
	var got TrainRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/model/train", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(&config.ModelServiceConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
	err := c.Train(context.Background(), TrainRequest{
		ModelID:   7,
		ModelType: "student",
		Config:    map[string]any{"epochs": float64(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ModelID)
	assert.Equal(t, "student", got.ModelType)
	assert.Equal(t, float64(10), got.Config["epochs"])
}

func TestTrain_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(&config.ModelServiceConfig{BaseURL: srv.URL})
	err := c.Train(context.Background(), TrainRequest{ModelID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestTrain_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(&config.ModelServiceConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	assert.Error(t, c.Train(context.Background(), TrainRequest{ModelID: 1}))
}
