package engine_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/diabetes-check/internal/config"
	"github.com/daryltucker/diabetes-check/internal/engine"
	"github.com/daryltucker/diabetes-check/internal/model"
)

func newClient(url string) *engine.Client {
	return engine.New(&config.Config{BaseURL: url})
}

func jsonReply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestRequestNonJSONSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	data, err := c.Request(context.Background(), "/", engine.Options{})
	require.NoError(t, err)

	var st model.Status
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, "Non-JSON response received", st.Message)
	assert.True(t, c.Connected())
}

func TestRequestNonJSONFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<h1>Internal Server Error</h1>"))
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	_, err := c.Request(context.Background(), "/api/predict", engine.Options{Method: http.MethodPost})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.True(t, errors.Is(err, engine.ErrServer))
	assert.False(t, c.Connected())

	var apiErr *engine.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestRequestJSONErrorMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusNotFound, `{"error":"not found"}`, "not found"},
		{"message field", http.StatusBadRequest, `{"message":"bad request body"}`, "bad request body"},
		{"error wins over message", http.StatusBadRequest, `{"error":"first","message":"second"}`, "first"},
		{"error list", http.StatusBadRequest, `{"success":false,"error":["age is required","glucose out of range"]}`, "age is required, glucose out of range"},
		{"empty error falls through", http.StatusConflict, `{"error":"","message":"conflict"}`, "conflict"},
		{"no message", http.StatusServiceUnavailable, `{"success":false}`, "HTTP Error 503"},
		{"non-object body", http.StatusBadGateway, `[1,2]`, "HTTP Error 502"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				jsonReply(w, tc.status, tc.body)
			}))
			defer ts.Close()

			_, err := newClient(ts.URL).Request(context.Background(), "/x", engine.Options{})
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
			assert.True(t, errors.Is(err, engine.ErrServer))
		})
	}
}

func TestRequestParseError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonReply(w, http.StatusOK, `{"success": tru`)
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	_, err := c.Request(context.Background(), "/health", engine.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrParse))
	assert.False(t, c.Connected())
}

func TestRequestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := newClient(url)
	_, err := c.Request(context.Background(), "/health", engine.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNetwork))
	assert.False(t, c.Connected())
}

func TestRequestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := engine.New(&config.Config{BaseURL: ts.URL, RequestTimeout: 50 * time.Millisecond})
	_, err := c.Request(context.Background(), "/health", engine.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNetwork))
}

func TestRequestDefaults(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		jsonReply(w, http.StatusOK, `{"status":"healthy"}`)
	}))
	defer ts.Close()

	// No leading slash, trailing slash on the base URL.
	_, err := newClient(ts.URL+"/").Request(context.Background(), "health", engine.Options{})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/health", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
}

func TestRequestStringBodyIsSentVerbatim(t *testing.T) {
	var body bytes.Buffer
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = body.ReadFrom(r.Body)
		jsonReply(w, http.StatusOK, `{}`)
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Request(context.Background(), "/echo", engine.Options{Method: "post", Body: `{"raw":true}`})
	require.NoError(t, err)
	assert.Equal(t, `{"raw":true}`, body.String())
}

func TestPredictNilPayload(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		jsonReply(w, http.StatusOK, `{"success":true}`)
	}))
	defer ts.Close()

	res, err := newClient(ts.URL).Predict(context.Background(), nil)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrValidation))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestPredict(t *testing.T) {
	var sent map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, engine.PathPredict, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		jsonReply(w, http.StatusOK, `{
			"success": true,
			"label": "Diabetic",
			"risk_level": "Tinggi",
			"probability_percent": 81.25,
			"model_info": {"name": "Decision Tree", "accuracy": 0.93},
			"feature_importance": [{"name": "glucose", "value": 52.1}, {"name": "bmi", "value": 20}]
		}`)
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	res, err := c.Predict(context.Background(), model.PredictionRequest{"age": 50, "glucose": 9.1, "gender": "Male"})
	require.NoError(t, err)
	assert.True(t, c.Connected())

	assert.Equal(t, float64(50), sent["age"])
	assert.Equal(t, 9.1, sent["glucose"])
	assert.Equal(t, "Male", sent["gender"])

	assert.True(t, res.Success)
	assert.True(t, res.IsDiabetic())
	assert.Equal(t, "Tinggi", res.RiskLevel)
	assert.Equal(t, 81.25, res.ProbabilityPercent)
	require.NotNil(t, res.ModelInfo)
	assert.Equal(t, "Decision Tree", res.ModelInfo.Name)
	require.Len(t, res.FeatureImportance, 2)
	assert.Equal(t, "glucose", res.FeatureImportance[0].Name)
}

func TestPredictBusinessFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonReply(w, http.StatusOK, `{"success":false,"error":"Model not ready"}`)
	}))
	defer ts.Close()

	res, err := newClient(ts.URL).Predict(context.Background(), model.PredictionRequest{"age": 1})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Model not ready", string(res.Error))
}

func TestDownloadReport(t *testing.T) {
	var sent model.ReportRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, engine.PathDownloadReport, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		jsonReply(w, http.StatusOK, `{"success":true,"download_url":"/static/reports/Laporan_1.pdf"}`)
	}))
	defer ts.Close()

	res, err := newClient(ts.URL).DownloadReport(context.Background(), model.ReportRequest{
		InputData:   model.PredictionRequest{"age": 40},
		Label:       "Non-Diabetic",
		Probability: 12.5,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "/static/reports/Laporan_1.pdf", res.DownloadURL)
	assert.Equal(t, "Non-Diabetic", sent.Label)
	assert.Equal(t, 12.5, sent.Probability)
	assert.Equal(t, float64(40), sent.InputData["age"])
}

func TestLogsAndModelInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case engine.PathLogs:
			jsonReply(w, http.StatusOK, `{"success":true,"logs":[{"label":"Diabetic","probability":80}]}`)
		case engine.PathModelInfo:
			jsonReply(w, http.StatusOK, `{"model_name":"Decision Tree","accuracy":0.91}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	logs, err := c.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, "Diabetic", logs.Logs[0]["label"])

	info, err := c.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Decision Tree", info["model_name"])
}

func TestCheckConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, engine.PathHealth, r.URL.Path)
		jsonReply(w, http.StatusOK, `{"status":"healthy"}`)
	}))
	defer ts.Close()

	st, err := newClient(ts.URL).CheckConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", st.Status)
}

func TestResolveURL(t *testing.T) {
	c := newClient("http://backend.example:8000")

	u, err := c.ResolveURL("/static/reports/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://backend.example:8000/static/reports/a.pdf", u)

	u, err = c.ResolveURL("https://cdn.example/r.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/r.pdf", u)
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/static/reports/a.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer ts.Close()

	c := newClient(ts.URL)
	var buf bytes.Buffer
	n, err := c.Fetch(context.Background(), ts.URL+"/static/reports/a.pdf", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "%PDF-1.4", buf.String())

	_, err = c.Fetch(context.Background(), ts.URL+"/missing.pdf", &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrServer))
}
