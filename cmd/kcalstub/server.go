package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"kcal/internal/predict"
)

// server holds the handlers' shared dependencies.
type server struct {
	model  *Model
	logger *zap.Logger
}

// newRouter wires the routes with CORS and request logging.
func newRouter(s *server) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(s.loggingMiddleware(r))
}

// predictPayload uses pointers so absent fields can be told apart from zero.
type predictPayload struct {
	Age       *float64 `json:"age"`
	Duration  *float64 `json:"duration"`
	HeartRate *float64 `json:"heart_rate"`
	BodyTemp  *float64 `json:"body_temp"`
}

type predictionResponse struct {
	CaloriesBurnt float64 `json:"calories_burnt"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var payload predictPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body"})
		return
	}

	var missing []string
	for name, v := range map[string]*float64{
		"age":        payload.Age,
		"duration":   payload.Duration,
		"heart_rate": payload.HeartRate,
		"body_temp":  payload.BodyTemp,
	} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity,
			errorResponse{Detail: "field required: " + strings.Join(missing, ", ")})
		return
	}

	calories := s.model.Predict(predict.Request{
		Age:       *payload.Age,
		Duration:  *payload.Duration,
		HeartRate: *payload.HeartRate,
		BodyTemp:  *payload.BodyTemp,
	})

	s.writeJSON(w, http.StatusOK, predictionResponse{CaloriesBurnt: calories})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// responseWrapper captures the status code for the request log.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)))
	})
}
