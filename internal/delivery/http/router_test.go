package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-queue/config"
	"clinic-queue/internal/delivery/http/handler"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/delivery/ws"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/repository/memory"
	"clinic-queue/internal/service"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/jwt"
	"clinic-queue/pkg/metrics"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// hubPublisher delivers events straight to the display hub
type hubPublisher struct {
	hub *ws.Hub
}

func (p hubPublisher) Publish(ctx context.Context, event entity.QueueEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.hub.Broadcast(payload)
	return nil
}

type testServer struct {
	server *httptest.Server
	jwt    *jwt.JWTService
	hub    *ws.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("clinic_queue", reg)

	store := memory.NewStore()
	staffRepo := memory.NewStaffRepository(store)
	patientRepo := memory.NewPatientRepository(store)
	ticketRepo := memory.NewTicketRepository(store)
	auditRepo := memory.NewAuditLogRepository(store)
	callRepo := memory.NewTicketCallRepository(store)

	codes := service.NewCodeGenerator(patientRepo, ticketRepo)
	directory := service.NewPatientDirectory(patientRepo, codes)
	ledger := service.NewTicketLedger(ticketRepo, codes)
	auditService := service.NewAuditService(log, auditRepo)
	identityLock := service.NewIdentityLock(log)
	hub := ws.NewHub(log, m)
	notifier := service.NewNotifier(hubPublisher{hub: hub}, log, m, time.Second)

	v := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-test"})

	router := NewRouter(
		handler.NewRegistrationHandler(usecase.NewRegistrationUsecase(store, log, staffRepo, directory, ledger, auditService, identityLock, notifier, m, 3), v),
		handler.NewReceptionHandler(usecase.NewReceptionUsecase(store, log, staffRepo, patientRepo, ticketRepo, callRepo, ledger, auditService, notifier), v),
		handler.NewDoctorHandler(usecase.NewDoctorUsecase(store, log, staffRepo, ledger, auditService, notifier), v),
		handler.NewStaffHandler(usecase.NewStaffUsecase(store, log, staffRepo, auditService), v),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(store, log, auditRepo)),
		hub,
		reg,
		middleware.NewAuthMiddleware(jwtService, nil),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		middleware.NewMetricsMiddleware(m),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: rate.Inf}),
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(func() {
		hub.Close()
		server.Close()
		notifier.Stop()
		identityLock.Stop()
	})
	return &testServer{server: server, jwt: jwtService, hub: hub}
}

func (s *testServer) token(t *testing.T, roleID int) string {
	t.Helper()
	return s.tokenFor(t, uuid.New(), roleID)
}

func (s *testServer) tokenFor(t *testing.T, userID uuid.UUID, roleID int) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, roleID, time.Minute)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func dataField(t *testing.T, body response.Response, key string) interface{} {
	t.Helper()
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", body.Data)
	return data[key]
}

func TestRouter_RegistrationFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, entity.RoleIDAdmin)
	registrar := s.token(t, entity.RoleIDRegistrar)
	doctorToken := s.token(t, entity.RoleIDDoctor)

	status, body := s.do(t, http.MethodPost, "/api/v1/admin/staff", admin, map[string]string{
		"username":  "ana",
		"full_name": "Dr. Ana",
		"password":  "long-enough-password",
		"role":      "doctor",
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	doctorID := dataField(t, body, "id").(string)

	registration := map[string]string{"name": "Maria Lopez", "doctor_id": doctorID, "motive": "consultation"}
	status, body = s.do(t, http.MethodPost, "/api/v1/registrations", registrar, registration)
	require.Equal(t, http.StatusCreated, status, body.Message)
	assert.Equal(t, "new", dataField(t, body, "tag"))
	assert.Equal(t, "A-C-001-T1", dataField(t, body, "ticket_code"))

	status, body = s.do(t, http.MethodPost, "/api/v1/registrations", registrar, registration)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "reissue", dataField(t, body, "tag"))
	assert.Equal(t, "A-C-001-T1", dataField(t, body, "previous_ticket_code"))
	assert.Equal(t, "A-C-001-T2", dataField(t, body, "ticket_code"))

	status, body = s.do(t, http.MethodGet, "/api/v1/reception/queue", doctorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, dataField(t, body, "total_waiting"))

	status, body = s.do(t, http.MethodGet, "/api/v1/reception/lookup/a-c-001-t1", registrar, nil)
	require.Equal(t, http.StatusOK, status)
	active := dataField(t, body, "active_ticket").(map[string]interface{})
	assert.Equal(t, "A-C-001-T2", active["ticket_code"])
}

func TestRouter_AccessControl(t *testing.T) {
	s := newTestServer(t)
	doctorToken := s.token(t, entity.RoleIDDoctor)
	registrar := s.token(t, entity.RoleIDRegistrar)

	status, _ := s.do(t, http.MethodPost, "/api/v1/registrations", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/registrations", doctorToken, map[string]string{})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/admin/staff", registrar, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodPost, "/api/v1/registrations", registrar, map[string]string{
		"name": "Juan", "doctor_id": uuid.NewString(), "motive": "consultation",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "doctor not found", body.Message)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	resp, err := http.Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `clinic_queue_http_requests_total{method="GET",path="/api/v1/health",status="200"} 1`)
}

func TestRouter_DisplayReceivesRegistrationEvents(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, entity.RoleIDAdmin)

	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/v1/display/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	status, body := s.do(t, http.MethodPost, "/api/v1/admin/staff", admin, map[string]string{
		"username": "bruno", "full_name": "Dr. Bruno", "password": "long-enough-password", "role": "doctor",
	})
	require.Equal(t, http.StatusCreated, status)
	doctorID := dataField(t, body, "id").(string)

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	status, _ = s.do(t, http.MethodPost, "/api/v1/registrations", admin, map[string]string{
		"name": "Pedro", "doctor_id": doctorID, "motive": "checkup",
	})
	require.Equal(t, http.StatusCreated, status)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event entity.QueueEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, entity.EventRegistrationNew, event.Type)
	assert.Contains(t, fmt.Sprint(event.Payload), "B-C-001-T1")
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/registrations", "/api/v1/admin/staff/" + uuid.NewString() + "/active"} {
		req, err := http.NewRequest(http.MethodOptions, s.server.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://reception.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch, path)
	}

	// CORS headers are also set on regular responses, including errors
	resp, err := http.Get(s.server.URL + "/api/v1/reception/queue")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_DoctorSelfServiceAndScreenBoard(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, entity.RoleIDAdmin)
	reception := s.token(t, entity.RoleIDReception)

	status, body := s.do(t, http.MethodPost, "/api/v1/admin/staff", admin, map[string]string{
		"username": "carla", "full_name": "Dra. Carla", "password": "long-enough-password", "role": "doctor",
	})
	require.Equal(t, http.StatusCreated, status)
	doctorID := uuid.MustParse(dataField(t, body, "id").(string))
	doctor := s.tokenFor(t, doctorID, entity.RoleIDDoctor)

	status, body = s.do(t, http.MethodPost, "/api/v1/registrations", admin, map[string]string{
		"name": "Lucia", "doctor_id": doctorID.String(), "motive": "consultation",
	})
	require.Equal(t, http.StatusCreated, status)
	patientTicket := dataField(t, body, "ticket_code").(string)

	status, body = s.do(t, http.MethodGet, "/api/v1/doctor/queue", doctor, nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.EqualValues(t, 1, dataField(t, body, "total"))

	status, _ = s.do(t, http.MethodGet, "/api/v1/doctor/queue", reception, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPatch, "/api/v1/doctor/status", doctor, map[string]string{"status": "busy"})
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.Equal(t, "busy", dataField(t, body, "status"))

	status, _ = s.do(t, http.MethodPatch, "/api/v1/doctor/status", doctor, map[string]string{"status": "asleep"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/doctor/status", doctor, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "busy", dataField(t, body, "status"))

	status, body = s.do(t, http.MethodGet, "/api/v1/reception/queue", reception, nil)
	require.Equal(t, http.StatusOK, status)
	doctors := dataField(t, body, "doctors").([]interface{})
	require.Len(t, doctors, 1)
	ticketID := doctors[0].(map[string]interface{})["patients"].([]interface{})[0].(map[string]interface{})["ticket_id"].(string)

	status, body = s.do(t, http.MethodPost, "/api/v1/reception/tickets/"+ticketID+"/call", reception, map[string]int{"screen": 4})
	require.Equal(t, http.StatusOK, status, body.Message)

	// display screens read their board without a token
	status, body = s.do(t, http.MethodGet, "/api/v1/display/screens/4/calls", "", nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.EqualValues(t, 1, dataField(t, body, "total"))
	call := dataField(t, body, "calls").([]interface{})[0].(map[string]interface{})
	assert.Equal(t, patientTicket, call["ticket_code"])
	assert.Equal(t, "Dra. Carla", call["doctor_name"])
}
