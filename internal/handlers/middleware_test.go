package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_WritesOneLinePerRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	fd := &mockFeeder{}
	r := NewHandler(&service.Service{Feeder: fd}, log).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feeder/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d", w.Code)
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/v1/feeder/state" || fields["method"] != http.MethodGet {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("status field=%v (%T)", fields["status"], fields["status"])
	}
}

func TestLogAndJSONError_ClientErrorsNotLoggedAsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	r := NewHandler(&service.Service{Schedules: &mockSchedules{err: service.ErrScheduleNotFound}}, log).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 0 {
		t.Fatalf("expected no error-level logs, got %d", n)
	}
	if logs.FilterMessage("schedule_get_failed").Len() != 1 {
		t.Fatalf("expected info log for the miss")
	}
}
