package inbound_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"otpgate/internal/otp"
	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/codegen"
	"otpgate/internal/pkg/config"
	"otpgate/internal/pkg/goroutine"
	"otpgate/internal/pkg/hash"
	"otpgate/internal/pkg/instrument"
	"otpgate/internal/pkg/router"
	"otpgate/internal/pkg/uid"
	"otpgate/internal/pkg/validator"
)

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  maintenance:
    endpoints: ""
otp:
  expiry_seconds: 30
`))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	snow, err := uid.NewSnowflake()
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}

	ins := instrument.NewNoop()
	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: ins,
	})

	if err := otp.New(otp.Dependency{
		Config:     cfg,
		Instrument: ins,
		Router:     r,
		Goroutine:  goroutine.NewManager(10),
		Validator:  v,
		Clock:      clock.New(),
		HMAC:       hash.NewHMACSHA256("test-secret"),
		UID:        snow,
		Codes:      codegen.NewNumeric(),
	}); err != nil {
		t.Fatalf("init otp module: %v", err)
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, payload any) (int, []byte) {
	t.Helper()

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		t.Fatalf("encode json: %v", err)
	}

	resp, err := srv.Client().Post(srv.URL+path, "application/json", buf)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	body := &bytes.Buffer{}
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp.StatusCode, body.Bytes()
}

func TestHTTPGenerate(t *testing.T) {

	t.Run("IssuesCode", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)

		// Act
		status, body := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})

		// Assert
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", status, body)
		}

		var env successEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		var data struct {
			Code             string `json:"code"`
			ExpiresInSeconds int64  `json:"expires_in_seconds"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if !regexp.MustCompile(`^\d{6}$`).MatchString(data.Code) {
			t.Fatalf("expected 6-digit code, got %q", data.Code)
		}
		if data.ExpiresInSeconds != 30 {
			t.Fatalf("expected 30s expiry, got %d", data.ExpiresInSeconds)
		}
	})

	t.Run("DuplicateKeyConflicts", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)
		postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})

		// Act
		status, body := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})

		// Assert
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", status, body)
		}
	})

	t.Run("MissingKeyIsUnprocessable", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)

		// Act
		status, body := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{})

		// Assert
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", status, body)
		}

		var env errorEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.Message == "" {
			t.Fatalf("expected error message")
		}
	})

	t.Run("UnknownFieldIsBadRequest", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)

		// Act
		status, _ := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1", "extra": "x"})

		// Assert
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
	})
}

func TestHTTPVerify(t *testing.T) {

	t.Run("FullFlow", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)
		_, body := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})
		var env successEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		var issued struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(env.Data, &issued); err != nil {
			t.Fatalf("decode data: %v", err)
		}

		verify := func(code string) bool {
			status, body := postJSON(t, srv, "/api/v1/otp/verify", map[string]string{"key": "user-1", "code": code})
			if status != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", status, body)
			}
			var env successEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			var data struct {
				Valid bool `json:"valid"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			return data.Valid
		}

		// Act & Assert
		if !verify(issued.Code) {
			t.Fatalf("expected issued code to verify")
		}
		if verify(issued.Code) {
			t.Fatalf("expected consumed code to be rejected")
		}
	})

	t.Run("WrongCodeConsumesRecord", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)
		_, body := postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})
		var env successEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		var issued struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(env.Data, &issued); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		wrong := "000000"
		if wrong == issued.Code {
			wrong = "000001"
		}

		// Act
		status, _ := postJSON(t, srv, "/api/v1/otp/verify", map[string]string{"key": "user-1", "code": wrong})

		// Assert
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}

		// A wrong guess burns the record, so the key is free again.
		status, _ = postJSON(t, srv, "/api/v1/otp/generate", map[string]string{"key": "user-1"})
		if status != http.StatusOK {
			t.Fatalf("expected re-generate after burned record, got %d", status)
		}
	})

	t.Run("UnknownKeyIsInvalid", func(t *testing.T) {

		// Arrange
		srv := newTestServer(t)

		// Act
		status, body := postJSON(t, srv, "/api/v1/otp/verify", map[string]string{"key": "ghost", "code": "123456"})

		// Assert
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", status, body)
		}
		var env successEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		var data struct {
			Valid bool `json:"valid"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if data.Valid {
			t.Fatalf("expected invalid result for unknown key")
		}
	})
}
