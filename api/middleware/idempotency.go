package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leduxro-prog/erp-dashboard-sub012/api/responses"
	pkgerrors "github.com/leduxro-prog/erp-dashboard-sub012/pkg/errors"
	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/logger"
	pkgredis "github.com/leduxro-prog/erp-dashboard-sub012/pkg/redis"
)

// checkout retries may arrive days later from queued clients
const checkoutIdempotencyTTL = 7 * 24 * time.Hour

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

type replayRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *replayRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *replayRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}

// Idempotency makes POST /api/v1/checkout safe to retry: the first response
// for a given Idempotency-Key is stored and replayed verbatim, and reusing
// a key with a different body is rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || r.Method != http.MethodPost || r.URL.Path != "/api/v1/checkout" {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey("checkout", idempotencyKey)

			stored, getErr := store.Get(r.Context(), key)
			if getErr != nil && !pkgredis.IsCacheMiss(getErr) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			}
			if getErr == nil {
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err == nil {
					if record.RequestHash != requestHash {
						responses.WriteError(r.Context(), logg, w,
							pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request"))
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotent-Replay", "true")
					w.WriteHeader(record.Status)
					_, _ = w.Write([]byte(record.Body))
					return
				}
			}

			rec := &replayRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			record := idempotencyRecord{
				Status:      rec.status,
				Body:        rec.buf.String(),
				RequestHash: requestHash,
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				return
			}
			if _, err := store.SetNX(r.Context(), key, string(encoded), checkoutIdempotencyTTL); err != nil && logg != nil {
				logg.Error(r.Context(), "store idempotency record", err)
			}
		})
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
