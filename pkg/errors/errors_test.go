package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetaKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := tt.code.Meta()
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetaUnknownCodeDefaultsToInternal(t *testing.T) {
	if meta := Code("SOMETHING_UNKNOWN").Meta(); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCauseAndCode(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "load orders")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	outer := fmt.Errorf("advance: %w", wrapped)
	if !IsCode(outer, CodeDependency) {
		t.Fatalf("expected dependency code through wrapping")
	}
	if IsCode(outer, CodeNotFound) {
		t.Fatalf("unexpected not found code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad quantity").WithDetails(map[string]string{"quantity": "min"})
	if err.Details() == nil {
		t.Fatalf("details should be preserved")
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "user_stats_user_id_key", TableName: "user_stats"}
	dump := Dump(Wrap(CodeConflict, pgErr, "insert stats"))
	if dump.PG == nil || dump.PG.Code != pgUniqueViolation || dump.PG.Table != "user_stats" {
		t.Fatalf("unexpected dump %+v", dump)
	}
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", dump.Code)
	}

	pqDump := Dump(&pq.Error{Code: "23503", Table: "order_items"})
	if pqDump.PG == nil || pqDump.PG.Code != "23503" || pqDump.PG.Table != "order_items" {
		t.Fatalf("unexpected pq dump %+v", pqDump)
	}
}

func TestDumpWithoutDriverError(t *testing.T) {
	dump := Dump(Wrap(CodeNotFound, stdErrors.New("record not found"), "order not found"))
	if dump.PG != nil {
		t.Fatalf("expected no postgres details, got %+v", dump.PG)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two links in chain, got %v", dump.Chain)
	}
}

func TestPublicMessageAndDetails(t *testing.T) {
	stale := New(CodeStateConflict, "order is cancelled").WithDetails(map[string]string{"status": "cancelled"})
	if stale.PublicMessage() != "order is cancelled" || stale.PublicDetails() == nil {
		t.Fatalf("state conflicts should expose message and details")
	}

	internal := Wrap(CodeInternal, stdErrors.New("dial tcp: refused"), "load menu").WithDetails("secret")
	if internal.PublicMessage() != "internal server error" || internal.PublicDetails() != nil {
		t.Fatalf("internal errors must not leak: %q %v", internal.PublicMessage(), internal.PublicDetails())
	}

	denied := New(CodeForbidden, "").WithDetails("role")
	if denied.PublicMessage() != "access denied" || denied.PublicDetails() != nil {
		t.Fatalf("empty messages fall back to the public text")
	}

	if got := Newf(CodeNotFound, "menu item %d missing", 7).Message(); got != "menu item 7 missing" {
		t.Fatalf("unexpected Newf message %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: pgUniqueViolation}) {
		t.Fatal("expected pgx unique violation")
	}
	if !IsUniqueViolation(stdErrors.New("UNIQUE constraint failed: user_stats.user_id")) {
		t.Fatal("expected sqlite unique violation")
	}
	if IsUniqueViolation(stdErrors.New("connection reset")) {
		t.Fatal("unexpected unique violation")
	}
}
