package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addbook"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addcopy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/cancelhold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkin"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkout"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/dashboard"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/placehold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/removebook"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/testutil/storagedouble"
)

func Test_Router_CheckoutRoundTrip(t *testing.T) {
	// arrange
	store := storagedouble.New()
	router := newTestRouter(store)

	bookID := uuid.New()
	store.SeedBook(circulation.Book{ID: bookID, Title: "Clean Code", Author: "Robert C. Martin", ISBN: "978-0-13-235088-4"})
	store.SeedCopy(circulation.Copy{ID: uuid.New(), BookID: bookID, Barcode: "CC-001", Status: circulation.CopyStatusAvailable})

	body := map[string]string{
		"book_id":       bookID.String(),
		"borrower_id":   "M-1001",
		"borrower_name": "Ada Lovelace",
		"due_date":      "2026-05-15",
	}

	// act
	rec := doJSON(t, router, http.MethodPost, "/api/checkouts", body)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Data    circulation.Loan `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, circulation.StatusSuccess, resp.Status)
	assert.Equal(t, "Book checked out.", resp.Message)
	assert.Equal(t, bookID, resp.Data.BookID)

	assert.Len(t, store.Loans(), 1, "The loan should be persisted")
}

func Test_Router_CheckoutWithoutCopies_Returns404WithResultBody(t *testing.T) {
	// arrange
	store := storagedouble.New()
	router := newTestRouter(store)

	body := map[string]string{
		"book_id":       uuid.NewString(),
		"borrower_id":   "M-1001",
		"borrower_name": "Ada Lovelace",
		"due_date":      "2026-05-15",
	}

	// act
	rec := doJSON(t, router, http.MethodPost, "/api/checkouts", body)

	// assert
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp circulation.Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, circulation.StatusError, resp.Status)
	assert.Equal(t, "No available copies for this title.", resp.Message)
}

func Test_Router_MalformedBody_Returns400(t *testing.T) {
	// arrange
	router := newTestRouter(storagedouble.New())

	req := httptest.NewRequest(http.MethodPost, "/api/checkouts", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	// act
	router.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Router_CancelForeignHold_Returns403(t *testing.T) {
	// arrange
	store := storagedouble.New()
	router := newTestRouter(store)

	hold := circulation.Hold{
		ID:       uuid.New(),
		PatronID: "M-1001",
		BookID:   uuid.New(),
		Status:   circulation.HoldStatusQueued,
		PlacedAt: time.Now(),
	}
	store.SeedHold(hold)

	req := httptest.NewRequest(http.MethodDelete, "/api/holds/"+hold.ID.String(), nil)
	req.Header.Set("X-Actor-ID", "M-2002")
	rec := httptest.NewRecorder()

	// act
	router.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_Router_Dashboard(t *testing.T) {
	// arrange
	store := storagedouble.New()
	router := newTestRouter(store)

	bookID := uuid.New()
	store.SeedBook(circulation.Book{ID: bookID, Title: "Clean Code", Author: "Robert C. Martin", ISBN: "978-0-13-235088-4"})
	store.SeedCopy(circulation.Copy{ID: uuid.New(), BookID: bookID, Barcode: "CC-001", Status: circulation.CopyStatusAvailable})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	// act
	router.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   dashboard.Summary `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, circulation.StatusSuccess, resp.Status)
	assert.Equal(t, dashboard.Summary{TotalBooks: 1, AvailableBooks: 1}, resp.Data)
}

func newTestRouter(store *storagedouble.Store) http.Handler {
	return newRouter(routerDeps{
		logger:     noopLogger{},
		addBook:    addbook.NewCommandHandler(store),
		addCopy:    addcopy.NewCommandHandler(store),
		removeBook: removebook.NewCommandHandler(store),
		checkout:   checkout.NewCommandHandler(store),
		checkin:    checkin.NewCommandHandler(store),
		placeHold:  placehold.NewCommandHandler(store),
		cancelHold: cancelhold.NewCommandHandler(store),
		dashboard:  dashboard.NewQueryHandler(store),
	})
}

func doJSON(t *testing.T, router http.Handler, method string, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	return rec
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

func (noopLogger) Info(string, ...any) {}

func (noopLogger) Warn(string, ...any) {}

func (noopLogger) Error(string, ...any) {}
