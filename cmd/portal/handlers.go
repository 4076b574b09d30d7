package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addbook"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addcopy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/cancelhold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkin"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkout"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/placehold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/removebook"
)

const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"

	defaultActorID   = "anonymous"
	defaultActorRole = "patron"

	msgMalformedBody = "Request body is not valid JSON."
	msgMalformedID   = "Identifier is not a valid UUID."
)

var json = jsoniter.ConfigFastest

type server struct {
	deps routerDeps
}

// response is the caller-facing envelope: the tagged result plus the
// affected entity on success.
type response struct {
	circulation.Result
	Data any `json:"data,omitempty"`
}

type addBookRequest struct {
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	ISBN           string   `json:"isbn"`
	Classification string   `json:"classification"`
	Location       string   `json:"location"`
	Tags           []string `json:"tags"`
}

type addCopyRequest struct {
	Barcode string `json:"barcode"`
}

type checkoutRequest struct {
	BookID       string `json:"book_id"`
	CopyID       string `json:"copy_id"`
	BorrowerID   string `json:"borrower_id"`
	BorrowerName string `json:"borrower_name"`
	DueDate      string `json:"due_date"`
}

type checkinRequest struct {
	LoanID     string `json:"loan_id"`
	Identifier string `json:"identifier"`
}

type placeHoldRequest struct {
	PatronID string `json:"patron_id"`
	BookID   string `json:"book_id"`
}

func (s *server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if !s.decode(w, r, &req) {
		return
	}

	command := addbook.BuildCommand(
		req.Title, req.Author, req.ISBN, req.Classification, req.Location, req.Tags,
		actorFromRequest(r), time.Now(),
	)

	s.perform(w, "Book added.", func() (any, error) {
		return s.deps.addBook.Handle(r.Context(), command)
	})
}

func (s *server) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.parseID(w, chi.URLParam(r, "bookID"))
	if !ok {
		return
	}

	command := removebook.BuildCommand(bookID, actorFromRequest(r), time.Now())

	s.perform(w, "Book removed.", func() (any, error) {
		return nil, s.deps.removeBook.Handle(r.Context(), command)
	})
}

func (s *server) handleAddCopy(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.parseID(w, chi.URLParam(r, "bookID"))
	if !ok {
		return
	}

	var req addCopyRequest
	if !s.decode(w, r, &req) {
		return
	}

	command := addcopy.BuildCommand(bookID, req.Barcode, actorFromRequest(r), time.Now())

	s.perform(w, "Copy added.", func() (any, error) {
		return s.deps.addCopy.Handle(r.Context(), command)
	})
}

func (s *server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !s.decode(w, r, &req) {
		return
	}

	bookID, ok := s.parseID(w, req.BookID)
	if !ok {
		return
	}

	copyID := uuid.Nil
	if req.CopyID != "" {
		if copyID, ok = s.parseID(w, req.CopyID); !ok {
			return
		}
	}

	command := checkout.BuildCommand(
		bookID, copyID, req.BorrowerID, req.BorrowerName, req.DueDate,
		actorFromRequest(r), time.Now(),
	)

	s.perform(w, "Book checked out.", func() (any, error) {
		return s.deps.checkout.Handle(r.Context(), command)
	})
}

func (s *server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if !s.decode(w, r, &req) {
		return
	}

	loanID := uuid.Nil
	if req.LoanID != "" {
		var ok bool
		if loanID, ok = s.parseID(w, req.LoanID); !ok {
			return
		}
	}

	command := checkin.BuildCommand(loanID, req.Identifier, actorFromRequest(r), time.Now())

	s.perform(w, "Book checked in.", func() (any, error) {
		return s.deps.checkin.Handle(r.Context(), command)
	})
}

func (s *server) handlePlaceHold(w http.ResponseWriter, r *http.Request) {
	var req placeHoldRequest
	if !s.decode(w, r, &req) {
		return
	}

	bookID, ok := s.parseID(w, req.BookID)
	if !ok {
		return
	}

	command := placehold.BuildCommand(req.PatronID, bookID, actorFromRequest(r), time.Now())

	s.perform(w, "Hold placed.", func() (any, error) {
		return s.deps.placeHold.Handle(r.Context(), command)
	})
}

func (s *server) handleCancelHold(w http.ResponseWriter, r *http.Request) {
	holdID, ok := s.parseID(w, chi.URLParam(r, "holdID"))
	if !ok {
		return
	}

	// The acting patron is the claimed owner; ownership is verified
	// against the stored hold.
	actor := actorFromRequest(r)
	command := cancelhold.BuildCommand(holdID, actor.ID, actor, time.Now())

	s.perform(w, "Hold canceled.", func() (any, error) {
		return s.deps.cancelHold.Handle(r.Context(), command)
	})
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.perform(w, "Dashboard computed.", func() (any, error) {
		return s.deps.dashboard.Handle(r.Context(), time.Now())
	})
}

// perform runs the operation through the engine boundary and writes the
// enveloped outcome. The HTTP status follows the error category; the body
// never carries more detail than the displayable message.
func (s *server) perform(w http.ResponseWriter, successMessage string, op func() (any, error)) {
	var (
		data  any
		opErr error
	)

	result := circulation.Perform(s.deps.logger, successMessage, func() error {
		data, opErr = op()
		return opErr
	})

	if result.Status == circulation.StatusError {
		s.writeJSON(w, statusCodeFor(opErr), response{Result: result})
		return
	}

	s.writeJSON(w, http.StatusOK, response{Result: result, Data: data})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Result: circulation.ErrorResult(msgMalformedBody)})
		return false
	}

	return true
}

func (s *server) parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Result: circulation.ErrorResult(msgMalformedID)})
		return uuid.Nil, false
	}

	return id, true
}

func (s *server) writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.deps.logger.Error("failed to encode response", "error", err.Error())
	}
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, circulation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, circulation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, circulation.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, circulation.ErrConflict),
		errors.Is(err, circulation.ErrDuplicateHold),
		errors.Is(err, circulation.ErrAlreadyReturned),
		errors.Is(err, circulation.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func actorFromRequest(r *http.Request) circulation.Actor {
	actorID := r.Header.Get(headerActorID)
	if actorID == "" {
		actorID = defaultActorID
	}

	actorRole := r.Header.Get(headerActorRole)
	if actorRole == "" {
		actorRole = defaultActorRole
	}

	return circulation.Actor{ID: actorID, Role: actorRole}
}
