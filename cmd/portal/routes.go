package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addbook"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addcopy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/cancelhold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkin"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/checkout"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/dashboard"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/placehold"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/removebook"
)

type routerDeps struct {
	logger     circulation.Logger
	addBook    addbook.CommandHandler
	addCopy    addcopy.CommandHandler
	removeBook removebook.CommandHandler
	checkout   checkout.CommandHandler
	checkin    checkin.CommandHandler
	placeHold  placehold.CommandHandler
	cancelHold cancelhold.CommandHandler
	dashboard  dashboard.QueryHandler
}

func newRouter(deps routerDeps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/books", s.handleAddBook)
		r.Delete("/books/{bookID}", s.handleRemoveBook)
		r.Post("/books/{bookID}/copies", s.handleAddCopy)

		r.Post("/checkouts", s.handleCheckout)
		r.Post("/checkins", s.handleCheckin)

		r.Post("/holds", s.handlePlaceHold)
		r.Delete("/holds/{holdID}", s.handleCancelHold)

		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}
