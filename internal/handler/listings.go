package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/session"
	"github.com/msomdec/staybook/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// featuredCount is how many homes the landing page shows.
const featuredCount = 6

// ListingHandler serves the listing pages and the favourite toggle.
type ListingHandler struct {
	listings domain.ListingAPI
	assetURL func(photo string) string
}

// NewListingHandler creates a new ListingHandler. assetURL resolves listing
// photo paths to absolute URLs.
func NewListingHandler(listings domain.ListingAPI, assetURL func(photo string) string) *ListingHandler {
	return &ListingHandler{listings: listings, assetURL: assetURL}
}

func (h *ListingHandler) card(home domain.Home, snap session.Snapshot, actions bool) view.Card {
	return view.Card{
		ID:          home.ID,
		Name:        home.HouseName,
		Location:    home.Location,
		Price:       home.Price.String(),
		Rating:      home.Rating.String(),
		Description: home.Description,
		PhotoURL:    h.assetURL(home.Photo),
		Favourite:   snap.User.HasFavourite(home.ID),
		Actions:     actions,
		Guest:       !snap.LoggedIn(),
	}
}

func (h *ListingHandler) cards(homes []domain.Home, snap session.Snapshot, actions bool) []view.Card {
	out := make([]view.Card, 0, len(homes))
	for _, home := range homes {
		out = append(out, h.card(home, snap, actions))
	}
	return out
}

func (h *ListingHandler) fetchFailed(w http.ResponseWriter, r *http.Request, snap session.Snapshot, what string, err error) {
	slog.Error("fetch "+what, "error", err)
	render(w, r, http.StatusBadGateway, view.ErrorPage(navFor(snap), http.StatusBadGateway, "Unavailable", "Failed to fetch "+what+"."))
}

// HandleHome renders the landing page.
// GET /{$}
func (h *ListingHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	homes, err := h.listings.Homes(r.Context())
	if err != nil {
		h.fetchFailed(w, r, snap, "homes", err)
		return
	}

	featured := homes[:min(len(homes), featuredCount)]
	render(w, r, http.StatusOK, view.HomePage(navFor(snap), h.cards(featured, snap, false), len(homes) > featuredCount))
}

// HandleHomes lists all homes.
// GET /homes
func (h *ListingHandler) HandleHomes(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	homes, err := h.listings.Homes(r.Context())
	if err != nil {
		h.fetchFailed(w, r, snap, "homes", err)
		return
	}
	render(w, r, http.StatusOK, view.HomesPage(navFor(snap), h.cards(homes, snap, true)))
}

// HandleHomeDetail renders one home.
// GET /homes/{homeID}
func (h *ListingHandler) HandleHomeDetail(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	home, err := h.listings.Home(r.Context(), r.PathValue("homeID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			render(w, r, http.StatusNotFound, view.ErrorPage(navFor(snap), http.StatusNotFound, "Not Found", "This home does not exist."))
			return
		}
		h.fetchFailed(w, r, snap, "home details", err)
		return
	}
	render(w, r, http.StatusOK, view.HomeDetailPage(navFor(snap), h.card(*home, snap, true)))
}

// HandleFavourites lists the user's favourite homes. Guarded.
// GET /favourites
func (h *ListingHandler) HandleFavourites(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	homes, err := h.listings.Favourites(r.Context(), snap.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			SessionFromContext(r.Context()).Logout(r.Context())
			redirectToLogin(w, r)
			return
		}
		h.fetchFailed(w, r, snap, "favourites", err)
		return
	}

	cards := h.cards(homes, snap, true)
	for i := range cards {
		cards[i].Favourite = true
	}
	render(w, r, http.StatusOK, view.FavouritesPage(navFor(snap), cards))
}

// HandleToggleFavourite adds or removes a favourite on the remote API, then
// patches the session and swaps the button over SSE. On failure the button
// is re-sent unchanged. Guarded.
// POST /favourites/{homeID}/toggle
func (h *ListingHandler) HandleToggleFavourite(w http.ResponseWriter, r *http.Request) {
	store := SessionFromContext(r.Context())
	snap := store.Snapshot()
	homeID := r.PathValue("homeID")

	isFavourite := snap.User.HasFavourite(homeID)
	var err error
	if isFavourite {
		err = h.listings.RemoveFavourite(r.Context(), snap.Token, homeID)
	} else {
		err = h.listings.AddFavourite(r.Context(), snap.Token, homeID)
	}

	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			store.Logout(r.Context())
			redirectToLogin(w, r)
			return
		}
		slog.Error("toggle favourite", "home_id", homeID, "error", err)
	} else {
		isFavourite = !isFavourite
		store.UpdateUserFavorites(homeID, isFavourite)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(
		view.FavouriteButton(homeID, isFavourite),
		datastar.WithSelectorID(view.FavouriteButtonID(homeID)),
	); err != nil {
		slog.Error("patch favourite button", "error", err)
	}
}

// HandleBookings renders the bookings placeholder. Guarded.
// GET /bookings
func (h *ListingHandler) HandleBookings(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.BookingsPage(navFor(snapshotFrom(r))))
}
