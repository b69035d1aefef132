package view

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Card is one listing as shown in a grid or on its detail page.
type Card struct {
	ID          string
	Name        string
	Location    string
	Price       string
	Rating      string
	Description string
	PhotoURL    string
	Favourite   bool
	// Actions shows the details link and favourite toggle instead of the
	// book button.
	Actions bool
	// Guest replaces the favourite toggle with a login prompt.
	Guest bool
}

func homePath(id string) string {
	return "/homes/" + url.PathEscape(id)
}

// FavouriteButtonID is the element id of a listing's favourite toggle.
func FavouriteButtonID(homeID string) string {
	return "fav-" + homeID
}

// FavouriteButton renders the toggle for one listing. Clicking it posts to
// the toggle endpoint, which answers with a replacement button.
func FavouriteButton(homeID string, favourite bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<button type="button" id="`)
		p.text(FavouriteButtonID(homeID))
		p.raw(`" class="favourite`)
		if favourite {
			p.raw(` active`)
		}
		p.raw(`" data-on:click="@post('`)
		p.text("/favourites/" + url.PathEscape(homeID) + "/toggle")
		p.raw(`')">`)
		if favourite {
			p.raw(`&#9829; remove from favourite`)
		} else {
			p.raw(`&#9825; Add to favourite`)
		}
		p.raw(`</button>`)
		return p.err
	})
}

// HomeCard renders a listing card.
func HomeCard(c Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<article class="home-card"><a href="`)
		p.text(homePath(c.ID))
		p.raw(`">`)
		if c.PhotoURL != "" {
			p.raw(`<img src="`)
			p.text(c.PhotoURL)
			p.raw(`" alt="`)
			p.text(c.Name)
			p.raw(`" crossorigin="anonymous">`)
		}
		p.raw(`<h3>`)
		p.text(c.Name)
		p.raw(`</h3></a><p class="location">`)
		p.text(c.Location)
		p.raw(`</p><div class="meta"><span class="price">Rs`)
		p.text(c.Price)
		p.raw(` / night</span><span class="rating">&#9733; `)
		p.text(c.Rating)
		p.raw(`</span></div>`)
		if c.Actions {
			p.raw(`<div class="actions"><a href="`)
			p.text(homePath(c.ID))
			p.raw(`">Details</a>`)
			if c.Guest {
				p.raw(`<a href="/login" class="favourite" title="Please login to save homes">&#9825; Add to favourite</a>`)
			} else {
				p.render(FavouriteButton(c.ID, c.Favourite))
			}
			p.raw(`</div>`)
		} else {
			p.raw(`<button type="button" class="book">Book</button>`)
		}
		p.raw(`</article>`)
		return p.err
	})
}

func cardGrid(cards []Card, empty string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		if len(cards) == 0 {
			p.raw(`<p class="empty">`)
			p.text(empty)
			p.raw(`</p>`)
			return p.err
		}
		p.raw(`<div class="grid">`)
		for _, c := range cards {
			p.render(HomeCard(c))
		}
		p.raw(`</div>`)
		return p.err
	})
}

// HomePage is the landing page with featured listings. more adds a link to
// the full list.
func HomePage(nav Nav, featured []Card, more bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<section class="hero"><h1>Find your next stay</h1>`)
		p.raw(`<p>Discover unique homes, apartments, and experiences around the world.</p>`)
		p.raw(`<a href="/homes" class="primary">Explore homes</a></section>`)
		p.raw(`<section><h2>Featured homes</h2>`)
		p.render(cardGrid(featured, "No homes available yet."))
		if more {
			p.raw(`<a href="/homes" class="primary">View all homes</a>`)
		}
		p.raw(`</section>`)
		return p.err
	})
	return Layout("Home", nav, body)
}

// HomesPage lists every listing.
func HomesPage(nav Nav, cards []Card) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<h1>All homes</h1>`)
		p.render(cardGrid(cards, "No homes found."))
		return p.err
	})
	return Layout("Homes", nav, body)
}

// HomeDetailPage shows a single listing.
func HomeDetailPage(nav Nav, c Card) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<article class="home-detail">`)
		if c.PhotoURL != "" {
			p.raw(`<img src="`)
			p.text(c.PhotoURL)
			p.raw(`" alt="`)
			p.text(c.Name)
			p.raw(`" crossorigin="anonymous">`)
		}
		p.raw(`<h1>`)
		p.text(c.Name)
		p.raw(`</h1><p class="location">`)
		p.text(c.Location)
		p.raw(`</p><p class="price">Rs`)
		p.text(c.Price)
		p.raw(` / night</p><p class="rating">&#9733; `)
		p.text(c.Rating)
		p.raw(`</p><p class="description">`)
		p.text(c.Description)
		p.raw(`</p>`)
		if nav.LoggedIn {
			p.render(FavouriteButton(c.ID, c.Favourite))
		}
		p.raw(`<a href="/homes">Back to homes</a></article>`)
		return p.err
	})
	return Layout(c.Name, nav, body)
}

// FavouritesPage lists the signed-in user's favourite listings.
func FavouritesPage(nav Nav, cards []Card) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<h1>Your favourites</h1>`)
		p.render(cardGrid(cards, "You have not saved any homes yet."))
		return p.err
	})
	return Layout("Favourites", nav, body)
}

// BookingsPage is the bookings placeholder.
func BookingsPage(nav Nav) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<h1>Your bookings</h1><p class="empty">You have no bookings yet.</p>`)
		return p.err
	})
	return Layout("Bookings", nav, body)
}
