package handlers

import "time"

// OwnerHeader carries the caller's owner identity.
const OwnerHeader = "X-Owner-ID"

// RegisterOwnerResponse is the response for a newly registered owner.
type RegisterOwnerResponse struct {
	Body struct {
		OwnerID string `doc:"Identity to send in the X-Owner-ID header" json:"ownerId"`
	}
}

// ShortenRequest is the request body for creating an alias.
type ShortenRequest struct {
	OwnerID string `doc:"Owner identity" header:"X-Owner-ID" required:"true"`
	Body    struct {
		URL        string `doc:"The URL to shorten"                              example:"https://example.com/very/long/path" json:"url"`
		TTLSeconds int    `doc:"Lifetime in seconds, capped by the server ceiling" example:"600"                              json:"ttlSeconds" minimum:"0"`
		MaxVisits  int    `doc:"Number of times the alias may be resolved"       example:"5"                                json:"maxVisits"  minimum:"0"`
	}
}

// ShortenResponse is the response for a successfully created alias.
type ShortenResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		Code        string    `doc:"The short code"                example:"120b76f"                            json:"code"`
		ShortURL    string    `doc:"The full short URL"            example:"http://localhost:8888/120b76f"      json:"shortUrl"`
		OriginalURL string    `doc:"The normalized original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the alias stops resolving" json:"expiresAt"`
		MaxVisits   int       `doc:"Visit budget"                  json:"maxVisits"`
	}
}

// ListRequest identifies the owner whose aliases are listed.
type ListRequest struct {
	OwnerID string `doc:"Owner identity" header:"X-Owner-ID" required:"true"`
}

// ListResponse holds the owner's active codes in creation order.
type ListResponse struct {
	Body struct {
		Codes []string `doc:"Active codes" json:"codes"`
	}
}

// StatusRequest asks about a single code.
type StatusRequest struct {
	Code    string `doc:"The short code"                      path:"code"`
	OwnerID string `doc:"Owner identity, used for the owned flag" header:"X-Owner-ID"`
}

// StatusResponse reports whether a code resolves and who owns it.
type StatusResponse struct {
	Body struct {
		Code   string `json:"code"`
		Active bool   `json:"active"`
		Owned  bool   `doc:"Whether the caller owns the code" json:"owned"`
	}
}

// EditRequest changes the expiry and visit budget of an alias.
type EditRequest struct {
	Code    string `doc:"The short code" path:"code"`
	OwnerID string `doc:"Owner identity" header:"X-Owner-ID" required:"true"`
	Body    struct {
		TTLSeconds int `doc:"New lifetime in seconds from now" json:"ttlSeconds" minimum:"0"`
		MaxVisits  int `doc:"New visit budget"                 json:"maxVisits"  minimum:"0"`
	}
}

// RemoveRequest deletes an alias.
type RemoveRequest struct {
	Code    string `doc:"The short code" path:"code"`
	OwnerID string `doc:"Owner identity" header:"X-Owner-ID" required:"true"`
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"120b76f" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
