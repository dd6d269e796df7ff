package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers owner and alias routes.
func RegisterRoutes(api huma.API, h *AliasHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-owner",
		Method:        http.MethodPost,
		Path:          "/owners",
		Summary:       "Register owner",
		Description:   "Creates a new owner identity to send in the X-Owner-ID header.",
		Tags:          []string{"Owners"},
		DefaultStatus: http.StatusCreated,
	}, h.RegisterOwner)

	huma.Register(api, huma.Operation{
		OperationID:   "shorten",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create alias",
		Description:   "Creates a short code that resolves until its TTL or visit budget runs out.",
		Tags:          []string{"Aliases"},
		DefaultStatus: http.StatusCreated,
	}, h.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "list-aliases",
		Method:      http.MethodGet,
		Path:        "/aliases",
		Summary:     "List aliases",
		Description: "Lists the caller's active codes in creation order.",
		Tags:        []string{"Aliases"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "alias-status",
		Method:      http.MethodGet,
		Path:        "/aliases/{code}",
		Summary:     "Alias status",
		Tags:        []string{"Aliases"},
	}, h.Status)

	huma.Register(api, huma.Operation{
		OperationID:   "edit-alias",
		Method:        http.MethodPut,
		Path:          "/aliases/{code}",
		Summary:       "Edit alias",
		Description:   "Resets the expiry relative to now and replaces the visit budget.",
		Tags:          []string{"Aliases"},
		DefaultStatus: http.StatusNoContent,
	}, h.Edit)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-alias",
		Method:        http.MethodDelete,
		Path:          "/aliases/{code}",
		Summary:       "Remove alias",
		Tags:          []string{"Aliases"},
		DefaultStatus: http.StatusNoContent,
	}, h.Remove)

	// 302 rather than 301: every visit has to reach the server.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and counts one visit.",
		Tags:        []string{"Aliases"},
	}, h.Redirect)
}
