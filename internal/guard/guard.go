// Package guard decide que vista es alcanzable para un snapshot de sesion.
// El chequeo de rol es solo orientativo para la UI; la autorizacion real
// la hace el backend.
package guard

import (
	"strings"

	"leadsfynder/internal/domain"
)

type View string

const (
	ViewLogin       View = "login"
	ViewRegister    View = "register"
	ViewDashboard   View = "dashboard"
	ViewLeads       View = "leads"
	ViewLeadSources View = "lead-sources"
	ViewCampaigns   View = "campaigns"
	ViewWhatsApp    View = "whatsapp"
	ViewPricing     View = "pricing"
	ViewAdmin       View = "admin"
)

// Path devuelve la ruta canonica de la vista.
func (v View) Path() string {
	return "/" + string(v)
}

// Decision es el resultado de resolver una ruta.
type Decision struct {
	Loading    bool   `json:"loading"`
	View       View   `json:"view,omitempty"`
	Path       string `json:"path,omitempty"`
	Requested  string `json:"requested"`
	Redirected bool   `json:"redirected"`
}

// NavItem es una entrada de la navegacion principal.
type NavItem struct {
	View   View   `json:"view"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

var authenticatedViews = map[string]View{
	"/":             ViewDashboard,
	"/dashboard":    ViewDashboard,
	"/leads":        ViewLeads,
	"/lead-sources": ViewLeadSources,
	"/campaigns":    ViewCampaigns,
	"/whatsapp":     ViewWhatsApp,
	"/pricing":      ViewPricing,
	"/admin":        ViewAdmin,
}

var navigation = []NavItem{
	{View: ViewDashboard, Label: "Dashboard"},
	{View: ViewLeads, Label: "Lead Manager"},
	{View: ViewLeadSources, Label: "Lead Sources"},
	{View: ViewCampaigns, Label: "Email Campaigns"},
	{View: ViewWhatsApp, Label: "WhatsApp"},
	{View: ViewPricing, Label: "Pricing"},
	{View: ViewAdmin, Label: "Admin Panel"},
}

// Resolve es una funcion pura del snapshot y la ruta pedida.
func Resolve(snap domain.Snapshot, requested string) Decision {
	path := cleanPath(requested)
	if snap.IsLoading {
		return Decision{Loading: true, Requested: path}
	}

	var view View
	switch {
	case !snap.IsAuthenticated || snap.User == nil:
		view = ViewLogin
		if path == ViewRegister.Path() {
			view = ViewRegister
		}
	default:
		v, ok := authenticatedViews[path]
		if !ok || (v == ViewAdmin && !snap.User.Role.Elevated()) {
			v = ViewDashboard
		}
		view = v
	}

	resolved := view.Path()
	return Decision{
		View:       view,
		Path:       resolved,
		Requested:  path,
		Redirected: resolved != path && !(path == "/" && view == ViewDashboard),
	}
}

// Navigation lista las entradas visibles; vacia sin sesion.
func Navigation(snap domain.Snapshot, current string) []NavItem {
	if snap.IsLoading || !snap.IsAuthenticated || snap.User == nil {
		return nil
	}
	active := Resolve(snap, current).View
	items := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if item.View == ViewAdmin && !snap.User.Role.Elevated() {
			continue
		}
		item.Path = item.View.Path()
		item.Active = item.View == active
		items = append(items, item)
	}
	return items
}

// Greeting replica el saludo de la barra: nombre o, si falta, email.
func Greeting(user *domain.UserProfile) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = user.Email
	}
	return "Welcome, " + name
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return strings.ToLower(p)
}
