package view

import (
	"coursecompare/internal/nav"
	"coursecompare/internal/session"
)

type Link struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

const LogoutPath = "/logout"

// NavLinks arma los links de la barra según el estado de sesión.
func NavLinks(snap session.Snapshot) []Link {
	links := []Link{
		{Path: nav.Home, Label: "Home"},
		{Path: nav.Compare, Label: "Compare"},
		{Path: nav.Reviews, Label: "Reviews"},
		{Path: nav.Contact, Label: "Contact"},
		{Path: nav.Help, Label: "Help"},
	}
	if snap.IsAuthenticated {
		return append(links,
			Link{Path: nav.Dashboard, Label: "Dashboard"},
			Link{Path: nav.UpdateProfile, Label: "Update Profile"},
			Link{Path: LogoutPath, Label: "Logout"},
		)
	}
	return append(links,
		Link{Path: nav.Login, Label: "Login"},
		Link{Path: nav.Register, Label: "Register"},
	)
}
