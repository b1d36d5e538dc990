package enrich

import (
	"fmt"
	"strings"
)

const headshotURLFormat = "https://ak-static.cms.nba.com/wp-content/uploads/headshots/nba/latest/260x190/%d.png"

// Team is the subset of the upstream team object we display.
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	FullName     string `json:"full_name"`
}

// Profile is one player as returned by the profile API.
type Profile struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      Team   `json:"team"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HeadshotURL returns the headshot image URL for the profile.
func (p Profile) HeadshotURL() string {
	return HeadshotURL(p.ID)
}

// HeadshotURL builds the CDN headshot URL for a player id.
func HeadshotURL(id int) string {
	return fmt.Sprintf(headshotURLFormat, id)
}

type searchResponse struct {
	Data []Profile `json:"data"`
}
