package model

import "net/url"

// Report describes the externally hosted dashboard shown to signed-in users
// The report itself is opaque; only its embed location is known here
type Report struct {
	Title        string `json:"title"`
	EmbedURL     string `json:"embed_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	LinkedInURL  string `json:"linkedin_url"`
	ContactEmail string `json:"contact_email"`
}

// EmbedOrigin returns scheme://host of the embed URL, or "" if it does not parse
func (r Report) EmbedOrigin() string {
	u, err := url.Parse(r.EmbedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
