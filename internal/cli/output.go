package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter writing to the command's streams
func NewOutput(cmd *cobra.Command, format string) *Output {
	return &Output{
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case Session:
		o.printSession(v)
	case Dashboard:
		o.printDashboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	Username string `json:"username"`
}

// Session response type
type Session struct {
	SessionToken string    `json:"session_token,omitempty"`
	State        string    `json:"state"`
	Username     string    `json:"username,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Dashboard response type
type Dashboard struct {
	Title        string `json:"title"`
	EmbedURL     string `json:"embed_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	_, _ = fmt.Fprintf(o.out, "Account created: %s\n", u.Username)
}

func (o *Output) printSession(s Session) {
	if s.Username != "" {
		_, _ = fmt.Fprintf(o.out, "Signed in as: %s\n", s.Username)
	}
	_, _ = fmt.Fprintf(o.out, "State: %s\n", s.State)
	if !s.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(o.out, "Expires: %s\n", s.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func (o *Output) printDashboard(d Dashboard) {
	_, _ = fmt.Fprintf(o.out, "%s\n", d.Title)
	_, _ = fmt.Fprintf(o.out, "Report: %s\n", d.EmbedURL)
	_, _ = fmt.Fprintf(o.out, "Size: %dx%d\n", d.Width, d.Height)
	if d.LinkedInURL != "" {
		_, _ = fmt.Fprintf(o.out, "LinkedIn: %s\n", d.LinkedInURL)
	}
	if d.ContactEmail != "" {
		_, _ = fmt.Fprintf(o.out, "Email: %s\n", d.ContactEmail)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.out, "Status: %s\n", h.Status)
}
