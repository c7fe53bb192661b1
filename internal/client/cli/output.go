package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/rest"
)

// report prints the outcome's message and, for failures, the field errors
// the server returned. It reports whether the call succeeded.
func (a *App) report(out *rest.Outcome) bool {
	if out.Success {
		if out.Message != "" {
			fmt.Fprintln(a.out, out.Message)
		}
		return true
	}

	msg := out.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", out.Status)
	}
	fmt.Fprintln(a.out, "error:", msg)

	var fields map[string]any
	if err := out.DecodeErrors(&fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  %s: %s\n", k, describe(fields[k]))
		}
	}

	if out.SessionExpired() {
		a.email = ""
	}
	return false
}

func describe(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, describe(p))
		}
		return strings.Join(parts, "; ")
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func decodeUser(out *rest.Outcome) (models.User, bool) {
	if !out.Success {
		return models.User{}, false
	}
	var data models.UserEnvelope
	if err := out.Decode(&data); err != nil {
		return models.User{}, false
	}
	return data.User, true
}

func (a *App) printUser(u models.User) {
	fmt.Fprintf(a.out, "  ID:        %d\n", u.UserID)
	fmt.Fprintf(a.out, "  E-mail:    %s", u.Email)
	if !u.EmailVerified {
		fmt.Fprint(a.out, " (not verified)")
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "  Name:      %s\n", u.FullName)
	fmt.Fprintf(a.out, "  Phone:     %s\n", orDash(u.Phone))
	fmt.Fprintf(a.out, "  Address:   %s\n", orDash(u.Address))
	fmt.Fprintf(a.out, "  ID card:   %s\n", orDash(u.IDCard))
	fmt.Fprintf(a.out, "  Avatar:    %s\n", orDash(u.AvatarURL))
	if u.Role != "" {
		fmt.Fprintf(a.out, "  Role:      %s\n", u.Role)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (a *App) printPagination(p *rest.Pagination) {
	if p == nil {
		return
	}
	pages := max(p.Pages, 1)
	fmt.Fprintf(a.out, "page %d of %d, %d total\n", p.Page, pages, p.Total)
}
