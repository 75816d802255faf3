package market

import (
	"regexp"
	"strings"
	"time"
)

// RevealWindow is how long a revealed phone number stays on screen. Hiding the
// number is a presentation courtesy only: the full number is part of every
// offer payload.
const RevealWindow = 30 * time.Second

var fallbackPhone = regexp.MustCompile(`(09|07)\d{8}`)

// Contact holds the numbers parsed from an offer's contact snapshot.
type Contact struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}

// ParseContact reads "Phone: X, WhatsApp: Y" snapshots. When a label is
// missing the first local mobile number in the text is used instead.
func ParseContact(info string) Contact {
	var c Contact
	for _, part := range strings.Split(info, ",") {
		label, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "phone":
			c.Phone = strings.TrimSpace(value)
		case "whatsapp":
			c.WhatsApp = strings.TrimSpace(value)
		}
	}

	fallback := fallbackPhone.FindString(info)
	if c.Phone == "" {
		c.Phone = fallback
	}
	if c.WhatsApp == "" {
		c.WhatsApp = fallback
	}
	return c
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink returns the wa.me deep link for number, or "" when the number
// has no digits.
func WhatsAppLink(number string) string {
	digits := DigitsOnly(number)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

// MaskPhone keeps the first two and last two characters of a phone number.
func MaskPhone(phone string) string {
	r := []rune(phone)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-4) + string(r[len(r)-2:])
}

// PhoneReveal tracks when a buyer revealed a seller's number.
type PhoneReveal struct {
	RevealedAt time.Time
}

// Reveal starts a reveal at now.
func Reveal(now time.Time) PhoneReveal {
	return PhoneReveal{RevealedAt: now}
}

// VisibleAt reports whether the number is shown at t.
func (r PhoneReveal) VisibleAt(t time.Time) bool {
	if r.RevealedAt.IsZero() || t.Before(r.RevealedAt) {
		return false
	}
	return t.Before(r.RevealedAt.Add(RevealWindow))
}
