package market

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseContact(t *testing.T) {
	tests := []struct {
		name string
		info string
		want Contact
	}{
		{name: "labelled snapshot", info: "Phone: 0911223344, WhatsApp: +251 911 223 344", want: Contact{Phone: "0911223344", WhatsApp: "+251 911 223 344"}},
		{name: "labels are case insensitive", info: "phone:0700000001,whatsapp:0700000002", want: Contact{Phone: "0700000001", WhatsApp: "0700000002"}},
		{name: "fallback to first mobile number", info: "call 0912345678 anytime", want: Contact{Phone: "0912345678", WhatsApp: "0912345678"}},
		{name: "nothing usable", info: "ask at the shop", want: Contact{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContact(tt.info))
		})
	}
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/251911223344", WhatsAppLink("+251 911-223-344"))
	assert.Equal(t, "", WhatsAppLink("n/a"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "09******44", MaskPhone("0911223344"))
	assert.Equal(t, "***", MaskPhone("123"))

	ethiopic := MaskPhone("፩፪፫፬፭፮")
	assert.Equal(t, "፩፪**፭፮", ethiopic)
	assert.True(t, utf8.ValidString(ethiopic))
	assert.Equal(t, "****", MaskPhone("፩፪፫፬"))
}

func TestPhoneReveal(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := Reveal(start)

	assert.False(t, PhoneReveal{}.VisibleAt(start))
	assert.False(t, r.VisibleAt(start.Add(-time.Second)))
	assert.True(t, r.VisibleAt(start))
	assert.True(t, r.VisibleAt(start.Add(29*time.Second)))
	assert.False(t, r.VisibleAt(start.Add(RevealWindow)))
}
