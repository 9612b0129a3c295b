package billing

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
)

// ReferenceCode generates the payment reference the worker types into Yape,
// "ETT-S24-3FA1" for week 24 or "ETT-M2-3FA1" for February. The suffix is
// random so retried payments stay distinguishable.
func ReferenceCode(p Period) string {
	var b strings.Builder
	b.WriteString("ETT-")
	if p.Kind == Monthly {
		b.WriteString("M")
	} else {
		b.WriteString("S")
	}
	b.WriteString(strconv.Itoa(p.Numero))
	b.WriteString("-")
	b.WriteString(randomSuffix())
	return b.String()
}

func randomSuffix() string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "0000"
	}
	return strings.ToUpper(hex.EncodeToString(buf[:]))
}
