package service

import (
	"fmt"
	"math"
)

// Placeholder QRIS constants. The generated payload mimics the shape of a
// real EMV QR string but is not interoperable with any acquirer.
const (
	qrisHeader     = "00020101021226"
	qrisMerchantID = "1234567890123456"
)

// buildQRISPayload concatenates the static header, the merchant id, the
// amount in cents without a decimal point, and the payment number.
func buildQRISPayload(amount float64, paymentNumber string) string {
	cents := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s%s%d%s", qrisHeader, qrisMerchantID, cents, paymentNumber)
}
