package model

// PaymentMethod is how an order was settled.
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "cash"
	PaymentPromptPay PaymentMethod = "promptpay"
	PaymentCard      PaymentMethod = "card"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentPromptPay, PaymentCard}

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPromptPay, PaymentCard:
		return true
	}
	return false
}
