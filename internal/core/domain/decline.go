package domain

// Provider decline codes the state machine cares about.
const (
	// DeclineAuthorizationExpired signals a stale authorization the provider
	// dropped before capture. It is the only decline that triggers the
	// recapture recovery path.
	DeclineAuthorizationExpired = "authorization_expired"
)

// declineMessages maps provider decline codes to user-facing messages.
// Localization of these keys is a presentation concern; the table keeps one
// stable message per known code.
var declineMessages = map[string]string{
	"card_declined":        "The card was declined.",
	"insufficient_funds":   "The card has insufficient funds to complete the purchase.",
	"expired_card":         "The card has expired.",
	"incorrect_cvc":        "The card's security code is incorrect.",
	"incorrect_number":     "The card number is incorrect.",
	"processing_error":     "An error occurred while processing the card. Please try again.",
	"fraudulent":           "The payment was declined.",
	"lost_card":            "The payment was declined.",
	"stolen_card":          "The payment was declined.",
	"do_not_honor":         "The card was declined. Please contact the card issuer.",
	"generic_decline":      "The card was declined.",
	"call_issuer":          "The card was declined. Please contact the card issuer.",
	"currency_not_allowed": "The card does not support this currency.",
}

// genericDeclineMessage is the fallback for unrecognized decline codes.
const genericDeclineMessage = "The payment could not be completed. Please try another payment method."

// DeclineMessage returns the user-facing message for a provider decline code,
// falling back to a generic message for unknown codes. The second return
// reports whether a translation existed.
func DeclineMessage(code string) (string, bool) {
	if msg, ok := declineMessages[code]; ok {
		return msg, true
	}
	return genericDeclineMessage, false
}
