package domain

// Holder is one account's position in a single outcome of a market. The
// wallet address is exposed under two names because older dashboard builds
// read "address" while newer ones read "proxyWallet".
type Holder struct {
	ProxyWallet  string  `json:"proxyWallet"`
	Address      string  `json:"address"`
	Name         string  `json:"name"`
	Pseudonym    string  `json:"pseudonym"`
	Amount       float64 `json:"amount"`
	OutcomeIndex int     `json:"outcomeIndex"`
	ProfileImage string  `json:"profileImage,omitempty"`
	Bio          string  `json:"bio,omitempty"`
}

// AnonymousName is the display-name fallback when upstream provides neither
// a pseudonym nor a name for a holder.
const AnonymousName = "Anonymous"
