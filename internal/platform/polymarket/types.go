package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The Gamma and Data APIs are loose about scalar encodings: booleans arrive
// as bools or "true"/"false" strings, numbers as numbers or numeric strings,
// ids as numbers or strings, and string arrays sometimes as a JSON-encoded
// string ("[\"Yes\",\"No\"]"). The flex* types absorb all of those so the
// DTOs stay decodable against every shape we have observed.

// flexBool unmarshals from JSON bool or string ("true"/"false"/"1").
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number, a numeric string, or null.
// Anything unparseable decodes as 0 rather than failing the record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

// flexString unmarshals from a JSON string or number (tag ids show up both ways).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexStrings unmarshals from a JSON string array or a JSON-encoded string
// array, which is how Gamma serializes market outcomes.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		*f = nil
		return nil
	}
	*f = arr
	return nil
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// Tag is one node of the Gamma category taxonomy.
type Tag struct {
	ID    flexString `json:"id"`
	Label string     `json:"label"`
	Slug  string     `json:"slug"`
	Name  string     `json:"name"`
}

// RawToken is a token entry inside a Gamma market record.
type RawToken struct {
	TokenID flexString `json:"token_id"`
	Outcome string     `json:"outcome"`
	Label   string     `json:"label"`
}

// RawMarket is a market/event record exactly as Gamma returns it. Every field
// the normalizer's alias chains need is declared here; records routinely omit
// most of them.
type RawMarket struct {
	ID             flexString  `json:"id"`
	ConditionID    string      `json:"conditionId"`
	ConditionIDAlt string      `json:"condition_id"`
	TokenID        flexString  `json:"token_id"`
	Tokens         []RawToken  `json:"tokens"`
	Question       string      `json:"question"`
	Title          string      `json:"title"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Desc           string      `json:"desc"`
	Slug           string      `json:"slug"`
	Outcomes       flexStrings `json:"outcomes"`
	Closed         flexBool    `json:"closed"`
	IsResolved     flexBool    `json:"isResolved"`
	EndDate        string      `json:"endDate"`
	EndDateAlt     string      `json:"end_date"`
	Liquidity      flexFloat   `json:"liquidity"`
	TotalLiquidity flexFloat   `json:"totalLiquidity"`
	Volume         flexFloat   `json:"volume"`
	TotalVolume    flexFloat   `json:"totalVolume"`
}

// marketsEnvelope is the wrapped market-listing shape ({"data":[...]}).
type marketsEnvelope struct {
	Data []RawMarket `json:"data"`
}

// --------------------------------------------------------------------------
// Data API DTOs
// --------------------------------------------------------------------------

// RawHolder is a holder record as the Data API returns it. OutcomeIndex is a
// pointer so a record that omits the field is distinguishable from one
// positioned in outcome 0.
type RawHolder struct {
	ProxyWallet           string    `json:"proxyWallet"`
	Name                  string    `json:"name"`
	Pseudonym             string    `json:"pseudonym"`
	Amount                flexFloat `json:"amount"`
	OutcomeIndex          *int      `json:"outcomeIndex"`
	ProfileImage          string    `json:"profileImage"`
	ProfileImageOptimized string    `json:"profileImageOptimized"`
	Bio                   string    `json:"bio"`
}

// TokenHolders is one entry of the wrapper-shaped holder payload: the holder
// list for a single outcome token.
type TokenHolders struct {
	Token   flexString  `json:"token"`
	Holders []RawHolder `json:"holders"`
}

// holdersEnvelope is the object-shaped holder payload ({"holders":[...]}).
type holdersEnvelope struct {
	Holders []RawHolder `json:"holders"`
}
