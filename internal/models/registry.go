package models

import "encoding/json"

// Model is the interface all resources implement.
type Model interface {
	Export() (json.RawMessage, error)
}

// Registry is a map of all resources to their names. It is used in the
// export to map the resources to their names.
var Registry = map[string]Model{
	"Account":      Account{},
	"Card":         Card{},
	"Category":     Category{},
	"Payee":        Payee{},
	"MatchRule":    MatchRule{},
	"Transaction":  Transaction{},
	"Invoice":      Invoice{},
	"Anticipation": Anticipation{},
}
