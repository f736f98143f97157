package model

import "strings"

// DisplayKind tags which field a DisplayName was built from.
type DisplayKind int

const (
	DisplayAnonymous DisplayKind = iota
	DisplayHasAddress
	DisplayHasName
)

// DisplayName is resolved once when profile data is loaded so rendering
// never has to guess which fields a record carries.
type DisplayName struct {
	Kind    DisplayKind
	Name    string
	Address string
}

// ResolveDisplayName prefers a non-blank name, then an address.
func ResolveDisplayName(name, address string) DisplayName {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	switch {
	case name != "":
		return DisplayName{Kind: DisplayHasName, Name: name, Address: address}
	case address != "":
		return DisplayName{Kind: DisplayHasAddress, Address: address}
	default:
		return DisplayName{Kind: DisplayAnonymous}
	}
}

// String renders the label: the name, a shortened address, or "Anonymous".
func (d DisplayName) String() string {
	switch d.Kind {
	case DisplayHasName:
		return d.Name
	case DisplayHasAddress:
		if len(d.Address) > 12 {
			return d.Address[:6] + "..." + d.Address[len(d.Address)-4:]
		}
		return d.Address
	default:
		return "Anonymous"
	}
}
