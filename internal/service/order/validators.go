package order

import (
	"net/mail"
	"regexp"
	"strings"

	"storefront/internal/entities"
)

const maxNameLength = 200

var (
	evmHashRe = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
	hexHashRe = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

func isValidName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= maxNameLength
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// rejects display-name forms like "Bob <bob@x.io>"
	return addr.Address == email
}

// NormalizeTransactionHash lower-cases the hash and fixes the 0x prefix for the network.
// The second result is false when the hash is malformed.
func NormalizeTransactionHash(network entities.Network, hash string) (string, bool) {
	hash = strings.ToLower(strings.TrimSpace(hash))

	switch network {
	case entities.NetworkEthereum, entities.NetworkBSC:
		if !strings.HasPrefix(hash, "0x") {
			hash = "0x" + hash
		}
		return hash, evmHashRe.MatchString(hash)
	default:
		hash = strings.TrimPrefix(hash, "0x")
		return hash, hexHashRe.MatchString(hash)
	}
}
