package paymentmethods

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"storefront/internal/entities"
)

var (
	ErrDuplicateCode   = errors.New("duplicate payment method code")
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidDecimals = errors.New("invalid decimals")
)

// Table is the immutable wallet table loaded at start.
type Table struct {
	methods map[entities.PaymentMethodCode]entities.PaymentMethod
	order   []entities.PaymentMethodCode
}

type fileMethod struct {
	Code             string `yaml:"code"`
	Network          string `yaml:"network"`
	Asset            string `yaml:"asset"`
	WalletAddress    string `yaml:"wallet_address"`
	TokenContract    string `yaml:"token_contract"`
	Decimals         int32  `yaml:"decimals"`
	MinConfirmations uint64 `yaml:"min_confirmations"`
	RateID           string `yaml:"rate_id"`
}

type file struct {
	PaymentMethods []fileMethod `yaml:"payment_methods"`
}

// Load reads the table from a YAML file, or returns the built-in defaults when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return New(Defaults())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payment methods file: %w", err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode payment methods: %w", err)
	}

	methods := make([]entities.PaymentMethod, 0, len(f.PaymentMethods))
	for _, m := range f.PaymentMethods {
		methods = append(methods, entities.PaymentMethod{
			Code:             entities.PaymentMethodCode(strings.TrimSpace(m.Code)),
			Network:          entities.Network(strings.ToLower(strings.TrimSpace(m.Network))),
			Asset:            strings.ToUpper(strings.TrimSpace(m.Asset)),
			WalletAddress:    strings.TrimSpace(m.WalletAddress),
			TokenContract:    strings.TrimSpace(m.TokenContract),
			Decimals:         m.Decimals,
			MinConfirmations: m.MinConfirmations,
			RateID:           strings.TrimSpace(m.RateID),
		})
	}

	return New(methods)
}

func New(methods []entities.PaymentMethod) (*Table, error) {
	t := &Table{
		methods: make(map[entities.PaymentMethodCode]entities.PaymentMethod, len(methods)),
		order:   make([]entities.PaymentMethodCode, 0, len(methods)),
	}

	for _, m := range methods {
		if err := validate(m); err != nil {
			return nil, fmt.Errorf("payment method %q: %w", m.Code, err)
		}
		if _, ok := t.methods[m.Code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, m.Code)
		}
		if m.MinConfirmations == 0 {
			m.MinConfirmations = 1
		}
		t.methods[m.Code] = m
		t.order = append(t.order, m.Code)
	}

	return t, nil
}

func (t *Table) Get(code entities.PaymentMethodCode) (entities.PaymentMethod, bool) {
	m, ok := t.methods[code]
	return m, ok
}

// All returns the methods in load order.
func (t *Table) All() []entities.PaymentMethod {
	res := make([]entities.PaymentMethod, 0, len(t.order))
	for _, code := range t.order {
		res = append(res, t.methods[code])
	}
	return res
}

// RateIDs returns the distinct price source ids, sorted.
func (t *Table) RateIDs() []string {
	seen := make(map[string]struct{}, len(t.methods))
	for _, m := range t.methods {
		seen[m.RateID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func validate(m entities.PaymentMethod) error {
	switch {
	case m.Code == "":
		return fmt.Errorf("%w: code", ErrMissingField)
	case m.Asset == "":
		return fmt.Errorf("%w: asset", ErrMissingField)
	case m.WalletAddress == "":
		return fmt.Errorf("%w: wallet_address", ErrMissingField)
	case m.RateID == "":
		return fmt.Errorf("%w: rate_id", ErrMissingField)
	case m.Decimals <= 0 || m.Decimals > 36:
		return fmt.Errorf("%w: %d", ErrInvalidDecimals, m.Decimals)
	}

	switch m.Network {
	case entities.NetworkTron, entities.NetworkEthereum, entities.NetworkBSC:
	case entities.NetworkBitcoin, entities.NetworkLitecoin:
		if m.TokenContract != "" {
			return fmt.Errorf("token contracts are not supported on %s", m.Network)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNetwork, m.Network)
	}

	return nil
}
