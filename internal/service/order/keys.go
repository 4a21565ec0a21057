package order

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	licenseKeyPrefix = "EA-"
	licenseKeyBytes  = 16
)

func newOrderID() string {
	return uuid.NewString()
}

func newLicenseKey() (string, error) {
	buf := make([]byte, licenseKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return licenseKeyPrefix + strings.ToUpper(base64.RawURLEncoding.EncodeToString(buf)), nil
}
