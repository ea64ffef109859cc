package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix leaves room for a
// future change of the hashed form.
const (
	DomainConfiguration = "isodesign/configuration/v1"
	DomainDesign        = "isodesign/design/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigurationHash is the content id of a configuration's rows.
func ConfigurationHash(c Configuration) (string, error) {
	canonical, err := MarshalCanonical(c.Object())
	if err != nil {
		return "", fmt.Errorf("ConfigurationHash: %w", err)
	}
	return hashWithDomain(DomainConfiguration, canonical), nil
}

// DesignHash is the content id of a compiled design given in canonical form.
func DesignHash(design Object) (string, error) {
	canonical, err := MarshalCanonical(design)
	if err != nil {
		return "", fmt.Errorf("DesignHash: %w", err)
	}
	return hashWithDomain(DomainDesign, canonical), nil
}

// MustConfigurationHash is like ConfigurationHash but panics on error.
// Configurations built from Rows always marshal, so it only fails on a
// programming error.
func MustConfigurationHash(c Configuration) string {
	h, err := ConfigurationHash(c)
	if err != nil {
		panic(err)
	}
	return h
}
