package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// parseSignatureHeader splits "ts=1704908010,v1=abcd" into its parts.
func parseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}

// signatureManifest builds the signed template. Parts whose value is absent
// are left out.
func signatureManifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		fmt.Fprintf(&b, "id:%s;", strings.ToLower(dataID))
	}
	if requestID != "" {
		fmt.Fprintf(&b, "request-id:%s;", requestID)
	}
	fmt.Fprintf(&b, "ts:%s;", ts)
	return b.String()
}

func sign(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks an x-signature header against the shared secret.
func VerifyWebhookSignature(secret, header, requestID, dataID string) error {
	ts, v1 := parseSignatureHeader(header)
	if ts == "" || v1 == "" {
		return ErrInvalidSignature
	}

	expected := sign(secret, signatureManifest(dataID, requestID, ts))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(v1))) {
		return ErrInvalidSignature
	}
	return nil
}

// SignatureHeader produces a valid x-signature value.
func SignatureHeader(secret, dataID, requestID, ts string) string {
	return "ts=" + ts + ",v1=" + sign(secret, signatureManifest(dataID, requestID, ts))
}
