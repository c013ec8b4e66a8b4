package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"tripgo/internal/pkg/utils"
)

// NewTransactionID generates a gateway-namespaced transaction id:
// {GATEWAY}_{unixMillis}_{randomSuffix}. This id doubles as the
// provider-facing order reference so inbound callbacks can be correlated.
func NewTransactionID(gw Gateway) string {
	return fmt.Sprintf("%s_%d_%s", strings.ToUpper(string(gw)), time.Now().UnixMilli(), utils.RandomHex(4))
}

// canonicalQuery builds the sorted key=value&... string used for signing
// and URL construction. Keys are sorted lexicographically and empty
// values are dropped. VNPay and OnePay encode values in the final URL but
// sign the unencoded string; that distinction is security-relevant, so
// encoding is opt-in.
func canonicalQuery(fields map[string]string, encode bool) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		if encode {
			b.WriteString(url.QueryEscape(fields[k]))
		} else {
			b.WriteString(fields[k])
		}
	}
	return b.String()
}

func hmacSHA512Hex(key, data string) string {
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func hmacSHA256Hex(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func sha256UpperHex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// secureCompare does a constant-time comparison of two hex signatures.
func secureCompare(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

var sensitiveField = regexp.MustCompile(`(?i)(password|secret|key|hash|signature|token)`)

// Redact masks the values of sensitive fields before they reach a log line.
func Redact(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if sensitiveField.MatchString(k) {
			out[k] = "***"
		} else {
			out[k] = v
		}
	}
	return out
}

// parseQueryFlat parses a raw query string into a flat map, keeping the
// first value of each key. Callback payloads arrive here byte-faithful.
func parseQueryFlat(raw string) (map[string]string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed callback query: %w", err)
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}
