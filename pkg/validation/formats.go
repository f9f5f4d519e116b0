package validation

import (
	"errors"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FormatValidator is a function that validates a string against a format
type FormatValidator func(value string) bool

// formatValidators are asserted for OAS 3.0 documents on top of the date,
// date-time and byte formats kin-openapi checks itself. OAS 3.1 documents get
// the JSON Schema format vocabulary instead.
var formatValidators = map[string]FormatValidator{
	"email":    validateEmail,
	"uuid":     validateUUID,
	"uri":      validateURI,
	"ipv4":     validateIPv4,
	"ipv6":     validateIPv6,
	"hostname": validateHostname,
}

func init() {
	for name, fn := range formatValidators {
		openapi3.DefineStringFormatValidator(name, openapi3.NewCallbackValidator(formatCallback(name, fn)))
	}
}

func formatCallback(name string, fn FormatValidator) func(string) error {
	return func(value string) error {
		if !fn(value) {
			return errors.New("not a valid " + name)
		}
		return nil
	}
}

// ValidateFormat checks if a value matches the specified format.
// Unknown formats pass.
func ValidateFormat(format, value string) bool {
	validator, ok := formatValidators[strings.ToLower(format)]
	if !ok {
		return true
	}
	return validator(value)
}

// IsKnownFormat returns true if the format is asserted for OAS 3.0 documents
func IsKnownFormat(format string) bool {
	_, ok := formatValidators[strings.ToLower(format)]
	return ok
}

// Email validation using RFC 5322
func validateEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	// must have a domain part with a dot
	at := strings.LastIndexByte(value, '@')
	return at > 0 && strings.Contains(value[at+1:], ".")
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func validateUUID(value string) bool {
	return uuidPattern.MatchString(value)
}

// URI validation (RFC 3986): absolute, with a scheme
func validateURI(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

func validateIPv4(value string) bool {
	ip := net.ParseIP(value)
	return ip != nil && strings.Contains(value, ".") && ip.To4() != nil
}

func validateIPv6(value string) bool {
	ip := net.ParseIP(value)
	return ip != nil && strings.Contains(value, ":")
}

// Hostname validation (RFC 1123)
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func validateHostname(value string) bool {
	if len(value) > 253 {
		return false
	}
	return hostnamePattern.MatchString(value)
}
