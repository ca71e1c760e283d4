package catalog

import (
	"fmt"
	"strings"
)

// Carrier names as displayed and stored in the transaction log.
const (
	CarrierMTN        = "MTN"
	CarrierAirtel     = "Airtel"
	CarrierGlo        = "Glo"
	CarrierNineMobile = "9mobile"
)

// networkCodes maps carriers to the vendor API's numeric network identifiers.
var networkCodes = map[string]string{
	CarrierMTN:        "1",
	CarrierGlo:        "2",
	CarrierNineMobile: "3",
	CarrierAirtel:     "4",
}

// carrierPrefixes maps Nigerian four-digit phone prefixes to carriers.
var carrierPrefixes = map[string]string{
	"0803": CarrierMTN, "0806": CarrierMTN, "0810": CarrierMTN, "0813": CarrierMTN,
	"0814": CarrierMTN, "0816": CarrierMTN, "0903": CarrierMTN, "0906": CarrierMTN,
	"0913": CarrierMTN, "0916": CarrierMTN, "0703": CarrierMTN, "0706": CarrierMTN,
	"0802": CarrierAirtel, "0808": CarrierAirtel, "0812": CarrierAirtel, "0701": CarrierAirtel,
	"0708": CarrierAirtel, "0901": CarrierAirtel, "0902": CarrierAirtel, "0904": CarrierAirtel,
	"0907": CarrierAirtel, "0912": CarrierAirtel,
	"0805": CarrierGlo, "0807": CarrierGlo, "0811": CarrierGlo, "0815": CarrierGlo,
	"0705": CarrierGlo, "0905": CarrierGlo, "0915": CarrierGlo,
	"0809": CarrierNineMobile, "0817": CarrierNineMobile, "0818": CarrierNineMobile,
	"0908": CarrierNineMobile, "0909": CarrierNineMobile,
}

// NetworkCode returns the vendor network identifier for a carrier.
func NetworkCode(carrier string) (string, error) {
	code, ok := networkCodes[carrier]
	if !ok {
		return "", fmt.Errorf("unknown carrier %q", carrier)
	}
	return code, nil
}

// NormalizePhone strips non-digits, rewrites a leading 234 country code to a
// local 0, and truncates to 11 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.HasPrefix(cleaned, "234") && len(cleaned) > 3 {
		cleaned = "0" + cleaned[3:]
	}
	if len(cleaned) > 11 {
		cleaned = cleaned[:11]
	}
	return cleaned
}

// DetectCarrier looks up the carrier by the phone's four-digit prefix.
// Returns empty when the prefix is unknown or the number is too short.
func DetectCarrier(phone string) string {
	if len(phone) < 4 {
		return ""
	}
	return carrierPrefixes[phone[:4]]
}
