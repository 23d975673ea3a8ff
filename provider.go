package verifier

import (
	"regexp"
	"strings"
)

// ProviderTag categorizes an address's mail host into a small closed set
// that drives SMTP tuning and side-channel fallback choices (spec.md §4.4).
type ProviderTag string

const (
	ProviderGmail          ProviderTag = "gmail"
	ProviderYahoo          ProviderTag = "yahoo"
	ProviderHotmailB2B     ProviderTag = "hotmailB2B"
	ProviderHotmailB2C     ProviderTag = "hotmailB2C"
	ProviderProofpoint     ProviderTag = "proofpoint"
	ProviderMimecast       ProviderTag = "mimecast"
	ProviderEverythingElse ProviderTag = "everythingElse"
)

// gmailDomains, yahooDomains and hotmailDomains back the exact-domain
// fallback used when no MX host is available (spec.md §4.4, final
// paragraph). Subdomains never match these.
var (
	gmailDomains = map[string]struct{}{
		"gmail.com":     {},
		"googlemail.com": {},
	}
	yahooDomains = map[string]struct{}{
		"yahoo.com":      {},
		"ymail.com":      {},
		"rocketmail.com": {},
	}
	hotmailDomains = map[string]struct{}{
		"hotmail.com": {},
		"outlook.com": {},
		"live.com":    {},
		"msn.com":     {},
	}
)

// ClassifyProvider assigns exactly one ProviderTag to an MX host, applying
// the ordered rules of spec.md §4.4. hotmailB2B is tested before hotmailB2C
// because both can match *.protection.outlook.com hosts.
func ClassifyProvider(mxHost string) ProviderTag {
	h := strings.ToLower(strings.TrimSuffix(mxHost, "."))

	switch {
	case h == "aspmx.l.google.com",
		h == "gmail-smtp-in.l.google.com",
		strings.HasSuffix(h, "l.google.com"),
		strings.HasSuffix(h, ".gmail.com"),
		strings.Contains(h, "googlemail.com"),
		strings.HasSuffix(h, ".google.com"):
		return ProviderGmail
	}

	switch {
	case yahooMXRe.MatchString(h),
		strings.HasSuffix(h, ".yahoo.com"),
		strings.HasSuffix(h, ".ymail.com"),
		strings.HasSuffix(h, ".rocketmail.com"),
		strings.Contains(h, "yahoodns.net"):
		return ProviderYahoo
	}

	// hotmailB2B must be checked first: *.protection.outlook.com is a
	// superset pattern that the B2C hosts below also match.
	if isHotmailB2B(h) {
		return ProviderHotmailB2B
	}
	if isHotmailB2C(h) {
		return ProviderHotmailB2C
	}

	switch {
	case strings.Contains(h, "pphosted.com"),
		strings.Contains(h, "ppe-hosted.com"),
		strings.Contains(h, "proofpoint"):
		return ProviderProofpoint
	}

	switch {
	case strings.Contains(h, "smtp.mimecast.com"),
		strings.Contains(h, "eu.mimecast.com"),
		strings.Contains(h, "mimecast"):
		return ProviderMimecast
	}

	return ProviderEverythingElse
}

// yahooMXRe matches the mta<N>.am0.yahoodns.net / mx-eu.mail.am0.yahoodns.net
// MX host shapes.
var yahooMXRe = regexp.MustCompile(`^(mta\d+\.am0\.yahoodns\.net|mx-eu\.mail\.am0\.yahoodns\.net)$`)

func isHotmailB2B(h string) bool {
	if h == "" {
		return false
	}
	if strings.HasSuffix(h, ".mail.protection.outlook.com") {
		return true
	}
	// <label>.protection.outlook.com, excluding the fixed B2C labels
	// handled below.
	if strings.HasSuffix(h, ".protection.outlook.com") {
		switch h {
		case "hotmail-com.olc.protection.outlook.com",
			"outlook-com.olc.protection.outlook.com",
			"eur.olc.protection.outlook.com":
			return false
		}
		return true
	}
	return false
}

func isHotmailB2C(h string) bool {
	switch h {
	case "hotmail-com.olc.protection.outlook.com",
		"outlook-com.olc.protection.outlook.com",
		"eur.olc.protection.outlook.com":
		return true
	}
	return false
}

// ClassifyProviderByDomain is the fallback used when no MX host could be
// resolved; it matches only the exact registrable domain, never
// subdomains (spec.md §4.4: "mail.gmail.com is everythingElse").
func ClassifyProviderByDomain(domain string) ProviderTag {
	d := strings.ToLower(domain)
	if _, ok := gmailDomains[d]; ok {
		return ProviderGmail
	}
	if _, ok := yahooDomains[d]; ok {
		return ProviderYahoo
	}
	if _, ok := hotmailDomains[d]; ok {
		return ProviderHotmailB2C
	}
	return ProviderEverythingElse
}
