package verifier

import "testing"

func TestClassifyProvider(t *testing.T) {
	cases := []struct {
		host string
		want ProviderTag
	}{
		{"aspmx.l.google.com", ProviderGmail},
		{"gmail-smtp-in.l.google.com", ProviderGmail},
		{"alt1.gmail-smtp-in.l.google.com", ProviderGmail},
		{"mta5.am0.yahoodns.net", ProviderYahoo},
		{"mx-eu.mail.am0.yahoodns.net", ProviderYahoo},
		{"mta7.yahoodns.net", ProviderYahoo},
		{"contoso-com.mail.protection.outlook.com", ProviderHotmailB2B},
		{"foo.protection.outlook.com", ProviderHotmailB2B},
		{"hotmail-com.olc.protection.outlook.com", ProviderHotmailB2C},
		{"outlook-com.olc.protection.outlook.com", ProviderHotmailB2C},
		{"eur.olc.protection.outlook.com", ProviderHotmailB2C},
		{"mx1-us1.ppe-hosted.com", ProviderProofpoint},
		{"mail.pphosted.com", ProviderProofpoint},
		{"us-smtp-inbound-1.mimecast.com", ProviderMimecast},
		{"eu.mimecast.com", ProviderMimecast},
		{"mx.somecorp.example", ProviderEverythingElse},
	}
	for _, c := range cases {
		if got := ClassifyProvider(c.host); got != c.want {
			t.Errorf("ClassifyProvider(%q) = %q, want %q", c.host, got, c.want)
		}
	}
}

func TestClassifyProviderByDomain(t *testing.T) {
	cases := []struct {
		domain string
		want   ProviderTag
	}{
		{"gmail.com", ProviderGmail},
		{"googlemail.com", ProviderGmail},
		{"mail.gmail.com", ProviderEverythingElse},
		{"yahoo.com", ProviderYahoo},
		{"hotmail.com", ProviderHotmailB2C},
		{"outlook.com", ProviderHotmailB2C},
		{"example.com", ProviderEverythingElse},
	}
	for _, c := range cases {
		if got := ClassifyProviderByDomain(c.domain); got != c.want {
			t.Errorf("ClassifyProviderByDomain(%q) = %q, want %q", c.domain, got, c.want)
		}
	}
}
