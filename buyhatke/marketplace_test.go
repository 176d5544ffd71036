package buyhatke

import "testing"

func TestDetectMarketplace(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.in/dp/B0ABCDEFGH", "amazon"},
		{"https://amazon.com/gp/product/B0ABCDEFGH", "amazon"},
		{"https://www.flipkart.com/product/p/x?pid=MOBG6VF5Q82T3XYZ", "flipkart"},
		{"https://dl.flipkart.com/s/x", "flipkart"},
		{"https://www.ebay.com/itm/123", ""},
		{"https://notamazon.in/dp/B0ABCDEFGH", ""},
		{"://bad-url", ""},
	}
	for _, tc := range cases {
		if got := DetectMarketplace(tc.url); got != tc.want {
			t.Errorf("DetectMarketplace(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractProductIDAmazon(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.in/Some-Product/dp/B0ABCDEFGH/ref=sr_1_1", "B0ABCDEFGH"},
		{"https://www.amazon.in/gp/product/1234567890", "1234567890"},
		{"https://www.amazon.in/dp/SHORT", ""},
		{"https://www.amazon.in/s?k=phone", ""},
	}
	for _, tc := range cases {
		if got := ExtractProductID(tc.url, "amazon"); got != tc.want {
			t.Errorf("ExtractProductID(%q, amazon) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractProductIDFlipkart(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.flipkart.com/phone/p/itm123?pid=MOBG6VF5Q82T3XYZ", "MOBG6VF5Q82T3XYZ"},
		// malformed query string, raw scan fallback
		{"https://www.flipkart.com/phone/p/itm123?&&pid=MOBG6VF5&bogus=%zz", "MOBG6VF5"},
		{"https://www.flipkart.com/phone/p/itm123", ""},
	}
	for _, tc := range cases {
		if got := ExtractProductID(tc.url, "flipkart"); got != tc.want {
			t.Errorf("ExtractProductID(%q, flipkart) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractProductIDUnknownMarketplace(t *testing.T) {
	if got := ExtractProductID("https://www.amazon.in/dp/B0ABCDEFGH", "ebay"); got != "" {
		t.Errorf("expected no identifier for unknown marketplace, got %q", got)
	}
}
