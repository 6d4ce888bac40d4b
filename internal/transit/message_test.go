package transit

import "testing"

func TestParseOfferRecognizesFile(t *testing.T) {
	body := buildFileOffer("report.pdf", 4096)
	name, size, kind, err := parseOffer(body)
	if err != nil {
		t.Fatal(err)
	}
	if kind != offerFile || name != "report.pdf" || size != 4096 {
		t.Fatalf("got (%q, %d, %v)", name, size, kind)
	}
}

func TestParseOfferRecognizesDirectory(t *testing.T) {
	body := []byte(`{"offer":{"directory":{"dirname":"photos","mode":"zipfile/deflated","numbytes":123,"numfiles":3}}}`)
	name, size, kind, err := parseOffer(body)
	if err != nil {
		t.Fatal(err)
	}
	if kind != offerDirectory || name != "photos" || size != 123 {
		t.Fatalf("got (%q, %d, %v)", name, size, kind)
	}
}

func TestParseOfferUnknownShape(t *testing.T) {
	body := []byte(`{"offer":{"message":"hi"}}`)
	_, _, kind, err := parseOffer(body)
	if err != nil {
		t.Fatal(err)
	}
	if kind != offerUnknown {
		t.Fatalf("expected offerUnknown, got %v", kind)
	}
}
