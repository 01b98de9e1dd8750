package s3

import "testing"

func TestConnectionInfoEndpoint(t *testing.T) {
	cases := []struct {
		info   ConnectionInfo
		ep     string
		secure bool
	}{
		{ConnectionInfo{Endpoint: "http://localhost:9000"}, "localhost:9000", false},
		{ConnectionInfo{Endpoint: "https://s3.example.com/"}, "s3.example.com", true},
		{ConnectionInfo{Endpoint: "minio:9000", UseSSL: true}, "minio:9000", true},
	}
	for _, c := range cases {
		ep, secure := c.info.endpoint()
		if ep != c.ep || secure != c.secure {
			t.Fatalf("endpoint(%q) = (%q, %v), want (%q, %v)", c.info.Endpoint, ep, secure, c.ep, c.secure)
		}
	}
}
