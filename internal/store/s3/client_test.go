package s3

import (
	"testing"

	appconfig "github.com/maraichr/gradient/internal/config"
)

func TestObjectBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  appconfig.S3Config
		want string
	}{
		{"aws", appconfig.S3Config{Region: "us-east-1", Bucket: "shares"}, "https://shares.s3.us-east-1.amazonaws.com"},
		{"custom endpoint", appconfig.S3Config{Region: "us-east-1", Bucket: "shares", Endpoint: "http://localstack:4566/"}, "http://localstack:4566/shares"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objectBase(tt.cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	c := &Client{prefix: "uploads"}
	if got := c.objectKey("shares/a.png"); got != "uploads/shares/a.png" {
		t.Errorf("got %q", got)
	}
	c.prefix = ""
	if got := c.objectKey("shares/a.png"); got != "shares/a.png" {
		t.Errorf("got %q", got)
	}
}
