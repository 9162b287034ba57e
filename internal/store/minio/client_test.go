package minio

import (
	"testing"

	"github.com/maraichr/gradient/internal/config"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{
			name: "endpoint",
			cfg:  config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "gradient"},
			want: "http://localhost:9000/gradient/shares/a.png",
		},
		{
			name: "tls endpoint",
			cfg:  config.MinIOConfig{Endpoint: "minio.example.com", Bucket: "gradient", UseSSL: true},
			want: "https://minio.example.com/gradient/shares/a.png",
		},
		{
			name: "public url",
			cfg:  config.MinIOConfig{Endpoint: "minio:9000", Bucket: "gradient", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/gradient/shares/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got := c.ObjectURL("shares/a.png"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
